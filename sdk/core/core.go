// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package core 提供 permlab 的亂數地基：PRNG 合約、預設工廠與重排（shuffle）工具。
//
// 設計重點：
//   - 每個併發 worker 各持有一個自己的 Core 實例，彼此之間不共享可變狀態。
//   - worker 的 seed 由上層以固定算法派生（非以 worker index 直接當 seed），
//     避免相鄰 seed 產生可觀察相關性的排列流。
//   - PRNG 本身不做任何同步：同步成本應該留在引擎的歸約點，而不是熱迴圈。
package core

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// 為什麼要求同時提供 4 個方法（Uint64 / Float64 / UintN / IntN），而不是只要求 Uint64？
//   - 有些 PRNG 的「原生輸出寬度」是 32-bit，在 32-bit 平台上直接產生 uint32/uint
//     可能更快；若合約只要求 Uint64，這類實作會被迫走較慢的轉換路徑。
//   - bounded 生成（IntN/UintN）各家 PRNG 有各自最快且無偏的作法，
//     交由 PRNG 自己實作才能用最合適的 fast path。
//   - Float64 的精度（32-bit vs 53-bit mantissa）與生成方式也應由 PRNG 決定。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以指定 seed 建立新的 PRNG。
//
// 合約（很重要）：在同一個實作與同一個版本下，New(seed) 必須是「決定性」的——
// 相同的 seed 必須產生相同的初始內部狀態與輸出序列。
//
// permlab 的 seed 生命週期由引擎統一管理：外部未提供時由引擎以 crypto/rand
// 產生並保存 baseSeed，後續所有 worker 皆由 baseSeed 以固定算法派生子 seed。
// 因此本合約不需要「不帶 seed 的 New()」。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory（PCG64）。
type DefaultPRNG struct{}

// New 滿足合約
func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// PCG32Factory 為 32-bit 輸出版本的工廠，輸出序列與 PCG64 不同，
// 但滿足相同合約；主要用於 32-bit 平台或交叉驗證。
type PCG32Factory struct{}

// New 滿足合約
func (d *PCG32Factory) New(seed int64) PRNG {
	return newPCG32WithSeed(seed)
}

// Core 封裝 PRNG，並提供常用取樣與重排工具。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// PermIndices 回傳 [0,n) 的索引切片，內容為識別排列（0,1,2,...,n-1）。
// 供 worker 一次性配置，之後每回合以 ShuffleInts 就地重排。
func PermIndices(n int) []int {
	if n < 0 {
		n = 0
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// ShuffleInts 使用 Fisher-Yates (亦稱 Knuth Shuffle) 演算法
// 對[]int進行「就地 (In-place)」隨機重排。
//
// 演算法特性：
//
//  1. 公平性 (Unbiased)：
//     此算法保證所有可能的 N! 種排列組合出現的機率是嚴格相等的 (1/N!)，
//     且與切片的初始順序無關——因此 worker 可重用同一個索引切片，
//     每回合直接在上一回合的結果上重排。
//
//  2. 效能 (High Performance)：
//     - 時間複雜度：O(N)，只需要對陣列進行一次線性掃描。
//     - 空間複雜度：O(1)，直接在原記憶體位置交換，實現零配置 (Zero Allocation)。
func (c *Core) ShuffleInts(src []int) {
	if len(src) <= 1 {
		return
	}

	for i := len(src) - 1; i > 0; i-- {
		j := c.IntN(i + 1)
		src[i], src[j] = src[j], src[i]
	}
}
