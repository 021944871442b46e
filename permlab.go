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

// Package permlab 提供置換檢定（permutation test）引擎的「組裝入口（assembler）」
// 與「運行入口（runtime entry）」。
//
// 它回答一個問題：control 與 treatment 兩組數字樣本，是否可能來自同一個分布？
// 作法是重抽樣：把兩組混成一個 pooled 序列，隨機重貼 TRIALS 次標籤，
// 每次以固定的原始分組大小計算均值差，統計有多少次「至少跟觀測值一樣極端」
// （兩側，|stat| >= |observed|，平手也算），最後把比例轉成 p-value。
//
// 設計重點：
//   - 樣本一旦建構完成即不可變；平行階段所有 worker 無鎖共享讀取。
//   - 每個 worker 獨占自己的 PRNG 與累加器；唯一同步點是最後一次歸約。
//   - seed 生命週期由引擎統一管理：外部未提供時以 crypto/rand 產生
//     baseSeed，worker seed 一律由 baseSeed 以固定算法派生。
//
// 典型使用情境：
//   - CLI（cmd/run）：讀兩個 .dat 檔案，跑一次檢定，輸出報表。
//   - 後端服務（cmd/svr）：POST 樣本進來，回傳 JSON 報表。
//   - 程式庫：permlab.Run(control, treatment, trials) 一行取得結果。
package permlab

import (
	"runtime"

	"github.com/zintix-labs/permlab/sdk/core"
	"github.com/zintix-labs/permlab/stats"
)

// DefaultTrials 為建議的試驗次數；在此量級下 add-one 平滑與未平滑
// 的 p-value 差異已小於蒙地卡羅誤差本身。
const DefaultTrials = 1_000_000

// Run 是最短路徑：以預設 PRNG（PCG64）、自動 seed 與等於硬體平行度的
// worker 數，對兩組樣本執行 trials 次置換檢定。
//
// 回傳的報表已完成 Done()：觀測統計量、兩組均值、p-value（含 SE 與
// 95% CI）與虛無分布摘要可直接取用。
func Run(control, treatment []float64, trials int) (*stats.TestReport, error) {
	t, err := NewTester("permutation-test", control, treatment, core.Default())
	if err != nil {
		return nil, err
	}
	report, _, err := t.Run(trials, runtime.NumCPU(), false)
	return report, err
}
