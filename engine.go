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

package permlab

import (
	"crypto/rand"
	"io"
	"math"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/permlab/errs"
	"github.com/zintix-labs/permlab/recorder"
	"github.com/zintix-labs/permlab/sdk/core"
	"github.com/zintix-labs/permlab/stats"
)

// Tester 是置換檢定引擎：一次性持有樣本與觀測統計量，
// 可重複以不同 trials/workers 執行檢定。
type Tester struct {
	Name      string            // 檢定名稱（報表抬頭）
	set       *SampleSet        // 不可變樣本，所有 worker 共享讀取
	cf        core.PRNGFactory  // 亂數生成器工廠
	initSeed  int64             // 初始下的種子
	seedmaker *seedMaker        // worker 種子派生器
	observed  float64           // 觀測統計量，序列階段算一次之後唯讀
	muC, muT  float64           // 兩組均值，報表直接取用
}

// NewTester 建立檢定器，seed 由 crypto/rand 產生。
func NewTester(name string, control, treatment []float64, cf core.PRNGFactory) (*Tester, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return nil, err
	}
	return NewTesterWithSeed(name, control, treatment, cf, seed.Int64())
}

// NewTesterWithSeed 與 NewTester 相同，但由呼叫端指定初始 seed。
//
// 使用情境：可重現的測試——同一份樣本 + 同一個 seed + 同一個 worker 數，
// 應產生一致的極端計數（取決於 PRNG 實作合約）。
func NewTesterWithSeed(name string, control, treatment []float64, cf core.PRNGFactory, seed int64) (*Tester, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	set, err := NewSampleSet(control, treatment)
	if err != nil {
		return nil, err
	}
	muC, muT := stats.GroupMeans(set.pooled, set.nc)
	return &Tester{
		Name:      name,
		set:       set,
		cf:        cf,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		observed:  muT - muC,
		muC:       muC,
		muT:       muT,
	}, nil
}

// Observed 回傳觀測統計量 mean(treatment) - mean(control)。
func (t *Tester) Observed() float64 { return t.observed }

// Means 回傳 (muControl, muTreatment)。
func (t *Tester) Means() (float64, float64) { return t.muC, t.muT }

// Run 執行 trials 次獨立的重抽樣試驗，分攤到 workers 個併發 worker。
//
// 每個 worker 獨占：一個由 seedMaker 派生 seed 的 Core、一份可重用的
// 索引切片、一個 TrialRecorder。熱迴圈內沒有鎖也沒有 atomics；
// 唯一的同步點是 WaitGroup 之後的一次性歸約（成本正比於 worker 數，
// 與試驗數無關）。
//
// 單一試驗 = 重排 pooled 索引（Fisher-Yates 均勻重排）→ 以固定分組
// (nc, nt) 計算均值差 → 與 |觀測統計量| 比較（兩側檢定，平手計為極端，
// 避免回報 p = 0 的非保守結果）。
func (t *Tester) Run(trials int, workers int, showpb bool) (*stats.TestReport, time.Duration, error) {
	if trials < 1 {
		return nil, 0, errs.NewWarn("trials must > 0")
	}
	if workers < 1 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if workers > trials {
		workers = trials
	}

	rBuf := make([]*recorder.TrialRecorder, workers)
	for i := range rBuf {
		r, err := recorder.NewTrialRecorder(t.Name, t.observed)
		if err != nil {
			return nil, 0, err
		}
		rBuf[i] = r
	}

	// trials 均分，餘數由前面的 worker 消化
	base := trials / workers
	rem := trials % workers

	wg := new(sync.WaitGroup)
	wg.Add(workers)
	bar := pb.StartNew(trials)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < workers; i++ {
		n := base
		if i < rem {
			n++
		}
		// seed 在啟動前依序派生：seed 與試驗份額的對應固定，
		// 同一組 (seed, workers, trials) 必然重現相同的極端計數。
		go t.runWorker(wg, rBuf[i], n, t.seedmaker.next(), bar)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	merged, err := recorder.MergeTrialRecorders(rBuf)
	if err != nil {
		return nil, 0, err
	}
	report := merged.Done()
	report.Summary.MuControl = t.muC
	report.Summary.NControl = t.set.nc
	report.Summary.MuTreatment = t.muT
	report.Summary.NTreatment = t.set.nt
	report.Summary.Observed = t.observed
	report.Summary.Workers = workers
	report.Summary.Seed = t.initSeed
	report.Done()

	return report, used, nil
}

func (t *Tester) runWorker(wg *sync.WaitGroup, rec *recorder.TrialRecorder, n int, seed int64, bar *pb.ProgressBar) {
	defer wg.Done()
	c := core.New(t.cf.New(seed))
	idx := core.PermIndices(t.set.Len())
	pooled := t.set.pooled
	nc := t.set.nc
	for i := 0; i < n; i++ {
		c.ShuffleInts(idx)
		rec.Record(stats.MeanDiffIndexed(pooled, idx, nc))
		bar.Increment()
	}
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// state 走全週期（不重複），再用可逆 mix63 打散
//
// worker seed 不能直接拿 worker index 或 baseSeed+i：相鄰 seed 在某些
// PRNG 上會產生統計可觀察的相關排列流。全週期 LCG + 可逆混洗保證
// 派生出的子 seed 互不重複且無簡單線性關係。
//
// 注意：此方法可能在併發環境下被多 goroutines 同時呼叫，
// 因此 state 的推進必須是原子的：
//   - 使用 CAS（Compare-And-Swap）迴圈確保每次呼叫都會取得唯一的下一個 state。
//   - 回傳值使用推進後的 state 經 mix63 打散後的結果。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()                                            // always masked
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63 // 乘奇數 ⇒ mod 2^63 可逆
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
