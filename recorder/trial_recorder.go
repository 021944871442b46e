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

package recorder

import (
	"math"

	"github.com/zintix-labs/permlab/errs"
	"github.com/zintix-labs/permlab/stats"
)

// TrialRecorder 試驗紀錄員
//
// 每個 worker 各持一個 TrialRecorder，熱迴圈中只做整數/浮點累加，
// 不碰任何共享狀態；平行階段結束後以 MergeTrialRecorders 歸約，
// 並透過 Done 輸出統計報表。
type TrialRecorder struct {
	Name      string
	Threshold float64 // |觀測統計量|，極端判定門檻
	Trials    int
	Extreme   int     // abs(stat) >= Threshold 的試驗數（兩側檢定，含平手）
	StatSum   float64 // 虛無分布累加
	StatSqSum float64 // 平方和
	Collect   []int   // 比值桶計數
}

// NewTrialRecorder 以檢定名稱與觀測統計量建立紀錄員。
//
// observed 允許為 0（兩組均值完全相等的退化情境）；此時每個試驗都會
// 被計為極端，最終 p-value 收斂到 1。
func NewTrialRecorder(name string, observed float64) (*TrialRecorder, error) {
	if math.IsNaN(observed) || math.IsInf(observed, 0) {
		return nil, errs.NewFatal("observed statistic must be finite")
	}
	return &TrialRecorder{
		Name:      name,
		Threshold: math.Abs(observed),
		Collect:   make([]int, stats.Buckets.Len()),
	}, nil
}

// Record 以單次試驗統計量更新計數。
func (r *TrialRecorder) Record(stat float64) {
	r.Trials++
	r.StatSum += stat
	r.StatSqSum += stat * stat
	if math.Abs(stat) >= r.Threshold {
		r.Extreme++
	}
	r.Collect[stats.Buckets.Index(stat, r.Threshold)]++
}

// MergeTrialRecorders 將多個 worker 的紀錄歸約成一份。
//
// 歸約只是非負整數與浮點和的加總，與 worker 順序無關。
// 門檻不一致代表 worker 不是針對同一個觀測統計量在跑，直接視為錯誤。
func MergeTrialRecorders(rs []*TrialRecorder) (*TrialRecorder, error) {
	if len(rs) == 0 {
		return nil, errs.NewFatal("merge trial recorder err : empty input")
	}
	r0 := rs[0]
	s, err := NewTrialRecorder(r0.Name, r0.Threshold)
	if err != nil {
		return nil, err
	}
	for _, v := range rs {
		if v.Name != r0.Name {
			return nil, errs.NewFatal("merge trial recorder err : different test name")
		}
		if v.Threshold != r0.Threshold {
			return nil, errs.NewFatal("merge trial recorder err : different threshold")
		}
		s.Trials += v.Trials
		s.Extreme += v.Extreme
		s.StatSum += v.StatSum
		s.StatSqSum += v.StatSqSum
		for i := range v.Collect {
			s.Collect[i] += v.Collect[i]
		}
	}
	return s, nil
}

// Done 將紀錄轉成 TestReport 骨架。
//
// 回傳的報表只含 recorder 可知的欄位（試驗數、極端數、虛無分布原始和）；
// 樣本側欄位（均值、樣本數、seed、workers）由引擎補齊後再呼叫
// (*stats.TestReport).Done() 作最終整理。
func (r *TrialRecorder) Done() *stats.TestReport {
	return &stats.TestReport{
		Summary: &stats.SummaryReport{
			Name:         r.Name,
			Trials:       r.Trials,
			ExtremeCount: r.Extreme,
		},
		Null: &stats.NullReport{
			StatSum:     r.StatSum,
			StatSqSum:   r.StatSqSum,
			RatioBucket: stats.Buckets.Labels(),
			Collect:     r.Collect,
		},
	}
}
