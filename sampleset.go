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
	"math"

	"github.com/zintix-labs/permlab/errs"
)

// SampleSet 持有 control 與 treatment 兩組樣本，以及衍生的 pooled 序列
// （control 接 treatment 的串接）。建構完成後即視為不可變：
// 平行階段所有 worker 共享讀取 pooled，不需任何鎖。
//
// 不變量：
//   - 兩組皆非空（size >= 1）。
//   - 所有值皆為有限值（NaN/Inf 在建構時即拒絕，避免壞值污染部分和）。
//   - len(pooled) == nc + nt，且分組大小 (nc, nt) 對每個試驗都是固定常數。
type SampleSet struct {
	pooled []float64
	nc     int
	nt     int
}

// NewSampleSet 複製輸入並驗證不變量。
//
// 輸入切片不被保留：呼叫端之後怎麼改自己的切片都不影響引擎。
func NewSampleSet(control, treatment []float64) (*SampleSet, error) {
	if len(control) < 1 {
		return nil, errs.NewWarn("control sample must not be empty")
	}
	if len(treatment) < 1 {
		return nil, errs.NewWarn("treatment sample must not be empty")
	}

	pooled := make([]float64, 0, len(control)+len(treatment))
	pooled = append(pooled, control...)
	pooled = append(pooled, treatment...)
	for i, v := range pooled {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			group := "control"
			pos := i
			if i >= len(control) {
				group = "treatment"
				pos = i - len(control)
			}
			return nil, errs.Fatalf("non-finite value in %s sample at index %d", group, pos)
		}
	}

	return &SampleSet{
		pooled: pooled,
		nc:     len(control),
		nt:     len(treatment),
	}, nil
}

// NControl 回傳 control 樣本數。
func (s *SampleSet) NControl() int { return s.nc }

// NTreatment 回傳 treatment 樣本數。
func (s *SampleSet) NTreatment() int { return s.nt }

// Len 回傳 pooled 長度（= NControl + NTreatment）。
func (s *SampleSet) Len() int { return len(s.pooled) }
