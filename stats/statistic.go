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

// Package stats 提供 permlab 的統計地基：均值差統計量、p-value 估計、
// 虛無分布直方桶與最終報表。
package stats

// MeanDiff 計算均值差統計量：前 nc 個值視為 control 組，其餘視為 treatment 組，
// 回傳 mean(treatment) - mean(control)。
//
// 純函數：無副作用、無共享可變狀態，可被任意數量的 worker 併發呼叫。
// 單趟累加即可；樣本屬中小規模，不需要補償式求和。
// 呼叫端保證 1 <= nc < len(vals)，兩組皆非空，因此不存在除以零。
func MeanDiff(vals []float64, nc int) float64 {
	muC, muT := GroupMeans(vals, nc)
	return muT - muC
}

// MeanDiffIndexed 與 MeanDiff 相同，但以索引排列取值：idx 的前 nc 個索引
// 標記 control 組。熱迴圈用法——pooled 資料從不搬動，只重排索引。
func MeanDiffIndexed(pooled []float64, idx []int, nc int) float64 {
	var sumC, sumT float64
	for i, j := range idx {
		if i < nc {
			sumC += pooled[j]
		} else {
			sumT += pooled[j]
		}
	}
	nt := len(idx) - nc
	return sumT/float64(nt) - sumC/float64(nc)
}

// GroupMeans 回傳兩組均值 (muControl, muTreatment)，
// 供報表層直接取用，不需重算。
func GroupMeans(vals []float64, nc int) (float64, float64) {
	var sumC, sumT float64
	for i, v := range vals {
		if i < nc {
			sumC += v
		} else {
			sumT += v
		}
	}
	nt := len(vals) - nc
	return sumC / float64(nc), sumT / float64(nt)
}
