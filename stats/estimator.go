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

package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// PValueEstimate p-value 點估計與其蒙地卡羅不確定度。
type PValueEstimate struct {
	Hat float64 `json:"Hat"` // 平滑後點估計
	SE  float64 `json:"SE"`  // 二項標準誤 sqrt(p(1-p)/n)
	CI  CI      `json:"CI"`  // Clopper–Pearson 95% CI（對重抽樣比例）
}

// EstimatePValue 將極端次數與試驗次數轉換為 p-value 估計。
//
// 點估計採用 add-one 平滑：p = (k+1)/(n+1)。
// 這是置換檢定的標準修正——有限次重抽樣不可能回報 p = 0
// （觀測到的標記本身就是一種排列），因此輸出範圍嚴格為 (0, 1]。
// 本庫全面採用此約定；未平滑的 k/n 不在任何路徑出現。
//
// SE 與 CI 描述的是蒙地卡羅比例 k/n 的不確定度，供呼叫端判斷
// 試驗次數是否足夠，與平滑約定無關。
func EstimatePValue(extreme, trials int) PValueEstimate {
	hat := float64(extreme+1) / float64(trials+1)
	se := math.Sqrt(hat * (1 - hat) / float64(trials))
	_, ci := proportionCICP(extreme, trials, 0.95)
	return PValueEstimate{Hat: hat, SE: se, CI: ci}
}

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// Verdict 將 p-value 轉成慣用的證據語言。
func Verdict(p float64) string {
	switch {
	case p < 0.01:
		return "very strong evidence against null hypothesis"
	case p < 0.025:
		return "strong evidence against null hypothesis"
	case p < 0.05:
		return "reasonably strong evidence against null hypothesis"
	case p < 0.10:
		return "borderline evidence against null hypothesis"
	default:
		return "no evidence against null hypothesis"
	}
}
