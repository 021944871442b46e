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

package v1

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/zintix-labs/permlab/dto"
	"github.com/zintix-labs/permlab/errs"
	"github.com/zintix-labs/permlab/server/httperr"
	"github.com/zintix-labs/permlab/stats"
)

// Stat 只計算觀測統計量與兩組均值，不跑任何試驗。
// 適合在正式送檢前先確認資料形狀與方向。
func Stat(w http.ResponseWriter, r *http.Request) {
	// Post方法限定
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// 嘗試解析
	req := new(dto.StatRequest)
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20) // 5MB
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
		return
	}
	if err := req.Valid(); err != nil {
		httperr.Errs(w, err)
		return
	}

	// 重用引擎的合併池 + 單次掃描；順便驗樣本值的有限性
	pooled := make([]float64, 0, len(req.Control)+len(req.Treatment))
	pooled = append(pooled, req.Control...)
	pooled = append(pooled, req.Treatment...)
	for i, v := range pooled {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			httperr.Errs(w, errs.Warnf("non-finite value in sample at pooled index %d", i))
			return
		}
	}
	muC, muT := stats.GroupMeans(pooled, len(req.Control))

	resp := dto.StatResponse{
		MuControl:   muC,
		NControl:    len(req.Control),
		MuTreatment: muT,
		NTreatment:  len(req.Treatment),
		Observed:    muT - muC,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
