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
	"crypto/rand"
	"encoding/json"
	"math"
	"math/big"
	"net/http"
	"runtime"

	"github.com/zintix-labs/permlab"
	"github.com/zintix-labs/permlab/dto"
	"github.com/zintix-labs/permlab/errs"
	"github.com/zintix-labs/permlab/sdk/core"
	"github.com/zintix-labs/permlab/server/httperr"
	"github.com/zintix-labs/permlab/server/svrcfg"
)

type TestHandler struct {
	sCfg *svrcfg.SvrCfg
}

func NewTestHandler(sCfg *svrcfg.SvrCfg) (*TestHandler, error) {
	if sCfg == nil {
		return nil, errs.NewFatal("svrcfg is required")
	}
	return &TestHandler{sCfg: sCfg}, nil
}

// Test 執行一次完整的置換檢定。
//
// 檢定是 CPU-bound 的同步工作，邊界層除了形狀檢查之外，
// 還要用 server 設定（MaxTrials/MaxWorkers）擋住過大的請求。
func (th *TestHandler) Test(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// 1. decode request
	req := new(dto.TestRequest)
	q.Body = http.MaxBytesReader(w, q.Body, 5<<20) // 5MB
	if err := json.NewDecoder(q.Body).Decode(req); err != nil {
		httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
		return
	}

	// 2. 邊界檢查
	if err := req.Valid(); err != nil {
		httperr.Errs(w, err)
		return
	}
	if req.Trials > th.sCfg.MaxTrials {
		httperr.Errs(w, errs.Warnf("trials must be between 1 and %d", th.sCfg.MaxTrials))
		return
	}
	workers := req.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if th.sCfg.MaxWorkers > 0 && workers > th.sCfg.MaxWorkers {
		workers = th.sCfg.MaxWorkers
	}
	if req.Seed == nil {
		rnd, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			httperr.Errs(w, errs.NewWarn("seed generate failed"))
			return
		}
		v := rnd.Int64()
		req.Seed = &v
	}

	// 3. 建立檢定器並執行
	t, err := permlab.NewTesterWithSeed(req.Name, req.Control, req.Treatment, core.Default(), *req.Seed)
	if err != nil {
		// 這裡的錯誤來自permlab 尊重錯誤分級
		httperr.Log(th.sCfg.Log, "build tester err", err)
		httperr.Errs(w, errs.Wrap(err, "build tester err"))
		return
	}
	st, used, err := t.Run(req.Trials, workers, false)
	if err != nil {
		// 這裡的錯誤來自引擎 尊重錯誤分級
		httperr.Log(th.sCfg.Log, "test err", err)
		httperr.Errs(w, errs.Wrap(err, "test err"))
		return
	}

	// 4. 回傳Json
	resp := dto.TestResponse{
		Stats:  st,
		UsedMs: used.Milliseconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
