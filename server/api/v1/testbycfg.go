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
	"github.com/zintix-labs/permlab/spec"
)

// TestByCfg 傳入 YAML 設定字串 以及內嵌樣本執行檢定。
//
// 設定檔內的 control_file / treatment_file 在 HTTP 情境不適用（server
// 不讀呼叫端的檔案系統）；樣本一律由 body 內嵌帶入。
func (th *TestHandler) TestByCfg(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// 1. decode request
	req := new(dto.TestByCfgRequest)
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20) // 5MB
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httperr.Errs(w, errs.Wrap(err, "json decode failed"))
		return
	}

	// 2. 解析設定（填入預設值 + 基本檢查）
	ts, err := spec.GetTestSettingByYAML([]byte(req.Config))
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	// 3. 邊界檢查
	if len(req.Control) < 1 {
		httperr.Errs(w, errs.NewWarn("control is required"))
		return
	}
	if len(req.Treatment) < 1 {
		httperr.Errs(w, errs.NewWarn("treatment is required"))
		return
	}
	if ts.Trials > th.sCfg.MaxTrials {
		httperr.Errs(w, errs.Warnf("trials must be between 1 and %d", th.sCfg.MaxTrials))
		return
	}
	workers := ts.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if th.sCfg.MaxWorkers > 0 && workers > th.sCfg.MaxWorkers {
		workers = th.sCfg.MaxWorkers
	}
	if ts.Seed == nil {
		rnd, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			httperr.Errs(w, errs.NewWarn("seed generate failed"))
			return
		}
		v := rnd.Int64()
		ts.Seed = &v
	}

	// 4. 建立檢定器並執行
	t, err := permlab.NewTesterWithSeed(ts.Name, req.Control, req.Treatment, core.Default(), *ts.Seed)
	if err != nil {
		httperr.Log(th.sCfg.Log, "build tester err", err)
		httperr.Errs(w, errs.Wrap(err, "build tester err"))
		return
	}
	st, used, err := t.Run(ts.Trials, workers, false)
	if err != nil {
		httperr.Log(th.sCfg.Log, "test err", err)
		httperr.Errs(w, errs.Wrap(err, "test err"))
		return
	}

	// 5. 回傳Json
	resp := dto.TestResponse{
		Stats:  st,
		UsedMs: used.Milliseconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
