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
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/permlab/dto"
	"github.com/zintix-labs/permlab/server/svrcfg"
)

func newTestHandler(t *testing.T) *TestHandler {
	t.Helper()
	sCfg := &svrcfg.SvrCfg{}
	if err := sCfg.Vaild(); err != nil {
		t.Fatalf("svrcfg: %v", err)
	}
	h, err := NewTestHandler(sCfg)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return h
}

func TestTestHandler(t *testing.T) {
	h := newTestHandler(t)
	body := `{"control":[52,104,146,10,51,30,40,27,46],
	          "treatment":[94,197,16,38,99,141,23],
	          "trials":2000,"workers":2,"seed":7}`
	req := httptest.NewRequest(http.MethodPost, "/v1/test", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Test(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	resp := new(dto.TestResponse)
	if err := json.NewDecoder(w.Body).Decode(resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	p := resp.Stats.Summary.PValue.Hat
	if p <= 0 || p > 1 {
		t.Fatalf("p-value out of (0,1]: %v", p)
	}
	if resp.Stats.Summary.Trials != 2000 {
		t.Fatalf("trials = %d, want 2000", resp.Stats.Summary.Trials)
	}
}

func TestTestHandlerRejectsBadInput(t *testing.T) {
	h := newTestHandler(t)
	cases := []string{
		`{"treatment":[1,2]}`,               // 缺 control
		`{"control":[1],"treatment":[]}`,    // 空 treatment
		`{"control":[1],"treatment":[2],"trials":-3}`,
		`not json`,
	}
	for i, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/v1/test", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.Test(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("case %d: status = %d, want 400", i, w.Code)
		}
	}

	// method not allowed
	req := httptest.NewRequest(http.MethodGet, "/v1/test", nil)
	w := httptest.NewRecorder()
	h.Test(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d, want 405", w.Code)
	}
}

func TestTestByCfgHandler(t *testing.T) {
	h := newTestHandler(t)
	body := `{"config":"name: cfg-demo\ntrials: 1000\nworkers: 1\nseed: 3\n",
	          "control":[1,2,3,4],"treatment":[2,3,4,5]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/testbycfg", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.TestByCfg(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	resp := new(dto.TestResponse)
	if err := json.NewDecoder(w.Body).Decode(resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Stats.Summary.Name != "cfg-demo" {
		t.Fatalf("name = %q, want cfg-demo", resp.Stats.Summary.Name)
	}
	if resp.Stats.Summary.Trials != 1000 {
		t.Fatalf("trials = %d, want 1000", resp.Stats.Summary.Trials)
	}
}

func TestStatHandler(t *testing.T) {
	body := `{"control":[1,2,3],"treatment":[4,6]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/stat", strings.NewReader(body))
	w := httptest.NewRecorder()
	Stat(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	resp := new(dto.StatResponse)
	if err := json.NewDecoder(w.Body).Decode(resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.MuControl != 2.0 || resp.MuTreatment != 5.0 {
		t.Fatalf("means = (%v, %v), want (2, 5)", resp.MuControl, resp.MuTreatment)
	}
	if math.Abs(resp.Observed-3.0) > 1e-12 {
		t.Fatalf("observed = %v, want 3", resp.Observed)
	}
	if resp.NControl != 3 || resp.NTreatment != 2 {
		t.Fatalf("sizes = (%d, %d)", resp.NControl, resp.NTreatment)
	}
}

// 超過 5MB 上限的 body 必須被拒絕,不得整包讀入。
func TestStatHandlerCapsBodySize(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"control":[`)
	sb.WriteString(strings.Repeat("1,", 3_000_000)) // ~6MB
	sb.WriteString(`1],"treatment":[2]}`)

	req := httptest.NewRequest(http.MethodPost, "/v1/stat", strings.NewReader(sb.String()))
	w := httptest.NewRecorder()
	Stat(w, req)
	if w.Code == http.StatusOK {
		t.Fatalf("oversized body must not be accepted")
	}
}

func TestStatHandlerRejectsMalformedBody(t *testing.T) {
	body := `{"control":[1,2],"treatment":[4,"NaN"]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/stat", strings.NewReader(body))
	w := httptest.NewRecorder()
	Stat(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
