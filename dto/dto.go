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

// Package dto 定義 HTTP 邊界的請求/回應結構。
//
// 引擎內部型別（Tester/TestReport）不直接曝露 wire 形狀；
// 欄位命名與可選性在這一層固定下來，內部重構不影響對外契約。
package dto

import (
	"github.com/zintix-labs/permlab/errs"
	"github.com/zintix-labs/permlab/spec"
	"github.com/zintix-labs/permlab/stats"
)

// TestRequest 一次置換檢定的完整輸入。
type TestRequest struct {
	Name      string    `json:"name,omitempty"`    // 檢定名稱（報表抬頭），預設 permutation-test
	Control   []float64 `json:"control"`           // control 樣本
	Treatment []float64 `json:"treatment"`         // treatment 樣本
	Trials    int       `json:"trials,omitempty"`  // 0 = 預設 1,000,000
	Workers   int       `json:"workers,omitempty"` // 0 = 自動（硬體平行度）
	Seed      *int64    `json:"seed,omitempty"`    // nil = 自動（crypto/rand）
}

// Valid 執行邊界層檢查。
// 樣本「值」的有限性不在這裡驗：那是 SampleSet 建構的不變量，
// 邊界只擋形狀問題（空樣本、試驗數超限）。
func (r *TestRequest) Valid() error {
	if len(r.Control) < 1 {
		return errs.NewWarn("control is required")
	}
	if len(r.Treatment) < 1 {
		return errs.NewWarn("treatment is required")
	}
	if r.Name == "" {
		r.Name = "permutation-test"
	}
	if r.Trials == 0 {
		r.Trials = spec.DefaultTrials
	}
	if r.Trials < 1 || r.Trials > spec.MaxTrials {
		return errs.Warnf("trials must be between 1 and %d", spec.MaxTrials)
	}
	if r.Workers < 0 {
		return errs.NewWarn("workers must be non-negative integer")
	}
	return nil
}

// TestResponse 檢定結果與用時。
type TestResponse struct {
	Stats  *stats.TestReport `json:"stats"`
	UsedMs int64             `json:"used_ms"`
}

// StatRequest 只算觀測統計量與兩組均值，不跑試驗。
type StatRequest struct {
	Control   []float64 `json:"control"`
	Treatment []float64 `json:"treatment"`
}

// Valid 邊界層檢查。
func (r *StatRequest) Valid() error {
	if len(r.Control) < 1 {
		return errs.NewWarn("control is required")
	}
	if len(r.Treatment) < 1 {
		return errs.NewWarn("treatment is required")
	}
	return nil
}

// StatResponse 觀測統計量與兩組均值。
type StatResponse struct {
	MuControl   float64 `json:"mu_control"`
	NControl    int     `json:"n_control"`
	MuTreatment float64 `json:"mu_treatment"`
	NTreatment  int     `json:"n_treatment"`
	Observed    float64 `json:"observed"`
}

// TestByCfgRequest 以設定檔（YAML 字串）加上內嵌樣本執行檢定。
// 設定檔內的 control_file / treatment_file 在 HTTP 情境不適用，
// 樣本一律由 body 內嵌帶入。
type TestByCfgRequest struct {
	Config    string    `json:"config"` // YAML TestSetting
	Control   []float64 `json:"control"`
	Treatment []float64 `json:"treatment"`
}
