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

// Package spec 定義檢定的設定檔結構（TestSetting）與其 YAML/JSON 解析。
package spec

import (
	"fmt"
	"strings"

	"github.com/zintix-labs/permlab/errs"
)

// DefaultTrials 未指定 trials 時的預設試驗次數。
const DefaultTrials = 1_000_000

// MaxTrials 單次檢定允許的試驗上限，避免一個設定檔吃光機器。
const MaxTrials = 100_000_000

// 輸出模式
const (
	OutText = "text"
	OutJSON = "json"
	OutYAML = "yaml"
)

// TestSetting 包含執行一次置換檢定所需的所有高階設定。
type TestSetting struct {
	Name          string `yaml:"name"            json:"name"`
	ControlFile   string `yaml:"control_file"    json:"control_file"`
	TreatmentFile string `yaml:"treatment_file"  json:"treatment_file"`
	Trials        int    `yaml:"trials"          json:"trials"`
	Workers       int    `yaml:"workers"         json:"workers"` // 0 = 自動（硬體平行度）
	Seed          *int64 `yaml:"seed"            json:"seed"`    // nil = 自動（crypto/rand）
	Output        string `yaml:"output"          json:"output"`  // text | json | yaml
}

// init 填預設值後執行基本檢查。
func (ts *TestSetting) init() error {
	if strings.TrimSpace(ts.Name) == "" {
		ts.Name = "permutation-test"
	}
	if ts.Trials == 0 {
		ts.Trials = DefaultTrials
	}
	if ts.Output == "" {
		ts.Output = OutText
	}
	return ts.valid()
}

// valid 執行最基本的設定檔檢查，如需更多驗證可在此擴充。
func (ts *TestSetting) valid() error {
	if ts.Trials < 1 {
		return errs.NewFatal(fmt.Sprintf("test: %s err:trials must > 0", ts.Name))
	}
	if ts.Trials > MaxTrials {
		return errs.NewFatal(fmt.Sprintf("test: %s err:trials must <= %d", ts.Name, MaxTrials))
	}
	if ts.Workers < 0 {
		return errs.NewFatal(fmt.Sprintf("test: %s err:workers must >= 0", ts.Name))
	}
	switch ts.Output {
	case OutText, OutJSON, OutYAML:
	default:
		return errs.NewFatal(fmt.Sprintf("test: %s err:unknown output mode %q", ts.Name, ts.Output))
	}
	return nil
}
