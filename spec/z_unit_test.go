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

package spec

import "testing"

func TestGetTestSettingByYAMLDefaults(t *testing.T) {
	yml := []byte(`
control_file: testdata/control.dat
treatment_file: testdata/treatment.dat
`)
	ts, err := GetTestSettingByYAML(yml)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ts.Name != "permutation-test" {
		t.Fatalf("default name = %q", ts.Name)
	}
	if ts.Trials != DefaultTrials {
		t.Fatalf("default trials = %d, want %d", ts.Trials, DefaultTrials)
	}
	if ts.Workers != 0 {
		t.Fatalf("default workers = %d, want 0 (auto)", ts.Workers)
	}
	if ts.Seed != nil {
		t.Fatalf("default seed should be nil (auto)")
	}
	if ts.Output != OutText {
		t.Fatalf("default output = %q, want %q", ts.Output, OutText)
	}
}

func TestGetTestSettingByYAMLFull(t *testing.T) {
	yml := []byte(`
name: mouse-survival
control_file: control.dat
treatment_file: treatment.dat
trials: 500000
workers: 4
seed: 42
output: json
`)
	ts, err := GetTestSettingByYAML(yml)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ts.Name != "mouse-survival" || ts.Trials != 500000 || ts.Workers != 4 {
		t.Fatalf("fields not parsed: %+v", ts)
	}
	if ts.Seed == nil || *ts.Seed != 42 {
		t.Fatalf("seed not parsed: %v", ts.Seed)
	}
	if ts.Output != OutJSON {
		t.Fatalf("output = %q", ts.Output)
	}
}

func TestGetTestSettingByJSON(t *testing.T) {
	js := []byte(`{"name":"j","trials":100,"output":"yaml"}`)
	ts, err := GetTestSettingByJSON(js)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ts.Name != "j" || ts.Trials != 100 || ts.Output != OutYAML {
		t.Fatalf("fields not parsed: %+v", ts)
	}
}

func TestTestSettingRejectsBadValues(t *testing.T) {
	if _, err := GetTestSettingByYAML([]byte("trials: -5")); err == nil {
		t.Fatalf("expected error for negative trials")
	}
	if _, err := GetTestSettingByYAML([]byte("trials: 200000000")); err == nil {
		t.Fatalf("expected error for trials above cap")
	}
	if _, err := GetTestSettingByYAML([]byte("workers: -1")); err == nil {
		t.Fatalf("expected error for negative workers")
	}
	if _, err := GetTestSettingByYAML([]byte("output: xml")); err == nil {
		t.Fatalf("expected error for unknown output mode")
	}
	if _, err := GetTestSettingByYAML([]byte("trials: [oops")); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}
