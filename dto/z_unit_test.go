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

package dto

import (
	"testing"

	"github.com/zintix-labs/permlab/errs"
	"github.com/zintix-labs/permlab/spec"
)

func TestTestRequestDefaults(t *testing.T) {
	r := &TestRequest{
		Control:   []float64{1, 2},
		Treatment: []float64{3, 4},
	}
	if err := r.Valid(); err != nil {
		t.Fatalf("valid: %v", err)
	}
	if r.Name != "permutation-test" {
		t.Fatalf("default name = %q", r.Name)
	}
	if r.Trials != spec.DefaultTrials {
		t.Fatalf("default trials = %d, want %d", r.Trials, spec.DefaultTrials)
	}
	if r.Seed != nil {
		t.Fatalf("seed should stay nil until the handler fills it")
	}
}

func TestTestRequestRejectsBadShape(t *testing.T) {
	cases := []*TestRequest{
		{Treatment: []float64{1}},                                                // 缺 control
		{Control: []float64{1}},                                                  // 缺 treatment
		{Control: []float64{1}, Treatment: []float64{2}, Trials: -1},             // 負試驗數
		{Control: []float64{1}, Treatment: []float64{2}, Trials: spec.MaxTrials + 1}, // 超限
		{Control: []float64{1}, Treatment: []float64{2}, Workers: -1},            // 負 worker
	}
	for i, r := range cases {
		err := r.Valid()
		if err == nil {
			t.Fatalf("case %d: expected error", i)
		}
		if e, ok := errs.AsErr(err); !ok || e.ErrLv != errs.Warn {
			t.Fatalf("case %d: boundary errors should be Warn, got %v", i, err)
		}
	}
}

func TestStatRequestValid(t *testing.T) {
	r := &StatRequest{Control: []float64{1}, Treatment: []float64{2}}
	if err := r.Valid(); err != nil {
		t.Fatalf("valid: %v", err)
	}
	if err := (&StatRequest{Treatment: []float64{2}}).Valid(); err == nil {
		t.Fatalf("expected error for missing control")
	}
	if err := (&StatRequest{Control: []float64{1}}).Valid(); err == nil {
		t.Fatalf("expected error for missing treatment")
	}
}
