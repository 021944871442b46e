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

package permlab

import (
	"math"
	"testing"

	"github.com/zintix-labs/permlab/errs"
	"github.com/zintix-labs/permlab/sdk/core"
)

// Efron & Tibshirani (Table 2.1) 的小鼠存活天數資料,
// 常見的置換檢定示範樣本。
var (
	mouseControl   = []float64{52, 104, 146, 10, 51, 30, 40, 27, 46}
	mouseTreatment = []float64{94, 197, 16, 38, 99, 141, 23}
)

func naiveMeanDiff(control, treatment []float64) float64 {
	var sc, st float64
	for _, v := range control {
		sc += v
	}
	for _, v := range treatment {
		st += v
	}
	return st/float64(len(treatment)) - sc/float64(len(control))
}

func TestObservedMatchesReference(t *testing.T) {
	tester, err := NewTesterWithSeed("mouse", mouseControl, mouseTreatment, core.Default(), 1)
	if err != nil {
		t.Fatalf("new tester: %v", err)
	}
	want := naiveMeanDiff(mouseControl, mouseTreatment)
	if math.Abs(tester.Observed()-want) > 1e-12 {
		t.Fatalf("observed = %v, want %v", tester.Observed(), want)
	}
	muC, muT := tester.Means()
	if math.Abs((muT-muC)-want) > 1e-12 {
		t.Fatalf("means inconsistent with observed: %v vs %v", muT-muC, want)
	}
}

func TestSampleSetValidation(t *testing.T) {
	if _, err := NewSampleSet(nil, []float64{1}); err == nil {
		t.Fatalf("expected error for empty control")
	}
	_, err := NewSampleSet([]float64{1}, nil)
	if err == nil {
		t.Fatalf("expected error for empty treatment")
	}
	if e, ok := errs.AsErr(err); !ok || e.ErrLv != errs.Warn {
		t.Fatalf("empty sample should be Warn, got %v", err)
	}

	_, err = NewSampleSet([]float64{1, math.NaN()}, []float64{2})
	if err == nil {
		t.Fatalf("expected error for NaN in control")
	}
	if e, ok := errs.AsErr(err); !ok || e.ErrLv != errs.Fatal {
		t.Fatalf("non-finite value should be Fatal, got %v", err)
	}
	if _, err := NewSampleSet([]float64{1}, []float64{math.Inf(1)}); err == nil {
		t.Fatalf("expected error for Inf in treatment")
	}
}

func TestSampleSetCopiesInput(t *testing.T) {
	control := []float64{1, 2, 3}
	treatment := []float64{4, 5}
	s, err := NewSampleSet(control, treatment)
	if err != nil {
		t.Fatalf("new sample set: %v", err)
	}
	control[0] = 999
	if s.pooled[0] != 1 {
		t.Fatalf("sample set shares caller memory")
	}
	if s.NControl() != 3 || s.NTreatment() != 2 || s.Len() != 5 {
		t.Fatalf("sizes wrong: %d/%d/%d", s.NControl(), s.NTreatment(), s.Len())
	}
}

func TestNewTesterRequiresFactory(t *testing.T) {
	_, err := NewTesterWithSeed("t", []float64{1}, []float64{2}, nil, 1)
	if err == nil {
		t.Fatalf("expected error for nil factory")
	}
	if e, ok := errs.AsErr(err); !ok || e.ErrLv != errs.Fatal {
		t.Fatalf("nil factory should be Fatal, got %v", err)
	}
}

func TestRunValidation(t *testing.T) {
	tester, err := NewTesterWithSeed("t", mouseControl, mouseTreatment, core.Default(), 1)
	if err != nil {
		t.Fatalf("new tester: %v", err)
	}
	_, _, err = tester.Run(0, 1, false)
	if err == nil {
		t.Fatalf("expected error for trials=0")
	}
	if e, ok := errs.AsErr(err); !ok || e.ErrLv != errs.Warn {
		t.Fatalf("trials=0 should be Warn, got %v", err)
	}
	if _, _, err := tester.Run(10, 0, false); err == nil {
		t.Fatalf("expected error for workers=0")
	}
	if _, _, err := tester.Run(-1, 1, false); err == nil {
		t.Fatalf("expected error for negative trials")
	}
}

func TestWorkersClampedToTrials(t *testing.T) {
	tester, _ := NewTesterWithSeed("t", mouseControl, mouseTreatment, core.Default(), 1)
	report, _, err := tester.Run(2, 8, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Summary.Workers != 2 {
		t.Fatalf("workers = %d, want clamp to 2", report.Summary.Workers)
	}
}

// 同一組 (seed, trials, workers) 必須重現相同的極端計數,
// 包含 trials 無法被 workers 整除的情況。
func TestRunDeterminism(t *testing.T) {
	run := func() int {
		tester, err := NewTesterWithSeed("t", mouseControl, mouseTreatment, core.Default(), 42)
		if err != nil {
			t.Fatalf("new tester: %v", err)
		}
		report, _, err := tester.Run(9999, 3, false)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return report.Summary.ExtremeCount
	}
	a := run()
	b := run()
	if a != b {
		t.Fatalf("same seed produced different extreme counts: %d vs %d", a, b)
	}
}

func TestPValueRange(t *testing.T) {
	tester, _ := NewTesterWithSeed("t", mouseControl, mouseTreatment, core.Default(), 7)
	report, _, err := tester.Run(1000, 4, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	p := report.P()
	if p <= 0 || p > 1 {
		t.Fatalf("p-value out of (0,1]: %v", p)
	}
	if report.Summary.Trials != 1000 {
		t.Fatalf("trials = %d, want 1000", report.Summary.Trials)
	}
	if report.Summary.Seed != 7 {
		t.Fatalf("seed = %d, want 7", report.Summary.Seed)
	}
}

// 兩組樣本完全相同 -> observed = 0 -> 每個試驗都至少一樣極端 -> p = 1。
func TestIdenticalSamplesGiveP1(t *testing.T) {
	s := []float64{3, 1, 4, 1, 5}
	tester, err := NewTesterWithSeed("t", s, s, core.Default(), 5)
	if err != nil {
		t.Fatalf("new tester: %v", err)
	}
	report, _, err := tester.Run(500, 2, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Summary.ExtremeCount != 500 {
		t.Fatalf("extreme count = %d, want all 500", report.Summary.ExtremeCount)
	}
	if report.P() != 1.0 {
		t.Fatalf("p = %v, want exactly 1", report.P())
	}
}

// 單元素樣本:pooled 只有兩個值,任何重排的 |stat| 都等於 |observed|,
// 全部算平手 -> p = 1。
func TestSingleElementSamples(t *testing.T) {
	tester, err := NewTesterWithSeed("t", []float64{5}, []float64{9}, core.Default(), 3)
	if err != nil {
		t.Fatalf("new tester: %v", err)
	}
	report, _, err := tester.Run(200, 1, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.P() != 1.0 {
		t.Fatalf("p = %v, want exactly 1", report.P())
	}
}

// trials = 1:平滑後 p = (k+1)/2,k 只能是 0 或 1。
func TestSingleTrial(t *testing.T) {
	tester, _ := NewTesterWithSeed("t", mouseControl, mouseTreatment, core.Default(), 11)
	report, _, err := tester.Run(1, 1, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	p := report.P()
	if p != 0.5 && p != 1.0 {
		t.Fatalf("single trial p = %v, want 0.5 or 1.0", p)
	}
}

// 組間位移越大,p-value 應越小。
func TestLargerShiftGivesSmallerP(t *testing.T) {
	control := []float64{12, 7, 3, 11, 8, 5, 14, 9, 6, 10}
	shift := func(d float64) []float64 {
		out := make([]float64, len(control))
		for i, v := range control {
			out[i] = v + d
		}
		return out
	}
	run := func(treatment []float64) float64 {
		tester, err := NewTesterWithSeed("t", control, treatment, core.Default(), 99)
		if err != nil {
			t.Fatalf("new tester: %v", err)
		}
		report, _, err := tester.Run(20000, 4, false)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return report.P()
	}
	pSmall := run(shift(1.0))
	pLarge := run(shift(20.0))
	if pLarge >= pSmall {
		t.Fatalf("p did not shrink with larger shift: small=%v large=%v", pSmall, pLarge)
	}
}

// 不同 seed 的兩次估計,差異應落在蒙地卡羅誤差的量級內。
func TestSeedToSeedConsistency(t *testing.T) {
	run := func(seed int64) (float64, float64) {
		tester, _ := NewTesterWithSeed("t", mouseControl, mouseTreatment, core.Default(), seed)
		report, _, err := tester.Run(100000, 4, false)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return report.Summary.PValue.Hat, report.Summary.PValue.SE
	}
	p1, se1 := run(1001)
	p2, se2 := run(2002)
	if d := math.Abs(p1 - p2); d > 8*(se1+se2) {
		t.Fatalf("estimates too far apart: %v vs %v (d=%v)", p1, p2, d)
	}
}

// 小鼠資料在兩側檢定（|stat| >= |observed|）下收斂值約 0.28;
// 單側（上尾）約 0.14,本庫固定採兩側約定。
// 20 萬次試驗的二項 SE 約 0.001,區間留了充裕的餘裕。
func TestMouseDataScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping convergence test in short mode")
	}
	tester, err := NewTesterWithSeed("mouse", mouseControl, mouseTreatment, core.Default(), 20260823)
	if err != nil {
		t.Fatalf("new tester: %v", err)
	}
	report, _, err := tester.Run(200000, 4, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	p := report.P()
	if p < 0.25 || p > 0.31 {
		t.Fatalf("mouse data p = %v, want within [0.25, 0.31]", p)
	}
	if report.Summary.Verdict != "no evidence against null hypothesis" {
		t.Fatalf("verdict = %q", report.Summary.Verdict)
	}
}

func TestReportFieldsFilled(t *testing.T) {
	tester, _ := NewTesterWithSeed("demo", mouseControl, mouseTreatment, core.Default(), 8)
	report, used, err := tester.Run(2000, 2, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if used <= 0 {
		t.Fatalf("used duration not measured")
	}
	s := report.Summary
	if s.Name != "demo" {
		t.Fatalf("name = %q", s.Name)
	}
	if s.NControl != len(mouseControl) || s.NTreatment != len(mouseTreatment) {
		t.Fatalf("sample sizes wrong: %d/%d", s.NControl, s.NTreatment)
	}
	want := naiveMeanDiff(mouseControl, mouseTreatment)
	if math.Abs(s.Observed-want) > 1e-12 {
		t.Fatalf("observed = %v, want %v", s.Observed, want)
	}
	if math.Abs((s.MuTreatment-s.MuControl)-s.Observed) > 1e-12 {
		t.Fatalf("means inconsistent with observed")
	}
	total := 0
	for _, c := range report.Null.Collect {
		total += c
	}
	if total != 2000 {
		t.Fatalf("bucket counts sum to %d, want 2000", total)
	}
}

func TestConvenienceRun(t *testing.T) {
	report, err := Run(mouseControl, mouseTreatment, 5000)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	p := report.P()
	if p <= 0 || p > 1 {
		t.Fatalf("p-value out of (0,1]: %v", p)
	}
	if report.Summary.Trials != 5000 {
		t.Fatalf("trials = %d, want 5000", report.Summary.Trials)
	}
}
