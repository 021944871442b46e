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
	"strings"
	"testing"
)

func TestMeanDiff(t *testing.T) {
	// control = {1,2,3} mu=2, treatment = {4,6} mu=5
	vals := []float64{1, 2, 3, 4, 6}
	got := MeanDiff(vals, 3)
	if math.Abs(got-3.0) > 1e-12 {
		t.Fatalf("MeanDiff = %v, want 3", got)
	}
	muC, muT := GroupMeans(vals, 3)
	if muC != 2.0 || muT != 5.0 {
		t.Fatalf("GroupMeans = (%v, %v), want (2, 5)", muC, muT)
	}
}

func TestMeanDiffIndexedAgreesWithMeanDiff(t *testing.T) {
	pooled := []float64{52, 104, 146, 10, 51, 30, 40, 27, 46, 94, 197, 16, 38, 99, 141, 23}
	nc := 9
	idx := make([]int, len(pooled))
	for i := range idx {
		idx[i] = i
	}
	a := MeanDiff(pooled, nc)
	b := MeanDiffIndexed(pooled, idx, nc)
	if math.Abs(a-b) > 1e-12 {
		t.Fatalf("indexed path diverged: %v vs %v", a, b)
	}

	// 重排索引後,兩種算法對同一個分組仍需一致
	idx[0], idx[15] = idx[15], idx[0]
	idx[3], idx[10] = idx[10], idx[3]
	relabeled := make([]float64, len(pooled))
	for i, j := range idx {
		relabeled[i] = pooled[j]
	}
	a = MeanDiff(relabeled, nc)
	b = MeanDiffIndexed(pooled, idx, nc)
	if math.Abs(a-b) > 1e-12 {
		t.Fatalf("indexed path diverged after relabel: %v vs %v", a, b)
	}
}

func TestEstimatePValueSmoothing(t *testing.T) {
	// add-one: p = (k+1)/(n+1)
	est := EstimatePValue(0, 999)
	if math.Abs(est.Hat-0.001) > 1e-12 {
		t.Fatalf("k=0 n=999: Hat = %v, want 0.001", est.Hat)
	}
	if est.Hat <= 0 {
		t.Fatalf("p-value must never be 0")
	}

	est = EstimatePValue(999, 999)
	if est.Hat != 1.0 {
		t.Fatalf("k=n: Hat = %v, want 1", est.Hat)
	}
	if est.Hat > 1.0 {
		t.Fatalf("p-value must never exceed 1")
	}
}

func TestEstimatePValueSE(t *testing.T) {
	k, n := 140, 1000
	est := EstimatePValue(k, n)
	want := math.Sqrt(est.Hat * (1 - est.Hat) / float64(n))
	if math.Abs(est.SE-want) > 1e-12 {
		t.Fatalf("SE = %v, want %v", est.SE, want)
	}
}

func TestEstimatePValueCI(t *testing.T) {
	k, n := 140, 1000
	est := EstimatePValue(k, n)
	raw := float64(k) / float64(n)
	if est.CI.Lo >= est.CI.Hi {
		t.Fatalf("CI bounds inverted: [%v, %v]", est.CI.Lo, est.CI.Hi)
	}
	if raw < est.CI.Lo || raw > est.CI.Hi {
		t.Fatalf("raw proportion %v outside CI [%v, %v]", raw, est.CI.Lo, est.CI.Hi)
	}

	// 邊界：k=0 的下界必須是 0,k=n 的上界必須是 1
	est = EstimatePValue(0, 100)
	if est.CI.Lo != 0 {
		t.Fatalf("k=0 CI.Lo = %v, want 0", est.CI.Lo)
	}
	est = EstimatePValue(100, 100)
	if est.CI.Hi != 1 {
		t.Fatalf("k=n CI.Hi = %v, want 1", est.CI.Hi)
	}
}

func TestVerdict(t *testing.T) {
	cases := []struct {
		p    float64
		want string
	}{
		{0.005, "very strong evidence against null hypothesis"},
		{0.02, "strong evidence against null hypothesis"},
		{0.04, "reasonably strong evidence against null hypothesis"},
		{0.08, "borderline evidence against null hypothesis"},
		{0.14, "no evidence against null hypothesis"},
		{1.0, "no evidence against null hypothesis"},
	}
	for _, c := range cases {
		if got := Verdict(c.p); got != c.want {
			t.Fatalf("Verdict(%v) = %q, want %q", c.p, got, c.want)
		}
	}
}

func TestBucketIndex(t *testing.T) {
	th := 10.0
	cases := []struct {
		stat float64
		want int
	}{
		{0, 0},
		{2.4, 0},
		{2.5, 1},
		{-7.4, 2},
		{9.99, 3},
		{10.0, 4}, // 平手進入極端區
		{-14.9, 4},
		{15.0, 5},
		{20.0, 6},
		{1000, 6},
	}
	for _, c := range cases {
		if got := Buckets.Index(c.stat, th); got != c.want {
			t.Fatalf("Index(%v, %v) = %d, want %d", c.stat, th, got, c.want)
		}
	}
	// 退化門檻：全部歸入最末桶
	if got := Buckets.Index(0.0, 0.0); got != Buckets.Len()-1 {
		t.Fatalf("zero threshold should map to last bucket, got %d", got)
	}
	if Buckets.Len() != len(Buckets.Labels()) {
		t.Fatalf("Len and Labels out of sync")
	}
}

func TestReportDone(t *testing.T) {
	r := &TestReport{
		Summary: &SummaryReport{
			Name:         "demo",
			Trials:       4,
			ExtremeCount: 1,
		},
		Null: &NullReport{
			StatSum:     10, // 統計量: 1, 2, 3, 4
			StatSqSum:   30,
			RatioBucket: Buckets.Labels(),
			Collect:     []int{1, 1, 1, 1, 0, 0, 0},
		},
	}
	r.Done()

	if math.Abs(r.Summary.PValue.Hat-0.4) > 1e-12 {
		t.Fatalf("PValue.Hat = %v, want 0.4", r.Summary.PValue.Hat)
	}
	if r.Null.Mean != 2.5 {
		t.Fatalf("Null.Mean = %v, want 2.5", r.Null.Mean)
	}
	// 樣本標準差 sqrt((30 - 100/4)/3) = sqrt(5/3)
	want := math.Sqrt(5.0 / 3.0)
	if math.Abs(r.Null.Std-want) > 1e-12 {
		t.Fatalf("Null.Std = %v, want %v", r.Null.Std, want)
	}
	sum := 0.0
	for _, d := range r.Null.Dist {
		sum += d
	}
	if math.Abs(sum-1.0) > 1e-12 {
		t.Fatalf("Dist must sum to 1, got %v", sum)
	}

	// Done 必須是冪等的
	before := r.Summary.PValue
	r.Done()
	if r.Summary.PValue != before {
		t.Fatalf("Done is not idempotent")
	}
}

func TestYAMLRenderFlowStyle(t *testing.T) {
	r := &TestReport{
		Summary: &SummaryReport{Name: "demo", Trials: 2, ExtremeCount: 1},
		Null: &NullReport{
			StatSum:     3,
			StatSqSum:   5,
			RatioBucket: Buckets.Labels(),
			Collect:     []int{2, 0, 0, 0, 0, 0, 0},
		},
	}
	var sb strings.Builder
	if err := r.WriteWith(&sb, &YAMLTestReportRender{}); err != nil {
		t.Fatalf("yaml render: %v", err)
	}
	out := sb.String()
	// 一維陣列應以 flow style 輸出
	if !strings.Contains(out, "[") {
		t.Fatalf("expected flow-style sequences in yaml output:\n%s", out)
	}
	if !strings.Contains(out, "demo") {
		t.Fatalf("report name missing from yaml output:\n%s", out)
	}
}
