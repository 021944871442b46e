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
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// TestReport 置換檢定結果報告
type TestReport struct {
	Summary *SummaryReport `json:"Summary"`
	Null    *NullReport    `json:"Null"`
	isDone  bool
}

// SummaryReport 檢定摘要
type SummaryReport struct {
	Name         string         `json:"Name"`
	MuControl    float64        `json:"MuControl"`
	NControl     int            `json:"NControl"`
	MuTreatment  float64        `json:"MuTreatment"`
	NTreatment   int            `json:"NTreatment"`
	Observed     float64        `json:"Observed"` // mu_treatment - mu_control
	Trials       int            `json:"Trials"`
	Workers      int            `json:"Workers"`
	Seed         int64          `json:"Seed"`
	ExtremeCount int            `json:"ExtremeCount"`
	PValue       PValueEstimate `json:"PValue"`
	Verdict      string         `json:"Verdict"`
}

// NullReport 虛無分布統計
//
// 紀錄時只累積 StatSum / StatSqSum 與整數桶計數，避免熱迴圈中的多餘計算。
// 紀錄完成後 Done() 會將均值、標準差與桶占比一次性整理填入。
type NullReport struct {
	StatSum     float64   `json:"StatSum"`   // 統計量總和
	StatSqSum   float64   `json:"StatSqSum"` // 平方和
	Mean        float64   `json:"Mean"`
	Std         float64   `json:"Std"`
	RatioBucket []string  `json:"RatioBucket"`
	Collect     []int     `json:"Collect"`
	Dist        []float64 `json:"Dist"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 將累積計數轉換為最終統計結果並鎖定 isDone 標記。
//
// 所有試驗過程因為性能原因只累積原始和，統計完成後
// 請使用 Done 一次性計算 p-value、虛無分布均值/標準差與桶占比。
func (r *TestReport) Done() {
	if r.isDone {
		return
	}
	// Summary
	r.Summary.PValue = EstimatePValue(r.Summary.ExtremeCount, r.Summary.Trials)
	r.Summary.Verdict = Verdict(r.Summary.PValue.Hat)

	// Null
	n := float64(r.Summary.Trials)
	r.Null.Mean = r.Null.StatSum / n
	if r.Summary.Trials > 1 {
		variance := (r.Null.StatSqSum - r.Null.StatSum*r.Null.StatSum/n) / (n - 1)
		if variance < 0 {
			variance = 0
		}
		r.Null.Std = math.Sqrt(variance)
	}
	if len(r.Null.Dist) != len(r.Null.Collect) {
		r.Null.Dist = make([]float64, len(r.Null.Collect))
	}
	for i, c := range r.Null.Collect {
		r.Null.Dist[i] = float64(c) / n
	}

	r.isDone = true
}

// P 回傳平滑後的 p-value 點估計。
func (r *TestReport) P() float64 {
	return EstimatePValue(r.Summary.ExtremeCount, r.Summary.Trials).Hat
}

func (r *TestReport) WriteWith(w io.Writer, rep TestReportRender) error {
	r.Done()
	return rep.Write(w, r)
}

func (r *TestReport) StdOut(ut time.Duration) {
	r.Done()
	formatDuration(ut, r.Summary.Trials)
	sk, sm := r.fmtSummary()
	str := fmtTable(r.Summary.Name, sk, sm)
	fmt.Println(str)
	fmt.Println(r.fmtNullDist())
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, trials int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	tps := int(float64(trials) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\ntps : %d trials/sec\n", sec, tps)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		p.Printf("used: %dm %ds\ntps : %d trials/sec\n", m, s, tps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\ntps : %d trials/sec\n", h, m, s, tps)
}

// StdOut

func (r *TestReport) fmtSummary() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	s := r.Summary
	basic := map[string]string{
		"mu_control":    p.Sprintf("%.6f", s.MuControl),
		"N_control":     p.Sprintf("%d", s.NControl),
		"mu_treatment":  p.Sprintf("%.6f", s.MuTreatment),
		"N_treatment":   p.Sprintf("%d", s.NTreatment),
		"observed diff": p.Sprintf("%.6f", s.Observed),
		"trials":        p.Sprintf("%d", s.Trials),
		"workers":       p.Sprintf("%d", s.Workers),
		"extreme count": p.Sprintf("%d", s.ExtremeCount),
		"p-value":       p.Sprintf("%.6f", s.PValue.Hat),
		"p-value SE":    p.Sprintf("%.6f", s.PValue.SE),
		"p-value 95%CI": p.Sprintf("[%.6f,%.6f]", s.PValue.CI.Lo, s.PValue.CI.Hi),
		"result":        s.Verdict,
	}
	keys := []string{
		"mu_control", "N_control", "mu_treatment", "N_treatment",
		"observed diff", "trials", "workers", "extreme count",
		"p-value", "p-value SE", "p-value 95%CI", "result",
	}
	return keys, basic
}

func (r *TestReport) fmtNullDist() string {
	p := message.NewPrinter(lang)
	keys := r.Null.RatioBucket
	msg := make(map[string]string, len(keys))
	for i, label := range keys {
		msg[label] = p.Sprintf("%d (%.4f%%)", r.Null.Collect[i], 100.0*r.Null.Dist[i])
	}
	return fmtTable("null dist |stat|/|observed|", keys, msg)
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
