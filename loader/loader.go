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

// Package loader 讀取「一行一個數字」的樣本檔（.dat）。
//
// 這是引擎的外部協作者：格式錯誤在這裡浮現，
// 有限性（NaN/Inf 拒絕）則由 SampleSet 建構時把關。
package loader

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/zintix-labs/permlab/errs"
)

// LoadF64s 讀取 path 指向的檔案，每個非空白行解析為一個 float64。
//
// 空白行跳過；任何一行解析失敗即回傳帶行號的錯誤（fail-fast，
// 不會回傳解析到一半的樣本）。
func LoadF64s(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(err, "open sample file failed: "+path)
	}
	defer f.Close()

	vals := make([]float64, 0, 64)
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		v, perr := strconv.ParseFloat(s, 64)
		if perr != nil {
			return nil, errs.Warnf("parse %s line %d: not a float64: %q", path, line, s)
		}
		vals = append(vals, v)
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(err, "read sample file failed: "+path)
	}
	if len(vals) == 0 {
		return nil, errs.Warnf("sample file %s holds no values", path)
	}
	return vals, nil
}
