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

// Package index 提供主頁（service banner + endpoint 清單）。
package index

import "net/http"

const indexPage = `PermLab — permutation test service

POST /v1/test       run a permutation test (control/treatment samples in body)
POST /v1/testbycfg  run a permutation test from a YAML config string + inline samples
POST /v1/stat       observed statistic and group means only (no trials)
`

// IndexHandlerFn 回應純文字的服務說明頁。
func IndexHandlerFn(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(indexPage))
}
