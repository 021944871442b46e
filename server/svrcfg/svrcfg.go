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

package svrcfg

import (
	"log/slog"

	"github.com/zintix-labs/permlab/errs"
	"github.com/zintix-labs/permlab/server/logger"
	"github.com/zintix-labs/permlab/spec"
)

// SvrCfg 是 server 組裝所需的依賴與限制。
type SvrCfg struct {
	Log *slog.Logger
	// MaxTrials 限制單一 HTTP 請求允許的試驗次數。
	// 檢定是 CPU-bound 的同步工作，邊界必須擋住過大的請求。
	MaxTrials int
	// MaxWorkers 限制單一請求的 worker 數（0 交給引擎自動）。
	MaxWorkers int
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}

	// 1 <= MaxTrials <= spec.MaxTrials
	if sc.MaxTrials < 1 {
		sc.MaxTrials = spec.MaxTrials
	}
	sc.MaxTrials = min(spec.MaxTrials, sc.MaxTrials)

	if sc.MaxWorkers < 0 {
		sc.MaxWorkers = 0
	}
	return nil
}
