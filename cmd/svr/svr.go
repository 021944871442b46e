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

package main

import (
	"flag"

	"github.com/zintix-labs/permlab/server"
	"github.com/zintix-labs/permlab/server/logger"
	"github.com/zintix-labs/permlab/server/svrcfg"
)

// This command is a "lab server" entrypoint for the permlab repo.
// It runs the permutation-test HTTP API with per-request limits.
func main() {
	cfg := loadConfigFromFlags()
	server.Run(cfg)
}

type config struct {
	LogMode    string
	MaxTrials  int
	MaxWorkers int
}

func loadConfigFromFlags() *svrcfg.SvrCfg {
	cfg := new(config)
	flag.StringVar(&cfg.LogMode, "log-mode", "ModeDev", "log mode: ModeDev|ModeProd|ModeSilence")
	flag.IntVar(&cfg.MaxTrials, "max-trials", 10_000_000, "max trials allowed per request")
	flag.IntVar(&cfg.MaxWorkers, "max-workers", 0, "max workers per request (0 = no cap)")

	flag.Parse()

	log, _ := logger.NewAsync(4096, cfg.norm())

	return &svrcfg.SvrCfg{
		Log:        log,
		MaxTrials:  cfg.MaxTrials,
		MaxWorkers: cfg.MaxWorkers,
	}
}

func (cfg *config) norm() logger.LogMode {
	switch cfg.LogMode {
	case "ModeDev":
		return logger.ModeDev
	case "ModeProd":
		return logger.ModeProd
	case "ModeSilence":
		return logger.ModeSilence
	default:
		return logger.ModeDev
	}
}
