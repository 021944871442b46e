package main

import "github.com/zintix-labs/permlab/sdk/perf"

// makefile runner
func main() {
	bindVar()
	perf.RunPProf(executeTest, cfg.pprofmode)
}
