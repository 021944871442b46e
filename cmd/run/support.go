package main

import (
	"crypto/rand"
	"flag"
	"log"
	"math"
	"math/big"
	"os"
	"runtime"

	"github.com/zintix-labs/permlab"
	"github.com/zintix-labs/permlab/loader"
	"github.com/zintix-labs/permlab/sdk/core"
	"github.com/zintix-labs/permlab/spec"
	"github.com/zintix-labs/permlab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	name      string
	control   string
	treatment string
	cfgFile   string
	worker    int
	trials    int
	seed      int64
	output    string
	pprofmode string
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.StringVar(&cfg.name, "name", "", "test name for the report header")
	flag.StringVar(&cfg.control, "control", "", "path to control sample file (one value per line)")
	flag.StringVar(&cfg.treatment, "treatment", "", "path to treatment sample file (one value per line)")
	flag.StringVar(&cfg.cfgFile, "cfg", "", "path to YAML test setting file")
	flag.IntVar(&cfg.worker, "worker", 0, "number of workers (0 = all CPUs)")
	flag.IntVar(&cfg.trials, "trials", spec.DefaultTrials, "number of permutation trials")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.output, "o", spec.OutText, "output mode: text|json|yaml")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	// 設定檔只補「未由 flag 明確指定」的欄位
	applySetting()

	// given seed illeagel -> default seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
	if cfg.name == "" {
		cfg.name = "permutation-test"
	}
}

// applySetting 載入 -cfg 指定的 YAML 設定。
// 命令列明確給的 flag 優先於設定檔；設定檔只填空缺。
func applySetting() {
	if cfg.cfgFile == "" {
		return
	}
	data, err := os.ReadFile(cfg.cfgFile)
	if err != nil {
		log.Fatal(err)
	}
	ts, err := spec.GetTestSettingByYAML(data)
	if err != nil {
		log.Fatal(err)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["name"] {
		cfg.name = ts.Name
	}
	if !set["control"] && ts.ControlFile != "" {
		cfg.control = ts.ControlFile
	}
	if !set["treatment"] && ts.TreatmentFile != "" {
		cfg.treatment = ts.TreatmentFile
	}
	if !set["trials"] {
		cfg.trials = ts.Trials
	}
	if !set["worker"] {
		cfg.worker = ts.Workers
	}
	if !set["seed"] && ts.Seed != nil {
		cfg.seed = *ts.Seed
	}
	if !set["o"] {
		cfg.output = ts.Output
	}
}

// 這裡解析並執行檢定
func executeTest() {
	cfg.valid() // 基本檢查

	ctl, err := loader.LoadF64s(cfg.control)
	if err != nil {
		log.Fatal(err)
	}
	trt, err := loader.LoadF64s(cfg.treatment)
	if err != nil {
		log.Fatal(err)
	}

	t, err := permlab.NewTesterWithSeed(cfg.name, ctl, trt, core.Default(), cfg.seed)
	if err != nil {
		log.Fatal(err)
	}
	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	showpb := cfg.output == spec.OutText
	if showpb {
		p.Printf("%s[TEST:%s] [WORKERS:%d] [TRIALS:%d] [SAMPLES:%d vs %d]%s\n",
			green, cfg.name, cfg.worker, cfg.trials, len(ctl), len(trt), reset)
	}

	st, used, err := t.Run(cfg.trials, cfg.worker, showpb)
	if err != nil {
		log.Fatal(err)
	}

	switch cfg.output {
	case spec.OutJSON:
		if err := st.WriteWith(os.Stdout, &stats.JsonTestReportRender{}); err != nil {
			log.Fatal(err)
		}
	case spec.OutYAML:
		if err := st.WriteWith(os.Stdout, &stats.YAMLTestReportRender{}); err != nil {
			log.Fatal(err)
		}
	default:
		st.StdOut(used)
	}
}

func (cfg *config) valid() {
	p := message.NewPrinter(language.English)

	// 樣本檔檢查
	if cfg.control == "" {
		log.Fatal("value err : control file is required")
	}
	if cfg.treatment == "" {
		log.Fatal("value err : treatment file is required")
	}

	// 工作協程檢查(併發數)
	if cfg.worker < 0 {
		log.Fatal("value err : workers must >= 0")
	}
	if cfg.worker == 0 {
		cfg.worker = runtime.NumCPU()
	}

	// 試驗數檢查
	if cfg.trials < 1 {
		log.Fatal("value err : trials must > 0")
	}
	if cfg.trials > spec.MaxTrials {
		p.Printf("too much trials: %d resized to %d trials\n", cfg.trials, spec.MaxTrials)
		cfg.trials = spec.MaxTrials
	}

	// 輸出模式檢查
	switch cfg.output {
	case spec.OutText, spec.OutJSON, spec.OutYAML:
	default:
		log.Fatal("value err : output must be text, json or yaml")
	}
}
