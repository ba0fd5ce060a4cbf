// Command inflection-eval generates Icelandic noun-phrase inflection
// evaluation data. It ranks noun and adjective vocabularies into frequency
// buckets, samples adjective/noun pairs per bucket and writes one JSONL file
// of full case/number paradigms per difficulty tier.
//
// Flags:
//
//	--mode    nouns|adjectives|generate|all|migrate|import|export (required)
//	--count   pairs per bucket (default from config, 20)
//	--seed    random seed; 0 derives one from the clock (default from config)
//	--config  path to YAML config file (default: $CONFIG_PATH or ./config.yaml)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mideind/IcelandicEval/internal/app"
)

func main() {
	modeFlag := flag.String("mode", "", "one of "+strings.Join(app.Modes(), ", "))
	countFlag := flag.Int("count", 20, "pairs per bucket")
	seedFlag := flag.Uint64("seed", 0, "random seed (0 = derived from the clock)")
	configFlag := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	opts := app.Options{Mode: *modeFlag, ConfigPath: *configFlag}
	// Only flags given on the command line override the config.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "count":
			opts.Count = countFlag
		case "seed":
			opts.Seed = seedFlag
		}
	})

	if opts.Mode == "" {
		fmt.Fprintln(os.Stderr, "inflection-eval: --mode is required")
		flag.Usage()
		os.Exit(1)
	}

	if err := app.Run(context.Background(), opts); err != nil {
		slog.Error("run failed", slog.String("mode", opts.Mode), slog.String("error", err.Error()))
		os.Exit(1)
	}
}
