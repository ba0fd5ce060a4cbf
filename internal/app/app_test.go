package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mideind/IcelandicEval/internal/config"
	"github.com/mideind/IcelandicEval/internal/domain"
	"github.com/mideind/IcelandicEval/internal/pipeline"
)

func testdataDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(file), "testdata")
}

// writeConfig writes a memory-backend config reading from dataDir and
// writing into a fresh output dir.
func writeConfig(t *testing.T, dataDir string) (path, outDir string) {
	t.Helper()
	dir := t.TempDir()
	outDir = filepath.Join(dir, "out")
	body := fmt.Sprintf(`log:
  level: error
data:
  dir: %q
  output_dir: %q
generate:
  count: 1
  seed: 5
  record_format: chat
`, dataDir, outDir)
	path = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path, outDir
}

func TestRun_AllMode(t *testing.T) {
	cfgPath, outDir := writeConfig(t, testdataDir(t))

	err := Run(context.Background(), Options{Mode: ModeAll, ConfigPath: cfgPath})
	require.NoError(t, err)

	for _, name := range []string{
		"nouns-0.txt", "nouns-1.txt", "nouns-2.txt",
		"adj-0.txt", "adj-1.txt", "adj-2.txt",
		"icelandic-inflection-hard.jsonl",
		"icelandic-inflection-medium.jsonl",
		"icelandic-inflection-easy.jsonl",
		pipeline.SummaryFile,
	} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}

	medium, err := os.ReadFile(filepath.Join(outDir, "icelandic-inflection-medium.jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(medium), `"role":"system"`)
	assert.Contains(t, string(medium), "stór stóll")
}

func TestRun_CountOverride(t *testing.T) {
	cfgPath, outDir := writeConfig(t, testdataDir(t))
	count := 2

	err := Run(context.Background(), Options{Mode: ModeAll, ConfigPath: cfgPath, Count: &count})
	require.ErrorIs(t, err, domain.ErrInsufficientBucketSize)

	// The summary records the failed phase.
	summary, readErr := os.ReadFile(filepath.Join(outDir, pipeline.SummaryFile))
	require.NoError(t, readErr)
	assert.Contains(t, string(summary), "name: generate")
}

func TestRun_ExportMode(t *testing.T) {
	dataDir := t.TempDir()
	lexicon, err := os.ReadFile(filepath.Join(testdataDir(t), "bin.csv"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "bin.csv"), lexicon, 0o644))
	cfgPath, _ := writeConfig(t, dataDir)

	require.NoError(t, Run(context.Background(), Options{Mode: ModeExport, ConfigPath: cfgPath}))

	nouns, err := os.ReadFile(filepath.Join(dataDir, "nouns.csv"))
	require.NoError(t, err)
	assert.Equal(t, "borð,hk\nstóll,kk\nkona,kvk\n", string(nouns))

	adjectives, err := os.ReadFile(filepath.Join(dataDir, "adjectives.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"dýr", "stór", "skýr"}, strings.Fields(string(adjectives)))
}

func TestRun_UnknownMode(t *testing.T) {
	err := Run(context.Background(), Options{Mode: "verbs"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRun_MigrateNeedsDSN(t *testing.T) {
	cfgPath, _ := writeConfig(t, testdataDir(t))
	t.Setenv("DATABASE_DSN", "")

	err := Run(context.Background(), Options{Mode: ModeMigrate, ConfigPath: cfgPath})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApplyOptions(t *testing.T) {
	cfg := &config.Config{Generate: config.GenerateConfig{Count: 20, Seed: 0}}

	count, seed := 5, uint64(77)
	require.NoError(t, applyOptions(cfg, Options{Count: &count, Seed: &seed}))
	assert.Equal(t, 5, cfg.Generate.Count)
	assert.Equal(t, uint64(77), cfg.Generate.Seed)

	bad := 0
	assert.ErrorIs(t, applyOptions(cfg, Options{Count: &bad}), domain.ErrValidation)
	assert.Equal(t, 5, cfg.Generate.Count)
}

func TestPipelineConfig(t *testing.T) {
	cfg := &config.Config{
		Data: config.DataConfig{Dir: "/data", NounsFile: "nouns.csv", AdjectivesFile: "/abs/adj.csv", OutputDir: "out"},
		Buckets: config.BucketConfig{
			Workers:         3,
			AvoidNouns:      []string{"nam"},
			AvoidAdjectives: []string{"gar"},
			SkipSuffixes:    []string{"legur"},
		},
		Generate: config.GenerateConfig{Count: 20, RecordFormat: "chat", Workers: 2},
	}

	pcfg, err := pipelineConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/data/nouns.csv", pcfg.NounsPath)
	assert.Equal(t, "/abs/adj.csv", pcfg.AdjectivesPath)
	assert.True(t, pcfg.NounFilter.Avoid["nam"])
	assert.Equal(t, []string{"legur"}, pcfg.AdjectiveFilter.SkipSuffixes)
	assert.Equal(t, "chat", pcfg.Format.String())

	cfg.Generate.RecordFormat = "xml"
	_, err = pipelineConfig(cfg)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
