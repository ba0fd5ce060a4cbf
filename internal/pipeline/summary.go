package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SummaryFile is the name of the run summary written into the output dir.
const SummaryFile = "run-summary.yaml"

// Summary describes a finished run.
type Summary struct {
	RunID      string         `yaml:"run_id"`
	Version    string         `yaml:"version,omitempty"`
	Seed       uint64         `yaml:"seed"`
	Count      int            `yaml:"count"`
	Format     string         `yaml:"record_format"`
	StartedAt  time.Time      `yaml:"started_at"`
	FinishedAt time.Time      `yaml:"finished_at"`
	Phases     []PhaseSummary `yaml:"phases"`
}

// PhaseSummary is the serialized form of a PhaseResult.
type PhaseSummary struct {
	Name     string         `yaml:"name"`
	Written  int            `yaml:"written"`
	Skipped  int            `yaml:"skipped"`
	Errors   int            `yaml:"errors"`
	Duration string         `yaml:"duration"`
	Error    string         `yaml:"error,omitempty"`
	Details  map[string]int `yaml:"details,omitempty"`
}

// Summary returns the summary of the phases run so far, in run order.
func (p *Pipeline) Summary() Summary {
	s := Summary{
		RunID:      p.runID.String(),
		Version:    p.cfg.Version,
		Seed:       p.seed,
		Count:      p.cfg.Count,
		Format:     p.cfg.Format.String(),
		StartedAt:  p.started.UTC(),
		FinishedAt: time.Now().UTC(),
	}
	for _, name := range p.order {
		r := p.results[name]
		ps := PhaseSummary{
			Name:     name,
			Written:  r.Written,
			Skipped:  r.Skipped,
			Errors:   r.Errors,
			Duration: r.Duration.Round(time.Millisecond).String(),
			Details:  r.Details,
		}
		if r.Err != nil {
			ps.Error = r.Err.Error()
		}
		s.Phases = append(s.Phases, ps)
	}
	return s
}

// WriteSummary writes the run summary as YAML into the output dir and
// returns its path.
func (p *Pipeline) WriteSummary() (string, error) {
	data, err := yaml.Marshal(p.Summary())
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(p.cfg.OutputDir, SummaryFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
