// Package traincfg resolves training CLI configuration by layering a YAML
// config file under CLI flags, with no environment-variable layer: a
// training run
// should be exactly reproducible from a config file plus the flags on the
// command line, not perturbed by whatever happens to be in the shell.
package traincfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/hurttlocker/yomail/internal/train"
)

// ValueSource records where a ResolvedValue's value came from.
type ValueSource string

const (
	SourceConfig  ValueSource = "config"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

// ResolvedValue is a single configuration value plus its provenance, so a
// training run can log exactly what was used and why.
type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// Options carries the raw CLI flag values ResolveConfig layers over the
// config file.
type Options struct {
	ConfigPath string

	CLIAlgorithm     string
	CLIMaxIterations string
	CLICorpusPath    string
	CLIModelOutPath  string
}

// Resolved is the fully layered training configuration.
type Resolved struct {
	ConfigPath string `json:"config_path"`

	Algorithm     ResolvedValue `json:"algorithm"`
	MaxIterations ResolvedValue `json:"max_iterations"`
	CorpusPath    ResolvedValue `json:"corpus_path"`
	ModelOutPath  ResolvedValue `json:"model_out_path"`
}

type fileConfig struct {
	Algorithm     string `yaml:"algorithm"`
	MaxIterations int    `yaml:"max_iterations"`
	CorpusPath    string `yaml:"corpus_path"`
	ModelOutPath  string `yaml:"model_out_path"`
}

// DefaultConfigPath is where a training CLI looks for a config file if
// the caller doesn't name one.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".yomail", "train.yaml")
}

// ResolveConfig layers a YAML config file under CLI flag values, config
// file present or not.
func ResolveConfig(opts Options) (Resolved, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := Resolved{ConfigPath: path}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}
	if cfg != nil {
		apply(&out.Algorithm, cfg.Algorithm, SourceConfig, path)
		if cfg.MaxIterations > 0 {
			apply(&out.MaxIterations, cast.ToString(cfg.MaxIterations), SourceConfig, path)
		}
		apply(&out.CorpusPath, cfg.CorpusPath, SourceConfig, path)
		apply(&out.ModelOutPath, cfg.ModelOutPath, SourceConfig, path)
	}

	apply(&out.Algorithm, opts.CLIAlgorithm, SourceCLI, "--algorithm")
	apply(&out.MaxIterations, opts.CLIMaxIterations, SourceCLI, "--max-iterations")
	apply(&out.CorpusPath, opts.CLICorpusPath, SourceCLI, "--corpus")
	apply(&out.ModelOutPath, opts.CLIModelOutPath, SourceCLI, "--out")

	if strings.TrimSpace(out.Algorithm.Value) == "" {
		out.Algorithm = ResolvedValue{Value: "ap", Source: SourceDefault, From: "built-in default"}
	}
	if strings.TrimSpace(out.MaxIterations.Value) == "" {
		out.MaxIterations = ResolvedValue{Value: cast.ToString(train.DefaultMaxIterations), Source: SourceDefault, From: "built-in default"}
	}
	if strings.TrimSpace(out.CorpusPath.Value) == "" {
		out.CorpusPath = ResolvedValue{Value: "~/.yomail/corpus.db", Source: SourceDefault, From: "built-in default"}
	}

	out.CorpusPath.Value = expandUserPath(out.CorpusPath.Value)
	out.ModelOutPath.Value = expandUserPath(out.ModelOutPath.Value)

	return out, nil
}

// TrainConfig converts the resolved algorithm/iteration values into a
// train.Config, coercing the string-carried MaxIterations back to an int.
func (r Resolved) TrainConfig() train.Config {
	cfg := train.DefaultConfig()
	if v := strings.TrimSpace(r.Algorithm.Value); v != "" {
		cfg.Algorithm = v
	}
	if n := cast.ToInt(r.MaxIterations.Value); n > 0 {
		cfg.MaxIterations = n
	}
	return cfg
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
