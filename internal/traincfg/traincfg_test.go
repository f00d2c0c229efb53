package traincfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveConfigCLIOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train.yaml")
	if err := os.WriteFile(path, []byte("algorithm: ap\nmax_iterations: 20\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	resolved, err := ResolveConfig(Options{
		ConfigPath:       path,
		CLIMaxIterations: "80",
	})
	if err != nil {
		t.Fatalf("ResolveConfig() error: %v", err)
	}

	if resolved.Algorithm.Value != "ap" || resolved.Algorithm.Source != SourceConfig {
		t.Fatalf("Algorithm = %+v, want value ap from config", resolved.Algorithm)
	}
	if resolved.MaxIterations.Value != "80" || resolved.MaxIterations.Source != SourceCLI {
		t.Fatalf("MaxIterations = %+v, want value 80 from cli", resolved.MaxIterations)
	}
}

func TestResolveConfigMissingFileFallsBackToDefaults(t *testing.T) {
	resolved, err := ResolveConfig(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	if err != nil {
		t.Fatalf("ResolveConfig() error: %v", err)
	}
	if resolved.Algorithm.Source != SourceDefault {
		t.Fatalf("Algorithm.Source = %v, want default", resolved.Algorithm.Source)
	}
}

func TestTrainConfigCoercesMaxIterations(t *testing.T) {
	resolved, err := ResolveConfig(Options{
		ConfigPath:       filepath.Join(t.TempDir(), "missing.yaml"),
		CLIMaxIterations: "12",
	})
	if err != nil {
		t.Fatalf("ResolveConfig() error: %v", err)
	}

	cfg := resolved.TrainConfig()
	if cfg.MaxIterations != 12 {
		t.Fatalf("TrainConfig().MaxIterations = %d, want 12", cfg.MaxIterations)
	}
}
