package crfmodel

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hurttlocker/yomail/internal/crf"
)

func TestDefaultModelLoadsAndScoresGreeting(t *testing.T) {
	model, meta, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if model.StateW["is_greeting"][crf.Greeting] <= 0 {
		t.Fatalf("expected positive is_greeting -> GREETING weight in bundled model")
	}
	if meta.Algorithm != "ap" {
		t.Fatalf("Algorithm = %q, want %q", meta.Algorithm, "ap")
	}
	if len(meta.LabelSet) != len(crf.Labels) {
		t.Fatalf("LabelSet len = %d, want %d", len(meta.LabelSet), len(crf.Labels))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	model := crf.NewModel(crf.Labels)
	model.StateW["is_greeting"] = map[crf.Label]float64{crf.Greeting: 3.5}
	model.Bias[crf.Body] = 1.25
	model.Transition[crf.Greeting][crf.Body] = 2.0

	path := filepath.Join(t.TempDir(), "model.bin")
	trainedAt := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	if err := Save(path, model, "ap", trainedAt); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, meta, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.StateW["is_greeting"][crf.Greeting] != 3.5 {
		t.Fatalf("state weight mismatch after round trip")
	}
	if loaded.Bias[crf.Body] != 1.25 {
		t.Fatalf("bias mismatch after round trip")
	}
	if loaded.Transition[crf.Greeting][crf.Body] != 2.0 {
		t.Fatalf("transition mismatch after round trip")
	}
	if meta.Algorithm != "ap" {
		t.Fatalf("Algorithm = %q, want %q", meta.Algorithm, "ap")
	}
	if meta.TrainedAt != "2026-01-15T10:30:00Z" {
		t.Fatalf("TrainedAt = %q, want %q", meta.TrainedAt, "2026-01-15T10:30:00Z")
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	if err := os.WriteFile(path, []byte("not-a-model-file"), 0o644); err != nil {
		t.Fatalf("setup error: %v", err)
	}
	if _, _, err := Load(path); err == nil {
		t.Fatal("expected error loading a file with invalid magic")
	}
}
