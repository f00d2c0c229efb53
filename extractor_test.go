package yomail

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hurttlocker/yomail/internal/crf"
	"github.com/hurttlocker/yomail/internal/crfmodel"
)

// biasedModel builds a small hand-weighted model that reliably separates
// greeting/closing/signature lines from body lines, for testing the
// wiring of the full pipeline rather than CRF convergence behavior.
func biasedModel() *crf.Model {
	m := crf.NewModel(crf.Labels)
	m.StateW["is_greeting"] = map[crf.Label]float64{crf.Greeting: 6.0}
	m.StateW["is_closing"] = map[crf.Label]float64{crf.Closing: 6.0}
	m.StateW["has_contact_info"] = map[crf.Label]float64{crf.Signature: 4.0}
	m.StateW["has_company_pattern"] = map[crf.Label]float64{crf.Signature: 4.0}
	m.StateW["has_name_pattern"] = map[crf.Label]float64{crf.Signature: 3.0}
	m.StateW["is_inside_quotation_marks"] = map[crf.Label]float64{crf.Quote: 4.0}
	m.Bias[crf.Body] = 2.0
	return m
}

func extractorWithBiasedModel(t *testing.T, threshold float64) *Extractor {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.bin")
	if err := crfmodel.Save(path, biasedModel(), "ap", time.Now()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	e, err := NewExtractor(path, threshold)
	if err != nil {
		t.Fatalf("NewExtractor() error: %v", err)
	}
	return e
}

func TestExtractReturnsBodyOnly(t *testing.T) {
	e := extractorWithBiasedModel(t, 0.01)

	email := strings.Join([]string{
		"いつもお世話になっております。",
		"",
		"ご依頼いただいた資料を送付いたします。",
		"ご確認のほどよろしくお願いいたします。",
		"",
		"よろしくお願いいたします。",
		"",
		"田中太郎",
		"株式会社サンプル",
		"TEL: 03-1234-5678",
	}, "\n")

	body, err := e.Extract(email)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if !strings.Contains(body, "資料を送付") {
		t.Fatalf("expected body content retained, got %q", body)
	}
	if strings.Contains(body, "田中太郎") || strings.Contains(body, "TEL") {
		t.Fatalf("expected signature excluded from body, got %q", body)
	}
}

func TestExtractEmptyInputIsInvalidInput(t *testing.T) {
	e := extractorWithBiasedModel(t, 0.01)

	_, err := e.Extract("   \n\n  ")
	if err == nil {
		t.Fatal("expected an error for blank input")
	}
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidInputError, got %T: %v", err, err)
	}
}

func TestExtractSafeReturnsNilOnFailure(t *testing.T) {
	e := extractorWithBiasedModel(t, 0.01)

	got := e.ExtractSafe("")
	if got != nil {
		t.Fatalf("expected nil for empty input, got %q", *got)
	}
}

func TestExtractLowConfidenceThreshold(t *testing.T) {
	e := extractorWithBiasedModel(t, 0.999999)

	_, err := e.Extract("いつもお世話になっております。\n本文です。\nよろしくお願いいたします。")
	var lowConf *LowConfidenceError
	if !errors.As(err, &lowConf) {
		t.Fatalf("expected *LowConfidenceError with an unreachable threshold, got %T: %v", err, err)
	}
}

func TestExtractWithMetadataDefaultModelLoads(t *testing.T) {
	e, err := NewExtractor("", DefaultConfidenceThreshold)
	if err != nil {
		t.Fatalf("NewExtractor() with bundled model error: %v", err)
	}
	if !e.IsModelLoaded() {
		t.Fatal("expected bundled model to report loaded")
	}

	result := e.ExtractWithMetadata("いつもお世話になっております。\n本文の内容です。\nよろしくお願いいたします。")
	if result.Err != nil && result.Success {
		t.Fatal("Success and Err should not both be set")
	}
}
