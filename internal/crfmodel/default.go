// Package crfmodel is the opaque, persistable CRF model artifact: a
// binary weight file plus a YAML metadata sidecar, and the small bundled
// default model loaded when no model_path is given.
package crfmodel

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hurttlocker/yomail/internal/crf"
)

//go:embed data/default_model.yaml
var defaultModelYAML []byte

// rawModel is the YAML shape of a hand-authored or exported model: maps
// keyed by label name rather than crf.Label, since YAML keys are strings.
type rawModel struct {
	FeatureTemplateVersion string                        `yaml:"feature_template_version"`
	Algorithm              string                        `yaml:"algorithm"`
	TrainedAt              string                        `yaml:"trained_at"`
	StateWeights           map[string]map[string]float64 `yaml:"state_weights"`
	Bias                   map[string]float64            `yaml:"bias"`
	Transition             map[string]map[string]float64 `yaml:"transition"`
}

var (
	defaultOnce  sync.Once
	defaultModel *crf.Model
	defaultMeta  Metadata
	defaultErr   error
)

// Default returns the bundled model and its metadata, parsed once and
// cached for the lifetime of the process.
func Default() (*crf.Model, Metadata, error) {
	defaultOnce.Do(func() {
		defaultModel, defaultMeta, defaultErr = parseYAMLModel(defaultModelYAML)
	})
	return defaultModel, defaultMeta, defaultErr
}

func parseYAMLModel(raw []byte) (*crf.Model, Metadata, error) {
	var rm rawModel
	if err := yaml.Unmarshal(raw, &rm); err != nil {
		return nil, Metadata{}, fmt.Errorf("parsing model yaml: %w", err)
	}

	model := crf.NewModel(crf.Labels)

	for feature, byLabel := range rm.StateWeights {
		weights := make(map[crf.Label]float64, len(byLabel))
		for labelName, w := range byLabel {
			weights[crf.Label(labelName)] = w
		}
		model.StateW[feature] = weights
	}
	for labelName, w := range rm.Bias {
		model.Bias[crf.Label(labelName)] = w
	}
	for prevName, byCur := range rm.Transition {
		row := make(map[crf.Label]float64, len(byCur))
		for curName, w := range byCur {
			row[crf.Label(curName)] = w
		}
		model.Transition[crf.Label(prevName)] = row
	}

	meta := Metadata{
		LabelSet:               labelNames(crf.Labels),
		FeatureTemplateVersion: rm.FeatureTemplateVersion,
		Algorithm:              rm.Algorithm,
		TrainedAt:              rm.TrainedAt,
	}

	return model, meta, nil
}

func labelNames(labels []crf.Label) []string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = string(l)
	}
	return names
}
