package crfmodel

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Metadata is the YAML sidecar written next to a model's binary weight
// file: everything about a model that isn't a weight.
type Metadata struct {
	LabelSet               []string `yaml:"label_set"`
	FeatureTemplateVersion string   `yaml:"feature_template_version"`
	Algorithm              string   `yaml:"algorithm"`
	TrainedAt              string   `yaml:"trained_at"`
}

func loadMetadataFile(path string) (Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, err
	}
	var meta Metadata
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

func saveMetadataFile(path string, meta Metadata) error {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func sidecarPath(modelPath string) string {
	return modelPath + ".yaml"
}
