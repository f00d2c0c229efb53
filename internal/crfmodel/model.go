package crfmodel

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/hurttlocker/yomail/internal/crf"
)

// File format: yomail-crf v1
// Header: magic(8) + version(4) + numLabels(4) + numFeatures(4)
// Per feature: nameLen(4) + name(nameLen) + weight(8) * numLabels
// Bias: weight(8) * numLabels
// Transition: weight(8) * numLabels * numLabels
// Labels are not stored; both reader and writer use crf.Labels' fixed
// order, matched against the sidecar's label_set for a sanity check.
const magic = "YMLCRF01"

// Save writes model's weights to path in the binary format above and a
// human-readable metadata sidecar to path+".yaml".
func Save(path string, model *crf.Model, algorithm string, trainedAt time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating model file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte(magic)); err != nil {
		return err
	}
	if err := writeInt32(f, 1); err != nil {
		return err
	}
	if err := writeInt32(f, int32(len(crf.Labels))); err != nil {
		return err
	}

	features := make([]string, 0, len(model.StateW))
	for name := range model.StateW {
		features = append(features, name)
	}
	if err := writeInt32(f, int32(len(features))); err != nil {
		return err
	}
	for _, name := range features {
		if err := writeString(f, name); err != nil {
			return err
		}
		for _, label := range crf.Labels {
			if err := writeFloat64(f, model.StateW[name][label]); err != nil {
				return err
			}
		}
	}

	for _, label := range crf.Labels {
		if err := writeFloat64(f, model.Bias[label]); err != nil {
			return err
		}
	}

	for _, prev := range crf.Labels {
		for _, cur := range crf.Labels {
			if err := writeFloat64(f, model.Transition[prev][cur]); err != nil {
				return err
			}
		}
	}

	if err := f.Sync(); err != nil {
		return err
	}

	timestamp := strftime.Format("%Y-%m-%dT%H:%M:%SZ", trainedAt.UTC())

	return saveMetadataFile(sidecarPath(path), Metadata{
		LabelSet:               labelNames(crf.Labels),
		FeatureTemplateVersion: "1",
		Algorithm:              algorithm,
		TrainedAt:              timestamp,
	})
}

// Load reads a model file written by Save, along with its metadata
// sidecar.
func Load(path string) (*crf.Model, Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("opening model file: %w", err)
	}
	defer f.Close()

	magicBuf := make([]byte, len(magic))
	if _, err := io.ReadFull(f, magicBuf); err != nil {
		return nil, Metadata{}, fmt.Errorf("reading magic: %w", err)
	}
	if string(magicBuf) != magic {
		return nil, Metadata{}, fmt.Errorf("invalid model file magic: %q", string(magicBuf))
	}

	version, err := readInt32(f)
	if err != nil {
		return nil, Metadata{}, err
	}
	if version != 1 {
		return nil, Metadata{}, fmt.Errorf("unsupported model file version: %d", version)
	}

	numLabels, err := readInt32(f)
	if err != nil {
		return nil, Metadata{}, err
	}
	if int(numLabels) != len(crf.Labels) {
		return nil, Metadata{}, fmt.Errorf("model file has %d labels, expected %d", numLabels, len(crf.Labels))
	}

	numFeatures, err := readInt32(f)
	if err != nil {
		return nil, Metadata{}, err
	}

	model := crf.NewModel(crf.Labels)
	for i := int32(0); i < numFeatures; i++ {
		name, err := readString(f)
		if err != nil {
			return nil, Metadata{}, fmt.Errorf("reading feature %d name: %w", i, err)
		}
		weights := make(map[crf.Label]float64, len(crf.Labels))
		for _, label := range crf.Labels {
			w, err := readFloat64(f)
			if err != nil {
				return nil, Metadata{}, fmt.Errorf("reading feature %q weight: %w", name, err)
			}
			weights[label] = w
		}
		model.StateW[name] = weights
	}

	for _, label := range crf.Labels {
		w, err := readFloat64(f)
		if err != nil {
			return nil, Metadata{}, fmt.Errorf("reading bias: %w", err)
		}
		model.Bias[label] = w
	}

	for _, prev := range crf.Labels {
		for _, cur := range crf.Labels {
			w, err := readFloat64(f)
			if err != nil {
				return nil, Metadata{}, fmt.Errorf("reading transition: %w", err)
			}
			model.Transition[prev][cur] = w
		}
	}

	meta, err := loadMetadataFile(sidecarPath(path))
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("reading model metadata sidecar: %w", err)
	}
	if len(meta.LabelSet) != len(crf.Labels) {
		return nil, Metadata{}, fmt.Errorf("model metadata label_set has %d labels, expected %d", len(meta.LabelSet), len(crf.Labels))
	}
	for i, label := range crf.Labels {
		if meta.LabelSet[i] != string(label) {
			return nil, Metadata{}, fmt.Errorf("model metadata label_set[%d] = %q, expected %q", i, meta.LabelSet[i], label)
		}
	}

	return model, meta, nil
}

func writeInt32(w io.Writer, v int32) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func writeFloat64(w io.Writer, v float64) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func writeString(w io.Writer, s string) error {
	if err := writeInt32(w, int32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readInt32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readFloat64(r io.Reader) (float64, error) {
	var v float64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readString(r io.Reader) (string, error) {
	n, err := readInt32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
