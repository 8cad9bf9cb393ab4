package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/greenlab/leafscan/internal/advice"
	"github.com/greenlab/leafscan/internal/preprocess"
)

// Metadata describes the model artifact: tensor shapes, the ordered class
// list and the square input size the model was trained on.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
}

// DefaultMetadata matches the shipped plant-disease model: NHWC input,
// one probability per entry in advice.Labels.
func DefaultMetadata() Metadata {
	return Metadata{
		InputShape:  []int64{1, preprocess.TargetHeight, preprocess.TargetWidth, preprocess.Channels},
		OutputShape: []int64{1, int64(len(advice.Labels))},
		Classes:     advice.Labels,
		ImageSize:   preprocess.TargetHeight,
	}
}

// LoadMetadata reads the metadata JSON at path.
func LoadMetadata(path string) (Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return meta, nil
}
