// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// =============================================================================
// PREDICTOR INTERFACE
// =============================================================================

// Predictor runs a forward pass over a flat feature vector.
type Predictor interface {
	// Predict returns one score per output class.
	Predict(input []float64) ([]float64, error)

	// InputEdge is the side length of the square input image the predictor
	// expects; the feature vector has InputEdge*InputEdge elements.
	InputEdge() int
}

// =============================================================================
// MODEL DEFINITION
// =============================================================================

// layerDef is one dense layer in the model definition file.
type layerDef struct {
	// Weights is row-major: Weights[out][in].
	Weights [][]float64 `json:"weights"`

	// Biases has one entry per output unit.
	Biases []float64 `json:"biases"`

	// Activation is "relu", "softmax" or "linear" (default linear).
	Activation string `json:"activation"`
}

// modelDef is the on-disk model definition.
type modelDef struct {
	// InputEdge is the square input resolution in pixels.
	InputEdge int `json:"input_edge"`

	Layers []layerDef `json:"layers"`
}

// Model is a small dense feed-forward classifier loaded from a JSON
// definition file.
type Model struct {
	inputEdge int
	layers    []layerDef
}

// LoadModel reads and validates a model definition file.
func LoadModel(path string) (*Model, error) {
	if path == "" {
		return nil, errors.New("model path not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var def modelDef
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}

	if err := validateModel(&def); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}

	return &Model{inputEdge: def.InputEdge, layers: def.Layers}, nil
}

// validateModel checks layer dimensions chain correctly from the input
// vector through to the output.
func validateModel(def *modelDef) error {
	if def.InputEdge <= 0 {
		return errors.New("input_edge must be positive")
	}
	if len(def.Layers) == 0 {
		return errors.New("no layers")
	}

	width := def.InputEdge * def.InputEdge
	for i, layer := range def.Layers {
		if len(layer.Weights) == 0 || len(layer.Weights) != len(layer.Biases) {
			return fmt.Errorf("layer %d: weight rows (%d) and biases (%d) mismatch",
				i, len(layer.Weights), len(layer.Biases))
		}
		for j, row := range layer.Weights {
			if len(row) != width {
				return fmt.Errorf("layer %d row %d: expected %d weights, got %d",
					i, j, width, len(row))
			}
		}
		switch layer.Activation {
		case "", "linear", "relu", "softmax":
		default:
			return fmt.Errorf("layer %d: unknown activation %q", i, layer.Activation)
		}
		width = len(layer.Weights)
	}
	return nil
}

// InputEdge returns the square input resolution in pixels.
func (m *Model) InputEdge() int {
	return m.inputEdge
}

// OutputWidth returns the number of output classes.
func (m *Model) OutputWidth() int {
	last := m.layers[len(m.layers)-1]
	return len(last.Biases)
}

// Predict runs the forward pass.
func (m *Model) Predict(input []float64) ([]float64, error) {
	if len(input) != m.inputEdge*m.inputEdge {
		return nil, fmt.Errorf("expected %d features, got %d",
			m.inputEdge*m.inputEdge, len(input))
	}

	vec := input
	for _, layer := range m.layers {
		out := make([]float64, len(layer.Weights))
		for i, row := range layer.Weights {
			sum := layer.Biases[i]
			for j, w := range row {
				sum += w * vec[j]
			}
			out[i] = sum
		}
		applyActivation(out, layer.Activation)
		vec = out
	}
	return vec, nil
}

// applyActivation mutates the vector in place.
func applyActivation(vec []float64, activation string) {
	switch activation {
	case "relu":
		for i, v := range vec {
			if v < 0 {
				vec[i] = 0
			}
		}
	case "softmax":
		// Subtract the max before exponentiating for numeric stability.
		max := vec[0]
		for _, v := range vec {
			if v > max {
				max = v
			}
		}
		var sum float64
		for i, v := range vec {
			vec[i] = math.Exp(v - max)
			sum += vec[i]
		}
		if sum > 0 {
			for i := range vec {
				vec[i] /= sum
			}
		}
	}
}

// =============================================================================
// LABEL TABLE
// =============================================================================

// metadataDef is the on-disk metadata file carrying the label table.
type metadataDef struct {
	Labels []string `json:"labels"`
}

// LoadLabels reads the label table from a metadata file. An empty path is
// not an error: it returns a nil table and labels are synthesized.
func LoadLabels(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var def metadataDef
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return def.Labels, nil
}
