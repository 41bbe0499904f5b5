// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package inference

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadModelValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name: "valid single layer",
			content: `{"input_edge": 2,
				"layers": [{"weights": [[1,0,0,0],[0,0,0,1]], "biases": [0,0]}]}`,
			wantErr: false,
		},
		{
			name:    "missing input edge",
			content: `{"layers": [{"weights": [[1]], "biases": [0]}]}`,
			wantErr: true,
		},
		{
			name:    "no layers",
			content: `{"input_edge": 2, "layers": []}`,
			wantErr: true,
		},
		{
			name: "weight row width mismatch",
			content: `{"input_edge": 2,
				"layers": [{"weights": [[1,0]], "biases": [0]}]}`,
			wantErr: true,
		},
		{
			name: "bias count mismatch",
			content: `{"input_edge": 2,
				"layers": [{"weights": [[1,0,0,0]], "biases": [0,0]}]}`,
			wantErr: true,
		},
		{
			name: "unknown activation",
			content: `{"input_edge": 2,
				"layers": [{"weights": [[1,0,0,0]], "biases": [0], "activation": "tanh"}]}`,
			wantErr: true,
		},
		{
			name:    "not json",
			content: `weights here`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadModel(writeModel(t, tt.content))
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadModel error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadModelMissingFile(t *testing.T) {
	if _, err := LoadModel(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing model file")
	}
	if _, err := LoadModel(""); err == nil {
		t.Error("expected error for empty model path")
	}
}

func TestModelPredict(t *testing.T) {
	// 2x2 input; the first unit picks the top-left pixel, the second the
	// bottom-right.
	path := writeModel(t, `{"input_edge": 2,
		"layers": [{"weights": [[1,0,0,0],[0,0,0,1]], "biases": [0,0]}]}`)

	model, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	if model.InputEdge() != 2 {
		t.Errorf("InputEdge() = %d, want 2", model.InputEdge())
	}
	if model.OutputWidth() != 2 {
		t.Errorf("OutputWidth() = %d, want 2", model.OutputWidth())
	}

	preds, err := model.Predict([]float64{0.9, 0, 0, 0.1})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if preds[0] != 0.9 || preds[1] != 0.1 {
		t.Errorf("Predict = %v, want [0.9 0.1]", preds)
	}
}

func TestModelPredictWrongInputWidth(t *testing.T) {
	path := writeModel(t, `{"input_edge": 2,
		"layers": [{"weights": [[1,0,0,0]], "biases": [0]}]}`)

	model, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	if _, err := model.Predict([]float64{1, 2}); err == nil {
		t.Error("expected error for wrong input width")
	}
}

func TestSoftmaxNormalizes(t *testing.T) {
	path := writeModel(t, `{"input_edge": 1,
		"layers": [{"weights": [[2],[1],[0.5]], "biases": [0,0,0], "activation": "softmax"}]}`)

	model, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	preds, err := model.Predict([]float64{1})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	var sum float64
	for _, p := range preds {
		if p < 0 || p > 1 {
			t.Errorf("softmax output %v outside [0,1]", p)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("softmax outputs sum to %v, want 1", sum)
	}
	if preds[0] <= preds[1] || preds[1] <= preds[2] {
		t.Errorf("softmax should preserve ordering, got %v", preds)
	}
}

func TestReluClampsNegatives(t *testing.T) {
	path := writeModel(t, `{"input_edge": 1,
		"layers": [{"weights": [[-1],[1]], "biases": [0,0], "activation": "relu"}]}`)

	model, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	preds, err := model.Predict([]float64{1})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if preds[0] != 0 {
		t.Errorf("relu should clamp negative to 0, got %v", preds[0])
	}
	if preds[1] != 1 {
		t.Errorf("positive value should pass through relu, got %v", preds[1])
	}
}

func TestLoadLabels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metadata.json")
	if err := os.WriteFile(path, []byte(`{"labels":["cat","dog"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	labels, err := LoadLabels(path)
	if err != nil {
		t.Fatalf("LoadLabels failed: %v", err)
	}
	if len(labels) != 2 || labels[0] != "cat" || labels[1] != "dog" {
		t.Errorf("unexpected labels %v", labels)
	}

	// Empty path degrades to no table, not an error.
	labels, err = LoadLabels("")
	if err != nil || labels != nil {
		t.Errorf("LoadLabels(\"\") = %v, %v; want nil, nil", labels, err)
	}

	// Missing file is an error the caller may choose to ignore.
	if _, err := LoadLabels(filepath.Join(dir, "nope.json")); err == nil {
		t.Error("expected error for missing metadata file")
	}
}

func TestDecodeImageDimensionsAndRange(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.Gray{Y: uint8(x * 25)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	features, err := DecodeImage(buf.Bytes(), 4)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if len(features) != 16 {
		t.Fatalf("expected 16 features, got %d", len(features))
	}
	for i, f := range features {
		if f < 0 || f > 1 {
			t.Errorf("feature %d = %v outside [0,1]", i, f)
		}
	}
}

func TestDecodeImageSolidColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	features, err := DecodeImage(buf.Bytes(), 2)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	for i, f := range features {
		if math.Abs(f-1.0) > 1e-6 {
			t.Errorf("white pixel feature %d = %v, want 1.0", i, f)
		}
	}
}

func TestDecodeImageInvalidInput(t *testing.T) {
	if _, err := DecodeImage(nil, 4); err == nil {
		t.Error("expected error for nil data")
	}
	if _, err := DecodeImage([]byte("junk"), 4); err == nil {
		t.Error("expected error for junk data")
	}

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeImage(buf.Bytes(), 0); err == nil {
		t.Error("expected error for non-positive edge")
	}
}
