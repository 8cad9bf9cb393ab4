// Package model wraps the ONNX runtime session behind a small classifier
// interface. The model maps a normalized image tensor to one probability
// per disease class; everything else about it is opaque to callers.
package model

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	ort "github.com/yalue/onnxruntime_go"
)

// Classifier is the inference contract the orchestrator depends on.
type Classifier interface {
	// Infer runs a single forward pass over a batch-of-one input and
	// returns the raw probability vector, one entry per class.
	Infer(data []float32) ([]float32, error)
	Ready() bool
	Close()
}

// Session is the ONNX-backed Classifier. The session owns pre-allocated
// input and output tensors, so inference is serialized with a mutex:
// only one forward pass may touch those buffers at a time.
type Session struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	meta         Metadata
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

// Load builds the classifier for the given artifact paths. A missing or
// unloadable model degrades to the deterministic stub so the service
// still starts; the condition is logged, not fatal.
func Load(modelPath, metadataPath string) Classifier {
	meta, err := LoadMetadata(metadataPath)
	if err != nil {
		log.Warn().Err(err).Str("path", metadataPath).Msg("metadata unavailable, using built-in defaults")
		meta = DefaultMetadata()
	}

	if _, err := os.Stat(modelPath); err != nil {
		log.Warn().Str("path", modelPath).Msg("model artifact not found, using stub classifier")
		return NewStub(len(meta.Classes))
	}

	s, err := NewSession(modelPath, meta)
	if err != nil {
		log.Error().Err(err).Str("path", modelPath).Msg("model load failed, using stub classifier")
		return NewStub(len(meta.Classes))
	}
	log.Info().Str("path", modelPath).Int("classes", len(meta.Classes)).Msg("model loaded")
	return s
}

// NewSession initializes the ONNX environment and creates a session with
// tensors shaped per the metadata.
func NewSession(modelPath string, meta Metadata) (*Session, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Session{
		session:      session,
		meta:         meta,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// Metadata returns the metadata the session was created with.
func (s *Session) Metadata() Metadata {
	return s.meta
}

func (s *Session) Infer(data []float32) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := s.inputTensor.GetData()
	if len(data) != len(in) {
		return nil, fmt.Errorf("input size mismatch: expected %d values, got %d", len(in), len(data))
	}
	copy(in, data)

	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	// Copy out under the lock; the output buffer is reused by the next run.
	out := s.outputTensor.GetData()
	dist := make([]float32, len(out))
	copy(dist, out)
	return dist, nil
}

func (s *Session) Ready() bool {
	return s.session != nil
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inputTensor != nil {
		s.inputTensor.Destroy()
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
	}
	if s.session != nil {
		s.session.Destroy()
		s.session = nil
	}
	ort.DestroyEnvironment()
}
