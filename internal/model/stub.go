package model

// Stub is a deterministic stand-in classifier used when no trained model
// artifact is available. It returns a uniform distribution so every
// downstream path stays exercisable in development and tests.
type Stub struct {
	classes int
}

func NewStub(classes int) *Stub {
	if classes < 1 {
		classes = 1
	}
	return &Stub{classes: classes}
}

func (s *Stub) Infer(data []float32) ([]float32, error) {
	dist := make([]float32, s.classes)
	p := float32(1) / float32(s.classes)
	for i := range dist {
		dist[i] = p
	}
	return dist, nil
}

func (s *Stub) Ready() bool { return true }

func (s *Stub) Close() {}
