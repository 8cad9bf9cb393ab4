// Package detector orchestrates the analysis pipeline: decode, quality
// screening, optional enhancement, normalization, inference and mapping
// of the raw distribution into a result with care recommendations.
package detector

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog/log"

	"github.com/greenlab/leafscan/internal/advice"
	"github.com/greenlab/leafscan/internal/enhance"
	"github.com/greenlab/leafscan/internal/model"
	"github.com/greenlab/leafscan/internal/preprocess"
	"github.com/greenlab/leafscan/internal/quality"
)

// ErrDecode is returned when the submitted bytes are not a decodable image.
var ErrDecode = errors.New("unable to decode image")

// FailedLabel is the disease field of the fallback result produced when
// inference cannot be performed.
const FailedLabel = "Analysis Failed"

var fallbackAdvice = []string{
	"Unable to analyze image. Please try again with a clearer image.",
	"Ensure the image shows a clear view of plant leaves.",
	"Contact support if the problem persists.",
}

// Options controls the optional pipeline stages and the quality thresholds.
type Options struct {
	EnhanceContrast bool
	IsolateLeaf     bool
	Gate            quality.Gate
}

// Result is the outcome of one analysis. It is built fresh per call and
// never mutated afterwards.
type Result struct {
	Disease         string             `json:"disease"`
	Confidence      float32            `json:"confidence"`
	Predictions     map[string]float32 `json:"predictions"`
	Recommendations []string           `json:"recommendations"`
	Quality         quality.Verdict    `json:"quality"`
}

// Detector runs the analysis pipeline. It holds no per-request state;
// the classifier and the advice table are shared and read-only.
type Detector struct {
	classifier model.Classifier
	labels     []string
	table      advice.Table
	opts       Options
}

func New(classifier model.Classifier, labels []string, table advice.Table, opts Options) *Detector {
	return &Detector{
		classifier: classifier,
		labels:     labels,
		table:      table,
		opts:       opts,
	}
}

// Labels returns the ordered label set the detector maps output onto.
func (d *Detector) Labels() []string {
	out := make([]string, len(d.labels))
	copy(out, d.labels)
	return out
}

// Analyze classifies the encoded image in raw. Undecodable input returns
// ErrDecode and a degenerate image returns preprocess.ErrInvalidImage;
// every other failure mode yields a well-formed result. The quality
// verdict is advisory: a rejection is logged and reported on the result
// but does not block classification.
func (d *Detector) Analyze(raw []byte) (*Result, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	log.Debug().Str("format", format).
		Int("width", img.Bounds().Dx()).Int("height", img.Bounds().Dy()).
		Msg("image decoded")

	verdict := d.opts.Gate.Evaluate(img)
	if !verdict.Accepted {
		log.Warn().Str("reason", verdict.Reason).Msg("quality check failed, classifying anyway")
	}

	if d.opts.EnhanceContrast {
		enhanced, applied := enhance.Contrast(img)
		if applied {
			img = enhanced
		}
	}
	if d.opts.IsolateLeaf {
		isolated, applied := enhance.IsolateLeaf(img)
		if applied {
			img = isolated
		}
	}

	tensor, err := preprocess.Normalize(img)
	if err != nil {
		return nil, err
	}

	return d.classify(tensor.Data, verdict), nil
}

// AnalyzeTensor classifies an already-normalized value grid, skipping the
// decode and image pipeline. Callers that preprocess client-side use this.
func (d *Detector) AnalyzeTensor(data []float32) *Result {
	return d.classify(data, quality.Verdict{
		Accepted: true,
		Reason:   "Quality not evaluated for preprocessed input",
	})
}

// classify runs inference over a normalized input and maps the output
// distribution onto the label set. Any inference failure produces the
// fallback result; this method never returns an error.
func (d *Detector) classify(data []float32, verdict quality.Verdict) *Result {
	if !d.classifier.Ready() {
		log.Error().Msg("classifier not ready")
		return d.fallback(verdict)
	}

	dist, err := d.classifier.Infer(data)
	if err != nil {
		log.Error().Err(err).Msg("inference failed")
		return d.fallback(verdict)
	}

	n := len(dist)
	if n > len(d.labels) {
		n = len(d.labels)
	}
	if n == 0 {
		log.Error().Msg("classifier returned an empty distribution")
		return d.fallback(verdict)
	}

	predictions := make(map[string]float32, n)
	top := 0
	for i := 0; i < n; i++ {
		predictions[d.labels[i]] = dist[i]
		// strict comparison keeps the first label on ties
		if dist[i] > dist[top] {
			top = i
		}
	}

	disease := d.labels[top]
	res := &Result{
		Disease:         disease,
		Confidence:      dist[top],
		Predictions:     predictions,
		Recommendations: d.table.For(disease),
		Quality:         verdict,
	}
	log.Info().Str("disease", disease).Float32("confidence", res.Confidence).Msg("detection completed")
	return res
}

func (d *Detector) fallback(verdict quality.Verdict) *Result {
	recs := make([]string, len(fallbackAdvice))
	copy(recs, fallbackAdvice)
	return &Result{
		Disease:         FailedLabel,
		Confidence:      0,
		Predictions:     map[string]float32{},
		Recommendations: recs,
		Quality:         verdict,
	}
}
