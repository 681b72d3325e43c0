package forensic

import (
	"bytes"
	"context"
	"image"
	"log/slog"

	// Register decoders for the formats receipts arrive in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nao1215/receiptscan/internal/model"
)

// Sub-score combination weights. ELA and noise carry more weight because
// they respond directly to pixel-level tampering; compression and edge are
// weaker corroborating heuristics.
const (
	weightELA         = 0.30
	weightNoise       = 0.30
	weightCompression = 0.20
	weightEdge        = 0.20
)

// techniqueThreshold is the sub-score above which a named manipulation
// technique is added to the signal. Each sub-score is judged independently.
const techniqueThreshold = 60

// DefaultELAQuality is the JPEG quality used for the ELA reference
// re-encoding. Legitimate single-generation JPEGs show bounded error when
// re-encoded near their original quality.
const DefaultELAQuality = 95

// DefaultNoiseDivisor scales the Laplacian variance onto the 0-100 range.
const DefaultNoiseDivisor = 1000.0

// Engine computes forensic manipulation scores for receipt images.
type Engine struct {
	// elaQuality is the JPEG quality for the ELA reference re-encoding.
	elaQuality int

	// noiseDivisor scales Laplacian variance to the 0-100 sub-score range.
	noiseDivisor float64

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithELAQuality sets the JPEG quality for the ELA reference re-encoding.
// Values outside [1,100] are ignored.
func WithELAQuality(quality int) Option {
	return func(e *Engine) {
		if quality >= 1 && quality <= 100 {
			e.elaQuality = quality
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a forensic engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		elaQuality:   DefaultELAQuality,
		noiseDivisor: DefaultNoiseDivisor,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Score analyzes the raw image bytes and returns the forensic signal.
// It never returns an error: sub-scores that cannot be computed are
// substituted with 0 so that forensic trouble cannot sink the pipeline.
func (e *Engine) Score(ctx context.Context, data []byte) model.ForensicSignal {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		e.logger.Warn("forensic: image decode failed, scoring zero", "error", err)
		return e.combine(0, 0, 0, 0)
	}

	ela := e.subScore("ela", func() (float64, error) {
		return e.elaScore(img)
	})

	if ctx.Err() != nil {
		return e.combine(ela, 0, 0, 0)
	}

	noise := e.subScore("noise", func() (float64, error) {
		return e.noiseScore(img)
	})

	if ctx.Err() != nil {
		return e.combine(ela, noise, 0, 0)
	}

	compression := e.subScore("compression", func() (float64, error) {
		return e.compressionScore(img, format)
	})

	edge := e.subScore("edge", func() (float64, error) {
		return e.edgeScore(img)
	})

	return e.combine(ela, noise, compression, edge)
}

// subScore runs one sub-score computation with local failure containment.
// Errors and panics both degrade to a 0 sub-score.
func (e *Engine) subScore(name string, fn func() (float64, error)) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("forensic: sub-score panicked, scoring zero",
				"sub_score", name,
				"panic", r,
			)
			score = 0
		}
	}()

	score, err := fn()
	if err != nil {
		e.logger.Debug("forensic: sub-score failed, scoring zero",
			"sub_score", name,
			"error", err,
		)
		return 0
	}
	return score
}

// combine produces the final signal from the four sub-scores.
func (e *Engine) combine(ela, noise, compression, edge float64) model.ForensicSignal {
	// Truncation toward zero is intentional: the combined score is an
	// integer estimate, not a rounded one.
	manipulation := int(ela*weightELA + noise*weightNoise + compression*weightCompression + edge*weightEdge)

	techniques := make([]string, 0)
	if ela > techniqueThreshold {
		techniques = append(techniques, "JPEG compression anomalies")
	}
	if noise > techniqueThreshold {
		techniques = append(techniques, "Inconsistent noise patterns")
	}
	if compression > techniqueThreshold {
		techniques = append(techniques, "Multiple compression cycles")
	}
	if edge > techniqueThreshold {
		techniques = append(techniques, "Edge tampering detected")
	}

	return model.ForensicSignal{
		ELAScore:           ela,
		NoiseScore:         noise,
		CompressionScore:   compression,
		EdgeScore:          edge,
		ManipulationScore:  manipulation,
		TechniquesDetected: techniques,
		Verdict:            model.ForensicVerdictFor(manipulation),
	}
}
