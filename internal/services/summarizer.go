package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/logger"
	"tenderhub/insight-api/internal/models"
)

const (
	EmptySummary = "No content available to summarize."

	DefaultSummaryMaxLength = 120
	DefaultSummaryMinLength = 30
	DefaultMaxInputChars    = 4000

	fallbackSentences = 3
	truncationLimit   = 300
	ellipsis          = "..."
)

// SummaryModel is a text summarization backend.
type SummaryModel interface {
	Name() string
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
}

// Summary is the outcome of a summarization, with the tier that produced it.
type Summary struct {
	Text   string
	Method string
	Model  string
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) Summary
	ModelLoaded() bool
	ModelName() string
}

type SummarizerOptions struct {
	MaxLength     int
	MinLength     int
	MaxInputChars int
	Timeout       time.Duration
}

type summarizer struct {
	model SummaryModel
	pool  ModelPool
	opts  SummarizerOptions
	log   *zap.Logger
}

// NewSummarizer wires a model backend behind the fallback chain. A nil model
// disables the model tier; a nil pool runs model calls on the caller's goroutine.
func NewSummarizer(model SummaryModel, pool ModelPool, opts SummarizerOptions, log *zap.Logger) Summarizer {
	if opts.MaxLength <= 0 {
		opts.MaxLength = DefaultSummaryMaxLength
	}
	if opts.MinLength <= 0 || opts.MinLength > opts.MaxLength {
		opts.MinLength = min(DefaultSummaryMinLength, opts.MaxLength)
	}
	if opts.MaxInputChars <= 0 {
		opts.MaxInputChars = DefaultMaxInputChars
	}

	return &summarizer{model: model, pool: pool, opts: opts, log: logger.OrNop(log)}
}

func (s *summarizer) ModelLoaded() bool {
	return s.model != nil
}

func (s *summarizer) ModelName() string {
	if s.model == nil {
		return models.SummaryMethodExtractive
	}
	return s.model.Name()
}

// Summarize never fails. It degrades from the model to extractive selection to truncation.
func (s *summarizer) Summarize(ctx context.Context, text string) Summary {
	text = Clean(text)
	if text == "" {
		return Summary{Text: EmptySummary, Method: models.SummaryMethodEmpty}
	}

	if len(text) > s.opts.MaxInputChars {
		text = text[:s.opts.MaxInputChars]
	}

	if s.model != nil {
		out, err := s.callModel(ctx, text)
		if err == nil {
			return Summary{Text: out, Method: models.SummaryMethodModel, Model: s.model.Name()}
		}
		s.log.Warn("summarization model failed, using fallback",
			zap.String("model", s.model.Name()),
			zap.Error(err),
		)
	}

	return Fallback(text)
}

func (s *summarizer) callModel(ctx context.Context, text string) (string, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	call := func(ctx context.Context) (string, error) {
		return s.model.Summarize(ctx, text, s.opts.MaxLength, s.opts.MinLength)
	}

	var (
		out string
		err error
	)
	if s.pool != nil {
		out, err = s.pool.Do(ctx, call)
	} else {
		out, err = call(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrModelUnavailable, err)
	}

	out = Clean(out)
	if out == "" {
		return "", fmt.Errorf("%w: empty model output", apperrors.ErrModelUnavailable)
	}
	return out, nil
}

// Fallback summarizes without a model: the first three sentences when the text
// has at least three, otherwise a 300 character prefix.
func Fallback(text string) Summary {
	sentences := strings.Split(text, ". ")
	if len(sentences) >= fallbackSentences {
		if len(sentences) == fallbackSentences {
			return Summary{Text: text, Method: models.SummaryMethodExtractive}
		}
		return Summary{
			Text:   strings.Join(sentences[:fallbackSentences], ". ") + ".",
			Method: models.SummaryMethodExtractive,
		}
	}

	if len(text) > truncationLimit {
		return Summary{
			Text:   text[:truncationLimit-len(ellipsis)] + ellipsis,
			Method: models.SummaryMethodTruncation,
		}
	}
	return Summary{Text: text, Method: models.SummaryMethodTruncation}
}
