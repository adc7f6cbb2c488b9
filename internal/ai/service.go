package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/commerce-ai-bridge/internal/config"
)

const minAskTimeout = time.Second

// Service runs the direct ask flow: pick a model, generate under a timeout,
// measure latency.
type Service struct {
	chooser        ModelChooser
	generator      *Generator
	defaultModel   string
	defaultTimeout time.Duration
	log            *zap.Logger
}

func NewService(chooser ModelChooser, generator *Generator, cfg config.AIConfig, log *zap.Logger) *Service {
	return &Service{
		chooser:        chooser,
		generator:      generator,
		defaultModel:   cfg.Model,
		defaultTimeout: cfg.AskTimeout,
		log:            log.Named("ask"),
	}
}

// Ask answers req.Text. A timeout is returned as an error wrapping
// context.DeadlineExceeded; provider failures come back as apology replies.
func (s *Service) Ask(ctx context.Context, req AskRequest) (Result, error) {
	timeout := s.defaultTimeout
	if req.Timeout > 0 {
		timeout = time.Duration(req.Timeout) * time.Millisecond
	}
	if timeout < minAskTimeout {
		timeout = minAskTimeout
	}

	preferred := req.Model
	if preferred == "" {
		preferred = s.defaultModel
	}
	model, fallback := s.chooser.Choose(ctx, preferred)

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	reply, err := s.generator.Ask(callCtx, req.Text, map[string]any{
		"channel": "http",
		"model":   model,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, fmt.Errorf("AI request timed out after %d ms: %w", timeout.Milliseconds(), err)
		}
		return Result{}, fmt.Errorf("AI provider error: %w", err)
	}
	latency := time.Since(start).Milliseconds()

	s.log.Info("ask ok",
		zap.String("model", model),
		zap.Bool("fallback", fallback),
		zap.Int64("latency_ms", latency),
		zap.Int("text_len", len(req.Text)),
		zap.Int("reply_len", len(reply)),
	)

	return Result{
		Model:     model,
		Fallback:  fallback,
		LatencyMS: latency,
		Reply:     reply,
	}, nil
}
