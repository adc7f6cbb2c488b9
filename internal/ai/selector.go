package ai

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/commerce-ai-bridge/internal/config"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/observability"
)

// LastResortModel is used when there is neither a candidate nor a listing.
const LastResortModel = "models/gemini-2.5-flash"

// ChooseModel picks a model from the candidate sequence
// preferred, defaultModel, fallbacks... (empty entries skipped).
//
// With an empty available list every candidate is accepted, so the first
// candidate wins. Otherwise the first candidate present in available wins,
// then available[0]. The second result is true whenever the returned model
// differs from preferred.
func ChooseModel(preferred, defaultModel string, fallbacks, available []string) (string, bool) {
	prefs := make([]string, 0, 2+len(fallbacks))
	for _, m := range append([]string{preferred, defaultModel}, fallbacks...) {
		if m != "" {
			prefs = append(prefs, m)
		}
	}

	known := make(map[string]struct{}, len(available))
	for _, m := range available {
		known[m] = struct{}{}
	}

	for _, cand := range prefs {
		if _, ok := known[cand]; len(available) == 0 || ok {
			return cand, cand != preferred
		}
	}

	if len(available) > 0 {
		return available[0], true
	}
	return LastResortModel, true
}

// Selector applies ChooseModel against the live model listing.
type Selector struct {
	lister       ModelLister
	defaultModel string
	fallbacks    []string
	listTimeout  time.Duration
	log          *zap.Logger
	metrics      *observability.Metrics
}

func NewSelector(lister ModelLister, cfg config.AIConfig, log *zap.Logger, metrics *observability.Metrics) *Selector {
	return &Selector{
		lister:       lister,
		defaultModel: cfg.Model,
		fallbacks:    append([]string(nil), cfg.FallbackModels...),
		listTimeout:  cfg.ListTimeout,
		log:          log.Named("selector"),
		metrics:      metrics,
	}
}

// Choose picks a model for preferred. A failed or slow listing is logged and
// treated as "nothing known", which accepts the first candidate unverified.
func (s *Selector) Choose(ctx context.Context, preferred string) (string, bool) {
	var available []string

	listCtx := ctx
	if s.listTimeout > 0 {
		var cancel context.CancelFunc
		listCtx, cancel = context.WithTimeout(ctx, s.listTimeout)
		defer cancel()
	}

	models, err := s.lister.ListModels(listCtx)
	if err != nil {
		s.log.Warn("model listing failed, skipping discovery", zap.Error(err))
	} else {
		available = make([]string, 0, len(models))
		for _, m := range models {
			available = append(available, m.Name)
		}
	}

	model, fallback := ChooseModel(preferred, s.defaultModel, s.fallbacks, available)
	s.metrics.RecordModelSelection(model, fallback)
	if fallback {
		s.log.Info("model fallback",
			zap.String("preferred", preferred),
			zap.String("chosen", model),
			zap.Int("available", len(available)),
		)
	}
	return model, fallback
}
