package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/commerce-ai-bridge/internal/config"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/logging"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/observability"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/worker"
)

const maxLoggedText = 200

// Generator turns user text into a reply, translating every provider
// failure into an apology string.
type Generator struct {
	provider     Provider
	pool         *worker.Pool
	defaultModel string
	systemPrompt string
	log          *zap.Logger
	metrics      *observability.Metrics
}

func NewGenerator(
	provider Provider,
	pool *worker.Pool,
	cfg config.AIConfig,
	log *zap.Logger,
	metrics *observability.Metrics,
) *Generator {
	return &Generator{
		provider:     provider,
		pool:         pool,
		defaultModel: cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		log:          log.Named("generator"),
		metrics:      metrics,
	}
}

// GenerateReply never fails. If the caller's context ends before the
// provider answers, the generic apology is returned.
func (g *Generator) GenerateReply(ctx context.Context, text string, meta map[string]any) string {
	reply, err := g.Ask(ctx, text, meta)
	if err != nil {
		g.log.Warn("ai call abandoned",
			zap.String("text", logging.Short(text, maxLoggedText)),
			zap.Error(err),
		)
		return KindUnknown.Apology()
	}
	return reply
}

// Ask behaves like GenerateReply but hands context errors (deadline,
// cancellation) back to the caller. Provider failures still come back as
// apology text with a nil error.
func (g *Generator) Ask(ctx context.Context, text string, meta map[string]any) (string, error) {
	model := g.resolveModel(meta)
	prompt := buildPrompt(g.systemPrompt, text, meta)

	start := time.Now()
	raw, err := worker.Run(ctx, g.pool, func(ctx context.Context) (out string, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("provider panic: %v", r)
			}
		}()
		return g.provider.Complete(ctx, model, prompt)
	})
	elapsed := time.Since(start)

	if err != nil && ctx.Err() != nil {
		g.metrics.RecordAIReply("abandoned", elapsed)
		return "", ctx.Err()
	}

	if err == nil {
		if reply := strings.TrimSpace(raw); reply != "" {
			g.metrics.RecordAIReply("ok", elapsed)
			return reply, nil
		}
		err = &Error{Kind: KindInvalidRequest, Err: errEmptyReply}
	}

	kind := KindOf(err)
	g.metrics.RecordAIReply(kind.String(), elapsed)
	g.log.Warn("ai reply failed",
		zap.String("kind", kind.String()),
		zap.String("model", model),
		zap.String("text", logging.Short(text, maxLoggedText)),
		zap.Error(err),
	)
	return kind.Apology(), nil
}

func (g *Generator) resolveModel(meta map[string]any) string {
	if m, ok := meta["model"].(string); ok && m != "" {
		return m
	}
	return g.defaultModel
}
