package whatsapp

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Vovarama1992/commerce-ai-bridge/internal/ai"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/logging"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/observability"
)

const (
	ChannelName  = "whatsapp"
	catalogLimit = 3
)

type service struct {
	catalog  Catalog
	chooser  ai.ModelChooser
	replier  ai.Replier
	outbound Outbound
	log      *zap.Logger
	metrics  *observability.Metrics
}

func NewService(
	catalog Catalog,
	chooser ai.ModelChooser,
	replier ai.Replier,
	outbound Outbound,
	log *zap.Logger,
	metrics *observability.Metrics,
) Service {
	return &service{
		catalog:  catalog,
		chooser:  chooser,
		replier:  replier,
		outbound: outbound,
		log:      log.Named("webhook"),
		metrics:  metrics,
	}
}

// HandleIncoming answers msg from the catalog when a product title matches,
// otherwise from the model, and always tries to send the answer back.
func (s *service) HandleIncoming(ctx context.Context, msg *Message) error {
	s.log.Info("incoming message",
		zap.String("id", msg.ID),
		zap.String("from", msg.From),
		zap.String("type", msg.Type),
		zap.String("text", logging.Short(msg.Text, 200)),
	)

	reply, source := s.compose(ctx, msg)

	status, err := s.outbound.SendText(ctx, msg.From, reply)
	if err != nil {
		s.metrics.RecordWebhook("send_failed")
		return fmt.Errorf("send reply: %w", err)
	}
	if status >= 300 {
		s.metrics.RecordWebhook("send_failed")
		return fmt.Errorf("send reply: status %d", status)
	}

	s.metrics.RecordWebhook(source)
	return nil
}

func (s *service) compose(ctx context.Context, msg *Message) (reply, source string) {
	query := strings.TrimSpace(msg.Text)
	if query != "" {
		products, err := s.catalog.SearchProductByTitle(ctx, query, catalogLimit)
		if err != nil {
			s.log.Warn("catalog search failed, asking the model", zap.Error(err))
		} else if len(products) > 0 {
			titles := make([]string, 0, len(products))
			for _, p := range products {
				title := p.Title
				if title == "" {
					title = "Untitled"
				}
				titles = append(titles, title)
			}
			return fmt.Sprintf("Found %d option(s): %s", len(products), strings.Join(titles, " | ")), "catalog"
		}
	}

	model, _ := s.chooser.Choose(ctx, "")
	return s.replier.GenerateReply(ctx, msg.Text, map[string]any{
		"from":    msg.From,
		"channel": ChannelName,
		"model":   model,
	}), "ai"
}
