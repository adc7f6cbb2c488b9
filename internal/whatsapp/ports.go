package whatsapp

import (
	"context"

	"github.com/Vovarama1992/commerce-ai-bridge/internal/shopify"
)

// Message is an inbound text message. Missing fields are empty strings.
type Message struct {
	ID   string
	From string
	Type string
	Text string
}

// Outbound sends replies back over the channel.
type Outbound interface {
	SendText(ctx context.Context, to string, text string) (int, error)
}

// Catalog is the product lookup used before falling back to the model.
type Catalog interface {
	SearchProductByTitle(ctx context.Context, query string, limit int) ([]shopify.Product, error)
}

// Service runs the reply pipeline for one inbound message.
type Service interface {
	HandleIncoming(ctx context.Context, msg *Message) error
}

// webhookPayload mirrors the parts of the Cloud API notification we read:
// entry[0].changes[0].value.messages[0].
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					ID   string `json:"id"`
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// firstMessage returns the first message of the payload, if any.
func (p *webhookPayload) firstMessage() (*Message, bool) {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return nil, false
	}
	msgs := p.Entry[0].Changes[0].Value.Messages
	if len(msgs) == 0 {
		return nil, false
	}
	m := msgs[0]
	return &Message{ID: m.ID, From: m.From, Type: m.Type, Text: m.Text.Body}, true
}
