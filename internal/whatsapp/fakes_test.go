package whatsapp

import (
	"context"
	"errors"
	"sync"

	"github.com/Vovarama1992/commerce-ai-bridge/internal/shopify"
)

type fakeCatalog struct {
	products []shopify.Product
	err      error
	queries  []string
}

func (f *fakeCatalog) SearchProductByTitle(_ context.Context, q string, _ int) ([]shopify.Product, error) {
	f.queries = append(f.queries, q)
	return f.products, f.err
}

type fakeChooser struct{}

func (fakeChooser) Choose(context.Context, string) (string, bool) {
	return "models/gemini-2.5-flash", true
}

type fakeReplier struct {
	reply string
	calls int
	meta  map[string]any
	panic bool
}

func (f *fakeReplier) GenerateReply(_ context.Context, _ string, meta map[string]any) string {
	f.calls++
	f.meta = meta
	if f.panic {
		panic("generator exploded")
	}
	return f.reply
}

type fakeOutbound struct {
	mu     sync.Mutex
	status int
	err    error
	sent   []sentMessage
}

type sentMessage struct {
	to   string
	text string
}

func (f *fakeOutbound) SendText(_ context.Context, to, text string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{to: to, text: text})
	if f.err != nil {
		return 0, f.err
	}
	if f.status == 0 {
		return 200, nil
	}
	return f.status, nil
}

var errNetwork = errors.New("network unreachable")
