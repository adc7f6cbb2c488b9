package ai

import (
	"context"
	"sync"
)

type fakeProvider struct {
	mu     sync.Mutex
	reply  string
	err    error
	block  bool
	panicV any
	calls  []fakeCall
}

type fakeCall struct {
	model  string
	prompt string
}

func (f *fakeProvider) Complete(ctx context.Context, model, prompt string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{model: model, prompt: prompt})
	f.mu.Unlock()

	if f.panicV != nil {
		panic(f.panicV)
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeProvider) lastCall() fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

type fakeLister struct {
	models []ModelInfo
	err    error
	block  bool
}

func (f *fakeLister) ListModels(ctx context.Context) ([]ModelInfo, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.models, f.err
}

func names(ns ...string) []ModelInfo {
	out := make([]ModelInfo, 0, len(ns))
	for _, n := range ns {
		out = append(out, ModelInfo{Name: n})
	}
	return out
}
