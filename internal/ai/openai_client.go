package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Vovarama1992/commerce-ai-bridge/internal/config"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/logging"
)

const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"

	googleOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
)

// OpenAIClient talks to any OpenAI-compatible chat endpoint. For the google
// provider it targets Gemini's compatibility layer and lists models through
// the native Gemini REST API, which also reports supported methods.
type OpenAIClient struct {
	client    *openai.Client
	http      *http.Client
	provider  string
	apiKey    string
	nativeURL string
	log       *zap.Logger
}

func NewOpenAIClient(cfg config.AIConfig, httpClient *http.Client, log *zap.Logger) *OpenAIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderGoogle
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.HTTPClient = httpClient

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" && provider == ProviderGoogle {
		baseURL = googleOpenAIBaseURL
	}
	if baseURL != "" {
		oc.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(oc),
		http:      httpClient,
		provider:  provider,
		apiKey:    cfg.APIKey,
		nativeURL: strings.TrimSuffix(oc.BaseURL, "/openai"),
		log:       log.Named("ai"),
	}
}

// Complete sends prompt as a single user message and returns the raw text.
func (c *OpenAIClient) Complete(ctx context.Context, model, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", &Error{Kind: KindAuth, Err: errMissingAPIKey}
	}
	if c.provider == ProviderGoogle {
		// the compatibility layer wants bare ids
		model = strings.TrimPrefix(model, "models/")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindInvalidRequest, Err: errEmptyReply}
	}

	choice := resp.Choices[0]
	switch choice.FinishReason {
	case openai.FinishReasonContentFilter, "safety":
		return "", &Error{
			Kind: KindInvalidRequest,
			Err:  fmt.Errorf("response blocked: finish_reason=%s", choice.FinishReason),
		}
	}

	c.log.Debug("raw completion",
		zap.String("model", model),
		zap.String("content", logging.Short(choice.Message.Content, 180)),
	)
	return choice.Message.Content, nil
}

// ListModels returns the models visible to the configured key.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	if c.provider == ProviderGoogle {
		return c.listGeminiModels(ctx)
	}

	list, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]ModelInfo, 0, len(list.Models))
	for _, m := range list.Models {
		out = append(out, ModelInfo{Name: m.ID, Methods: []string{}})
	}
	return out, nil
}

type geminiModelList struct {
	Models []struct {
		Name                       string   `json:"name"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
	NextPageToken string `json:"nextPageToken"`
}

func (c *OpenAIClient) listGeminiModels(ctx context.Context) ([]ModelInfo, error) {
	if c.apiKey == "" {
		return nil, &Error{Kind: KindAuth, Err: errMissingAPIKey}
	}

	var out []ModelInfo
	pageToken := ""
	for {
		q := url.Values{}
		q.Set("key", c.apiKey)
		q.Set("pageSize", "1000")
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nativeURL+"/models?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &Error{Kind: KindUnknown, Err: fmt.Errorf("list models: %w", err)}
		}

		if resp.StatusCode >= 300 {
			b, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, &Error{
				Kind: kindForStatus(resp.StatusCode),
				Err:  fmt.Errorf("list models: status %d: %s", resp.StatusCode, logging.Short(string(b), 200)),
			}
		}

		var page geminiModelList
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode models: %w", err)
		}

		for _, m := range page.Models {
			methods := m.SupportedGenerationMethods
			if methods == nil {
				methods = []string{}
			}
			out = append(out, ModelInfo{Name: m.Name, Methods: methods})
		}

		if page.NextPageToken == "" {
			return out, nil
		}
		pageToken = page.NextPageToken
	}
}
