package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Vovarama1992/commerce-ai-bridge/internal/config"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/logging"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/observability"
)

const graphBaseURL = "https://graph.facebook.com"

// CloudOutbound sends messages through the WhatsApp Cloud API.
type CloudOutbound struct {
	baseURL string
	version string
	phoneID string
	token   string
	client  *http.Client
	log     *zap.Logger
	metrics *observability.Metrics
}

func NewCloudOutbound(cfg config.WhatsAppConfig, httpClient *http.Client, log *zap.Logger, metrics *observability.Metrics) *CloudOutbound {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CloudOutbound{
		baseURL: graphBaseURL,
		version: cfg.APIVersion,
		phoneID: cfg.PhoneID,
		token:   strings.TrimSpace(cfg.Token),
		client:  httpClient,
		log:     log.Named("whatsapp"),
		metrics: metrics,
	}
}

// WithBaseURL points the client at another Graph host. Used by tests.
func (c *CloudOutbound) WithBaseURL(u string) *CloudOutbound {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

// SendText posts a text message to `to`. A non-2xx answer is logged, not
// returned as an error; the caller gets the status code to inspect.
// Only transport failures produce an error.
func (c *CloudOutbound) SendText(ctx context.Context, to string, text string) (int, error) {
	b, err := json.Marshal(map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": text},
	})
	if err != nil {
		return 0, err
	}

	url := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.version, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	c.log.Info("send", zap.String("to", to), zap.String("text", logging.Short(text, 60)))

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordOutbound(0)
		return 0, fmt.Errorf("whatsapp send: %w", err)
	}
	defer resp.Body.Close()

	c.metrics.RecordOutbound(resp.StatusCode)
	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		c.log.Warn("send failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", logging.Short(string(respBody), 500)),
		)
	}

	return resp.StatusCode, nil
}
