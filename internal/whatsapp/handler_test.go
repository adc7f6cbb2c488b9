package whatsapp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vovarama1992/commerce-ai-bridge/internal/observability"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/shopify"
)

const inboundJSON = `{
	"object": "whatsapp_business_account",
	"entry": [{
		"changes": [{
			"value": {
				"messages": [{"id": "wamid.1", "from": "5511999", "type": "text", "text": {"body": "shoe"}}]
			}
		}]
	}]
}`

func newTestRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(svc, "secret", zap.NewNop(), observability.NewMetrics()))
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestVerify(t *testing.T) {
	t.Parallel()

	h := newTestRouter(NewService(&fakeCatalog{}, fakeChooser{}, &fakeReplier{}, &fakeOutbound{}, zap.NewNop(), nil))

	tests := []struct {
		name   string
		target string
		status int
		body   string
	}{
		{"numeric challenge", "/webhook/whatsapp?mode=subscribe&token=secret&challenge=1158201444", 200, "1158201444\n"},
		{"leading zeros", "/webhook/whatsapp?mode=subscribe&token=secret&challenge=0123", 200, "123\n"},
		{"all zeros", "/webhook/whatsapp?mode=subscribe&token=secret&challenge=00", 200, "0\n"},
		{"beyond int64", "/webhook/whatsapp?mode=subscribe&token=secret&challenge=0099999999999999999999", 200, "99999999999999999999\n"},
		{"hub params", "/webhook/whatsapp?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=42", 200, "42\n"},
		{"string challenge", "/webhook/whatsapp?mode=subscribe&token=secret&challenge=abc", 200, "\"abc\"\n"},
		{"empty challenge", "/webhook/whatsapp?mode=subscribe&token=secret", 200, "\"OK\"\n"},
		{"wrong token", "/webhook/whatsapp?mode=subscribe&token=nope&challenge=1", 403, "{\"detail\":\"Verification failed\"}\n"},
		{"wrong mode", "/webhook/whatsapp?mode=unsubscribe&token=secret&challenge=1", 403, "{\"detail\":\"Verification failed\"}\n"},
		{"unknown channel", "/webhook/telegram?mode=subscribe&token=secret&challenge=1", 404, "{\"detail\":\"Unknown channel\"}\n"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := do(t, h, http.MethodGet, tc.target, "")
			require.Equal(t, tc.status, rec.Code)
			require.Equal(t, tc.body, rec.Body.String())
		})
	}
}

func TestReceiveCatalogMatchSkipsModel(t *testing.T) {
	t.Parallel()

	replier := &fakeReplier{reply: "unused"}
	out := &fakeOutbound{}
	catalog := &fakeCatalog{products: []shopify.Product{{Title: "Blue Shoe"}}}
	h := newTestRouter(NewService(catalog, fakeChooser{}, replier, out, zap.NewNop(), nil))

	rec := do(t, h, http.MethodPost, "/webhook/whatsapp", inboundJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"received": true}`, rec.Body.String())

	require.Equal(t, []string{"shoe"}, catalog.queries)
	require.Equal(t, 0, replier.calls)
	require.Len(t, out.sent, 1)
	require.True(t, strings.HasPrefix(out.sent[0].text, "Found 1 option(s)"))
}

func TestReceiveAlwaysAcknowledges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		svc  Service
		body string
	}{
		{
			name: "generator failure",
			svc:  NewService(&fakeCatalog{}, fakeChooser{}, &fakeReplier{panic: true}, &fakeOutbound{}, zap.NewNop(), nil),
			body: inboundJSON,
		},
		{
			name: "send failure",
			svc:  NewService(&fakeCatalog{}, fakeChooser{}, &fakeReplier{reply: "x"}, &fakeOutbound{err: errNetwork}, zap.NewNop(), nil),
			body: inboundJSON,
		},
		{
			name: "invalid json",
			svc:  NewService(&fakeCatalog{}, fakeChooser{}, &fakeReplier{}, &fakeOutbound{}, zap.NewNop(), nil),
			body: "{not json",
		},
		{
			name: "status callback without message",
			svc:  NewService(&fakeCatalog{}, fakeChooser{}, &fakeReplier{}, &fakeOutbound{}, zap.NewNop(), nil),
			body: `{"entry": [{"changes": [{"value": {"statuses": [{"status": "read"}]}}]}]}`,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := do(t, newTestRouter(tc.svc), http.MethodPost, "/webhook/whatsapp", tc.body)
			require.Equal(t, http.StatusOK, rec.Code)
			require.JSONEq(t, `{"received": true}`, rec.Body.String())
		})
	}
}

func TestReceiveMissingFieldsDegradeToEmpty(t *testing.T) {
	t.Parallel()

	replier := &fakeReplier{reply: "hello"}
	out := &fakeOutbound{}
	h := newTestRouter(NewService(&fakeCatalog{}, fakeChooser{}, replier, out, zap.NewNop(), nil))

	rec := do(t, h, http.MethodPost, "/webhook/whatsapp",
		`{"entry": [{"changes": [{"value": {"messages": [{"type": "sticker"}]}}]}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, replier.calls)
	require.Equal(t, "", out.sent[0].to)
}
