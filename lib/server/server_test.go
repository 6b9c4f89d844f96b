package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jcgregorio/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyPal/exprtree/lib/config"
)

type fauxSyncWriter struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (f *fauxSyncWriter) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.b.Write(p)
}

func (f *fauxSyncWriter) Sync() error {
	return nil
}

func (f *fauxSyncWriter) String() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.b.String()
}

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *fauxSyncWriter) {
	t.Helper()
	conf := config.Default()
	if mutate != nil {
		mutate(&conf)
	}
	logs := &fauxSyncWriter{}
	s, err := New(conf, logger.NewFromOptions(&logger.Options{
		SyncWriter:   logs,
		IncludeDebug: true,
	}))
	require.NoError(t, err)
	return s, logs
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestParseOK(t *testing.T) {
	s, logs := newTestServer(t, nil)
	rec := post(t, s.Handler(), `{"expression": "1-2-3"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"parseTree": {
			"type": "BinaryExpression", "operator": "-",
			"left": {
				"type": "BinaryExpression", "operator": "-",
				"left": {"type": "Number", "value": "1"},
				"right": {"type": "Number", "value": "2"}
			},
			"right": {"type": "Number", "value": "3"}
		},
		"ast": {
			"type": "BinaryExpression", "operator": "-",
			"left": {
				"type": "BinaryExpression", "operator": "-",
				"left": {"type": "Literal", "value": "1"},
				"right": {"type": "Literal", "value": "2"}
			},
			"right": {"type": "Literal", "value": "3"}
		}
	}`, rec.Body.String())
	assert.Contains(t, logs.String(), "POST /parse 200")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"lex error", `{"expression": "1+$2"}`, "unexpected character '$' at position 2"},
		{"parse error", `{"expression": "+1"}`, "unexpected token OPERATOR(+) at position 0"},
		{"empty expression", `{"expression": ""}`, "unexpected end of input, expected expression"},
		{"trailing input", `{"expression": "1 2"}`, "trailing input after complete expression"},
		{"missing field", `{}`, "missing expression"},
		{"not json", `expression=1`, "invalid request body"},
		{"wrong type", `{"expression": 12}`, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, nil)
			rec := post(t, s.Handler(), tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, tt.msg)
		})
	}
}

func TestParseBodyLimit(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) {
		c.Server.MaxBodyBytes = 32
	})
	rec := post(t, s.Handler(), `{"expression": "`+strings.Repeat("1+", 40)+`1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
}

func TestParsePermissiveConfig(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) {
		c.Parser.Trailing = config.TrailingIgnore
	})
	rec := post(t, s.Handler(), `{"expression": "1 2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"value":"1"`)
}

func TestParseGrammarEngine(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) {
		c.Parser.Engine = "grammar"
	})
	assert.Equal(t, http.StatusOK, post(t, s.Handler(), `{"expression": "max(1, 2)"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(t, s.Handler(), `{"expression": "max(1 2)"}`).Code)

	s, _ = newTestServer(t, func(c *config.Config) {
		c.Parser.Engine = "grammar"
		c.Parser.Trailing = config.TrailingIgnore
		c.Parser.MaxDepth = 8
	})
	rec := post(t, s.Handler(), `{"expression": "1 2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"value":"1"`)

	rec = post(t, s.Handler(), `{"expression": "`+strings.Repeat("(", 9)+"1"+strings.Repeat(")", 9)+`"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "nesting deeper than 8")
}

func TestRoutes(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/parse", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()
	post(t, h, `{"expression": "1+1"}`)
	post(t, h, `{"expression": "1+1"}`)
	post(t, h, `{"expression": "1+$"}`)
	post(t, h, `{"expression": "(1"}`)
	post(t, h, `{}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `exprtree_parse_requests_total{result="ok"} 2`)
	assert.Contains(t, body, `exprtree_parse_requests_total{result="lex_error"} 1`)
	assert.Contains(t, body, `exprtree_parse_requests_total{result="parse_error"} 1`)
	assert.Contains(t, body, `exprtree_parse_requests_total{result="bad_request"} 1`)
	assert.Contains(t, body, "exprtree_parse_cache_hits_total 1")
	assert.Contains(t, body, "exprtree_parse_duration_seconds_count 4")
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{"expression": "1"}`))
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	s, _ = newTestServer(t, func(c *config.Config) {
		c.Server.AllowedOrigins = []string{"https://app.example.com"}
	})
	req = httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{"expression": "1"}`))
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	conf := config.Default()
	conf.Parser.Engine = "yacc"
	_, err := New(conf, logger.NewFromOptions(&logger.Options{SyncWriter: &fauxSyncWriter{}}))
	assert.Error(t, err)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, logs := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln)
	}()

	resp, err := http.Post("http://"+ln.Addr().String()+"/parse", "application/json", strings.NewReader(`{"expression": "2*3"}`))
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(b), `"operator":"*"`)

	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, logs.String(), "Server stopped")
}
