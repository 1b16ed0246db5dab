package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vinecontext "github.com/Ramsey-B/vine/pkg/context"
)

func testClient() *Client {
	cfg := DefaultConfig()
	cfg.Headers = map[string]string{"Cookie": "session=abc"}
	return NewClient(cfg, ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "session=abc", r.Header.Get("Cookie"))
		assert.Equal(t, "req-9", r.Header.Get("X-Request-Id"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	ctx := vinecontext.SetRequestID(context.Background(), "req-9")
	body, err := testClient().Get(ctx, srv.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		var payload map[string]int
		assert.NoError(t, json.Unmarshal(data, &payload))
		assert.Equal(t, 3, payload["n"])
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	body, err := testClient().PostJSON(context.Background(), srv.URL, map[string]int{"n": 3})
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestErrors(t *testing.T) {
	t.Run("StatusError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}))
		defer srv.Close()

		_, err := testClient().Get(context.Background(), srv.URL)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
		assert.Equal(t, "upstream down", string(statusErr.Body))
	})

	t.Run("ResponseTooLarge", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", MaxResponseSize+10)))
		}))
		defer srv.Close()

		_, err := testClient().Get(context.Background(), srv.URL)
		assert.ErrorIs(t, err, ErrResponseTooLarge)
	})

	t.Run("RequestTooLarge", func(t *testing.T) {
		_, err := testClient().PostJSON(context.Background(), "http://127.0.0.1:1", strings.Repeat("x", MaxRequestSize))
		assert.ErrorIs(t, err, ErrRequestTooLarge)
	})

	t.Run("ConnectionFailure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		_, err := testClient().Get(context.Background(), url)
		assert.Error(t, err)
	})
}
