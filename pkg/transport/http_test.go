package transport_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/ratebridge/pkg/transport"
)

func TestHTTPClient_Do_Success(t *testing.T) {
	var gotBody, gotAuth, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := transport.NewHTTPClient(transport.HTTPClientConfig{UserAgent: "test-agent"})

	resp, err := client.Do(context.Background(), &transport.Request{
		Method: http.MethodPost,
		URL:    srv.URL + "/path",
		Header: http.Header{"Authorization": []string{"Bearer abc"}},
		Body:   []byte("grant_type=client_credentials"),
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, resp.Text())
	assert.Equal(t, "grant_type=client_credentials", gotBody)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "test-agent", gotAgent)

	var decoded struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, resp.JSON(&decoded))
	assert.True(t, decoded.OK)
}

func TestHTTPClient_Do_ErrorStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := transport.NewHTTPClient(transport.HTTPClientConfig{})
	resp, err := client.Do(context.Background(), &transport.Request{Method: http.MethodGet, URL: srv.URL})

	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestHTTPClient_Do_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := transport.NewHTTPClient(transport.HTTPClientConfig{})
	_, err := client.Do(context.Background(), &transport.Request{
		Method:  http.MethodGet,
		URL:     srv.URL,
		Timeout: 20 * time.Millisecond,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestHTTPClient_Do_InvalidURL(t *testing.T) {
	client := transport.NewHTTPClient(transport.HTTPClientConfig{})
	_, err := client.Do(context.Background(), &transport.Request{Method: "BAD METHOD", URL: "http://example.com"})
	assert.Error(t, err)
}

func TestResponse_JSON_Syntax(t *testing.T) {
	resp := &transport.Response{StatusCode: 200, Body: []byte("{not-json")}
	var v map[string]any
	assert.Error(t, resp.JSON(&v))
}

func TestNewJSONResponse(t *testing.T) {
	resp := transport.NewJSONResponse(http.StatusOK, map[string]string{"a": "b"})
	assert.Equal(t, `{"a":"b"}`, resp.Text())
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}
