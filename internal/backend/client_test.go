package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "師者", body["text"])

		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", 5*time.Second)
	data, err := c.PostJSON(context.Background(), "/api/analyze", map[string]string{"text": "師者"})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestPostJSONStatusWithDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"model not loaded"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).PostJSON(context.Background(), "/api/explain", struct{}{})
	require.Error(t, err)

	var bad *BadResponseError
	require.True(t, errors.As(err, &bad))
	assert.Equal(t, 500, bad.Status)
	assert.Equal(t, "model not loaded", bad.Detail)
	assert.Equal(t, "伺服器錯誤 500：model not loaded", Describe(err))
}

func TestPostJSONStatusPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).PostJSON(context.Background(), "/x", struct{}{})
	var bad *BadResponseError
	require.True(t, errors.As(err, &bad))
	assert.Equal(t, "nope", bad.Detail)
}

func TestPostJSONUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := New(addr, time.Second).PostJSON(context.Background(), "/api/analyze", struct{}{})
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "無法連線到伺服器", Describe(err))
}

func TestPostJSONCanceledIsNotNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL, time.Second).PostJSON(ctx, "/slow", struct{}{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGetEncodesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tts", r.URL.Path)
		assert.Equal(t, "師", r.URL.Query().Get("text"))
		w.Write([]byte("ID3"))
	}))
	defer srv.Close()

	body, err := New(srv.URL, time.Second).Get(context.Background(), "/api/tts", url.Values{"text": {"師"}})
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(data))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "", Describe(nil))
	assert.Equal(t, "伺服器回應格式錯誤", Describe(&BadResponseError{Endpoint: "/a", Err: errors.New("x")}))
	assert.Equal(t, "伺服器錯誤 404", Describe(&BadResponseError{Status: 404}))
	assert.Equal(t, "other", Describe(errors.New("other")))
}

func TestExtractDetailTruncates(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}
	got := extractDetail(long)
	assert.Len(t, []rune(got), maxDetail)
}
