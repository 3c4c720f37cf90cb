package netx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPut(t *testing.T) {
	body := []byte(`{"version":1}`)

	t.Run("success", func(t *testing.T) {
		var gotBody []byte
		var gotType, gotMethod string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotType = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		require.NoError(t, Put(context.Background(), srv.Client(), srv.URL, body, "application/json"))
		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "application/json", gotType)
		assert.Equal(t, body, gotBody)
	})

	t.Run("no content is success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		assert.NoError(t, Put(context.Background(), nil, srv.URL, body, "application/json"))
	})

	t.Run("error status includes body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, "SignatureDoesNotMatch")
		}))
		defer srv.Close()

		err := Put(context.Background(), srv.Client(), srv.URL, body, "application/json")
		require.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.Contains(t, err.Error(), "403")
		assert.Contains(t, err.Error(), "SignatureDoesNotMatch")
	})

	t.Run("bad url", func(t *testing.T) {
		assert.Error(t, Put(context.Background(), nil, "://bad", body, "application/json"))
	})
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/missing") {
			http.Error(w, "NoSuchKey", http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, "payload")
	}))
	defer srv.Close()

	got, err := Get(context.Background(), srv.Client(), srv.URL+"/snap.json")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	_, err = Get(context.Background(), srv.Client(), srv.URL+"/missing")
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "NoSuchKey")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Get(ctx, srv.Client(), srv.URL+"/snap.json")
	assert.Error(t, err)
}
