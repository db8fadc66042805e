package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tckz/visit-counter/internal/counter"
)

func TestRouter(t *testing.T) {
	srv := httptest.NewServer(newRouter(counter.NewMemoryCounter(counter.DefaultKey)))
	defer srv.Close()

	res, err := http.Post(srv.URL+*optPath, "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(srv.URL + "/nowhere")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestListenAddr(t *testing.T) {
	t.Setenv("PORT", "9090")
	assert.Equal(t, ":9090", listenAddr())

	old := *optListen
	t.Cleanup(func() { *optListen = old })
	*optListen = "127.0.0.1:7000"
	assert.Equal(t, "127.0.0.1:7000", listenAddr())
}

func TestCounterConfig(t *testing.T) {
	t.Setenv("PROJECT_ID", "my-project")

	cfg := counterConfig()
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, counter.DefaultKey, cfg.Key)
	assert.Equal(t, counter.DefaultKind, cfg.Kind)
	assert.Equal(t, "my-project", cfg.ProjectID)
}
