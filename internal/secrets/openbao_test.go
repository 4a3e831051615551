package secrets

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBao(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/secret/data/storefront/server", r.URL.Path)
		assert.Equal(t, "root", r.Header.Get("X-Vault-Token"))
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReadFlattensScalars(t *testing.T) {
	srv := fakeBao(t, http.StatusOK, `{"data":{"data":{"DATABASE_PASSWORD":"s3cret","SIMULATION_FAILURE_RATE":0.25,"FLAG":true,"NESTED":{"a":1}}}}`)

	got, err := Read(context.Background(), Config{Addr: srv.URL, Token: "root", Mount: "secret", Path: "storefront/server"}, srv.Client())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"DATABASE_PASSWORD":       "s3cret",
		"SIMULATION_FAILURE_RATE": "0.25",
		"FLAG":                    "true",
	}, got)
}

func TestReadNotFound(t *testing.T) {
	srv := fakeBao(t, http.StatusNotFound, `{}`)
	_, err := Read(context.Background(), Config{Addr: srv.URL, Token: "root", Mount: "secret", Path: "storefront/server"}, srv.Client())
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestBootstrapDisabledWithoutConfig(t *testing.T) {
	t.Setenv("OPENBAO_ADDR", "")
	got, err := Bootstrap(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBootstrapKeepsExistingEnv(t *testing.T) {
	srv := fakeBao(t, http.StatusOK, `{"data":{"data":{"BOOTSTRAP_TEST_A":"from-bao","BOOTSTRAP_TEST_B":"from-bao"}}}`)
	t.Setenv("OPENBAO_ADDR", srv.URL+"/")
	t.Setenv("OPENBAO_TOKEN", "root")
	t.Setenv("OPENBAO_SECRET_PATH", "/storefront/server/")
	t.Setenv("BOOTSTRAP_TEST_A", "local")
	t.Setenv("BOOTSTRAP_TEST_B", "")
	os.Unsetenv("BOOTSTRAP_TEST_B")

	got, err := Bootstrap(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, []string{"BOOTSTRAP_TEST_B"}, got)
	assert.Equal(t, "local", os.Getenv("BOOTSTRAP_TEST_A"))
	assert.Equal(t, "from-bao", os.Getenv("BOOTSTRAP_TEST_B"))
	os.Unsetenv("BOOTSTRAP_TEST_B")
}
