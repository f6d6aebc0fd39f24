package secrets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyVaultSecrets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") != "root" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/v1/secret/data/dental-clinic":
			_, _ = w.Write([]byte(`{"data":{"data":{"EVOLUTION_API_KEY":"evo-key","DB_PASSWORD":"from-vault","DB_PORT":5433}}}`))
		case "/v1/kv/dental-clinic":
			_, _ = w.Write([]byte(`{"data":{"N8N_WEBHOOK_URL":"https://n8n.example.com/hook"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	t.Run("kv v2 keeps existing variables", func(t *testing.T) {
		t.Setenv("EVOLUTION_API_KEY", "")
		t.Setenv("DB_PORT", "")
		t.Setenv("DB_PASSWORD", "from-env")

		result, err := ApplyVaultSecrets(context.Background(), VaultConfig{
			Enabled: true, Addr: server.URL, Token: "root", Mount: "secret", Path: "dental-clinic", KVVersion: 2,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Loaded)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, "evo-key", os.Getenv("EVOLUTION_API_KEY"))
		assert.Equal(t, "5433", os.Getenv("DB_PORT"))
		assert.Equal(t, "from-env", os.Getenv("DB_PASSWORD"))
	})

	t.Run("kv v1", func(t *testing.T) {
		t.Setenv("N8N_WEBHOOK_URL", "")

		result, err := ApplyVaultSecrets(context.Background(), VaultConfig{
			Enabled: true, Addr: server.URL + "/", Token: "root", Mount: "/kv/", Path: "dental-clinic", KVVersion: 1,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Loaded)
		assert.Equal(t, "https://n8n.example.com/hook", os.Getenv("N8N_WEBHOOK_URL"))
	})

	t.Run("rejected token", func(t *testing.T) {
		_, err := ApplyVaultSecrets(context.Background(), VaultConfig{
			Enabled: true, Addr: server.URL, Token: "wrong", Mount: "secret", Path: "dental-clinic", KVVersion: 2,
		})
		assert.Error(t, err)
	})

	t.Run("disabled is a no-op", func(t *testing.T) {
		result, err := ApplyVaultSecrets(context.Background(), VaultConfig{})
		require.NoError(t, err)
		assert.False(t, result.Enabled)
	})

	t.Run("incomplete configuration", func(t *testing.T) {
		_, err := ApplyVaultSecrets(context.Background(), VaultConfig{Enabled: true, Addr: server.URL})
		assert.Error(t, err)
	})
}
