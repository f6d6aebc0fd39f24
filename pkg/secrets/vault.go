package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// VaultConfig locates a KV secret whose keys are exported as environment
// variables before configuration is loaded
type VaultConfig struct {
	Enabled   bool
	Addr      string
	Token     string
	Namespace string
	Mount     string
	Path      string
	KVVersion int
	Timeout   time.Duration
	Overwrite bool
}

// VaultResult reports how many keys were exported
type VaultResult struct {
	Enabled bool
	Path    string
	Loaded  int
	Skipped int
}

// LoadVaultConfigFromEnv reads VAULT_* variables. KV v2 and the "secret"
// mount are the defaults.
func LoadVaultConfigFromEnv() VaultConfig {
	cfg := VaultConfig{
		Enabled:   strings.EqualFold(os.Getenv("VAULT_ENABLED"), "true"),
		Addr:      os.Getenv("VAULT_ADDR"),
		Token:     os.Getenv("VAULT_TOKEN"),
		Namespace: os.Getenv("VAULT_NAMESPACE"),
		Mount:     os.Getenv("VAULT_MOUNT"),
		Path:      os.Getenv("VAULT_PATH"),
		KVVersion: 2,
		Timeout:   5 * time.Second,
		Overwrite: strings.EqualFold(os.Getenv("VAULT_OVERWRITE"), "true"),
	}
	if cfg.Mount == "" {
		cfg.Mount = "secret"
	}
	if v, err := strconv.Atoi(os.Getenv("VAULT_KV_VERSION")); err == nil {
		cfg.KVVersion = v
	}
	if d, err := time.ParseDuration(os.Getenv("VAULT_TIMEOUT")); err == nil {
		cfg.Timeout = d
	}
	return cfg
}

// ApplyVaultSecrets exports every key of the configured secret into the
// process environment. Variables already set are kept unless Overwrite.
func ApplyVaultSecrets(ctx context.Context, cfg VaultConfig) (VaultResult, error) {
	result := VaultResult{Enabled: cfg.Enabled, Path: cfg.Path}
	if !cfg.Enabled {
		return result, nil
	}
	if cfg.Addr == "" || cfg.Token == "" || cfg.Path == "" {
		return result, errors.New("vault configuration incomplete (VAULT_ADDR, VAULT_TOKEN, VAULT_PATH)")
	}

	data, err := fetchSecret(ctx, cfg)
	if err != nil {
		return result, err
	}

	for key, value := range data {
		if !cfg.Overwrite && os.Getenv(key) != "" {
			result.Skipped++
			continue
		}
		if err := os.Setenv(key, envValue(value)); err != nil {
			return result, fmt.Errorf("export %s: %w", key, err)
		}
		result.Loaded++
	}
	return result, nil
}

func fetchSecret(ctx context.Context, cfg VaultConfig) (map[string]interface{}, error) {
	url := secretURL(cfg)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Vault-Token", cfg.Token)
	if cfg.Namespace != "" {
		req.Header.Set("X-Vault-Namespace", cfg.Namespace)
	}

	resp, err := (&http.Client{Timeout: cfg.Timeout}).Do(req)
	if err != nil {
		return nil, fmt.Errorf("vault request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("vault fetch failed: %s %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode vault response: %w", err)
	}
	if payload.Data == nil {
		return nil, errors.New("vault response has no data")
	}
	if cfg.KVVersion == 1 {
		return payload.Data, nil
	}

	// KV v2 nests the secret under data.data
	inner, ok := payload.Data["data"].(map[string]interface{})
	if !ok {
		return nil, errors.New("vault response missing data for KV v2")
	}
	return inner, nil
}

func secretURL(cfg VaultConfig) string {
	addr := strings.TrimRight(cfg.Addr, "/")
	mount := strings.Trim(cfg.Mount, "/")
	path := strings.TrimLeft(cfg.Path, "/")
	if cfg.KVVersion == 1 {
		return fmt.Sprintf("%s/v1/%s/%s", addr, mount, path)
	}
	return fmt.Sprintf("%s/v1/%s/data/%s", addr, mount, path)
}

func envValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}
