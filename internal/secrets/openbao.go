// Package secrets pulls deployment secrets (database password, broker
// credentials) from an OpenBao KV v2 mount into the process environment
// before configuration is parsed.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
)

var ErrSecretNotFound = errors.New("openbao secret path not found")

// Config locates the KV entry. Bootstrap is a no-op unless Addr, Token and
// Path are all set.
type Config struct {
	Addr      string `env:"ADDR"`
	Token     string `env:"TOKEN"`
	Mount     string `env:"MOUNT" envDefault:"secret"`
	Path      string `env:"SECRET_PATH"`
	Namespace string `env:"NAMESPACE"`
}

func (c Config) enabled() bool {
	return strings.TrimSpace(c.Addr) != "" && c.Token != "" && strings.Trim(c.Path, "/ ") != ""
}

func (c Config) url() string {
	return fmt.Sprintf("%s/v1/%s/data/%s",
		strings.TrimRight(strings.TrimSpace(c.Addr), "/"),
		strings.Trim(c.Mount, "/ "),
		strings.Trim(c.Path, "/ "))
}

// Bootstrap reads OPENBAO_* settings and exports every string-like value at
// the configured path. Variables already present in the environment win.
// It returns the names it exported.
func Bootstrap(ctx context.Context, logger *slog.Logger) ([]string, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: "OPENBAO_"})
	if err != nil {
		return nil, fmt.Errorf("parse openbao config: %w", err)
	}
	if !cfg.enabled() {
		return nil, nil
	}

	values, err := Read(ctx, cfg, &http.Client{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}

	var exported []string
	for k, v := range values {
		if _, set := os.LookupEnv(k); set {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return exported, fmt.Errorf("export %s: %w", k, err)
		}
		exported = append(exported, k)
	}
	sort.Strings(exported)
	logger.Info("secrets bootstrapped", slog.String("path", cfg.Path), slog.Int("exported", len(exported)))
	return exported, nil
}

// Read fetches one KV v2 entry and flattens its values to strings. Nested
// objects and arrays are skipped.
func Read(ctx context.Context, cfg Config, hc *http.Client) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.url(), nil)
	if err != nil {
		return nil, fmt.Errorf("create openbao request: %w", err)
	}
	req.Header.Set("X-Vault-Token", cfg.Token)
	if ns := strings.TrimSpace(cfg.Namespace); ns != "" {
		req.Header.Set("X-Vault-Namespace", ns)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call openbao: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrSecretNotFound
	default:
		return nil, fmt.Errorf("openbao request failed: status=%d", resp.StatusCode)
	}

	var payload struct {
		Data struct {
			Data map[string]any `json:"data"`
		} `json:"data"`
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode openbao response: %w", err)
	}

	out := make(map[string]string, len(payload.Data.Data))
	for k, v := range payload.Data.Data {
		switch val := v.(type) {
		case string:
			out[k] = val
		case json.Number:
			out[k] = val.String()
		case bool:
			out[k] = strconv.FormatBool(val)
		}
	}
	return out, nil
}
