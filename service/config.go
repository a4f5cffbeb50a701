package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/scy/cred/secret"
	"gopkg.in/yaml.v3"

	"github.com/elemstage/elemstage/embeddings"
)

// Config wires the pipeline backends for batch operations and the server.
type Config struct {
	SQL        SQLConfig               `yaml:"sql"`
	Search     SearchConfig            `yaml:"search"`
	Vector     VectorConfig            `yaml:"vector"`
	Embeddings *embeddings.Config      `yaml:"embeddings,omitempty"`
	Filings    FilingsConfig           `yaml:"filings"`
	Classify   ClassifyConfig          `yaml:"classify"`
	Sources    map[string]SourceConfig `yaml:"sources"`
	MCPServer  MCPServerConfig         `yaml:"mcpServer"`
	// CachePath persists the partition cache between runs.
	CachePath string `yaml:"cachePath,omitempty"`
}

// SQLConfig defines relational store settings.
type SQLConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table,omitempty"`
	Secret string `yaml:"secret,omitempty"`
}

// SearchConfig defines search index settings.
type SearchConfig struct {
	URL      string `yaml:"url"`
	Index    string `yaml:"index"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	APIKey   string `yaml:"apiKey,omitempty"`
	Secret   string `yaml:"secret,omitempty"`
}

// VectorConfig defines sqlite-vec store settings.
type VectorConfig struct {
	DSN    string `yaml:"dsn"`
	VTable string `yaml:"vtable,omitempty"`
	Model  string `yaml:"model,omitempty"`
}

// FilingsConfig defines EDGAR client settings.
type FilingsConfig struct {
	// UserAgent identifies the caller to EDGAR, e.g. "Example Corp admin@example.com".
	UserAgent string `yaml:"userAgent"`
}

// ClassifyConfig defines hosted classification settings.
type ClassifyConfig struct {
	SentimentModel string `yaml:"sentimentModel,omitempty"`
	BaseModel      string `yaml:"baseModel,omitempty"`
}

// SourceConfig defines a named source location with matching rules.
type SourceConfig struct {
	Path         string   `yaml:"path"`
	Include      []string `yaml:"include"`
	Exclude      []string `yaml:"exclude"`
	MaxSizeBytes int      `yaml:"max_size_bytes"`
}

// MCPServerConfig defines MCP server settings.
type MCPServerConfig struct {
	Addr string `yaml:"addr"`
	Port int    `yaml:"port"`
}

// LoadConfig reads a yaml config, expanding ~ paths and DSN secrets.
func LoadConfig(path string) (*Config, error) {
	path, err := expandUserPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	if cfg.SQL.DSN != "" {
		if expanded, err := expandStoreDSN(cfg.SQL.DSN, cfg.SQL.Driver); err == nil {
			cfg.SQL.DSN = expanded
		} else {
			return nil, err
		}
	}
	if cfg.SQL.Secret != "" {
		expanded, err := ExpandDSNWithSecret(context.Background(), cfg.SQL.DSN, cfg.SQL.Secret)
		if err != nil {
			return nil, err
		}
		cfg.SQL.DSN = expanded
	}
	if cfg.Search.Secret != "" {
		expanded, err := ExpandDSNWithSecret(context.Background(), cfg.Search.URL, cfg.Search.Secret)
		if err != nil {
			return nil, err
		}
		cfg.Search.URL = expanded
	}
	if cfg.Vector.DSN != "" {
		expanded, err := expandUserPath(cfg.Vector.DSN)
		if err != nil {
			return nil, err
		}
		cfg.Vector.DSN = expanded
	}
	if cfg.CachePath != "" {
		expanded, err := expandUserPath(cfg.CachePath)
		if err != nil {
			return nil, err
		}
		cfg.CachePath = expanded
	}
	for name, src := range cfg.Sources {
		if src.Path == "" {
			continue
		}
		expanded, err := expandUserPath(src.Path)
		if err != nil {
			return nil, err
		}
		src.Path = expanded
		cfg.Sources[name] = src
	}
	return &cfg, nil
}

func expandUserPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if trimmed == "~" {
		return home, nil
	}
	if !strings.HasPrefix(trimmed, "~/") {
		return "", fmt.Errorf("config: unsupported ~user path: %s", path)
	}
	return filepath.Join(home, trimmed[2:]), nil
}

func expandStoreDSN(dsn, driver string) (string, error) {
	if dsn == "" {
		return dsn, nil
	}
	// Expand user path only for sqlite-like DSNs or plain paths.
	if driver == "sqlite" || dsn[0] == '~' {
		return expandUserPath(dsn)
	}
	return dsn, nil
}

// ExpandDSNWithSecret loads a secret and expands placeholders in the DSN.
func ExpandDSNWithSecret(ctx context.Context, dsn, secretRef string) (string, error) {
	secretRef = strings.TrimSpace(secretRef)
	if secretRef == "" {
		return dsn, nil
	}
	if strings.TrimSpace(dsn) == "" {
		return "", fmt.Errorf("secret %q provided but dsn is empty", secretRef)
	}
	svc := secret.New()
	sec, err := svc.Lookup(ctx, secret.Resource(secretRef))
	if err != nil {
		return "", err
	}
	return sec.Expand(dsn), nil
}
