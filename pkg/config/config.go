// Package config loads settings from an optional YAML file with environment
// variables taking precedence.
package config

import (
	"errors"
	"os"
	"strings"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLiveURL = "https://quadball.live/"
	DefaultLogDir  = "game_logs"
	DefaultPort    = "8080"
)

var ErrNoGames = errors.New("either a tournament id or game ids are required")

type Config struct {
	LiveURL      string   `yaml:"live_url"`
	LiveAuth     string   `yaml:"live_auth"`
	TournamentID string   `yaml:"tournament_id"`
	GameIDs      []string `yaml:"game_ids"`
	LogDir       string   `yaml:"log_dir"`
	Port         string   `yaml:"port"`
	CORSHosts    []string `yaml:"cors_hosts"`

	Firebase Firebase `yaml:"firebase"`
	Mail     Mail     `yaml:"mail"`
}

type Firebase struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsJSON string `yaml:"credentials_json"`
}

type Mail struct {
	ResendKey string   `yaml:"resend_key"`
	From      string   `yaml:"from"`
	To        []string `yaml:"to"`
}

// Load reads path (skipped when empty), applies the environment and fills
// defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, xerrors.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, xerrors.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.LiveURL, "QUADBALL_LIVE_URL")
	setString(&c.LiveAuth, "QUADBALL_LIVE_AUTH")
	setString(&c.TournamentID, "QUADBALL_TOURNAMENT_ID")
	setList(&c.GameIDs, "QUADBALL_GAME_IDS")
	setString(&c.LogDir, "GAME_LOG_DIR")
	setString(&c.Port, "PORT")
	setList(&c.CORSHosts, "CORS_HOSTS")
	setString(&c.Firebase.ProjectID, "FIREBASE_PROJECT_ID")
	setString(&c.Firebase.CredentialsJSON, "FIREBASE_CREDENTIALS_JSON")
	setString(&c.Mail.ResendKey, "RESEND_KEY")
	setString(&c.Mail.From, "RESULT_MAIL_FROM")
	setList(&c.Mail.To, "RESULT_MAIL_TO")
}

func (c *Config) applyDefaults() {
	if c.LiveURL == "" {
		c.LiveURL = DefaultLiveURL
	}
	if c.LogDir == "" {
		c.LogDir = DefaultLogDir
	}
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.Mail.From == "" {
		c.Mail.From = "onboarding@resend.dev"
	}
}

// Validate checks that there is something to watch.
func (c *Config) Validate() error {
	if c.TournamentID == "" && len(c.GameIDs) == 0 {
		return ErrNoGames
	}
	return nil
}

// FirestoreEnabled reports whether results can be stored.
func (c *Config) FirestoreEnabled() bool {
	return c.Firebase.ProjectID != ""
}

// FeedURL returns the websocket endpoint derived from LiveURL.
func (c *Config) FeedURL() string {
	u := c.LiveURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u + "ws"
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	*dst = SplitList(v)
}

// SplitList splits a comma separated list and drops empty entries.
func SplitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
