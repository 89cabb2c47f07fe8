package gemini

import (
	"log/slog"
	"os"
	"time"
)

// Config for one Gemini client. The checkbox and personal-details contracts
// use different models, so the pipeline is wired with two clients.
type Config struct {
	APIKey      string // if empty, falls back to env GEMINI_API_KEY
	Model       string // e.g. "gemini-2.5-flash"
	Temperature float32
	Timeout     time.Duration // per-call deadline
}

type Client struct {
	cfg Config
	log *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, log: logger}
}
