package classifier

import (
	"log/slog"

	"github.com/nikhilsomani/logsift/internal/classifier/deepseek"
	"github.com/nikhilsomani/logsift/internal/config"
)

// NewFromConfig constructs the classification service for the configured
// provider. A missing API key or an explicit "heuristic" provider yields
// a pure-heuristic service rather than a startup failure, so a
// misconfigured provider degrades instead of taking the server down.
func NewFromConfig(cfg config.ClassifierConfig) *Service {
	var external Strategy

	switch cfg.Provider {
	case "deepseek":
		if cfg.DeepSeek.APIKey == "" {
			slog.Warn("DEEPSEEK_API_KEY not set, classification runs in heuristic mode")
		} else {
			external = deepseek.NewProvider(cfg.DeepSeek)
		}
	case "heuristic", "":
		// local only
	default:
		slog.Warn("unknown classifier provider, classification runs in heuristic mode",
			"provider", cfg.Provider)
	}

	return NewService(external, cfg.Timeout)
}
