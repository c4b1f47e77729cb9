package lookup

import (
	"errors"
	"log/slog"

	"github.com/dgallion1/sententia/internal/config"
)

// Service is the configured lookup stack: the YAML lexicon first, then the
// dictionary service with retries, behind one shared cache.
type Service struct {
	*Cache
	Latency *Stats
	client  *Client
}

// Open builds the lookup stack from cfg.
func Open(cfg config.Config, log *slog.Logger) (*Service, error) {
	var chain Chain
	if cfg.LexiconPath != "" {
		lx, err := LoadLexicon(cfg.LexiconPath)
		if err != nil {
			return nil, err
		}
		log.Info("lexicon loaded", "path", cfg.LexiconPath, "entries", lx.Len())
		chain = append(chain, lx)
	}
	s := &Service{Latency: NewStats(cfg.LookupStatsWindow)}
	if cfg.LookupURL != "" {
		s.client = NewClient(cfg.LookupURL, cfg.LookupAPIKey, s.Latency)
		chain = append(chain, NewRetrying(s.client, log))
	}
	if len(chain) == 0 {
		return nil, errors.New("no lookup source configured")
	}
	s.Cache = NewCache(chain)
	return s, nil
}

// Close releases idle service connections.
func (s *Service) Close() {
	if s.client != nil {
		s.client.Close()
	}
}
