// Package http serves the interactive chart UI and the JSON API.
package http

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"smacross/config"
	"smacross/market"
	"smacross/market/providers"
	"smacross/strategy"
)

const cacheSize = 64

// ErrBadRequest marks client-side parameter errors.
var ErrBadRequest = fmt.Errorf("bad request")

// Request is one crossover computation request, from query params or a
// websocket frame.
type Request struct {
	Symbol      string    `json:"symbol"`
	Start       time.Time `json:"-"`
	End         time.Time `json:"-"`
	ShortWindow int       `json:"short"`
	LongWindow  int       `json:"long"`
}

// Service fetches price history and runs the crossover computation for
// the handlers. Fetched series are cached in memory so that changing the
// window sliders does not re-hit the data provider.
type Service struct {
	manager *providers.Manager
	cache   *lru.Cache[string, []market.Bar]
	logger  *zap.Logger

	mu       sync.RWMutex
	defaults *config.Config
}

func NewService(manager *providers.Manager, cfg *config.Config, logger *zap.Logger) (*Service, error) {
	cache, err := lru.New[string, []market.Bar](cacheSize)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		manager:  manager,
		cache:    cache,
		logger:   logger,
		defaults: cfg,
	}, nil
}

// Defaults returns the current default parameters for the UI widgets.
func (s *Service) Defaults() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults
}

// SetDefaults swaps the defaults, used by the config hot reload.
func (s *Service) SetDefaults(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults = cfg
}

// Compute fetches the series for the request and runs the crossover
// computation. Window validation happens before any network call.
func (s *Service) Compute(ctx context.Context, req Request) (*strategy.Result, error) {
	if req.ShortWindow <= 0 || req.LongWindow <= 0 || req.ShortWindow >= req.LongWindow {
		return nil, strategy.ErrInvalidWindows
	}
	if req.Symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrBadRequest)
	}
	if !req.Start.Before(req.End) {
		return nil, fmt.Errorf("%w: start date must be before end date", ErrBadRequest)
	}

	bars, err := s.fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := strategy.Crossover(bars, req.ShortWindow, req.LongWindow)
	if err != nil {
		return nil, err
	}
	if result.Symbol == "" {
		result.Symbol = req.Symbol
	}
	return result, nil
}

func (s *Service) fetch(ctx context.Context, req Request) ([]market.Bar, error) {
	key := fmt.Sprintf("%s|%s|%s", req.Symbol, req.Start.Format("2006-01-02"), req.End.Format("2006-01-02"))
	if bars, ok := s.cache.Get(key); ok {
		return bars, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.Defaults().FetchTimeout())
	defer cancel()

	bars, err := s.manager.FetchDaily(ctx, req.Symbol, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	s.cache.Add(key, bars)
	return bars, nil
}
