package providers

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"smacross/market"
)

// Manager routes fetch requests across data providers in priority order.
// The highest-priority provider is tried first; the others serve as
// fallbacks. A symbol with no data anywhere surfaces as ErrNoData, any
// other exhausted failure as ErrAllProvidersFailed.
type Manager struct {
	mu        sync.RWMutex
	providers []DataProvider
	logger    *zap.Logger
}

func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		providers: make([]DataProvider, 0),
		logger:    logger,
	}
}

// AddProvider registers a data provider. Providers are kept sorted by
// descending priority.
func (m *Manager) AddProvider(provider DataProvider) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.providers = append(m.providers, provider)
	sort.SliceStable(m.providers, func(i, j int) bool {
		return m.providers[i].Priority() > m.providers[j].Priority()
	})
}

// SetPrimary promotes the named provider to the front of the order.
func (m *Manager) SetPrimary(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, provider := range m.providers {
		if provider.Name() == name {
			m.providers = append(m.providers[:i], m.providers[i+1:]...)
			m.providers = append([]DataProvider{provider}, m.providers...)
			return nil
		}
	}
	return ErrProviderNotFound
}

// FetchDaily fetches daily bars, failing over between providers.
func (m *Manager) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error) {
	m.mu.RLock()
	providers := make([]DataProvider, len(m.providers))
	copy(providers, m.providers)
	m.mu.RUnlock()

	if len(providers) == 0 {
		return nil, ErrProviderNotFound
	}

	sawNoData := false
	for _, provider := range providers {
		bars, err := provider.FetchDaily(ctx, symbol, start, end)
		if err == nil && len(bars) > 0 {
			m.logger.Debug("fetched daily bars",
				zap.String("provider", provider.Name()),
				zap.String("symbol", symbol),
				zap.Int("bars", len(bars)))
			return bars, nil
		}
		if err == nil || errors.Is(err, ErrNoData) {
			sawNoData = true
			m.logger.Warn("provider returned no data",
				zap.String("provider", provider.Name()),
				zap.String("symbol", symbol))
			continue
		}
		m.logger.Warn("provider failed, trying fallback",
			zap.String("provider", provider.Name()),
			zap.String("symbol", symbol),
			zap.Error(err))
	}

	if sawNoData {
		return nil, ErrNoData
	}
	return nil, ErrAllProvidersFailed
}

// Status runs a health check against every provider.
func (m *Manager) Status(ctx context.Context) map[string]bool {
	m.mu.RLock()
	providers := make([]DataProvider, len(m.providers))
	copy(providers, m.providers)
	m.mu.RUnlock()

	status := make(map[string]bool, len(providers))
	for _, provider := range providers {
		status[provider.Name()] = provider.HealthCheck(ctx) == nil
	}
	return status
}

// Primary returns the name of the first provider in the failover order.
func (m *Manager) Primary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.providers) == 0 {
		return ""
	}
	return m.providers[0].Name()
}
