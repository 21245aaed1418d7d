// Package tradeflow serves trade-flow lookups through a TTL-bounded
// in-memory cache in front of the WITS client.
package tradeflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tradewind/marketintel/internal/domain"
	"github.com/tradewind/marketintel/internal/wits"
)

const (
	defaultTTL     = time.Hour
	sourceLabel    = "WITS API"
	confidenceFlow = 0.85
)

// Fetcher is the one client method the service decorates.
type Fetcher interface {
	GetTradeFlow(ctx context.Context, q wits.TradeFlowQuery) (*wits.TradeFlowRecord, error)
}

type entry struct {
	data domain.TradeFlowData
	at   time.Time
}

// Service caches trade-flow payloads per (product, market, year) key.
// Entries are never proactively evicted; staleness is computed lazily at
// lookup time against the TTL. The map is unbounded.
type Service struct {
	client         Fetcher
	ttl            time.Duration
	defaultPartner string
	logger         *slog.Logger

	mu    sync.Mutex
	cache map[string]entry
}

// Config holds the construction-time settings of the service. There is no
// runtime mutation.
type Config struct {
	// TTL after which a cache entry is treated as a miss. Defaults to 1h.
	TTL time.Duration
	// DefaultPartner is the partner code sent upstream; defaults to the
	// world aggregate.
	DefaultPartner string
}

// New creates a trade-flow service over the given client.
func New(client Fetcher, cfg Config, logger *slog.Logger) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.DefaultPartner == "" {
		cfg.DefaultPartner = wits.WorldCode
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:         client,
		ttl:            cfg.TTL,
		defaultPartner: cfg.DefaultPartner,
		logger:         logger,
		cache:          make(map[string]entry),
	}
}

// Get returns the trade-flow envelope for an HS code and market. A fresh
// cache hit never touches the network and is marked with source "Cache" and
// the entry's creation time. On a miss or stale hit the upstream is called
// and the entry overwritten. Two concurrent misses for the same key may both
// call upstream; the last writer wins.
func (s *Service) Get(ctx context.Context, hsCode, market string, year int) (*domain.Response, error) {
	key := cacheKey(hsCode, market, year)

	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()

	if ok && time.Since(cached.at) < s.ttl {
		s.logger.Debug("trade flow cache hit", slog.String("key", key))
		return domain.Cached(cached.data, cached.at, domain.WithConfidence(confidenceFlow)), nil
	}

	record, err := s.client.GetTradeFlow(ctx, wits.TradeFlowQuery{
		Reporter:    market,
		Partner:     s.defaultPartner,
		ProductCode: hsCode,
		Year:        year,
	})
	if err != nil {
		return nil, err
	}
	record = wits.NormalizeResponseForCaller(record, market)

	data := buildPayload(record, hsCode, market)

	s.mu.Lock()
	s.cache[key] = entry{data: data, at: time.Now()}
	s.mu.Unlock()

	s.logger.Debug("trade flow cache fill", slog.String("key", key))
	return domain.Success(data,
		domain.WithSource(sourceLabel),
		domain.WithConfidence(confidenceFlow),
	), nil
}

// Clear empties the cache unconditionally.
func (s *Service) Clear() {
	s.mu.Lock()
	s.cache = make(map[string]entry)
	s.mu.Unlock()
}

// Len reports the number of cached entries.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// buildPayload maps an upstream record into the caller-facing payload.
// Fields the upstream does not provide are left at placeholder zero values.
// The market is echoed as the caller supplied it, not as the upstream
// canonical code.
func buildPayload(record *wits.TradeFlowRecord, hsCode, market string) domain.TradeFlowData {
	return domain.TradeFlowData{
		HSCode:         hsCode,
		Market:         market,
		Year:           record.Year,
		ImportValueUSD: record.TradeValue,
		ImportVolume:   record.NetWeight,
		GrowthRate:     0,
		TopSuppliers:   []string{},
	}
}

func cacheKey(hsCode, market string, year int) string {
	yearPart := "latest"
	if year > 0 {
		yearPart = fmt.Sprintf("%d", year)
	}
	return hsCode + ":" + market + ":" + yearPart
}
