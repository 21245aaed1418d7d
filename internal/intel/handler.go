// Package intel dispatches market-intelligence requests to their handler
// branch and shapes the results into uniform envelopes.
package intel

import (
	"context"
	"fmt"
	"strings"

	"github.com/tradewind/marketintel/internal/domain"
	"github.com/tradewind/marketintel/internal/tradeflow"
	"github.com/tradewind/marketintel/internal/wits"
)

// Per-variant source labels and confidence scores. Illustrative constants:
// the envelope contract is what matters, not the numbers.
const (
	sourceTariff      = "WITS API"
	sourceMarketSize  = "Market Analysis"
	sourceBuyers      = "Buyer Directory"
	sourceCompetitive = "Competitive Analysis"

	confidenceTariff      = 0.9
	confidenceMarketSize  = 0.7
	confidenceBuyers      = 0.75
	confidenceCompetitive = 0.7
)

// TariffFetcher is the client surface the tariff branch needs.
type TariffFetcher interface {
	GetTariff(ctx context.Context, q wits.TariffQuery) (*wits.TariffRecord, error)
}

// Handler routes a tagged request to one of the five intelligence branches.
type Handler struct {
	flows  *tradeflow.Service
	client TariffFetcher
}

// NewHandler creates a dispatcher over the trade-flow service and the WITS
// client.
func NewHandler(flows *tradeflow.Service, client TariffFetcher) *Handler {
	return &Handler{flows: flows, client: client}
}

// Handle validates the request discriminant, routes to the matching branch
// and returns that branch's envelope. Branch errors, including nested client
// failures, propagate unconverted; the HTTP boundary owns the conversion to
// an error envelope.
func (h *Handler) Handle(ctx context.Context, req domain.Request) (*domain.Response, error) {
	if strings.TrimSpace(string(req.Type)) == "" {
		return nil, domain.ErrValidation("request type is required")
	}

	switch {
	case domain.IsTradeFlow(req):
		return h.handleTradeFlow(ctx, req)
	case domain.IsTariff(req):
		return h.handleTariff(ctx, req)
	case domain.IsMarketSize(req):
		return h.handleMarketSize(req)
	case domain.IsBuyers(req):
		return h.handleBuyers(req)
	case domain.IsCompetitiveLandscape(req):
		return h.handleCompetitiveLandscape(req)
	default:
		return nil, domain.ErrValidation(fmt.Sprintf("unsupported request type %q", req.Type)).
			WithDetail("type", string(req.Type))
	}
}

func (h *Handler) handleTradeFlow(ctx context.Context, req domain.Request) (*domain.Response, error) {
	if err := requireFields(field{"hs_code", req.HSCode}, field{"market", req.Market}); err != nil {
		return nil, err
	}
	return h.flows.Get(ctx, req.HSCode, req.Market, req.Year)
}

func (h *Handler) handleTariff(ctx context.Context, req domain.Request) (*domain.Response, error) {
	if err := requireFields(
		field{"hs_code", req.HSCode},
		field{"origin", req.Origin},
		field{"destination", req.Destination},
	); err != nil {
		return nil, err
	}

	record, err := h.client.GetTariff(ctx, wits.TariffQuery{
		Reporter:    req.Destination,
		Partner:     req.Origin,
		ProductCode: req.HSCode,
	})
	if err != nil {
		return nil, err
	}

	data := domain.TariffData{
		HSCode:          req.HSCode,
		Origin:          req.Origin,
		Destination:     req.Destination,
		SimpleAverage:   record.SimpleAverage,
		WeightedAverage: record.WeightedAverage,
		MinRate:         record.MinRate,
		MaxRate:         record.MaxRate,
	}
	return domain.Success(data,
		domain.WithSource(sourceTariff),
		domain.WithConfidence(confidenceTariff),
	), nil
}

func (h *Handler) handleMarketSize(req domain.Request) (*domain.Response, error) {
	if err := requireFields(
		field{"product_category", req.ProductCategory},
		field{"market", req.Market},
	); err != nil {
		return nil, err
	}

	// Placeholder figures; a real implementation would derive these.
	data := domain.MarketSizeData{
		ProductCategory: req.ProductCategory,
		Market:          req.Market,
		MarketSizeUSD:   1_200_000_000,
		CAGR:            6.5,
		ForecastYear:    2030,
	}
	return domain.Success(data,
		domain.WithSource(sourceMarketSize),
		domain.WithConfidence(confidenceMarketSize),
	), nil
}

func (h *Handler) handleBuyers(req domain.Request) (*domain.Response, error) {
	if err := requireFields(
		field{"industry", req.Industry},
		field{"market", req.Market},
	); err != nil {
		return nil, err
	}

	data := domain.BuyersData{
		Industry: req.Industry,
		Market:   req.Market,
		Buyers: []domain.Buyer{
			{Name: "Gulf Trading Co", Country: req.Market, Segment: "Distribution"},
			{Name: "Horizon Imports", Country: req.Market, Segment: "Retail"},
			{Name: "Crescent Foods LLC", Country: req.Market, Segment: "Food Service"},
		},
	}
	return domain.Success(data,
		domain.WithSource(sourceBuyers),
		domain.WithConfidence(confidenceBuyers),
	), nil
}

func (h *Handler) handleCompetitiveLandscape(req domain.Request) (*domain.Response, error) {
	if err := requireFields(
		field{"product_category", req.ProductCategory},
		field{"market", req.Market},
	); err != nil {
		return nil, err
	}

	data := domain.CompetitiveLandscapeData{
		ProductCategory: req.ProductCategory,
		Market:          req.Market,
		TopCompetitors:  []string{"Nestle", "Unilever", "Local Brands"},
		MarketLeader:    "Nestle",
		PriceRangeUSD:   "2.50 - 8.00",
	}
	return domain.Success(data,
		domain.WithSource(sourceCompetitive),
		domain.WithConfidence(confidenceCompetitive),
	), nil
}

type field struct {
	name  string
	value string
}

// requireFields checks required fields in the given order and fails with a
// validation error naming the first missing one.
func requireFields(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return domain.ErrValidation(fmt.Sprintf("%s is required", f.name)).
				WithDetail("parameter", f.name)
		}
	}
	return nil
}
