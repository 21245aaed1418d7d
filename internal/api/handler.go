// Package api binds the market-intelligence dispatcher to HTTP routes. It
// owns the edge conversion of taxonomy errors into error envelopes.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tradewind/marketintel/internal/domain"
	"github.com/tradewind/marketintel/internal/intel"
	"github.com/tradewind/marketintel/internal/server"
)

// Handler serves the intelligence routes.
type Handler struct {
	intel *intel.Handler
}

// NewHandler creates the HTTP boundary over the dispatcher.
func NewHandler(h *intel.Handler) *Handler {
	return &Handler{intel: h}
}

// Register mounts all routes on the router.
func (h *Handler) Register(r *chi.Mux) {
	r.Get("/healthz", h.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/trade-flows", h.handleTradeFlows)
		r.Get("/tariffs", h.handleTariffs)
		r.Get("/market-size", h.handleMarketSize)
		r.Get("/buyers", h.handleBuyers)
		r.Get("/competitive-landscape", h.handleCompetitiveLandscape)
		r.Post("/intel", h.handleIntel)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleTradeFlows(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := domain.Request{
		Type:   domain.RequestTradeFlow,
		HSCode: q.Get("hs_code"),
		Market: q.Get("market"),
	}
	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, domain.ErrValidation("year must be an integer").
				WithDetail("parameter", "year"))
			return
		}
		req.Year = year
	}
	h.dispatch(w, r, req)
}

func (h *Handler) handleTariffs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.dispatch(w, r, domain.Request{
		Type:        domain.RequestTariff,
		HSCode:      q.Get("hs_code"),
		Origin:      q.Get("origin"),
		Destination: q.Get("destination"),
	})
}

func (h *Handler) handleMarketSize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.dispatch(w, r, domain.Request{
		Type:            domain.RequestMarketSize,
		ProductCategory: q.Get("product_category"),
		Market:          q.Get("market"),
	})
}

func (h *Handler) handleBuyers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.dispatch(w, r, domain.Request{
		Type:     domain.RequestBuyers,
		Industry: q.Get("industry"),
		Market:   q.Get("market"),
	})
}

func (h *Handler) handleCompetitiveLandscape(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.dispatch(w, r, domain.Request{
		Type:            domain.RequestCompetitiveLandscape,
		ProductCategory: q.Get("product_category"),
		Market:          q.Get("market"),
	})
}

// handleIntel is the unified route: the tagged request arrives as the JSON
// body. Required fields are pre-validated per discriminant as a fast-fail
// before dispatch; the branch re-checks them.
func (h *Handler) handleIntel(w http.ResponseWriter, r *http.Request) {
	var req domain.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, domain.ErrValidation("invalid request body").
			WithDetail("original_error", err.Error()))
		return
	}

	if err := preValidate(req); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.dispatch(w, r, req)
}

type requiredField struct {
	name  string
	value string
}

// preValidate duplicates the per-branch required-field checks for the
// unified route, in the same fixed order the branches use.
func preValidate(req domain.Request) error {
	var required []requiredField
	switch {
	case domain.IsTradeFlow(req):
		required = []requiredField{{"hs_code", req.HSCode}, {"market", req.Market}}
	case domain.IsTariff(req):
		required = []requiredField{{"hs_code", req.HSCode}, {"origin", req.Origin}, {"destination", req.Destination}}
	case domain.IsMarketSize(req):
		required = []requiredField{{"product_category", req.ProductCategory}, {"market", req.Market}}
	case domain.IsBuyers(req):
		required = []requiredField{{"industry", req.Industry}, {"market", req.Market}}
	case domain.IsCompetitiveLandscape(req):
		required = []requiredField{{"product_category", req.ProductCategory}, {"market", req.Market}}
	default:
		// Unknown discriminants fall through to the dispatcher, which owns
		// the failure message.
		return nil
	}

	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return domain.ErrValidation(f.name + " is required").
				WithDetail("parameter", f.name)
		}
	}
	return nil
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, req domain.Request) {
	server.AddLogField(r.Context(), "request_type", string(req.Type))

	resp, err := h.intel.Handle(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, resp.Status, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	server.AddError(r.Context(), err)
	envelope := domain.ToEnvelope(err)
	writeJSON(w, envelope.Status, envelope)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
