package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tradewind/marketintel/internal/domain"
	"github.com/tradewind/marketintel/internal/intel"
	"github.com/tradewind/marketintel/internal/server"
	"github.com/tradewind/marketintel/internal/tradeflow"
	"github.com/tradewind/marketintel/internal/wits"
)

// mockClient backs both dispatcher dependencies.
type mockClient struct {
	tradeFlowFunc func(ctx context.Context, q wits.TradeFlowQuery) (*wits.TradeFlowRecord, error)
	tariffFunc    func(ctx context.Context, q wits.TariffQuery) (*wits.TariffRecord, error)
}

func (m *mockClient) GetTradeFlow(ctx context.Context, q wits.TradeFlowQuery) (*wits.TradeFlowRecord, error) {
	if m.tradeFlowFunc != nil {
		return m.tradeFlowFunc(ctx, q)
	}
	return &wits.TradeFlowRecord{Year: 2024, TradeValue: 5000000000, NetWeight: 250000}, nil
}

func (m *mockClient) GetTariff(ctx context.Context, q wits.TariffQuery) (*wits.TariffRecord, error) {
	if m.tariffFunc != nil {
		return m.tariffFunc(ctx, q)
	}
	return &wits.TariffRecord{SimpleAverage: 5}, nil
}

func newTestRouter(client *mockClient) *chi.Mux {
	flows := tradeflow.New(client, tradeflow.Config{TTL: time.Hour}, nil)
	dispatcher := intel.NewHandler(flows, client)
	srv := server.New(0, 30*time.Second, slog.Default())
	NewHandler(dispatcher).Register(srv.Router)
	return srv.Router
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not JSON: %v", err)
	}
	return body
}

func TestTradeFlowsRoute(t *testing.T) {
	router := newTestRouter(&mockClient{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/trade-flows?hs_code=210690&market=UAE", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["status"] != float64(200) {
		t.Errorf("envelope status = %v, want 200", body["status"])
	}
	data, _ := body["data"].(map[string]any)
	if data["import_value_usd"] != float64(5000000000) {
		t.Errorf("import_value_usd = %v, want 5000000000", data["import_value_usd"])
	}
	meta, _ := body["metadata"].(map[string]any)
	if meta["source"] != "WITS API" {
		t.Errorf("metadata.source = %v, want WITS API", meta["source"])
	}
}

func TestTradeFlowsRoute_MissingField(t *testing.T) {
	router := newTestRouter(&mockClient{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/trade-flows?market=UAE", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error_code"] != "VALIDATION_ERROR" {
		t.Errorf("error_code = %v, want VALIDATION_ERROR", body["error_code"])
	}
	if body["data"] != nil {
		t.Errorf("data = %v, want null", body["data"])
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "hs_code") {
		t.Errorf("message %q does not name hs_code", msg)
	}
}

func TestTradeFlowsRoute_BadYear(t *testing.T) {
	router := newTestRouter(&mockClient{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/trade-flows?hs_code=210690&market=UAE&year=abc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTariffsRoute(t *testing.T) {
	router := newTestRouter(&mockClient{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tariffs?hs_code=210690&origin=IND&destination=UAE", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	data, _ := body["data"].(map[string]any)
	if data["simple_average"] != float64(5) {
		t.Errorf("simple_average = %v, want 5", data["simple_average"])
	}
}

func TestUnifiedRoute(t *testing.T) {
	router := newTestRouter(&mockClient{})

	payload := `{"type":"buyers","industry":"food","market":"UAE"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/intel", strings.NewReader(payload)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	meta, _ := body["metadata"].(map[string]any)
	if meta["source"] != "Buyer Directory" {
		t.Errorf("metadata.source = %v, want Buyer Directory", meta["source"])
	}
}

func TestUnifiedRoute_PreValidation(t *testing.T) {
	router := newTestRouter(&mockClient{})

	payload := `{"type":"tariff","hs_code":"210690","origin":"IND"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/intel", strings.NewReader(payload)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if msg, _ := body["message"].(string); !strings.Contains(msg, "destination") {
		t.Errorf("message %q does not name destination", msg)
	}
}

func TestUnifiedRoute_UnknownType(t *testing.T) {
	router := newTestRouter(&mockClient{})

	payload := `{"type":"price_forecast"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/intel", strings.NewReader(payload)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if msg, _ := body["message"].(string); !strings.Contains(msg, "price_forecast") {
		t.Errorf("message %q does not name the unknown type", msg)
	}
}

func TestUnifiedRoute_MalformedBody(t *testing.T) {
	router := newTestRouter(&mockClient{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/intel", strings.NewReader("{not json")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error_code"] != "VALIDATION_ERROR" {
		t.Errorf("error_code = %v, want VALIDATION_ERROR", body["error_code"])
	}
}

func TestUpstreamFailureBecomesErrorEnvelope(t *testing.T) {
	client := &mockClient{
		tradeFlowFunc: func(ctx context.Context, q wits.TradeFlowQuery) (*wits.TradeFlowRecord, error) {
			return nil, domain.ErrExternalAPI("trade data API unreachable")
		},
	}
	router := newTestRouter(client)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/trade-flows?hs_code=210690&market=UAE", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error_code"] != "EXTERNAL_API_ERROR" {
		t.Errorf("error_code = %v, want EXTERNAL_API_ERROR", body["error_code"])
	}
	if body["data"] != nil {
		t.Errorf("data = %v, want null", body["data"])
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&mockClient{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
