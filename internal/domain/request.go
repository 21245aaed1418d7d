package domain

// RequestType is the discriminant selecting which intelligence lookup a
// request asks for. The set is closed: dispatch fails on anything else.
type RequestType string

const (
	RequestTradeFlow            RequestType = "trade_flow"
	RequestTariff               RequestType = "tariff"
	RequestMarketSize           RequestType = "market_size"
	RequestBuyers               RequestType = "buyers"
	RequestCompetitiveLandscape RequestType = "competitive_landscape"
)

// Request is the tagged union over the five intelligence request kinds.
// Exactly one variant is active, selected by Type; fields not belonging to
// the active variant are ignored. Which fields a variant requires is
// enforced by the dispatcher, not here.
type Request struct {
	Type RequestType `json:"type"`

	// trade_flow, tariff
	HSCode string `json:"hs_code,omitempty"`
	Year   int    `json:"year,omitempty"`

	// trade_flow, market_size, buyers, competitive_landscape
	Market string `json:"market,omitempty"`

	// tariff
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`

	// market_size, competitive_landscape
	ProductCategory string `json:"product_category,omitempty"`

	// buyers
	Industry string `json:"industry,omitempty"`
}

// Membership predicates, one per variant. Mutually exclusive; a request
// failing all five is unsupported and must fail dispatch.

func IsTradeFlow(r Request) bool { return r.Type == RequestTradeFlow }

func IsTariff(r Request) bool { return r.Type == RequestTariff }

func IsMarketSize(r Request) bool { return r.Type == RequestMarketSize }

func IsBuyers(r Request) bool { return r.Type == RequestBuyers }

func IsCompetitiveLandscape(r Request) bool {
	return r.Type == RequestCompetitiveLandscape
}

// KnownType reports whether t is one of the five supported discriminants.
func KnownType(t RequestType) bool {
	switch t {
	case RequestTradeFlow, RequestTariff, RequestMarketSize, RequestBuyers, RequestCompetitiveLandscape:
		return true
	default:
		return false
	}
}

// TradeFlowData is the payload returned for trade_flow requests.
type TradeFlowData struct {
	HSCode         string   `json:"hs_code"`
	Market         string   `json:"market"`
	Year           int      `json:"year"`
	ImportValueUSD float64  `json:"import_value_usd"`
	ImportVolume   float64  `json:"import_volume"`
	GrowthRate     float64  `json:"growth_rate"`
	TopSuppliers   []string `json:"top_suppliers"`
}

// TariffData is the payload returned for tariff requests.
type TariffData struct {
	HSCode           string  `json:"hs_code"`
	Origin           string  `json:"origin"`
	Destination      string  `json:"destination"`
	SimpleAverage    float64 `json:"simple_average"`
	WeightedAverage  float64 `json:"weighted_average"`
	MinRate          float64 `json:"min_rate"`
	MaxRate          float64 `json:"max_rate"`
	PreferentialRate bool    `json:"preferential_rate"`
}

// MarketSizeData is the payload returned for market_size requests.
type MarketSizeData struct {
	ProductCategory string  `json:"product_category"`
	Market          string  `json:"market"`
	MarketSizeUSD   float64 `json:"market_size_usd"`
	CAGR            float64 `json:"cagr"`
	ForecastYear    int     `json:"forecast_year"`
}

// Buyer describes one potential buyer in a market.
type Buyer struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Segment string `json:"segment"`
}

// BuyersData is the payload returned for buyers requests.
type BuyersData struct {
	Industry string  `json:"industry"`
	Market   string  `json:"market"`
	Buyers   []Buyer `json:"buyers"`
}

// CompetitiveLandscapeData is the payload returned for
// competitive_landscape requests.
type CompetitiveLandscapeData struct {
	ProductCategory string   `json:"product_category"`
	Market          string   `json:"market"`
	TopCompetitors  []string `json:"top_competitors"`
	MarketLeader    string   `json:"market_leader"`
	PriceRangeUSD   string   `json:"price_range_usd"`
}
