package wits

// TradeFlowQuery identifies one trade-flow lookup.
type TradeFlowQuery struct {
	Reporter    string
	Partner     string
	ProductCode string
	// Year of the observation; zero means the previous calendar year.
	Year int
}

// TariffQuery identifies one tariff-rate lookup.
type TariffQuery struct {
	Reporter    string
	Partner     string
	ProductCode string
	Year        int
}

// TradeFlowRecord is the upstream trade-flow response body, decoded as-is.
type TradeFlowRecord struct {
	Reporter    string  `json:"reporter"`
	Partner     string  `json:"partner"`
	ProductCode string  `json:"productCode"`
	Year        int     `json:"year"`
	TradeValue  float64 `json:"tradeValue"`
	NetWeight   float64 `json:"netWeight"`
	Quantity    float64 `json:"quantity"`
	TradeFlow   string  `json:"tradeFlow"`
}

// TariffRecord is the upstream tariff response body, decoded as-is.
type TariffRecord struct {
	Reporter        string  `json:"reporter"`
	Partner         string  `json:"partner"`
	ProductCode     string  `json:"productCode"`
	Year            int     `json:"year"`
	SimpleAverage   float64 `json:"simpleAverage"`
	WeightedAverage float64 `json:"weightedAverage"`
	MinRate         float64 `json:"minRate"`
	MaxRate         float64 `json:"maxRate"`
	NomenCode       string  `json:"nomenCode"`
}

// errorBody is the shape upstream error responses are parsed from.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
