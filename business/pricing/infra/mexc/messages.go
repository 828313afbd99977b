package mexc

// bookTickerResponse is the payload of GET /api/v3/ticker/bookTicker.
// Prices and quantities arrive as decimal strings.
type bookTickerResponse struct {
	Symbol   string `json:"symbol"`
	BidPrice string `json:"bidPrice"`
	BidQty   string `json:"bidQty"`
	AskPrice string `json:"askPrice"`
	AskQty   string `json:"askQty"`
}

// apiError is the MEXC error envelope returned with non-2xx statuses.
type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}
