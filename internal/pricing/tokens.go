package pricing

import "strings"

// Token is a well-known price source token.
type Token struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

var tokens = []Token{
	{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin"},
	{ID: "ethereum", Symbol: "ETH", Name: "Ethereum"},
	{ID: "tether", Symbol: "USDT", Name: "Tether"},
	{ID: "binancecoin", Symbol: "BNB", Name: "BNB"},
	{ID: "solana", Symbol: "SOL", Name: "Solana"},
	{ID: "ripple", Symbol: "XRP", Name: "XRP"},
	{ID: "usd-coin", Symbol: "USDC", Name: "USD Coin"},
	{ID: "cardano", Symbol: "ADA", Name: "Cardano"},
	{ID: "dogecoin", Symbol: "DOGE", Name: "Dogecoin"},
	{ID: "tron", Symbol: "TRX", Name: "TRON"},
	{ID: "polkadot", Symbol: "DOT", Name: "Polkadot"},
	{ID: "matic-network", Symbol: "MATIC", Name: "Polygon"},
	{ID: "litecoin", Symbol: "LTC", Name: "Litecoin"},
	{ID: "avalanche-2", Symbol: "AVAX", Name: "Avalanche"},
	{ID: "chainlink", Symbol: "LINK", Name: "Chainlink"},
	{ID: "uniswap", Symbol: "UNI", Name: "Uniswap"},
	{ID: "stellar", Symbol: "XLM", Name: "Stellar"},
	{ID: "cosmos", Symbol: "ATOM", Name: "Cosmos"},
	{ID: "monero", Symbol: "XMR", Name: "Monero"},
	{ID: "near", Symbol: "NEAR", Name: "NEAR Protocol"},
}

var (
	tokensByID     = make(map[string]Token, len(tokens))
	tokensBySymbol = make(map[string]Token, len(tokens))
)

func init() {
	for _, t := range tokens {
		tokensByID[t.ID] = t
		tokensBySymbol[t.Symbol] = t
	}
}

// Tokens returns the catalog of well-known tokens in display order.
func Tokens() []Token {
	out := make([]Token, len(tokens))
	copy(out, tokens)
	return out
}

// LookupToken returns the catalog entry for a price source id.
func LookupToken(id string) (Token, bool) {
	t, ok := tokensByID[strings.ToLower(strings.TrimSpace(id))]
	return t, ok
}

// LookupBySymbol maps a ticker symbol (e.g. "BTC") to its catalog entry.
func LookupBySymbol(symbol string) (Token, bool) {
	t, ok := tokensBySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	return t, ok
}
