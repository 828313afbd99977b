package domain

import "testing"

func TestParsePair(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Pair
		wantErr bool
	}{
		{name: "upper", input: "BTC/USDT", want: Pair{Base: "BTC", Quote: "USDT"}},
		{name: "lower_normalized", input: "eth/usdt", want: Pair{Base: "ETH", Quote: "USDT"}},
		{name: "surrounding_whitespace", input: " sol/usdt ", want: Pair{Base: "SOL", Quote: "USDT"}},
		{name: "missing_quote", input: "BTC/", wantErr: true},
		{name: "missing_base", input: "/USDT", wantErr: true},
		{name: "no_separator", input: "BTCUSDT", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePair(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePair(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePair(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePair(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPair_Symbol(t *testing.T) {
	p := MustParsePair("btc/usdt")
	if got := p.Symbol(); got != "BTCUSDT" {
		t.Errorf("Symbol() = %q, want %q", got, "BTCUSDT")
	}
	if got := p.String(); got != "BTC/USDT" {
		t.Errorf("String() = %q, want %q", got, "BTC/USDT")
	}
}

func TestPairSnapshot_CrossExchange(t *testing.T) {
	snap := &PairSnapshot{
		BestBuy:  Quote{Exchange: "binance"},
		BestSell: Quote{Exchange: "mexc"},
	}
	if !snap.CrossExchange() {
		t.Error("CrossExchange() = false for distinct exchanges")
	}

	snap.BestSell.Exchange = "binance"
	if snap.CrossExchange() {
		t.Error("CrossExchange() = true for same exchange")
	}
}
