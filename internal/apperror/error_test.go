package apperror

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
		wantSubstr  []string
	}{
		{
			name:        "default message from code",
			err:         New(CodeOrderFailed),
			wantMessage: "Order placement failed",
		},
		{
			name:        "message override",
			err:         New(CodeOrderFailed, WithMessage("limit order rejected")),
			wantMessage: "limit order rejected",
		},
		{
			name:        "unknown code falls back to code string",
			err:         New(Code("SOMETHING_ELSE")),
			wantMessage: "SOMETHING_ELSE",
		},
		{
			name:        "context renders sorted",
			err:         New(CodeExchangeAPIError, WithContext("pair", "BTC/USDT"), WithContext("exchange", "binance")),
			wantMessage: "Exchange API error",
			wantSubstr:  []string{"exchange=binance pair=BTC/USDT"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.wantMessage)
			}
			for _, s := range tt.wantSubstr {
				if !strings.Contains(tt.err.Error(), s) {
					t.Errorf("Error() = %q, want substring %q", tt.err.Error(), s)
				}
			}
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil passthrough", func(t *testing.T) {
		if got := Wrap(nil, CodeInternalError); got != nil {
			t.Fatalf("Wrap(nil) = %v, want nil", got)
		}
	})

	t.Run("plain error becomes cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Wrap(cause, CodeExchangeUnavailable, WithContext("exchange", "mexc"))
		if !errors.Is(err, cause) {
			t.Error("wrapped error should match its cause via errors.Is")
		}
		if err.Code != CodeExchangeUnavailable {
			t.Errorf("Code = %q, want %q", err.Code, CodeExchangeUnavailable)
		}
	})

	t.Run("existing AppError keeps code and gains context", func(t *testing.T) {
		inner := New(CodePairNotListed, WithContext("pair", "XYZ/USDT"))
		err := Wrap(inner, CodeExchangeAPIError, WithContext("exchange", "binance"))
		if err.Code != CodePairNotListed {
			t.Errorf("Code = %q, want inner code %q", err.Code, CodePairNotListed)
		}
		if err.Fields["exchange"] != "binance" {
			t.Errorf("Fields[exchange] = %q, want %q", err.Fields["exchange"], "binance")
		}
	})
}

func TestIs(t *testing.T) {
	err := Wrap(errors.New("boom"), CodeWithdrawFailed)
	if !errors.Is(err, New(CodeWithdrawFailed)) {
		t.Error("errors with equal codes should match")
	}
	if errors.Is(err, New(CodeOrderFailed)) {
		t.Error("errors with different codes should not match")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"app error", New(CodeRateLimitExceeded), CodeRateLimitExceeded},
		{"wrapped app error", Wrap(New(CodeCircuitOpen), CodeInternalError), CodeCircuitOpen},
		{"plain error", errors.New("boom"), CodeUnknownError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapDeepCause(t *testing.T) {
	root := errors.New("dial tcp: timeout")
	mid := Wrap(root, CodeExchangeUnavailable)
	outer := Wrap(mid, CodeInternalError)
	if !errors.Is(outer, root) {
		t.Error("root cause should survive nested wrapping")
	}
}
