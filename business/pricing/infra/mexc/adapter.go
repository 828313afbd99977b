// Package mexc implements a quote-only exchange adapter for MEXC spot
// markets over the public REST API. It carries no credentials, so order and
// withdrawal capability are always absent.
package mexc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/avescod/crossarb/business/pricing/app"
	"github.com/avescod/crossarb/business/pricing/domain"
	"github.com/avescod/crossarb/internal/apperror"
	"github.com/avescod/crossarb/internal/circuitbreaker"
	"github.com/avescod/crossarb/internal/httpclient"
	"github.com/avescod/crossarb/internal/logger"
	"github.com/avescod/crossarb/internal/ratelimit"
)

const (
	tracerName   = "mexc"
	exchangeName = "mexc"

	DefaultBaseURL = "https://api.mexc.com"

	bookTickerPath = "/api/v3/ticker/bookTicker"

	// MEXC error code for an unknown trading symbol.
	codeInvalidSymbol = -1121
)

// Config holds the MEXC adapter configuration.
type Config struct {
	BaseURL string
}

// Adapter serves top-of-book quotes from MEXC.
type Adapter struct {
	http    *httpclient.Client
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.Breaker[bookTickerResponse]
	logger  logger.LoggerInterface
	tracer  trace.Tracer
}

var _ app.Adapter = (*Adapter)(nil)

// New creates a MEXC adapter backed by the instrumented HTTP client.
func New(cfg Config, limiter *ratelimit.Limiter, log logger.LoggerInterface) (*Adapter, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client, err := httpclient.New(
		httpclient.WithBaseURL(baseURL),
		httpclient.WithProviderName(exchangeName),
		httpclient.WithResponseErrorHandler(handleAPIError),
	)
	if err != nil {
		return nil, err
	}

	bcfg := circuitbreaker.DefaultConfig("mexc-quotes")
	bcfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn(context.Background(), "circuit state changed",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	// An unknown symbol means the pair is not listed, not that the exchange
	// is unhealthy; it must not count towards tripping the breaker.
	bcfg.IsSuccessful = func(err error) bool {
		return err == nil || isUnknownSymbol(err)
	}

	return &Adapter{
		http:    client,
		limiter: limiter,
		breaker: circuitbreaker.New[bookTickerResponse](bcfg),
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

func (a *Adapter) Name() string { return exchangeName }

// GetQuote fetches the top-of-book bid and ask for the pair.
func (a *Adapter) GetQuote(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	ctx, span := a.tracer.Start(ctx, "mexc.get_quote",
		trace.WithAttributes(attribute.String("pair", pair.String())),
	)
	defer span.End()

	if err := a.limiter.Wait(ctx); err != nil {
		return domain.Quote{}, err
	}

	ticker, err := a.breaker.Execute(func() (bookTickerResponse, error) {
		var result bookTickerResponse
		_, err := a.http.NewRequest().
			SetQueryParam("symbol", pair.Symbol()).
			SetResult(&result).
			Get(ctx, bookTickerPath)
		return result, err
	})
	if err != nil {
		if isUnknownSymbol(err) {
			return domain.Quote{}, app.ErrPairUnavailable
		}
		return domain.Quote{}, apperror.Wrap(err, apperror.CodeExchangeAPIError,
			apperror.WithContext("exchange", exchangeName),
			apperror.WithContext("pair", pair.String()),
		)
	}

	// An empty book shows up as zeroed prices rather than an error status.
	if ticker.BidPrice == "" || ticker.AskPrice == "" {
		return domain.Quote{}, app.ErrPairUnavailable
	}

	bid, err := decimal.NewFromString(ticker.BidPrice)
	if err != nil {
		return domain.Quote{}, apperror.Wrap(err, apperror.CodeInvalidQuote,
			apperror.WithContext("field", "bid"))
	}
	ask, err := decimal.NewFromString(ticker.AskPrice)
	if err != nil {
		return domain.Quote{}, apperror.Wrap(err, apperror.CodeInvalidQuote,
			apperror.WithContext("field", "ask"))
	}

	return domain.Quote{Exchange: exchangeName, Bid: bid, Ask: ask}, nil
}

// HasOrderCapability is always false: the adapter is unauthenticated.
func (a *Adapter) HasOrderCapability() bool { return false }

func (a *Adapter) PlaceMarketBuy(ctx context.Context, pair domain.Pair, baseAmount decimal.Decimal) (app.OrderAck, error) {
	return app.OrderAck{}, apperror.New(apperror.CodeOrderUnsupported,
		apperror.WithContext("exchange", exchangeName))
}

// HasWithdrawCapability is always false: the adapter is unauthenticated.
func (a *Adapter) HasWithdrawCapability() bool { return false }

func (a *Adapter) Withdraw(ctx context.Context, asset string, amount decimal.Decimal, address string) (app.WithdrawalAck, error) {
	return app.WithdrawalAck{}, apperror.New(apperror.CodeWithdrawUnsupported,
		apperror.WithContext("exchange", exchangeName))
}

// handleAPIError decodes the MEXC error envelope on non-2xx responses.
func handleAPIError(statusCode int, body []byte) error {
	if statusCode < 400 {
		return nil
	}
	var envelope apiError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Msg != "" {
		return &exchangeError{Code: envelope.Code, Msg: envelope.Msg, Status: statusCode}
	}
	return fmt.Errorf("mexc: unexpected status %d", statusCode)
}

// exchangeError is a decoded MEXC API error.
type exchangeError struct {
	Code   int
	Msg    string
	Status int
}

func (e *exchangeError) Error() string {
	return fmt.Sprintf("mexc: %s (code %d, status %d)", e.Msg, e.Code, e.Status)
}

func isUnknownSymbol(err error) bool {
	var ee *exchangeError
	return errors.As(err, &ee) && ee.Code == codeInvalidSymbol
}
