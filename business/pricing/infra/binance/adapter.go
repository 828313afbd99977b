// Package binance implements the exchange adapter for Binance spot markets
// using the official REST API.
package binance

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	gobinance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/avescod/crossarb/business/pricing/app"
	"github.com/avescod/crossarb/business/pricing/domain"
	"github.com/avescod/crossarb/internal/apperror"
	"github.com/avescod/crossarb/internal/circuitbreaker"
	"github.com/avescod/crossarb/internal/logger"
	"github.com/avescod/crossarb/internal/ratelimit"
)

const (
	tracerName = "binance"

	exchangeName = "binance"

	// Binance error code for an unknown trading symbol.
	codeInvalidSymbol = -1121
)

// Config holds the Binance adapter configuration.
type Config struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

// Adapter talks to Binance over REST. Quote requests go through the shared
// per-exchange rate limiter and a circuit breaker; trading calls require API
// credentials.
type Adapter struct {
	client  *gobinance.Client
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.Breaker[*gobinance.BookTicker]
	logger  logger.LoggerInterface
	tracer  trace.Tracer
	trading bool
}

var _ app.Adapter = (*Adapter)(nil)

// New creates a Binance adapter. Order and withdrawal capability is granted
// only when both API key and secret are configured.
func New(cfg Config, limiter *ratelimit.Limiter, log logger.LoggerInterface) *Adapter {
	client := gobinance.NewClient(cfg.APIKey, cfg.APISecret)
	if cfg.BaseURL != "" {
		client.BaseURL = cfg.BaseURL
	}

	bcfg := circuitbreaker.DefaultConfig("binance-quotes")
	bcfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn(context.Background(), "circuit state changed",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	// An unlisted pair is an expected absence, not exchange trouble; it must
	// not count towards tripping the breaker.
	bcfg.IsSuccessful = func(err error) bool {
		return err == nil || isPairUnavailable(err)
	}

	return &Adapter{
		client:  client,
		limiter: limiter,
		breaker: circuitbreaker.New[*gobinance.BookTicker](bcfg),
		logger:  log,
		tracer:  otel.Tracer(tracerName),
		trading: cfg.APIKey != "" && cfg.APISecret != "",
	}
}

func (a *Adapter) Name() string { return exchangeName }

// GetQuote fetches the top-of-book bid and ask for the pair.
func (a *Adapter) GetQuote(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	ctx, span := a.tracer.Start(ctx, "binance.get_quote",
		trace.WithAttributes(attribute.String("pair", pair.String())),
	)
	defer span.End()

	if err := a.limiter.Wait(ctx); err != nil {
		return domain.Quote{}, err
	}

	symbol := pair.Symbol()
	ticker, err := a.breaker.Execute(func() (*gobinance.BookTicker, error) {
		tickers, err := a.client.NewListBookTickersService().Symbol(symbol).Do(ctx)
		if err != nil {
			return nil, err
		}
		if len(tickers) == 0 {
			return nil, app.ErrPairUnavailable
		}
		return tickers[0], nil
	})
	if err != nil {
		if isPairUnavailable(err) {
			return domain.Quote{}, app.ErrPairUnavailable
		}
		return domain.Quote{}, apperror.Wrap(err, apperror.CodeExchangeAPIError,
			apperror.WithContext("exchange", exchangeName),
			apperror.WithContext("pair", pair.String()),
		)
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

func (a *Adapter) HasOrderCapability() bool { return a.trading }

// PlaceMarketBuy submits a market buy for baseAmount of the pair's base asset.
func (a *Adapter) PlaceMarketBuy(ctx context.Context, pair domain.Pair, baseAmount decimal.Decimal) (app.OrderAck, error) {
	ctx, span := a.tracer.Start(ctx, "binance.place_market_buy",
		trace.WithAttributes(
			attribute.String("pair", pair.String()),
			attribute.String("amount", baseAmount.String()),
		),
	)
	defer span.End()

	if !a.trading {
		return app.OrderAck{}, apperror.New(apperror.CodeOrderUnsupported,
			apperror.WithContext("exchange", exchangeName))
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return app.OrderAck{}, err
	}

	resp, err := a.client.NewCreateOrderService().
		Symbol(pair.Symbol()).
		Side(gobinance.SideTypeBuy).
		Type(gobinance.OrderTypeMarket).
		Quantity(baseAmount.String()).
		Do(ctx)
	if err != nil {
		return app.OrderAck{}, apperror.Wrap(err, apperror.CodeOrderFailed,
			apperror.WithContext("exchange", exchangeName),
			apperror.WithContext("pair", pair.String()),
		)
	}

	a.logger.Info(ctx, "market buy placed",
		"exchange", exchangeName,
		"pair", pair.String(),
		"orderId", resp.OrderID,
		"amount", baseAmount.String(),
	)

	return app.OrderAck{
		Exchange:   exchangeName,
		OrderID:    strconv.FormatInt(resp.OrderID, 10),
		Pair:       pair,
		BaseAmount: baseAmount,
	}, nil
}

func (a *Adapter) HasWithdrawCapability() bool { return a.trading }

// Withdraw initiates a withdrawal of the asset to the given address.
func (a *Adapter) Withdraw(ctx context.Context, asset string, amount decimal.Decimal, address string) (app.WithdrawalAck, error) {
	ctx, span := a.tracer.Start(ctx, "binance.withdraw",
		trace.WithAttributes(
			attribute.String("asset", asset),
			attribute.String("amount", amount.String()),
		),
	)
	defer span.End()

	if !a.trading {
		return app.WithdrawalAck{}, apperror.New(apperror.CodeWithdrawUnsupported,
			apperror.WithContext("exchange", exchangeName))
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return app.WithdrawalAck{}, err
	}

	resp, err := a.client.NewCreateWithdrawService().
		Coin(asset).
		Address(address).
		Amount(amount.String()).
		Do(ctx)
	if err != nil {
		return app.WithdrawalAck{}, apperror.Wrap(err, apperror.CodeWithdrawFailed,
			apperror.WithContext("exchange", exchangeName),
			apperror.WithContext("asset", asset),
		)
	}

	a.logger.Info(ctx, "withdrawal requested",
		"exchange", exchangeName,
		"asset", asset,
		"amount", amount.String(),
		"withdrawId", resp.ID,
	)

	return app.WithdrawalAck{
		Exchange: exchangeName,
		TxID:     resp.ID,
		Asset:    asset,
		Amount:   amount,
		Address:  address,
	}, nil
}

// isPairUnavailable reports whether the error means the pair is not listed
// on Binance rather than the exchange failing.
func isPairUnavailable(err error) bool {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) && apiErr.Code == codeInvalidSymbol {
		return true
	}
	return errors.Is(err, app.ErrPairUnavailable)
}

// Describe returns a short human-readable summary for startup logs.
func (a *Adapter) Describe() string {
	mode := "quotes only"
	if a.trading {
		mode = "quotes + trading"
	}
	return fmt.Sprintf("binance (%s)", mode)
}
