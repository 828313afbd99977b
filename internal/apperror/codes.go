package apperror

// Code represents a unique error code for the application.
type Code string

// General error codes.
const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeValidationError    Code = "VALIDATION_ERROR"
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeUnknownError       Code = "UNKNOWN_ERROR"
)

// Exchange adapter error codes.
const (
	CodeExchangeUnavailable Code = "EXCHANGE_UNAVAILABLE"
	CodeExchangeAPIError    Code = "EXCHANGE_API_ERROR"
	CodePairNotListed       Code = "PAIR_NOT_LISTED"
	CodeInvalidQuote        Code = "INVALID_QUOTE"
	CodeOrderFailed         Code = "ORDER_FAILED"
	CodeOrderUnsupported    Code = "ORDER_UNSUPPORTED"
	CodeWithdrawFailed      Code = "WITHDRAW_FAILED"
	CodeWithdrawUnsupported Code = "WITHDRAW_UNSUPPORTED"
	CodeCircuitOpen         Code = "CIRCUIT_OPEN"
)

// Arbitrage error codes.
const (
	CodeInsufficientQuotes Code = "INSUFFICIENT_QUOTES"
	CodeSpreadTooLow       Code = "SPREAD_TOO_LOW"
	CodeNoDestinationAddr  Code = "NO_DESTINATION_ADDRESS"
)

// messages maps error codes to default human-readable messages.
var messages = map[Code]string{
	CodeInvalidInput:       "Invalid input provided",
	CodeNotFound:           "Resource not found",
	CodeValidationError:    "Validation error",
	CodeConfigurationError: "Configuration error",
	CodeRateLimitExceeded:  "Rate limit exceeded",
	CodeInternalError:      "Internal error",
	CodeUnknownError:       "An unknown error occurred",

	CodeExchangeUnavailable: "Exchange temporarily unavailable",
	CodeExchangeAPIError:    "Exchange API error",
	CodePairNotListed:       "Pair not listed on exchange",
	CodeInvalidQuote:        "Invalid quote data",
	CodeOrderFailed:         "Order placement failed",
	CodeOrderUnsupported:    "Exchange cannot create orders via API",
	CodeWithdrawFailed:      "Withdrawal request failed",
	CodeWithdrawUnsupported: "Exchange does not support API withdrawals",
	CodeCircuitOpen:         "Circuit breaker is open",

	CodeInsufficientQuotes: "Fewer than two exchanges quoted the pair",
	CodeSpreadTooLow:       "Spread below configured minimum",
	CodeNoDestinationAddr:  "No destination address configured",
}
