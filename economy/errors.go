package economy

import "errors"

var (
	// ErrUnknownResource is returned for a ResourceType outside the closed set
	ErrUnknownResource = errors.New("unknown resource type")

	// ErrNegativeAmount is returned when a ledger mutation receives amount < 0
	ErrNegativeAmount = errors.New("amount must be non-negative")

	// ErrInsufficient is returned by DeductAll when any resource is short
	ErrInsufficient = errors.New("insufficient resources")

	// ErrInvalidCostTable wraps every cost table validation failure
	ErrInvalidCostTable = errors.New("invalid cost table")
)
