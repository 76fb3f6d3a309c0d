package domain

import "errors"

var (
	ErrUnknownStrategy   = errors.New("unknown sorting type")
	ErrDuplicateStrategy = errors.New("sorting type registered twice")
	ErrRateUnavailable   = errors.New("currency rate is not available")
	ErrRateFetchFailed   = errors.New("failed to fetch currency rates")
	ErrSnapshotNotFound  = errors.New("rate snapshot not found")
	ErrInvalidMoney      = errors.New("invalid money")
)
