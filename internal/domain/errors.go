package domain

import "errors"

var (
	// ErrInvalidDateRange is returned when a run or estimate covers zero days.
	ErrInvalidDateRange = errors.New("date range must cover at least one day")

	// ErrInsufficientHistory is returned when fewer than two days of arrival
	// history exist, or the history has zero variance, so a standard
	// deviation cannot be estimated.
	ErrInsufficientHistory = errors.New("insufficient arrival history to estimate variance")

	// ErrDegenerateTable is returned when the contingency table has an empty
	// row or column. The remediation is to collect more data; the engine
	// never fabricates observations to force the test through.
	ErrDegenerateTable = errors.New("contingency table has an empty row or column")

	// ErrInvalidEffectSize is returned for non-positive effect sizes.
	ErrInvalidEffectSize = errors.New("effect size must be positive")

	// ErrInvalidObservationTarget is returned for non-positive observation targets.
	ErrInvalidObservationTarget = errors.New("observation target must be positive")
)
