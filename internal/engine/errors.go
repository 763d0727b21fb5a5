package engine

import "errors"

var (
	// ErrPlanNotFound indicates no plan is stored for the requested week.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrPlanExists indicates prefill would overwrite a stored plan.
	ErrPlanExists = errors.New("plan already exists")

	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrMoveRejected indicates the rule engine refused a move.
	// The wrapped *planner.Violation carries the rule id and message.
	ErrMoveRejected = errors.New("move rejected")

	// ErrInvalidSlot indicates a slot key outside the plan's grid.
	ErrInvalidSlot = errors.New("invalid slot")
)
