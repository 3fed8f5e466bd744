package apperr

import "errors"

// Sentinel errors for the failure classes the API distinguishes. Services
// return these (usually wrapped with %w) and handlers map them onto business
// codes, so no layer below the handlers imports gin.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnknownTrain = errors.New("train number not found in any division")
	ErrUnknownCoach = errors.New("coach uid not found in division")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("duplicate unique key")
	ErrAuth         = errors.New("authentication failed")
	ErrForbidden    = errors.New("insufficient role")
	ErrDelivery     = errors.New("mail delivery failed")
	ErrInternal     = errors.New("internal error")
)
