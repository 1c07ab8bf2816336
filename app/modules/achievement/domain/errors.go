package achievementdomain

import "errors"

var (
	// ErrUnknownCategory is returned for category ids outside the catalog.
	// Callers must not retry.
	ErrUnknownCategory = errors.New("unknown achievement category")

	// ErrInvalidMetric is returned for negative or non-finite metric values.
	ErrInvalidMetric = errors.New("invalid metric value")

	// ErrUnknownTier is returned when a tier name cannot be parsed.
	ErrUnknownTier = errors.New("unknown tier")

	// ErrInvalidCatalog is returned when a catalog fails validation.
	ErrInvalidCatalog = errors.New("invalid achievement catalog")
)
