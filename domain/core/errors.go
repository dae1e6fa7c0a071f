package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound               = errors.New("resource not found")
	ErrRecommendationNotFound = fmt.Errorf("%w: recommendation", ErrNotFound)
	ErrMethodNotFound         = fmt.Errorf("%w: method", ErrNotFound)
	ErrColumnNotFound         = fmt.Errorf("%w: column", ErrNotFound)

	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrUnknownPurpose   = errors.New("unknown analysis purpose")
)
