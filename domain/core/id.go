package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RecommendationID ID
	MethodID         ID
)

func (id RecommendationID) String() string { return ID(id).String() }
func (id MethodID) String() string         { return ID(id).String() }

// NewRecommendationID returns a fresh, time-ordered recommendation identifier
func NewRecommendationID() RecommendationID {
	return RecommendationID(NewID())
}

// ParseRecommendationID validates a recommendation identifier coming from a caller
func ParseRecommendationID(s string) (RecommendationID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("recommendation ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("recommendation ID %q is not a UUID: %w", s, err)
	}
	return RecommendationID(s), nil
}
