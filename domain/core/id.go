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
		// Fallback to v4 if v7 fails
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

// ItemID is the opaque, already-resolved identifier of one population member
// (a database identifier, never a human-friendly alias).
type ItemID string

// CategoryID identifies one category node of the classification DAG.
type CategoryID string

// RunID identifies one enrichment query run.
type RunID ID

// NewRunID creates a fresh run identifier.
func NewRunID() RunID { return RunID(NewID()) }

// String conversions for domain IDs
func (id ItemID) String() string     { return string(id) }
func (id CategoryID) String() string { return string(id) }
func (id RunID) String() string      { return ID(id).String() }

// ParseItemID parses a string into ItemID
func ParseItemID(s string) (ItemID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("item ID cannot be empty")
	}
	return ItemID(s), nil
}

// ParseCategoryID parses a string into CategoryID
func ParseCategoryID(s string) (CategoryID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("category ID cannot be empty")
	}
	return CategoryID(s), nil
}
