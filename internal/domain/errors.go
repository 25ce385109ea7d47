package domain

import "fmt"

// InvalidInputError is client-caused: a raw parameter failed
// domain-membership validation. Names the field and its accepted domain
type InvalidInputError struct {
	Field   string
	Value   string
	Allowed string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: expected %s", e.Field, e.Value, e.Allowed)
}

// CollaboratorError is infrastructure-caused: the relational store or
// the cache failed. Detail is for logs only, never for API callers
type CollaboratorError struct {
	Collaborator string // "clickhouse" | "redis"
	Op           string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Collaborator, e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
