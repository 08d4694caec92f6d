package domain

import "errors"

var (
	// ErrPropertyExists is returned when a property with the same id was already stored.
	ErrPropertyExists = errors.New("property already exists")
	// ErrPropertyNotFound is returned when no property matches the requested id.
	ErrPropertyNotFound = errors.New("property not found")
)
