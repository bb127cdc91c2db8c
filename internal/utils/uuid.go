// Package utils provides general-purpose helper utilities used across
// different parts of the application: context keys, HTTP response writing,
// UUID generation, and clock helpers.
package utils

import "github.com/google/uuid"

// UUIDGenerator produces task identifiers. UUIDv7 is preferred because its
// time-ordered prefix keeps SQLite and Postgres indexes append-mostly.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
