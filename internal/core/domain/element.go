package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrElementNotFound = errors.New("element not found")
	ErrElementExists   = errors.New("element already exists")
)

// Element is a single entry of the periodic table.
type Element struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Number    int       `json:"number"`
	Info      string    `json:"info,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeSymbol returns the canonical lookup key for a chemical symbol.
// Symbol lookups are case-insensitive ("he", "He" and "HE" all address
// Helium); the stored display form is whatever was submitted.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
