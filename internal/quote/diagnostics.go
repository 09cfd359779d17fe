package quote

import (
	"fmt"
	"strings"
)

// Diagnostics accumulates the outcome classification of one quote
// computation. Errors and MissingPrices block the result; Warnings are
// returned alongside a valid quote.
type Diagnostics struct {
	Errors        []string `json:"errors,omitempty"`
	MissingPrices []string `json:"missing_prices,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Errorf appends a hard error.
func (d *Diagnostics) Errorf(format string, args ...any) {
	d.Errors = append(d.Errors, fmt.Sprintf(format, args...))
}

// Warnf appends a non-blocking warning.
func (d *Diagnostics) Warnf(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// MissingPrice records a material id the price book could not resolve.
func (d *Diagnostics) MissingPrice(materialID string) {
	d.MissingPrices = append(d.MissingPrices, materialID)
}

// Blocked reports whether any blocking condition was recorded.
func (d Diagnostics) Blocked() bool {
	return len(d.Errors) > 0 || len(d.MissingPrices) > 0
}

// UnpricedMaterialError reports material ids required by the quote
// that have no resolvable price. Computation halts; the ids are never
// silently defaulted in the authoritative path.
type UnpricedMaterialError struct {
	MaterialIDs []string
}

func (e *UnpricedMaterialError) Error() string {
	return fmt.Sprintf("no price for material(s): %s", strings.Join(e.MaterialIDs, ", "))
}
