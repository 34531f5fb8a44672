package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// Version is the decimal revision counter of a quote (1.0, 1.1, 1.2, …).
// It is held as tenths so that successive 0.1 bumps stay exact instead of
// accumulating binary float error.
type Version int

// FirstVersion is assigned on the first successful generation.
const FirstVersion Version = 10

// Bump returns the next revision (+0.1).
func (v Version) Bump() Version { return v + 1 }

// String renders the version as "major.tenth", e.g. "1.0".
func (v Version) String() string {
	if v < 0 {
		v = 0
	}
	return fmt.Sprintf("%d.%d", int(v)/10, int(v)%10)
}

// MarshalJSON writes the version as a plain decimal number so the session
// file layout keeps its numeric versionCotizacion field.
func (v Version) MarshalJSON() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalJSON accepts a decimal number and rounds it to tenths.
func (v *Version) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("version: %w", err)
	}
	if f < 0 {
		return fmt.Errorf("version: negative value %v", f)
	}
	*v = Version(math.Round(f * 10))
	return nil
}
