package output

import (
	"fmt"
	"strings"
)

// SizeUnits selects the unit system for FormatSize.
type SizeUnits string

const (
	// UnitsSI uses powers of 1000 (kB, MB, ...).
	UnitsSI SizeUnits = "si"

	// UnitsIEC uses powers of 1024 (KiB, MiB, ...).
	UnitsIEC SizeUnits = "iec"
)

var (
	siSuffixes  = []string{"kB", "MB", "GB", "TB", "PB", "EB"}
	iecSuffixes = []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
)

// ParseSizeUnits parses a unit system name. Empty means UnitsSI.
func ParseSizeUnits(s string) (SizeUnits, error) {
	switch strings.ToLower(s) {
	case "", "si":
		return UnitsSI, nil
	case "iec":
		return UnitsIEC, nil
	default:
		return "", fmt.Errorf("invalid size units %q, use si or iec", s)
	}
}

// FormatSize renders a byte count for humans, e.g. "1 byte", "512 bytes",
// "1.5 MB" or "1.5 MiB".
func FormatSize(n uint64, units SizeUnits) string {
	base := uint64(1000)
	suffixes := siSuffixes
	if units == UnitsIEC {
		base = 1024
		suffixes = iecSuffixes
	}

	if n < base {
		if n == 1 {
			return "1 byte"
		}
		return fmt.Sprintf("%d bytes", n)
	}

	factor := base
	for i, suffix := range suffixes {
		if i == len(suffixes)-1 || n/factor < base {
			return fmt.Sprintf("%.1f %s", float64(n)/float64(factor), suffix)
		}
		factor *= base
	}
	panic("unreachable")
}
