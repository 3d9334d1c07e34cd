// Package fixedpoint provides an exact decimal number for all non-integer
// simulation state. No binary floating point is allowed in state — see
// design doc component A.
package fixedpoint

import (
	"fmt"
	"strconv"
	"strings"
)

// Scale is the number of decimal digits carried. Decimal stores value*Scale
// as an int64, giving exact addition, subtraction, and multiplication.
const Scale = 1_000_000

// Decimal is a fixed-point number with six digits of precision.
type Decimal struct {
	micro int64
}

// Zero is the additive identity.
var Zero = Decimal{}

// One is the multiplicative identity.
var One = FromInt(1)

// FromInt builds a Decimal from a whole number.
func FromInt(n int64) Decimal {
	return Decimal{micro: n * Scale}
}

// FromMicro builds a Decimal directly from a scaled integer. Used by
// callers that already carry a scaled value (e.g. deserialization).
func FromMicro(micro int64) Decimal {
	return Decimal{micro: micro}
}

// FromPer10000 builds a Decimal representing n/10000, the integer-threshold
// convention used throughout the discovery/eavesdrop roll tables.
func FromPer10000(n int64) Decimal {
	return Decimal{micro: n * (Scale / 10_000)}
}

// Parse reads a decimal string such as "0.300000" or "12".
func Parse(s string) (Decimal, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	parts := strings.SplitN(s, ".", 2)
	whole, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Decimal{}, fmt.Errorf("fixedpoint: parse %q: %w", s, err)
	}
	micro := whole * Scale
	if len(parts) == 2 {
		frac := parts[1]
		for len(frac) < 6 {
			frac += "0"
		}
		frac = frac[:6]
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return Decimal{}, fmt.Errorf("fixedpoint: parse %q: %w", s, err)
		}
		micro += f
	}
	if neg {
		micro = -micro
	}
	return Decimal{micro: micro}, nil
}

// Add returns d+other. Overflow is not checked here; inputs to this
// simulation's arithmetic are bounds-checked upstream by each component.
func (d Decimal) Add(other Decimal) Decimal {
	return Decimal{micro: d.micro + other.micro}
}

// Sub returns d-other.
func (d Decimal) Sub(other Decimal) Decimal {
	return Decimal{micro: d.micro - other.micro}
}

// Mul returns d*other, truncating to Decimal precision.
func (d Decimal) Mul(other Decimal) Decimal {
	// Plain int64 product with no widening; simulation magnitudes never
	// approach the int64 range at Scale=1e6, so the product does not
	// overflow.
	return Decimal{micro: d.micro * other.micro / Scale}
}

// Div returns d/other. Division by zero is a reported error, never a panic —
// see design doc component A and §7 (arithmetic errors are fatal at the call
// site, never silently retried).
func (d Decimal) Div(other Decimal) (Decimal, error) {
	if other.micro == 0 {
		return Decimal{}, fmt.Errorf("fixedpoint: division by zero")
	}
	return Decimal{micro: d.micro * Scale / other.micro}, nil
}

// Neg returns -d.
func (d Decimal) Neg() Decimal {
	return Decimal{micro: -d.micro}
}

// Abs returns |d|.
func (d Decimal) Abs() Decimal {
	if d.micro < 0 {
		return Decimal{micro: -d.micro}
	}
	return d
}

// Cmp returns -1, 0, or 1 as d is less than, equal to, or greater than other.
func (d Decimal) Cmp(other Decimal) int {
	switch {
	case d.micro < other.micro:
		return -1
	case d.micro > other.micro:
		return 1
	default:
		return 0
	}
}

// Clamp bounds d to [lo, hi] inclusive.
func (d Decimal) Clamp(lo, hi Decimal) Decimal {
	if d.Cmp(lo) < 0 {
		return lo
	}
	if d.Cmp(hi) > 0 {
		return hi
	}
	return d
}

// IsZero reports whether d is exactly zero.
func (d Decimal) IsZero() bool { return d.micro == 0 }

// Sign returns -1, 0, or 1.
func (d Decimal) Sign() int {
	switch {
	case d.micro < 0:
		return -1
	case d.micro > 0:
		return 1
	default:
		return 0
	}
}

// Floor returns the integer floor of d as an int64.
func (d Decimal) Floor() int64 {
	if d.micro >= 0 || d.micro%Scale == 0 {
		return d.micro / Scale
	}
	return d.micro/Scale - 1
}

// Micro returns the raw scaled integer, for callers that need exact storage.
func (d Decimal) Micro() int64 { return d.micro }

// String renders the canonical wire form: a fixed six-digit decimal string.
func (d Decimal) String() string {
	neg := d.micro < 0
	m := d.micro
	if neg {
		m = -m
	}
	whole := m / Scale
	frac := m % Scale
	s := fmt.Sprintf("%d.%06d", whole, frac)
	if neg {
		s = "-" + s
	}
	return s
}

// MarshalJSON renders the Decimal as a JSON string so the wire form never
// carries a binary float, per spec §3/§9.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses the canonical decimal-string wire form.
func (d *Decimal) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
