package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cents is an amount in minor currency units. All engine arithmetic happens
// on Cents; decimals only appear when parsing or formatting.
type Cents int64

const (
	Unit Cents = 100

	// Percentages are carried in basis points (1% == 100).
	BasisPoints = 10000
)

var ErrInvalidAmount = errors.New("invalid money amount")

// maxWhole is the largest whole part that still fits in Cents with any
// two-digit fraction added.
const maxWhole = (math.MaxInt64 - 99) / int64(Unit)

func FromUnits(units int64) Cents {
	return Cents(units) * Unit
}

// Parse reads "76", "76.5", "76.50" or "-3.10". More than two fraction digits
// are rejected rather than rounded.
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && (!hasFrac || frac == "") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !digits(whole) || !digits(frac) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q has more than two decimals", ErrInvalidAmount, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w > maxWhole {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	c := Cents(w)*Unit + Cents(f)
	if neg {
		c = -c
	}
	return c, nil
}

func MustParse(s string) Cents {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/int64(Unit), v%int64(Unit))
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts both a JSON number and a quoted decimal string. The
// text is parsed directly so no binary floating point is ever involved.
func (c *Cents) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Cents) Mul(n int) Cents {
	return c * Cents(n)
}

func Max(a, b Cents) Cents {
	if a > b {
		return a
	}
	return b
}

// Percent returns points/10000 of c rounded half away from zero to the cent.
func (c Cents) Percent(points int64) Cents {
	num := int64(c) * points
	q := num / BasisPoints
	r := num % BasisPoints
	if r < 0 {
		r = -r
	}
	if 2*r >= BasisPoints {
		if num < 0 {
			q--
		} else {
			q++
		}
	}
	return Cents(q)
}

// CeilPercent returns points/10000 of c rounded up to a multiple of unit.
// Only meaningful for non-negative amounts.
func (c Cents) CeilPercent(points int64, unit Cents) Cents {
	if c <= 0 {
		return 0
	}
	if unit <= 0 {
		unit = 1
	}
	den := int64(BasisPoints) * int64(unit)
	num := int64(c) * points
	return Cents((num+den-1)/den) * unit
}

// Points converts a percentage amount such as 10.00 (stored as Cents 1000)
// to basis points.
func Points(percent Cents) int64 {
	return int64(percent)
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
