package plan

import (
	"fmt"
	"strconv"
)

// wireUnlimited is the integer representation of an unbounded limit on the
// wire and in storage. It never appears in comparisons; use IsUnlimited.
const wireUnlimited int64 = -1

// Limit bounds a metered resource. The zero value is Bounded(0), which
// forbids the resource entirely. Use Unlimited to disable the comparison.
type Limit struct {
	value     int64
	unlimited bool
}

// Bounded returns a limit of n. Negative values are clamped to zero.
func Bounded(n int64) Limit {
	if n < 0 {
		n = 0
	}
	return Limit{value: n}
}

// Unlimited returns a limit that never flags usage.
func Unlimited() Limit {
	return Limit{unlimited: true}
}

// IsUnlimited reports whether the limit disables enforcement.
func (l Limit) IsUnlimited() bool { return l.unlimited }

// Value returns the bound. Meaningless for unlimited limits; callers must
// check IsUnlimited first.
func (l Limit) Value() int64 { return l.value }

// Wire returns the integer wire representation (-1 for unlimited).
func (l Limit) Wire() int64 {
	if l.unlimited {
		return wireUnlimited
	}
	return l.value
}

func (l Limit) String() string {
	if l.unlimited {
		return "unlimited"
	}
	return strconv.FormatInt(l.value, 10)
}

// MarshalJSON encodes the limit as a plain integer, -1 meaning unlimited.
func (l Limit) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, l.Wire(), 10), nil
}

// UnmarshalJSON accepts a plain integer, -1 meaning unlimited.
func (l *Limit) UnmarshalJSON(data []byte) error {
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLimit, string(data))
	}
	*l = fromWire(n)
	return nil
}

// UnmarshalYAML accepts an integer (-1 meaning unlimited) or the string
// "unlimited".
func (l *Limit) UnmarshalYAML(unmarshal func(any) error) error {
	var n int64
	if err := unmarshal(&n); err == nil {
		*l = fromWire(n)
		return nil
	}

	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("%w: expected integer or %q", ErrInvalidLimit, "unlimited")
	}
	if s != "unlimited" {
		return fmt.Errorf("%w: %q", ErrInvalidLimit, s)
	}
	*l = Unlimited()
	return nil
}

// MarshalYAML encodes the limit the same way as JSON.
func (l Limit) MarshalYAML() (any, error) {
	return l.Wire(), nil
}

func fromWire(n int64) Limit {
	if n == wireUnlimited {
		return Unlimited()
	}
	return Bounded(n)
}
