// Package id defines the snowflake identity types used across hookcache.
//
// The chat platform assigns every webhook, channel and guild an opaque
// numeric snowflake. IDs are immutable once assigned, globally unique,
// and serialized as decimal strings on the wire.
package id

import (
	"fmt"
	"strconv"
)

// ID is a platform-assigned snowflake identifier.
//
// The zero value means "absent" and is reported by IsZero; the platform
// never assigns the snowflake 0.
type ID uint64

// Nil is the zero-value ID.
var Nil ID

// New wraps a raw snowflake in an ID. It panics on 0, which the platform
// never assigns (programming error).
func New(raw uint64) ID {
	if raw == 0 {
		panic("id: snowflake must be non-zero")
	}

	return ID(raw)
}

// Parse parses a decimal snowflake string (e.g. "752831914402775381")
// into an ID. Returns an error if the string is not a valid snowflake.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	raw, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	if raw == 0 {
		return Nil, fmt.Errorf("id: parse %q: zero snowflake", s)
	}

	return ID(raw), nil
}

// MustParse is like Parse but panics on error. Use for hardcoded ID values.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}

	return parsed
}

// String returns the decimal string representation of the ID.
// Returns an empty string for the Nil ID.
func (i ID) String() string {
	if i == Nil {
		return ""
	}

	return strconv.FormatUint(uint64(i), 10)
}

// IsZero reports whether this ID is the zero value.
func (i ID) IsZero() bool {
	return i == Nil
}

// MarshalText implements encoding.TextMarshaler. Snowflakes travel as
// strings because they exceed the integer precision of many JSON consumers.
func (i ID) MarshalText() ([]byte, error) {
	if i == Nil {
		return []byte{}, nil
	}

	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}
