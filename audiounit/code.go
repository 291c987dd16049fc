package audiounit

import (
	"encoding/binary"
	"fmt"
)

// Code is a four-character code packed big-endian into 32 bits.
type Code uint32

// ParseCode converts exactly four printable ASCII characters into a Code.
func ParseCode(s string) (Code, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("%w: %q has %d bytes, want 4", ErrInvalidCode, s, len(s))
	}
	for i := range 4 {
		if s[i] < 0x20 || s[i] > 0x7e {
			return 0, fmt.Errorf("%w: %q has non-printable byte at %d", ErrInvalidCode, s, i)
		}
	}
	return Code(binary.BigEndian.Uint32([]byte(s))), nil
}

// MustCode is like ParseCode but panics on error. Intended for package-level
// constants.
func MustCode(s string) Code {
	c, err := ParseCode(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the four characters of c.
func (c Code) String() string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(c))
	return string(b[:])
}

// MarshalText implements encoding.TextMarshaler.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := ParseCode(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
