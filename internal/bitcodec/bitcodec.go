// Package bitcodec converts between sets of bit positions, binary digit strings
// and base-36 numerals.
//
// Sets are backed by math/big so positions are not limited to the machine word.
package bitcodec

import (
	"fmt"
	"math/big"

	"github.com/kozaktomas/mirage/internal/internalerr"
)

// Set is a set of non-negative bit positions. The zero value is an empty set.
type Set struct {
	n big.Int
}

// NewSet returns a set containing the given positions.
func NewSet(positions ...int) *Set {
	s := &Set{}
	for _, p := range positions {
		s.Add(p)
	}
	return s
}

// Add sets the bit at position i. Negative positions are ignored.
func (s *Set) Add(i int) {
	if i < 0 {
		return
	}
	s.n.SetBit(&s.n, i, 1)
}

// Remove clears the bit at position i.
func (s *Set) Remove(i int) {
	if i < 0 || i >= s.n.BitLen() {
		return
	}
	s.n.SetBit(&s.n, i, 0)
}

// Has reports whether position i is set.
func (s *Set) Has(i int) bool {
	if s == nil || i < 0 {
		return false
	}
	return s.n.Bit(i) == 1
}

// IsEmpty reports whether no position is set.
func (s *Set) IsEmpty() bool {
	return s == nil || s.n.Sign() == 0
}

// Highest returns the highest set position, or -1 for an empty set.
func (s *Set) Highest() int {
	if s == nil {
		return -1
	}
	return s.n.BitLen() - 1
}

// Positions returns the set positions in ascending order.
func (s *Set) Positions() []int {
	if s.IsEmpty() {
		return nil
	}
	out := make([]int, 0, s.Len())
	for i := range s.n.BitLen() {
		if s.n.Bit(i) == 1 {
			out = append(out, i)
		}
	}
	return out
}

// Len returns the number of set positions.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	count := 0
	for _, w := range s.n.Bits() {
		for w != 0 {
			count++
			w &= w - 1
		}
	}
	return count
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	c := &Set{}
	if s != nil {
		c.n.Set(&s.n)
	}
	return c
}

// Equal reports whether both sets hold the same positions.
func (s *Set) Equal(other *Set) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return s.IsEmpty() && other.IsEmpty()
	}
	return s.n.Cmp(&other.n) == 0
}

// ToBinary renders the set most-significant first, one '1' or '0' per position
// from the highest set bit down to bit 0. An empty set renders as "".
func ToBinary(s *Set) string {
	if s.IsEmpty() {
		return ""
	}
	return s.n.Text(2)
}

// BinaryToBase36 reinterprets a binary digit string as a base-36 numeral.
func BinaryToBase36(binary string) (string, error) {
	if binary == "" {
		return "", nil
	}
	if !validDigits(binary, 2) {
		return "", fmt.Errorf("%w: %q is not a binary string", internalerr.ErrMalformedToken, binary)
	}
	var n big.Int
	if _, ok := n.SetString(binary, 2); !ok {
		return "", fmt.Errorf("%w: %q is not a binary string", internalerr.ErrMalformedToken, binary)
	}
	return n.Text(36), nil
}

// ToBase36 encodes the set as a lowercase base-36 numeral.
func ToBase36(s *Set) string {
	if s.IsEmpty() {
		return ""
	}
	return s.n.Text(36)
}

// FromBase36 decodes a base-36 numeral into a set. An empty token decodes to an
// empty set. Both letter cases are accepted; any other character is rejected.
func FromBase36(token string) (*Set, error) {
	s := &Set{}
	if token == "" {
		return s, nil
	}
	if !validDigits(token, 36) {
		return nil, fmt.Errorf("%w: %q is not a base-36 numeral", internalerr.ErrMalformedToken, token)
	}
	if _, ok := s.n.SetString(token, 36); !ok {
		return nil, fmt.Errorf("%w: %q is not a base-36 numeral", internalerr.ErrMalformedToken, token)
	}
	return s, nil
}

// validDigits rejects signs, separators and anything outside the radix alphabet,
// all of which big.Int would otherwise tolerate or misread.
func validDigits(s string, base int) bool {
	for _, r := range s {
		var d int
		switch {
		case r >= '0' && r <= '9':
			d = int(r - '0')
		case r >= 'a' && r <= 'z':
			d = int(r-'a') + 10
		case r >= 'A' && r <= 'Z':
			d = int(r-'A') + 10
		default:
			return false
		}
		if d >= base {
			return false
		}
	}
	return true
}
