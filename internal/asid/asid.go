// Package asid implements the textual <-> integer codec for Autonomous
// System identifiers, including CAIDA's dotted "H.L" notation.
package asid

import (
	"fmt"
	"strconv"
	"strings"
)

// ID is the compact integer domain ASes are encoded into.
type ID uint32

const dottedBase ID = 500000

// Encode converts a textual AS number into its integer domain.
//
// Plain ASNs ("12342") parse as themselves and must be nonzero. Dotted
// ASNs ("H.L", 1-4 digits of L) encode as 500000 + 10000*H + pad(L), where
// pad right-pads L with trailing zeros to a 4-digit field ("3.1" -> 1000).
func Encode(text string) (ID, error) {
	if loc := strings.IndexByte(text, '.'); loc >= 0 {
		hi, lo := text[:loc], text[loc+1:]
		if len(lo) == 0 || len(lo) > 4 {
			return 0, fmt.Errorf("asid: invalid dotted AS %q", text)
		}
		h, err := strconv.ParseUint(hi, 10, 32)
		if err != nil || h == 0 {
			return 0, fmt.Errorf("asid: invalid dotted AS %q", text)
		}
		l, err := strconv.ParseUint(lo, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("asid: invalid dotted AS %q", text)
		}
		pad := pow10(4 - len(lo))
		return dottedBase + ID(h)*10000 + ID(l)*ID(pad), nil
	}

	n, err := strconv.ParseUint(text, 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("asid: invalid AS %q", text)
	}
	return ID(n), nil
}

// Decode renders an ID back to its canonical textual form.
func Decode(id ID) string {
	if id > dottedBase {
		rem := id - dottedBase
		return fmt.Sprintf("%d.%04d", rem/10000, rem%10000)
	}
	return strconv.FormatUint(uint64(id), 10)
}

func pow10(n int) int {
	r := 1
	for i := 0; i < n; i++ {
		r *= 10
	}
	return r
}
