package asid_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Emeline-1/pathinfer/internal/asid"
)

func TestEncodePlain(t *testing.T) {
	id, err := asid.Encode("12342")
	require.NoError(t, err)
	require.EqualValues(t, 12342, id)
}

func TestDecodePlain(t *testing.T) {
	require.Equal(t, "12342", asid.Decode(12342))
}

func TestEncodeDotted(t *testing.T) {
	id, err := asid.Encode("3.123")
	require.NoError(t, err)
	require.EqualValues(t, 531230, id)
}

func TestEncodeDottedPaddingVariants(t *testing.T) {
	cases := map[string]asid.ID{
		"3.1":    531000,
		"3.12":   531200,
		"3.123":  531230,
		"3.1234": 531234,
	}
	for text, want := range cases {
		id, err := asid.Encode(text)
		require.NoError(t, err)
		require.Equalf(t, want, id, "encode(%q)", text)
	}
}

func TestDecodeDotted(t *testing.T) {
	require.Equal(t, "22.0123", asid.Decode(720123))
}

func TestEncodeRejectsZero(t *testing.T) {
	_, err := asid.Encode("0")
	require.Error(t, err)
}

func TestEncodeRejectsLongFraction(t *testing.T) {
	_, err := asid.Encode("3.12345")
	require.Error(t, err)
}

func TestEncodeRejectsGarbage(t *testing.T) {
	_, err := asid.Encode("not-an-as")
	require.Error(t, err)
}

func TestEncodeInjectiveOnRange(t *testing.T) {
	seen := make(map[asid.ID]int, 150000)
	for n := 1; n < 150000; n++ {
		id, err := asid.Encode(itoa(n))
		require.NoError(t, err)
		if prior, ok := seen[id]; ok {
			t.Fatalf("encode(%d) collided with encode(%d) -> %d", n, prior, id)
		}
		seen[id] = n
	}
}

func itoa(n int) string {
	digits := [20]byte{}
	i := len(digits)
	if n == 0 {
		return "0"
	}
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}
