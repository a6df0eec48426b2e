package hexconv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHalfbyte(t *testing.T) {
	t.Run("digits", func(t *testing.T) {
		for i, c := range "0123456789abcdef" {
			require.Equal(t, byte(i), Halfbyte[c])
		}

		for i, c := range "ABCDEF" {
			require.Equal(t, byte(i+10), Halfbyte[c])
		}
	})

	t.Run("non-hex", func(t *testing.T) {
		for _, c := range []byte("gGzZ %+/:@`") {
			require.Equal(t, byte(0xFF), Halfbyte[c], string(c))
		}
	})

	t.Run("pair", func(t *testing.T) {
		b, ok := Pair('5', 'B')
		require.True(t, ok)
		require.Equal(t, byte('['), b)

		b, ok = Pair('f', 'f')
		require.True(t, ok)
		require.Equal(t, byte(0xff), b)

		_, ok = Pair('2', 'j')
		require.False(t, ok)
	})
}

func benchLocal(b *testing.B, str string) {
	b.SetBytes(int64(len(str)))
	b.ResetTimer()

	for range b.N {
		var result uint64

		for j := range str {
			result = (result << 4) | uint64(Halfbyte[str[j]])
		}
	}
}

func BenchmarkParse(b *testing.B) {
	b.Run("short", func(b *testing.B) {
		benchLocal(b, "123456789abcdef")
	})

	b.Run("long", func(b *testing.B) {
		benchLocal(b, strings.Repeat("123456789abcdef", 100))
	})
}
