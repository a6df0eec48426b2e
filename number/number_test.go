package number

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUint(t *testing.T) {
	t.Run("fits", func(t *testing.T) {
		for _, tc := range []struct {
			Input string
			Bits  int
			Want  uint64
		}{
			{"0", 8, 0},
			{"255", 8, 255},
			{"007", 8, 7},
			{"65535", 16, 65535},
			{"4294967295", 32, math.MaxUint32},
			{"18446744073709551615", 64, math.MaxUint64},
		} {
			num, err := ParseUint([]byte(tc.Input), tc.Bits)
			require.NoError(t, err, tc.Input)
			require.Equal(t, tc.Want, num)
		}
	})

	t.Run("overflow", func(t *testing.T) {
		for _, tc := range []struct {
			Input string
			Bits  int
		}{
			{"300", 8},
			{"256", 8},
			{"65536", 16},
			{"18446744073709551616", 64},
			{"99999999999999999999999", 64},
		} {
			_, err := ParseUint([]byte(tc.Input), tc.Bits)
			require.ErrorIs(t, err, ErrOverflow, tc.Input)
		}
	})

	t.Run("syntax", func(t *testing.T) {
		for _, tc := range []string{"", "+1", "-1", " 1", "1 ", "1.5", "0x10", "1_000", "abc", "99999999999999999999999z"} {
			_, err := ParseUint([]byte(tc), 64)
			require.ErrorIs(t, err, ErrSyntax, tc)
		}
	})

	t.Run("error carries the input", func(t *testing.T) {
		_, err := ParseUint([]byte("300"), 8)
		var nerr *Error
		require.ErrorAs(t, err, &nerr)
		require.Equal(t, "300", nerr.Input)
		require.Equal(t, `number out of range: "300"`, err.Error())
	})
}

func TestParseInt(t *testing.T) {
	t.Run("fits", func(t *testing.T) {
		for _, tc := range []struct {
			Input string
			Bits  int
			Want  int64
		}{
			{"0", 8, 0},
			{"-0", 8, 0},
			{"127", 8, 127},
			{"-128", 8, -128},
			{"-32768", 16, -32768},
			{"9223372036854775807", 64, math.MaxInt64},
			{"-9223372036854775808", 64, math.MinInt64},
		} {
			num, err := ParseInt([]byte(tc.Input), tc.Bits)
			require.NoError(t, err, tc.Input)
			require.Equal(t, tc.Want, num)
		}
	})

	t.Run("overflow", func(t *testing.T) {
		for _, tc := range []struct {
			Input string
			Bits  int
		}{
			{"128", 8},
			{"-129", 8},
			{"9223372036854775808", 64},
			{"-9223372036854775809", 64},
			{"-99999999999999999999", 64},
		} {
			_, err := ParseInt([]byte(tc.Input), tc.Bits)
			require.ErrorIs(t, err, ErrOverflow, tc.Input)
		}
	})

	t.Run("syntax", func(t *testing.T) {
		for _, tc := range []string{"", "-", "+1", "--1", "1-", "1.5", "1e3"} {
			_, err := ParseInt([]byte(tc), 64)
			require.ErrorIs(t, err, ErrSyntax, tc)

			var nerr *Error
			require.ErrorAs(t, err, &nerr)
			require.Equal(t, tc, nerr.Input)
		}
	})
}

func TestParseFloat(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		for _, tc := range []struct {
			Input string
			Want  float64
		}{
			{"0", 0},
			{"1.5", 1.5},
			{"-1.5", -1.5},
			{"1e3", 1000},
			{"1E+3", 1000},
			{"2.5e-1", 0.25},
			{"18446744073709551616", 18446744073709551616},
			{"1e-400", 0},
		} {
			f, err := ParseFloat([]byte(tc.Input), 64)
			require.NoError(t, err, tc.Input)
			require.Equal(t, tc.Want, f)
		}
	})

	t.Run("float32 precision", func(t *testing.T) {
		f, err := ParseFloat([]byte("0.1"), 32)
		require.NoError(t, err)
		require.Equal(t, float32(0.1), float32(f))
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := ParseFloat([]byte("1e400"), 64)
		require.ErrorIs(t, err, ErrOverflow)
		_, err = ParseFloat([]byte("1e39"), 32)
		require.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("syntax", func(t *testing.T) {
		for _, tc := range []string{
			"", "-", "+1", ".5", "5.", "1e", "1e+", "inf", "NaN", "0x1p3", " 1", "1_0", "1.5.5",
		} {
			_, err := ParseFloat([]byte(tc), 64)
			require.ErrorIs(t, err, ErrSyntax, tc)
		}
	})
}

func TestParseBool(t *testing.T) {
	for _, tc := range []string{"", "1", "on", "true"} {
		b, err := ParseBool([]byte(tc))
		require.NoError(t, err)
		require.True(t, b, tc)
	}

	for _, tc := range []string{"0", "off", "false"} {
		b, err := ParseBool([]byte(tc))
		require.NoError(t, err)
		require.False(t, b, tc)
	}

	for _, tc := range []string{"True", "yes", "2", " true"} {
		_, err := ParseBool([]byte(tc))
		require.ErrorIs(t, err, ErrBool, tc)
	}
}

func BenchmarkParseUint(b *testing.B) {
	num := []byte("18446744073709551615")
	b.SetBytes(int64(len(num)))
	b.ResetTimer()

	for range b.N {
		_, _ = ParseUint(num, 64)
	}
}
