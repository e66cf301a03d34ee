package datasource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"7", "7"},
		{"007", "7"},
		{"-3", "-3"},
		{"+3", "3"},
		{"7.0", "7"},
		{"7e0", "7"},
		{"1e3", "1000"},
		{"0.50", "0.5"},
		{"-0.0", "0"},
		{"1e300", "1e+300"},
		{"9007199254740993.0", "9.007199254740992e+15"},
		{"18446744073709551615", "18446744073709551615"},
		{"18446744073709551614", "18446744073709551614"},
		{"+18446744073709551615", "18446744073709551615"},
		{"99999999999999999998", "99999999999999999998"},
		{"99999999999999999999", "99999999999999999999"},
		{"00099999999999999999999", "99999999999999999999999"},
		{"-99999999999999999999", "-99999999999999999999"},
		{"-000000000000000000000", "0"},
		{"abc", "abc"},
		{"12abc", "12abc"},
		{"NaN", "NaN"},
		{"inf", "inf"},
		{"Infinity", "Infinity"},
		{"0x1p-2", "0x1p-2"},
		{"1_000", "1_000"},
		{"1e999", "1e999"},
		{"-", "-"},
		{".", "."},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeNumber(tt.in))
		})
	}
}

func TestNormalizeNumber_LargeIntegersStayDistinct(t *testing.T) {
	pairs := [][2]string{
		{"18446744073709551614", "18446744073709551615"},
		{"99999999999999999998", "99999999999999999999"},
		{"-9223372036854775809", "-9223372036854775810"},
	}
	for _, p := range pairs {
		assert.NotEqual(t, NormalizeNumber(p[0]), NormalizeNumber(p[1]), "%s vs %s", p[0], p[1])
	}
}
