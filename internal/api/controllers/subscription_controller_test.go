package controllers

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAmount(t *testing.T) {
	cases := map[string]struct {
		in   string
		want float64
		ok   bool
	}{
		"base64 wrapped":               {base64.StdEncoding.EncodeToString([]byte("500")), 500, true},
		"base64 wrapped with decimals": {base64.StdEncoding.EncodeToString([]byte("499.99")), 499.99, true},
		"plain number":                 {"500", 500, true},
		// "1200" is valid base64 but decodes to garbage bytes, so the
		// raw value must still be honored.
		"plain number that is valid base64": {"1200", 1200, true},
		"negative":                          {base64.StdEncoding.EncodeToString([]byte("-5")), 0, false},
		"garbage":                           {"not-a-number", 0, false},
		"empty":                             {"", 0, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, ok := decodeAmount(tc.in)
			require.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want, got, 0.001)
		})
	}
}

func TestDecodeMonths(t *testing.T) {
	cases := map[string]struct {
		in   string
		want int
		ok   bool
	}{
		"base64 wrapped":                    {base64.StdEncoding.EncodeToString([]byte("12")), 12, true},
		"plain number":                      {"6", 6, true},
		"plain number that is valid base64": {"1200", 1200, true},
		"zero":                              {base64.StdEncoding.EncodeToString([]byte("0")), 0, false},
		"garbage":                           {"twelve", 0, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, ok := decodeMonths(tc.in)
			require.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
