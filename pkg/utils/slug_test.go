package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Annual Premium":        "annual-premium",
		"Annual  Premium (Pro)": "annual-premium-pro",
		"  trial_30 days  ":     "trial-30-days",
		"UPPER":                 "upper",
		"---":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}
