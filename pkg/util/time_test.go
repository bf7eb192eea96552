package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSince(t *testing.T) {
	cases := map[string]time.Duration{
		"0s":  0,
		"45s": 45 * time.Second,
		"30m": 30 * time.Minute,
		"12h": 12 * time.Hour,
		"2d":  48 * time.Hour,
		"1w":  168 * time.Hour,
	}
	for in, want := range cases {
		got, err := ParseSince(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseSinceInvalid(t *testing.T) {
	for _, in := range []string{"", "d", "10", "1y", "-1d", "1d2h", " 1d", "99999999999999999999s"} {
		_, err := ParseSince(in)
		assert.Error(t, err, in)
	}
}
