package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvironment(t *testing.T) {
	cases := map[string]Environment{
		"":             Sandbox,
		"sandbox":      Sandbox,
		" Production ": Production,
	}
	for raw, want := range cases {
		got, err := ParseEnvironment(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseEnvironment("staging")
	assert.Error(t, err)
}
