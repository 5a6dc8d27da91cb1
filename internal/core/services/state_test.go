package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellfetch/withings-cli/internal/core/domain"
)

func TestGenerateState_LengthAndAlphabet(t *testing.T) {
	state, err := generateState()
	require.NoError(t, err)

	assert.Len(t, state, stateLength)
	for _, c := range state {
		assert.True(t, strings.ContainsRune(stateAlphabet, c),
			"character %q not in state alphabet", c)
	}
}

func TestGenerateState_Unpredictable(t *testing.T) {
	// Collisions across a handful of draws would indicate a broken source.
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		state, err := generateState()
		require.NoError(t, err)
		assert.False(t, seen[state], "duplicate state %q", state)
		seen[state] = true
	}
}

func TestValidateState_Match(t *testing.T) {
	state, err := generateState()
	require.NoError(t, err)

	assert.NoError(t, validateState(state, state))
}

func TestValidateState_Mismatch(t *testing.T) {
	tests := []struct {
		name     string
		received string
		expected string
	}{
		{"different values", "ABCDfghi1234", "ZYXWvuts9876"},
		{"empty received", "", "ZYXWvuts9876"},
		{"empty expected", "ABCDfghi1234", ""},
		{"case difference", "abcdFGHI1234", "ABCDfghi1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateState(tt.received, tt.expected)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrStateMismatch)
		})
	}
}
