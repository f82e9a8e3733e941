package match

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesKindSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	sentinels := map[Kind]error{
		KindInvalidInput:        ErrInvalidInput,
		KindUpstreamUnavailable: ErrUpstreamUnavailable,
		KindRetrievalDegraded:   ErrRetrievalDegraded,
		KindPairScoringFailed:   ErrPairScoringFailed,
	}

	for kind, sentinel := range sentinels {
		err := newError(kind, "op", cause)
		assert.ErrorIs(t, err, sentinel)
		assert.ErrorIs(t, err, cause)
		for other, otherSentinel := range sentinels {
			if other != kind {
				assert.NotErrorIs(t, err, otherSentinel)
			}
		}
	}
}

func TestError_MessageAndStack(t *testing.T) {
	err := newError(KindUpstreamUnavailable, "persist matches", errors.New("timeout"))
	assert.Equal(t, "UPSTREAM_UNAVAILABLE: persist matches: timeout", err.Error())
	assert.NotEmpty(t, err.StackTrace())

	bare := newError(KindInvalidInput, "validate request", nil)
	assert.Equal(t, "INVALID_INPUT: validate request", bare.Error())
	assert.NotEmpty(t, bare.StackTrace())
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("batch: %w", invalidInput("validate request", "limit must be at least 1, got %d", 0))

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindInvalidInput, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}
