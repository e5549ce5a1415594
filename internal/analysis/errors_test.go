package analysis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("nil stays nil", func(t *testing.T) {
		require.Nil(t, Classify(nil))
	})

	t.Run("existing taxonomy error passes through", func(t *testing.T) {
		orig := NewError(KindUpstreamDenied, "403 from relay", nil)
		got := Classify(fmt.Errorf("wrapped: %w", orig))
		require.Same(t, orig, got)
	})

	t.Run("dns error maps to network unreachable", func(t *testing.T) {
		err := &net.DNSError{Err: "no such host", Name: "nope.invalid"}
		got := Classify(err)
		require.Equal(t, KindNetworkUnreachable, got.Kind)
	})

	t.Run("deadline maps to upstream timeout", func(t *testing.T) {
		got := Classify(fmt.Errorf("fetch: %w", context.DeadlineExceeded))
		require.Equal(t, KindUpstreamTimeout, got.Kind)
	})

	t.Run("unknown keeps message verbatim", func(t *testing.T) {
		got := Classify(errors.New("something very specific went wrong"))
		require.Equal(t, KindUnknown, got.Kind)
		require.Equal(t, "something very specific went wrong", got.Message)
	})
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("root cause")
	err := NewError(KindUpstreamServerError, "relay returned 502", cause)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "upstream_server_error")
	require.Contains(t, err.Error(), "relay returned 502")
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	exhausted := NewError(KindAllRelaysExhausted, "4 attempts failed", nil)
	require.Equal(t,
		"External services temporarily unavailable, please retry in a few minutes.",
		exhausted.UserMessage())

	unknown := NewError(KindUnknown, "boom", nil)
	require.Contains(t, unknown.UserMessage(), "boom")
}

func TestSuggestions(t *testing.T) {
	t.Parallel()

	parse := NewError(KindParseFailure, "empty document", nil)
	require.NotEmpty(t, parse.Suggestions())
	require.Contains(t, parse.Suggestions()[0], "HTML page")

	denied := NewError(KindUpstreamDenied, "403", nil)
	require.Len(t, denied.Suggestions(), 3)
}
