package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare host gets https", in: "example.com", want: "https://example.com"},
		{name: "existing scheme kept", in: "http://example.com/page", want: "http://example.com/page"},
		{name: "host lowercased", in: "https://EXAMPLE.com/Path", want: "https://example.com/Path"},
		{name: "fragment stripped", in: "https://example.com/a#section", want: "https://example.com/a"},
		{name: "whitespace trimmed", in: "  example.com  ", want: "https://example.com"},
		{name: "empty rejected", in: "", wantErr: true},
		{name: "unsupported scheme rejected", in: "ftp://example.com", wantErr: true},
		{name: "no host rejected", in: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := NewTarget(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, target.String())
		})
	}
}

func TestTargetDomain(t *testing.T) {
	t.Parallel()

	target, err := NewTarget("https://www.example.com:8443/page")
	require.NoError(t, err)
	require.Equal(t, "www.example.com:8443", target.Host())
	require.Equal(t, "example.com", target.Domain())
}
