package main

import (
	"github.com/bgrewell/fat-kit/pkg/logging"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParseOffset(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"1048576", 1048576, false},
		{"0x100000", 1048576, false},
		{"-512", 0, true},
		{"sector", 0, true},
	}
	for _, tt := range tests {
		got, err := parseOffset(tt.in)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		require.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestLogLevel(t *testing.T) {
	require.Equal(t, logging.LEVEL_INFO, logLevel(false, false))
	require.Equal(t, logging.LEVEL_DEBUG, logLevel(true, false))
	require.Equal(t, logging.LEVEL_TRACE, logLevel(false, true))
	require.Equal(t, logging.LEVEL_TRACE, logLevel(true, true))
}
