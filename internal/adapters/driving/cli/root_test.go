package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"serve", "auth", "users", "mcp", "version"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

func TestRedirectPort(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    int
		wantErr bool
	}{
		{
			name: "localhost with port",
			uri:  "http://localhost:8080/auth/google/callback",
			want: 8080,
		},
		{
			name: "loopback IP",
			uri:  "http://127.0.0.1:9000/auth/google/callback",
			want: 9000,
		},
		{
			name: "default http port",
			uri:  "http://localhost/auth/google/callback",
			want: 80,
		},
		{
			name:    "non-loopback host",
			uri:     "https://folio.example.com/auth/google/callback",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port, err := redirectPort(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, port)
		})
	}
}
