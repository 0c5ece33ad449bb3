package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
				"-t", "24", "-l", "zap", "-r", "redis://cache:6379", "-prod",
			},
			expected: &Config{
				HTTPAddr:        "127.0.0.1:9090",
				DatabaseDSN:     "db",
				SecretKey:       "secret",
				SessionValidity: 24 * time.Hour,
				LogBackend:      "zap",
				RedisURL:        "redis://cache:6379",
				Production:      true,
			},
		},
		{
			name: "config file flag is ignored here",
			args: []string{"cmd", "-c", "conf.json", "-a", ":1"},
			expected: &Config{
				HTTPAddr: ":1",
			},
		},
		{
			name:        "bad integer panics",
			args:        []string{"cmd", "-t", "week"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
			os.Args = tt.args

			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
