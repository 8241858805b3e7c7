package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    *Config
		wantErr string
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://10.0.0.1:8080", "-f", "/tmp/s.db", "-t", "5s", "-i", "1m", "-l", "debug"},
			want: &Config{
				ServerURL:           "http://10.0.0.1:8080",
				SessionDB:           "/tmp/s.db",
				RequestTimeout:      5 * time.Second,
				OnlineCheckInterval: time.Minute,
				LogLevel:            "debug",
			},
		},
		{
			name: "server and unknown flags are skipped",
			args: []string{"-x", "1", "-s", "secret", "--a=http://h:1"},
			want: &Config{ServerURL: "http://h:1"},
		},
		{
			name: "zero interval disables polling",
			args: []string{"-i", "0s"},
			want: &Config{},
		},
		{name: "bad interval", args: []string{"-i", "abc"}, wantErr: `invalid value "abc" for flag -i`},
		{name: "timeout without unit", args: []string{"-t", "5"}, wantErr: `invalid value "5" for flag -t`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := applyFlags(cfg, tt.args)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, cfg))
		})
	}
}

func TestParseFlags_PanicsOnBadValue(t *testing.T) {
	withArgs(t, "-t", "soon")
	require.Panics(t, func() { parseFlags(&Config{}) })

	withArgs(t, "-l", "info")
	cfg := &Config{}
	require.NotPanics(t, func() { parseFlags(cfg) })
	assert.Equal(t, "info", cfg.LogLevel)
}
