package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_expand(t *testing.T) {
	tests := []struct {
		src      string
		mapping  func(string) string
		expected string
	}{
		{
			src:      "foo: ${bar}",
			mapping:  strings.ToUpper,
			expected: "foo: BAR",
		},
		{
			src:      "$123",
			mapping:  strings.ToUpper,
			expected: "$123",
		},
		{
			src:      "a: ${x} b: ${y}",
			mapping:  func(s string) string { return s + s },
			expected: "a: xx b: yy",
		},
	}
	for i, tt := range tests {
		if got := expand(tt.src, tt.mapping); got != tt.expected {
			t.Errorf("testcase %d failed, expected %v but got %v", i, tt.expected, got)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	conf, err := Load("", os.Getenv)
	require.NoError(t, err)
	assert.Equal(t, ModeWebsocket, conf.Gateway.Mode)
	assert.Equal(t, 30, conf.Gateway.Timeout)
	assert.Equal(t, []string{"/", ""}, conf.CommandStart)
	assert.False(t, conf.Essentials.EnableGroupRequestNotify)
	assert.Empty(t, conf.Essentials.GroupRequestNotifyTarget)
	assert.Equal(t, "info", conf.Output.LogLevel)
	assert.False(t, conf.Pprof.Enabled)
	assert.Equal(t, 7700, conf.Pprof.Port)
}

func TestLoad(t *testing.T) {
	env := map[string]string{"TOKEN": "s3cret"}
	conf, err := Load(`
gateway:
  mode: ws-reverse
  port: 8081
  path: onebot
  access-token: ${TOKEN}
superusers: [10001]
qqessentials:
  enable-group-request-notify: true
  group-request-notify-target: [999, 998]
`, func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, "s3cret", conf.Gateway.AccessToken)
	assert.Equal(t, "/onebot", conf.Gateway.Path)
	assert.Equal(t, []int64{10001}, conf.Superusers)
	assert.True(t, conf.Essentials.EnableGroupRequestNotify)
	assert.Equal(t, []int64{999, 998}, conf.Essentials.GroupRequestNotifyTarget)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load("gateway: [", os.Getenv)
	assert.Error(t, err)
	_, err = Load("gateway:\n  mode: http\n", os.Getenv)
	assert.Error(t, err)
	_, err = Load("gateway:\n  url: ''\n", os.Getenv)
	assert.Error(t, err)
}

func TestParseGeneratesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	_, err := Parse(path)
	assert.ErrorIs(t, err, ErrGenerated)

	conf, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:3001", conf.Gateway.URL)
}
