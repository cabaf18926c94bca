package global

import (
	"bytes"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFormat(t *testing.T) {
	entry := &log.Entry{
		Time:    time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local),
		Level:   log.WarnLevel,
		Message: "向目标群 999 推送加群请求信息失败",
	}
	b, err := LogFormat{}.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2024-05-06 07:08:09] [WARNING]: 向目标群 999 推送加群请求信息失败 \n", string(b))

	colored, err := LogFormat{EnableColor: true}.Format(entry)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(colored, []byte(colorCodeWarn)))
	assert.True(t, bytes.HasSuffix(colored, []byte(colorReset)))
}

func TestLocalHookFire(t *testing.T) {
	buf := &bytes.Buffer{}
	hook := &LocalHook{levels: GetLogLevel("error"), formatter: LogFormat{}, writer: buf}
	assert.Equal(t, []log.Level{log.ErrorLevel, log.FatalLevel, log.PanicLevel}, hook.Levels())
	require.NoError(t, hook.Fire(&log.Entry{Level: log.ErrorLevel, Message: "boom"}))
	assert.Contains(t, buf.String(), "[ERROR]: boom")
}

func TestGetLogLevel(t *testing.T) {
	assert.Contains(t, GetLogLevel("debug"), log.DebugLevel)
	assert.NotContains(t, GetLogLevel("info"), log.DebugLevel)
	assert.Equal(t, GetLogLevel("info"), GetLogLevel("unknown"))
}
