package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevelFromEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  logrus.Level
	}{
		{name: "debug", value: "debug", want: logrus.DebugLevel},
		{name: "warn", value: "warn", want: logrus.WarnLevel},
		{name: "garbage falls back to info", value: "loud", want: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.value)
			InitWithOutput(&bytes.Buffer{})
			assert.Equal(t, tt.want, Log.GetLevel())
		})
	}
}

func TestJSONFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_LEVEL", "info")

	var buf bytes.Buffer
	InitWithOutput(&buf)
	Component("pool").Info("ready")

	require.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), `"component":"pool"`)
	assert.Contains(t, buf.String(), `"msg":"ready"`)
}
