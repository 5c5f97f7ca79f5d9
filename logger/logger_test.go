package logger

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	defer os.Unsetenv(levelEnv)

	cases := map[string]zerolog.Level{
		"DEBUG":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"PANIC":   zerolog.PanicLevel,
		"verbose": zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for value, expected := range cases {
		os.Setenv(levelEnv, value)
		assert.Equal(t, expected, Level(), value)
	}
}
