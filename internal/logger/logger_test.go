package logger

import (
	"testing"

	"github.com/gookit/slog"
	"github.com/stretchr/testify/assert"
)

func TestWithServiceNameDefaultsAndCopies(t *testing.T) {
	t.Setenv("SERVICE_NAME", "")
	in := Fields{"post_id": "abc"}

	out := withServiceName(in)
	assert.Equal(t, defaultServiceName, out["service_name"])
	assert.Equal(t, "abc", out["post_id"])
	assert.NotContains(t, in, "service_name")
}

func TestWithServiceNameFromEnv(t *testing.T) {
	t.Setenv("SERVICE_NAME", "blog-api")
	assert.Equal(t, "blog-api", withServiceName(nil)["service_name"])
	assert.Equal(t, "custom", withServiceName(Fields{"service_name": "custom"})["service_name"])
}

func TestInitPrefersEnvLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Cleanup(func() { Log = NewLogger("info") })

	Init("error")
	lg, ok := Log.(*slog.Logger)
	assert.True(t, ok)
	assert.NotNil(t, lg)
	assert.NotPanics(t, func() { DebugWithFields("debug line", Fields{"k": 1}) })
}
