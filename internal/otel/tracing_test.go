package otel

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/logging"
)

func TestInit_Disabled(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")

	var buf bytes.Buffer
	shutdown, err := Init(context.Background(), "resumeparser", logging.New(&buf, time.UTC))

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"tracing_enabled":false`)
	assert.Contains(t, buf.String(), `"component":"tracing"`)
}

func TestInit_UnsupportedProtocol(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "false")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "carrier-pigeon")

	var buf bytes.Buffer
	shutdown, err := Init(context.Background(), "resumeparser", logging.New(&buf, time.UTC))

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"event":"tracing_init_failed"`)
	assert.Contains(t, buf.String(), "carrier-pigeon")
}

func TestSampler(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{name: "always_on", want: "AlwaysOnSampler"},
		{name: "always_off", want: "AlwaysOffSampler"},
		{name: "traceidratio", arg: "0.25", want: "TraceIDRatioBased{0.25}"},
		{name: "traceidratio", arg: "garbage", want: "AlwaysOnSampler"},
		{name: "parentbased_traceidratio", arg: "0.5", want: "ParentBased{root:TraceIDRatioBased{0.5}"},
		{name: "unknown", want: "ParentBased{root:AlwaysOnSampler"},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.arg, func(t *testing.T) {
			desc := sampler(tt.name, tt.arg).Description()
			assert.True(t, strings.HasPrefix(desc, tt.want), desc)
		})
	}
}
