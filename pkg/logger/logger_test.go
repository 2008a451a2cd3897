package logger

import (
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := New("DEBUG", "upload")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New("warn", "completion")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", "upload")
	assert.Error(t, err)
}

func TestRuntimeFields(t *testing.T) {
	prevName, prevVersion := lambdacontext.FunctionName, lambdacontext.FunctionVersion
	t.Cleanup(func() {
		lambdacontext.FunctionName, lambdacontext.FunctionVersion = prevName, prevVersion
	})

	lambdacontext.FunctionName = ""
	assert.Nil(t, runtimeFields())

	lambdacontext.FunctionName, lambdacontext.FunctionVersion = "hlsflow-upload", "$LATEST"
	assert.Equal(t, map[string]any{
		"function":         "hlsflow-upload",
		"function_version": "$LATEST",
	}, runtimeFields())
}
