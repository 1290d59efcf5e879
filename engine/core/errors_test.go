package core

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	err := error(NewAssetLoadError("a.png", os.ErrNotExist))
	assert.ErrorIs(t, err, ErrAssetLoad)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "a.png")

	err = &ShaderCompileError{Stage: "fragment", Log: "0:1: syntax error"}
	assert.ErrorIs(t, err, ErrShaderCompile)

	var limit *InstanceLimitError
	err = errors.Join(errors.New("draw"), &InstanceLimitError{Requested: 300, Capacity: 256})
	assert.ErrorIs(t, err, ErrInstanceLimitExceeded)
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, 256, limit.Capacity)
}

func TestErrorf(t *testing.T) {
	err := PlatformErrorf("monitor %d not found", 3)
	assert.ErrorIs(t, err, ErrPlatform)
	assert.Equal(t, "platform error: monitor 3 not found", err.Error())

	err = DisplayModeErrorf("invalid size %dx%d", 0, 10)
	assert.ErrorIs(t, err, ErrFailedToChangeDisplayMode)
	assert.NotErrorIs(t, err, ErrPlatform)
}
