package core

import (
	"errors"
	"fmt"
)

var (
	// ErrAssetLoad is returned when a file could not be read or decoded.
	ErrAssetLoad = errors.New("failed to load asset")
	// ErrShaderCompile is returned when a shader program is invalid.
	ErrShaderCompile = errors.New("failed to compile shader")
	// ErrPlatform is returned when monitor, cursor or clipboard state is inaccessible.
	ErrPlatform = errors.New("platform error")
	// ErrFailedToChangeDisplayMode is returned when the platform rejects a size,
	// fullscreen or vsync change.
	ErrFailedToChangeDisplayMode = errors.New("failed to change display mode")
	// ErrStencilUnavailable is returned for stencil operations on a context that
	// was built without a stencil buffer.
	ErrStencilUnavailable = errors.New("stencil buffer was not enabled when the context was built")
	// ErrInstanceLimitExceeded is returned when an instanced draw asks for more
	// instances than the device can hold.
	ErrInstanceLimitExceeded = errors.New("instance limit exceeded")
	// ErrContextDestroyed is returned when a handle is used after its context was torn down.
	ErrContextDestroyed = errors.New("context has been destroyed")
	// ErrHandleReleased is returned when a handle is used after its last reference was released.
	ErrHandleReleased = errors.New("resource handle has been released")
)

type AssetLoadError struct {
	Path string
	Err  error
}

func NewAssetLoadError(path string, err error) *AssetLoadError {
	return &AssetLoadError{Path: path, Err: err}
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("failed to load asset '%s': %v", e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() []error {
	return []error{ErrAssetLoad, e.Err}
}

type ShaderCompileError struct {
	// Stage is "vertex", "fragment" or "link".
	Stage string
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

func (e *ShaderCompileError) Unwrap() error {
	return ErrShaderCompile
}

type InstanceLimitError struct {
	Requested int
	Capacity  int
}

func (e *InstanceLimitError) Error() string {
	return fmt.Sprintf("instance limit exceeded: requested %d instances, capacity is %d", e.Requested, e.Capacity)
}

func (e *InstanceLimitError) Unwrap() error {
	return ErrInstanceLimitExceeded
}

// PlatformErrorf wraps a platform failure so that it matches ErrPlatform.
func PlatformErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPlatform, fmt.Sprintf(format, args...))
}

// DisplayModeErrorf wraps a rejected display change so that it matches ErrFailedToChangeDisplayMode.
func DisplayModeErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrFailedToChangeDisplayMode, fmt.Sprintf(format, args...))
}
