package soft3d

import "errors"

var (
	// ErrInvalidSize is returned when a surface dimension is not positive.
	ErrInvalidSize = errors.New("soft3d: width and height must be positive")

	// ErrFrameInProgress is returned by operations that are only valid
	// between frames, such as Resize and BeginFrame.
	ErrFrameInProgress = errors.New("soft3d: frame in progress")

	// ErrNoFrame is returned when submitting outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("soft3d: no frame in progress")

	// ErrNilDraw is returned when a Draw or its Shader is nil.
	ErrNilDraw = errors.New("soft3d: draw has no shader")
)

// ErrInvalidMesh is returned for meshes whose index count is not a
// multiple of 3 or that reference missing vertices.
var ErrInvalidMesh = errors.New("soft3d: invalid mesh")
