package imreg

import (
	"errors"
	"sync"
)

// Engine names.
const (
	// EngineSoftware is the pure Go fallback engine (engine/software).
	EngineSoftware = "software"
	// EngineElastix is the SimpleITK/Elastix cgo engine (engine/elastix).
	EngineElastix = "elastix"
)

// RegisterRequest carries one registration call across the engine
// boundary. Fixed and Moving hold contiguous row-major []T slices whose
// element type matches Code; both have Height*Width elements. The slices
// are private copies, so an engine may scribble on them freely.
type RegisterRequest struct {
	Code   Code
	Width  uint32
	Height uint32
	Fixed  any
	Moving any

	// Affine requests a full 2x2 linear + translation fit.
	// When false only the translation is fitted and the linear block of
	// the result must be the identity.
	Affine bool
}

// ResampleRequest carries one resampling call across the engine boundary.
// Pix holds a contiguous row-major []T matching Code; the engine resamples
// it in place under the given transform parameters and origin.
type ResampleRequest struct {
	Code       Code
	Width      uint32
	Height     uint32
	Parameters [6]float64
	Origin     [2]float64
	Pix        any

	// BSpline selects smooth (B-spline) resampling; false selects
	// nearest neighbor.
	BSpline bool
}

// Engine is a registration/resampling backend. Implementations live in
// sub-packages (engine/software, engine/elastix) and register themselves
// via RegisterEngine, typically from an init function so that users opt
// in with a blank import:
//
//	import _ "github.com/gogpu/imreg/engine/software"
//
// Engines are assumed non-reentrant: the library holds a process-wide
// lock around every call. An engine whose resampling path is documented
// thread-safe may loosen that by also implementing ReentrantEngine.
type Engine interface {
	// Name returns the engine identifier (e.g. "software", "elastix").
	Name() string

	// Register computes the six affine coefficients mapping the fixed
	// grid into the moving image, such that resampling the moving image
	// under them aligns it to the fixed image.
	Register(req *RegisterRequest) ([6]float64, error)

	// Resample warps req.Pix in place under the request's transform.
	// Source coordinates falling outside the image produce the engine's
	// fill value.
	Resample(req *ResampleRequest) error
}

// ReentrantEngine is an optional interface for engines whose Resample is
// safe to call concurrently. Register is always serialized regardless.
type ReentrantEngine interface {
	Reentrant() bool
}

var (
	engineMu sync.RWMutex
	engines  = make(map[string]Engine)

	// Priority order for engine selection (first registered name wins).
	enginePriority = []string{EngineElastix, EngineSoftware}
)

// callMu serializes engine invocations process-wide. Engines keep
// internal global state and are not safely reentrant, so at most one
// registration runs at a time no matter the pixel type or transform kind.
var callMu sync.Mutex

// RegisterEngine registers an engine under its own name, replacing any
// previous engine with the same name.
func RegisterEngine(e Engine) error {
	if e == nil {
		return errors.New("imreg: engine must not be nil")
	}
	engineMu.Lock()
	engines[e.Name()] = e
	engineMu.Unlock()
	return nil
}

// UnregisterEngine removes an engine from the registry.
// This is useful for testing.
func UnregisterEngine(name string) {
	engineMu.Lock()
	delete(engines, name)
	engineMu.Unlock()
}

// Engines returns the names of all registered engines.
func Engines() []string {
	engineMu.RLock()
	defer engineMu.RUnlock()
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	return names
}

// GetEngine returns a registered engine by name, or nil if absent.
func GetEngine(name string) Engine {
	engineMu.RLock()
	defer engineMu.RUnlock()
	return engines[name]
}

// DefaultEngine returns the best available engine based on priority
// (elastix before software), falling back to any registered engine.
// It returns ErrNoEngine when nothing is registered.
func DefaultEngine() (Engine, error) {
	engineMu.RLock()
	defer engineMu.RUnlock()

	for _, name := range enginePriority {
		if e, ok := engines[name]; ok {
			return e, nil
		}
	}
	for _, e := range engines {
		return e, nil
	}
	return nil, ErrNoEngine
}

// resampleSerialized reports whether calls to e.Resample must hold the
// process-wide engine lock. Unknown thread-safety means yes.
func resampleSerialized(e Engine) bool {
	if r, ok := e.(ReentrantEngine); ok {
		return !r.Reentrant()
	}
	return true
}
