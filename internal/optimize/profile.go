// Package optimize post-processes raw fleet binaries with binaryen's wasm-opt.
package optimize

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/protologic/cargo-protologic/internal/constants"
	perrors "github.com/protologic/cargo-protologic/internal/errors"
)

// Feature is a WebAssembly proposal enabled in the optimizer.
type Feature string

// Features the Protologic runtime supports.
const (
	FeatureBulkMemory Feature = constants.FeatureBulkMemory
	FeatureSIMD       Feature = constants.FeatureSIMD
)

// KnownFeatures returns every feature the optimizer can be configured with.
func KnownFeatures() []Feature {
	return []Feature{FeatureBulkMemory, FeatureSIMD}
}

// ParseFeatures validates configured feature names.
func ParseFeatures(names []string) ([]Feature, error) {
	features := make([]Feature, 0, len(names))
	for _, name := range names {
		f := Feature(name)
		if !slices.Contains(KnownFeatures(), f) {
			return nil, fmt.Errorf("unknown optimizer feature %q: %w", name, perrors.ErrConfigInvalidOptimizer)
		}
		features = append(features, f)
	}
	return features, nil
}

// Optimization levels.
const (
	LevelDebug   = 0
	LevelRelease = 4
)

// Pass names.
const (
	// PassStripDWARF removes DWARF debug sections.
	PassStripDWARF = "strip-dwarf"

	// PassAsyncify rewrites the module so that calls to the listed imports can
	// unwind and later rewind the wasm stack. The simulator runs many fleets in one
	// process and suspends a fleet whenever it calls the yield import.
	PassAsyncify = "asyncify"

	// asyncifyImportsArg names the imports asyncify instruments.
	asyncifyImportsArg = "asyncify-imports"
)

// PassArg is a key/value argument for a pass, rendered as --pass-arg=key@value.
type PassArg struct {
	Key   string
	Value string
}

// Pass is one optimizer pass and its arguments.
type Pass struct {
	Name string
	Args []PassArg
}

// Profile is a complete optimizer configuration.
type Profile struct {
	// Debug is true for the debug profile.
	Debug bool
	// Level is the -O level, 0 through 4.
	Level int
	// DebugInfo keeps names and DWARF in the output (-g).
	DebugInfo bool
	// Features are enabled on top of the MVP feature set.
	Features []Feature
	// Passes run after the level's default pipeline, in order.
	Passes []Pass
}

// Options are the configurable inputs to NewProfile.
type Options struct {
	// Features to enable.
	Features []Feature
	// YieldImport is the module.field import asyncify instruments.
	YieldImport string
	// AsyncifyDebug keeps the asyncify rewrite in the debug profile.
	AsyncifyDebug bool
}

// NewProfile derives the optimizer profile from the build mode.
//
// Release runs -O4, strips DWARF and always applies asyncify. Debug runs -O0 and
// keeps debug info; it applies asyncify only when opts.AsyncifyDebug is set.
func NewProfile(debug bool, opts Options) Profile {
	p := Profile{
		Debug:    debug,
		Features: slices.Clone(opts.Features),
	}

	if debug {
		p.Level = LevelDebug
		p.DebugInfo = true
	} else {
		p.Level = LevelRelease
		p.Passes = append(p.Passes, Pass{Name: PassStripDWARF})
	}

	if !debug || opts.AsyncifyDebug {
		p.Passes = append(p.Passes, Pass{
			Name: PassAsyncify,
			Args: []PassArg{{Key: asyncifyImportsArg, Value: opts.YieldImport}},
		})
	}

	return p
}

// HasPass reports whether the profile runs the named pass.
func (p Profile) HasPass(name string) bool {
	return slices.ContainsFunc(p.Passes, func(pass Pass) bool { return pass.Name == name })
}

// Name returns "debug" or "release".
func (p Profile) Name() string {
	if p.Debug {
		return "debug"
	}
	return "release"
}

// Args renders the wasm-opt command line for optimizing in into out.
func Args(p Profile, in, out string) []string {
	args := []string{in, "-o", out, "-O" + strconv.Itoa(p.Level)}
	if p.DebugInfo {
		args = append(args, "-g")
	}
	for _, f := range p.Features {
		args = append(args, "--enable-"+string(f))
	}
	for _, pass := range p.Passes {
		args = append(args, "--"+pass.Name)
		for _, arg := range pass.Args {
			args = append(args, "--pass-arg="+arg.Key+"@"+arg.Value)
		}
	}
	return args
}
