package commands

import (
	"context"

	"slicetrait/internal/config"
	"slicetrait/trait"
)

// State is what the root command prepares for every subcommand.
type State struct {
	Config   *config.Config
	Registry *trait.Registry
}

// Engine returns an engine for axis configured from the loaded config.
func (s *State) Engine(axis trait.Axis) *trait.Engine {
	return trait.NewEngine(s.Registry, axis, s.Config.EngineConfig())
}

type stateKey struct{}

// WithState stores s in ctx.
func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, stateKey{}, s)
}

// StateFrom retrieves the state from ctx. Without one, it returns default
// settings over an empty registry.
func StateFrom(ctx context.Context) *State {
	if ctx != nil {
		if s, ok := ctx.Value(stateKey{}).(*State); ok {
			return s
		}
	}

	return &State{
		Config: &config.Config{
			Builtin:  true,
			Output:   config.DefaultOutput,
			LogLevel: config.DefaultLogLevel,
		},
		Registry: trait.NewRegistry(),
	}
}
