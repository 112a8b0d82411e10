package ports

import (
	"context"

	"github.com/aretw0/waypoint/pkg/domain"
)

// BuildListener is called synchronously by the build engine at every decision point.
// A hook may block for as long as the debugger keeps the build suspended.
// A non-nil error from any start or finish hook must abort the build.
type BuildListener interface {
	OnBuildStart(ctx context.Context, info domain.BuildInfo) error
	OnTargetStart(ctx context.Context, target domain.Target) error
	OnTargetFinish(ctx context.Context, target domain.Target) error
	OnTaskStart(ctx context.Context, task domain.Task) error
	OnTaskFinish(ctx context.Context, task domain.Task) error

	// OnBuildFinish is called once, with the build's own outcome.
	OnBuildFinish(ctx context.Context, buildErr error)
}

// NopListener ignores every hook. Used when a build runs without a debugger.
type NopListener struct{}

func (NopListener) OnBuildStart(context.Context, domain.BuildInfo) error { return nil }
func (NopListener) OnTargetStart(context.Context, domain.Target) error   { return nil }
func (NopListener) OnTargetFinish(context.Context, domain.Target) error  { return nil }
func (NopListener) OnTaskStart(context.Context, domain.Task) error       { return nil }
func (NopListener) OnTaskFinish(context.Context, domain.Task) error      { return nil }
func (NopListener) OnBuildFinish(context.Context, error)                 {}
