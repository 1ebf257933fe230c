// Package admin provides maintenance operations on the roster collections,
// run from the command line rather than through the HTTP API.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/roster/internal/core"
)

// ResetTimeout is the maximum duration for reset operations.
const ResetTimeout = 30 * time.Second

// Targets accepted by Reset and Export.
const (
	TargetIdentities = "identities"
	TargetAttendance = "attendance"
	TargetAll        = "all"
)

// Admin runs maintenance operations against a store.
type Admin struct {
	Store *core.Store
}

type resetFn func(ctx context.Context) error

// Reset clears the named collection, or both for TargetAll. This is a
// destructive operation; callers confirm before calling it.
func (a *Admin) Reset(ctx context.Context, target string) error {
	ctx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	switch target {
	case TargetIdentities:
		return a.runResets(ctx, []resetFn{a.Store.ClearIdentities})
	case TargetAttendance:
		return a.runResets(ctx, []resetFn{a.Store.ClearAttendance})
	case TargetAll:
		// Attendance first: it refers to identities.
		return a.runResets(ctx, []resetFn{
			a.Store.ClearAttendance,
			a.Store.ClearIdentities,
		})
	default:
		return fmt.Errorf("unknown reset target %q (want identities, attendance or all)", target)
	}
}

func (a *Admin) runResets(ctx context.Context, resets []resetFn) error {
	for _, reset := range resets {
		if err := reset(ctx); err != nil {
			return err
		}
	}
	return nil
}
