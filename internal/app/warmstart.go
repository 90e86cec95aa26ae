package app

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/folio/internal/state"
)

const defaultWarmStartTimeout = 5 * time.Second

// warmStart runs the initial list fetch synchronously and applies it, so the
// first frame shows data instead of a spinner. A failure leaves the error
// banner set and the UI starts anyway; the user can reload from there.
func warmStart(ctx context.Context, ctrl *state.Controller, logger *log.Logger, timeout time.Duration) {
	if timeout <= 0 {
		timeout = defaultWarmStartTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	ctrl.Apply(ctrl.Load()(ctx))

	snap := ctrl.Snapshot()
	if snap.ErrorMessage != "" {
		logger.Warn("initial load failed", "filter", snap.Filter, "elapsed", time.Since(started))
		return
	}
	logger.Debug("initial load", "filter", snap.Filter, "count", snap.Count(), "elapsed", time.Since(started))
}
