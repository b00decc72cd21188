package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/five82/gantry/internal/config"
	"github.com/five82/gantry/internal/logging"
	"github.com/five82/gantry/internal/pharos"
	"github.com/five82/gantry/internal/prefs"
	"github.com/five82/gantry/internal/state"
	"github.com/five82/gantry/internal/ui"
)

const logoutTimeout = 5 * time.Second

var _ ui.Controller = (*Controller)(nil)

// Options configure the console.
type Options struct {
	Config    config.Config
	PrefsPath string // empty uses ~/.config/gantry/prefs.toml

	// SessionOptions are appended to the options derived from Config.
	SessionOptions []pharos.Option
}

// Run authenticates, starts the dashboard refresher and runs the console
// until the user quits or ctx is cancelled. The session is logged out on
// the way out.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	logger := logging.WithComponent(logging.Get(), "console")

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("preferences unavailable, using defaults", "error", err)
	}

	return WithController(ctx, cfg, func(ctx context.Context, ctrl *Controller) error {
		store := &state.Store{}
		refresher := NewRefresher(store, ctrl, cfg.Refresh, logging.WithComponent(logging.Get(), "refresher"))

		// Populate the store before the first frame.
		_ = refresher.Refresh(ctx)
		refresher.Start(ctx)

		return ui.Run(ui.Options{
			Context:    ctx,
			Controller: ctrl,
			Store:      store,
			Refresh:    refresher.Kick,
			LogFile:    cfg.LogFile,
			PollTick:   time.Second,
			ThemeName:  userPrefs.Theme,
			StartView:  userPrefs.StartView,
			PrefsPath:  opts.PrefsPath,
		})
	}, opts.SessionOptions...)
}

// WithController connects to the configured controller, runs fn with an
// authenticated controller and logs out afterwards. The inner context is
// cancelled when fn returns so background work started by fn stops before
// the logout.
func WithController(ctx context.Context, cfg config.Config, fn func(context.Context, *Controller) error, opts ...pharos.Option) (err error) {
	logger := logging.WithComponent(logging.Get(), "app")

	ctrl, err := NewController(cfg, opts...)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if err := ctrl.Authenticate(ctx, cfg.Username, cfg.Password); err != nil {
		return fmt.Errorf("authenticate %s: %w", cfg.Host, err)
	}

	defer func() {
		logoutCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logoutTimeout)
		defer cancel()
		if lerr := ctrl.Logout(logoutCtx); lerr != nil {
			logger.Warn("logout failed", "host", ctrl.Host(), "error", lerr)
			if err == nil {
				err = fmt.Errorf("logout: %w", lerr)
			}
		}
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := fn(runCtx, ctrl); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
