package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kartel/whygo/internal/api"
	"github.com/kartel/whygo/internal/config"
	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/logging"
	"github.com/kartel/whygo/internal/query"
	"github.com/kartel/whygo/internal/session"
)

// errNotSignedIn is returned by commands that need a session when there is
// none.
var errNotSignedIn = fmt.Errorf("%w: run 'whygo login' first", errors.ErrUnauthenticated)

// runtime is everything a command needs, built from the loaded config.
type runtime struct {
	cfg      *config.Config
	logger   *logging.Logger
	store    *session.FileStore
	sessions *session.Manager
	api      *api.Client
	backend  *query.Client
	now      func() time.Time
}

// newRuntime loads the configuration and restores the persisted session.
// The API client invalidates the session on any 401 so every caller sees
// the sign-out.
func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	stateDir := cfg.Session.ResolveStateDir()

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		l, err := logging.NewLogger(stateDir, cfg.Logging.Level, cfg.Logging.Rotation())
		if err != nil {
			// Logging is best-effort; the command still runs.
			fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		} else {
			logger = l
		}
	}

	store, err := session.NewFileStore(stateDir)
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	sessions := session.NewManager(store, logger)
	if _, err := sessions.Restore(); err != nil && !errors.Is(err, errors.ErrSessionNotFound) {
		logger.Warn("failed to restore session", "error", err)
	}

	client := api.New(api.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  logger,
		OnUnauthorized: func(sess *session.Session) {
			sessions.Invalidate(sess)
		},
	})

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		sessions: sessions,
		api:      client,
		backend:  query.New(client, query.TTLsFromConfig(cfg.Cache)),
		now:      time.Now,
	}, nil
}

// Close flushes the log file.
func (r *runtime) Close() {
	_ = r.logger.Close()
}

// authContext returns ctx carrying the current session.
func (r *runtime) authContext(ctx context.Context) (context.Context, *session.Session, error) {
	sess := r.sessions.Current()
	if !sess.Valid() {
		return nil, nil, errNotSignedIn
	}
	return session.NewContext(ctx, sess), sess, nil
}

// withRuntime adapts a command body that needs a runtime to cobra's RunE.
func withRuntime(run func(r *runtime, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		r, err := newRuntime()
		if err != nil {
			return err
		}
		defer r.Close()
		return run(r, cmd, args)
	}
}
