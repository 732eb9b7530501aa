package commands

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/model-cloud/mcloud/internal/api"
	"github.com/model-cloud/mcloud/internal/cli/config"
	"github.com/model-cloud/mcloud/internal/logger"
	"github.com/model-cloud/mcloud/internal/nav"
	"github.com/model-cloud/mcloud/internal/notify"
	"github.com/model-cloud/mcloud/internal/session"
)

// Env holds the constructed dependencies every command runs against:
// config, durable storage, the session store, the API client, and the
// router. Nothing here is a package-level singleton; the session is
// seeded once here, before any network call is issued.
type Env struct {
	Config   *config.Config
	Storage  session.Storage
	Sessions *session.Store
	Notifier notify.Notifier
	Client   *api.Client
	Router   *nav.Router
	Log      zerolog.Logger
}

// NewEnv loads the configuration and wires the client stack.
func NewEnv() (*Env, error) {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'mcloud init <server-url>' to create a configuration file", err)
	}
	if cfg.Server == "" {
		return nil, fmt.Errorf("server URL is empty. Please edit %s and add the API base URL", config.ConfigFileName)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	storage, err := buildStorage(cfg.Server)
	if err != nil {
		return nil, err
	}

	sessions, err := session.New(storage, log)
	if err != nil {
		return nil, err
	}

	notifier := notify.NewConsole()
	client := api.New(cfg.Server, sessions, storage, notifier, log)
	if cfg.TimeoutSeconds > 0 {
		client.SetHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second})
	}

	router := nav.NewRouter(sessions, storage, notifier, log)
	client.SetNavigator(router)

	return &Env{
		Config:   cfg,
		Storage:  storage,
		Sessions: sessions,
		Notifier: notifier,
		Client:   client,
		Router:   router,
		Log:      log,
	}, nil
}

// buildStorage routes the token to the OS keyring, scoped per server,
// and everything else to files under the state directory.
func buildStorage(server string) (session.Storage, error) {
	dir, err := session.DefaultStorageDir()
	if err != nil {
		return nil, err
	}
	files, err := session.NewFileStorage(dir)
	if err != nil {
		return nil, err
	}
	secrets := session.NewKeyringStorage(serverScope(server))
	return session.NewSplitStorage(secrets, files, session.KeyToken), nil
}

// serverScope reduces a base URL to a keyring scope, so tokens for
// different deployments don't collide.
func serverScope(server string) string {
	if u, err := url.Parse(server); err == nil && u.Host != "" {
		return u.Host
	}
	return server
}

// RequireAuth fails fast when no token is present. Token validity is
// the server's call; a stale token surfaces through the 401 path.
func (e *Env) RequireAuth() error {
	if e.Sessions.IsLoggedIn() {
		return nil
	}
	return fmt.Errorf("not logged in. Run 'mcloud login' first")
}

// RequireAdmin ensures the caller is logged in and carries an admin
// role, fetching the profile when it hasn't been loaded yet.
func (e *Env) RequireAdmin(ctx context.Context) error {
	if err := e.RequireAuth(); err != nil {
		return err
	}

	if e.Sessions.UserInfo() == nil {
		profile, err := e.Client.CurrentUser(ctx)
		if err != nil {
			return err
		}
		if err := e.Sessions.SetUserInfo(profile); err != nil {
			e.Log.Warn().Err(err).Msg("failed to persist user info")
		}
	}

	if !e.Sessions.IsAdmin() {
		return fmt.Errorf("admin access required")
	}
	return nil
}
