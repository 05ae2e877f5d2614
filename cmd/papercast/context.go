package main

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"papercast/internal/api"
	"papercast/internal/config"
	"papercast/internal/credentials"
	"papercast/internal/logging"
	"papercast/internal/notifications"
	"papercast/internal/router"
	"papercast/internal/session"
	"papercast/internal/workflow"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	appOnce sync.Once
	app     *appContext
	appErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// appContext bundles the wired client stack for one CLI invocation: the
// restored session, its workflow machine, the location surface, and every
// backend facade sharing one HTTP core.
type appContext struct {
	cfg      *config.Config
	creds    *credentials.Store
	notifier notifications.Service

	auth    *api.Auth
	papers  *api.Papers
	scripts *api.Scripts
	images  *api.Images
	slides  *api.Slides
	media   *api.Media

	machine   *workflow.Machine
	store     *session.Store
	sessionID string
	location  *router.MemoryLocation
	syncer    *router.Synchronizer
}

func (c *commandContext) ensureApp(ctx context.Context) (*appContext, error) {
	c.appOnce.Do(func() {
		c.app, c.appErr = c.buildApp(ctx)
	})
	return c.app, c.appErr
}

func (c *commandContext) buildApp(ctx context.Context) (*appContext, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	app := &appContext{
		cfg:      cfg,
		creds:    credentials.NewStore(cfg.Paths.DataDir, logger),
		notifier: notifications.NewService(cfg),
	}

	app.store, err = session.Open(cfg)
	if err != nil {
		return nil, err
	}

	app.machine = workflow.NewMachine(logger)
	latest, err := app.store.Latest(ctx)
	if err != nil {
		app.store.Close()
		return nil, err
	}
	if latest != nil {
		app.machine.Restore(latest.State)
		app.sessionID = latest.ID
		app.location = router.NewMemoryLocation(latest.CurrentPath)
	} else {
		app.location = router.NewMemoryLocation("/")
		created, err := app.store.Create(ctx, "/", app.machine.Snapshot())
		if err != nil {
			app.store.Close()
			return nil, err
		}
		app.sessionID = created.ID
	}

	// One-shot commands cannot outlive a debounce timer, so settle
	// synchronously.
	app.syncer = router.NewSynchronizer(app.machine, app.location,
		router.WithSyncLogger(logger),
		router.WithSyncNotifier(app.notifier),
		router.WithLoginPath(cfg.Backend.LoginPath),
		router.WithSettleDelay(0),
	)

	client := api.NewClient(cfg.Backend, app.creds,
		api.WithLogger(logger),
		api.WithNotifier(app.notifier),
		api.WithAuthFailureHook(app.syncer.RedirectToLogin),
	)
	app.auth = api.NewAuth(client, app.creds)
	app.papers = api.NewPapers(client)
	app.scripts = api.NewScripts(client)
	app.images = api.NewImages(client)
	app.slides = api.NewSlides(client)
	app.media = api.NewMedia(client)

	return app, nil
}

// save reconciles the location with the machine and persists the session.
func (a *appContext) save(ctx context.Context) error {
	a.syncer.SyncStateToLocation()
	return a.store.Save(ctx, a.sessionID, a.location.Current(), a.machine.Snapshot())
}

// requirePaper returns the active paper identifier after verifying the
// backend still knows it. A vanished paper triggers recovery and fails the
// command.
func (a *appContext) requirePaper(ctx context.Context) (string, error) {
	paperID := a.machine.Snapshot().PaperID
	if paperID == "" {
		return "", errors.New("no paper in this session; run 'papercast upload' or 'papercast import' first")
	}
	if !a.papers.CheckExists(ctx, paperID) {
		a.syncer.RecoverMissingPaper(ctx, paperID)
		if err := a.save(ctx); err != nil {
			return "", err
		}
		return "", errors.New("paper no longer exists on the backend; session reset to the upload step")
	}
	return paperID, nil
}

// withApp runs fn against the wired stack and persists the session after a
// successful run.
func (c *commandContext) withApp(cmd *cobra.Command, fn func(context.Context, *appContext) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := c.ensureApp(ctx)
	if err != nil {
		return err
	}
	if err := fn(ctx, app); err != nil {
		// Persist navigation side effects (login redirects, recovery)
		// even when the command itself failed.
		_ = app.save(ctx)
		return err
	}
	return app.save(ctx)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
