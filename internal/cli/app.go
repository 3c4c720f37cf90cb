package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/medibook/internal/config"
	"github.com/dmitrijs2005/medibook/internal/jobs"
	"github.com/dmitrijs2005/medibook/internal/logging"
	"github.com/dmitrijs2005/medibook/internal/models"
	"github.com/dmitrijs2005/medibook/internal/repositories/appointments"
	"github.com/dmitrijs2005/medibook/internal/repositories/kv"
	"github.com/dmitrijs2005/medibook/internal/repositories/users"
	"github.com/dmitrijs2005/medibook/internal/services"
	"github.com/dmitrijs2005/medibook/internal/snapshot"
)

// openStore is a test seam for kv.Open.
var openStore = kv.Open

type App struct {
	config      *config.Config
	store       kv.Store
	authService services.AuthService
	apptService services.AppointmentService
	snapshots   *snapshot.Service
	log         logging.Logger
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp opens the configured store and builds the services on top of it.
// Demo accounts are seeded and stale slot claims released before the REPL
// starts.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, err := openStore(ctx, kv.Options{
		Driver:        c.StorageDriver,
		DSN:           c.DSN,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", c.StorageDriver, err)
	}

	app, err := newApp(ctx, c, store, log, os.Stdin, os.Stdout)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, store kv.Store, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if log == nil {
		log = logging.Discard()
	}

	secret, err := services.ResolveSessionSecret(ctx, store, c.SessionSecret)
	if err != nil {
		return nil, err
	}

	usersRepo := users.NewKVRepository(store, log)
	apptRepo := appointments.NewKVRepository(store, log)

	as := services.NewAuthService(usersRepo, store, log, services.AuthOptions{
		PasswordScheme: c.PasswordScheme,
		Delay:          c.AuthDelay,
		SessionTTL:     c.SessionTTL,
		SessionSecret:  secret,
		LoginRate:      rate.Limit(c.LoginRate),
		LoginBurst:     c.LoginBurst,
	})
	aps := services.NewAppointmentService(apptRepo, log, nil)

	if err := as.InitializeDemoUsers(ctx); err != nil {
		return nil, fmt.Errorf("seed demo users: %w", err)
	}
	if _, err := aps.RepairSlots(ctx); err != nil {
		return nil, fmt.Errorf("repair slots: %w", err)
	}
	if _, err := aps.CompletePast(ctx); err != nil {
		log.Warn(ctx, "completion sweep failed", "error", err)
	}

	return &App{
		config:      c,
		store:       store,
		authService: as,
		apptService: aps,
		snapshots:   snapshot.NewService(store, usersRepo, apptRepo, log),
		log:         log,
		reader:      bufio.NewReader(in),
		out:         out,
	}, nil
}

// Run starts the completion sweep and the REPL and closes the store when the
// REPL ends.
func (a *App) Run(ctx context.Context) error {
	defer a.store.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched, err := jobs.Start(ctx, a.config.CompletionSchedule, a.apptService, a.log)
	if err != nil {
		return err
	}
	defer sched.Stop()

	fmt.Fprintln(a.out, "Welcome to MediBook (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

// currentUser returns the signed-in user or nil. Store errors are logged and
// read as signed out.
func (a *App) currentUser(ctx context.Context) *models.User {
	u, err := a.authService.CurrentUser(ctx)
	if err != nil {
		a.log.Warn(ctx, "read session", "error", err)
		return nil
	}
	return u
}

func (a *App) role(ctx context.Context) models.Role {
	if u := a.currentUser(ctx); u != nil {
		return u.UserType
	}
	return ""
}

func (a *App) status(ctx context.Context) string {
	u := a.currentUser(ctx)
	if u == nil {
		return ""
	}
	return fmt.Sprintf("(%s, %s)", u.Name, u.UserType)
}
