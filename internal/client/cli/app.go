package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/mynote/internal/client/config"
	"github.com/dmitrijs2005/mynote/internal/client/controller"
	"github.com/dmitrijs2005/mynote/internal/client/dispatch"
	"github.com/dmitrijs2005/mynote/internal/client/gateway"
	"github.com/dmitrijs2005/mynote/internal/client/provider"
	"github.com/dmitrijs2005/mynote/internal/client/provider/identitytoolkit"
	"github.com/dmitrijs2005/mynote/internal/client/services"
	"github.com/dmitrijs2005/mynote/internal/client/session"
	"github.com/dmitrijs2005/mynote/internal/client/storage"
	"github.com/dmitrijs2005/mynote/internal/logging"
)

type App struct {
	config  *config.Config
	db      *sql.DB
	log     logging.Logger
	disp    *dispatch.Serial
	gateway gateway.Gateway
	session *session.State

	// one form per screen
	signUpForm *controller.Controller
	loginForm  *controller.Controller

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database, restores the persisted provider session
// and wires the auth stack.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(c.LogLevel, os.Stderr)

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	p := identitytoolkit.New(identitytoolkit.Config{
		Endpoint:            c.ProviderEndpoint,
		SecureTokenEndpoint: c.TokenEndpoint,
		APIKey:              c.APIKey,
		Timeout:             c.RequestTimeout,
		MaxRetries:          c.MaxRetries,
	}, identitytoolkit.NewSQLiteUserStore(db), log)

	if err := p.Restore(ctx); err != nil {
		log.Warn(ctx, "could not restore previous session", "error", err)
	}

	a := newApp(p, dispatch.NewSerial(), log, bufio.NewReader(os.Stdin), os.Stdout)
	a.config = c
	a.db = db
	return a, nil
}

func newApp(p provider.Provider, disp *dispatch.Serial, log logging.Logger, r *bufio.Reader, w io.Writer) *App {
	gw := gateway.New(p, log)
	signUp := services.NewSignUpUseCase(gw, log)
	login := services.NewLoginUseCase(gw, log)
	sess := session.New(p, gw, disp, log)

	return &App{
		log:        log,
		disp:       disp,
		gateway:    gw,
		session:    sess,
		signUpForm: controller.New(signUp, login, sess, disp, log),
		loginForm:  controller.New(signUp, login, sess, disp, log),
		reader:     r,
		out:        w,
	}
}

// Run starts the dispatcher and the REPL and releases everything on exit.
func (a *App) Run(ctx context.Context) {
	go a.disp.Run(ctx)
	defer a.Close()

	printlnFn("Welcome to mynote (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close waits for background verification sends, detaches the session and
// closes the database.
func (a *App) Close() {
	a.gateway.Wait()
	a.session.Close()
	a.disp.Close()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(context.Background(), "closing database failed", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	snap := a.session.Snapshot()
	switch {
	case snap.Authenticated:
		return fmt.Sprintf("(%s)", snap.Current.Email)
	case snap.SigningUp:
		return "(awaiting verification)"
	}
	return ""
}
