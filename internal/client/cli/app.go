package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/gatewayclient/internal/client/bootstrap"
	"github.com/dmitrijs2005/gatewayclient/internal/client/client"
	"github.com/dmitrijs2005/gatewayclient/internal/client/config"
	"github.com/dmitrijs2005/gatewayclient/internal/client/errmsg"
	"github.com/dmitrijs2005/gatewayclient/internal/client/notify"
	"github.com/dmitrijs2005/gatewayclient/internal/client/queries"
	"github.com/dmitrijs2005/gatewayclient/internal/client/query"
	"github.com/dmitrijs2005/gatewayclient/internal/client/session"
	"github.com/dmitrijs2005/gatewayclient/internal/client/storage"
	"github.com/dmitrijs2005/gatewayclient/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	local   *storage.Store
	session *session.Store
	qc      *query.Client
	queries *queries.Queries
	history *bootstrap.History
	sink    *notify.Detachable
	reader  *bufio.Reader
	out     io.Writer
}

type appOptions struct {
	httpClient *http.Client
	sink       notify.Sink
	in         io.Reader
	out        io.Writer
	logOut     io.Writer
}

// Option customizes NewApp. The defaults talk to the terminal.
type Option func(*appOptions)

// WithHTTPClient sets the transport used to reach the backend.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *appOptions) { o.httpClient = hc }
}

// WithSink replaces the console notification sink.
func WithSink(s notify.Sink) Option {
	return func(o *appOptions) { o.sink = s }
}

// WithIO sets where commands read input and write output.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *appOptions) { o.in, o.out = in, out }
}

// WithLogOutput sets the destination of log lines.
func WithLogOutput(w io.Writer) Option {
	return func(o *appOptions) { o.logOut = w }
}

func NewApp(ctx context.Context, c *config.Config, opts ...Option) (*App, error) {
	o := appOptions{in: os.Stdin, out: os.Stdout, logOut: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sink == nil {
		o.sink = notify.NewConsoleSink(os.Stderr)
	}

	logger := logging.New(c.LogBackend, c.Environment, o.logOut)

	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}
	local := storage.NewStore(db)

	httpOpts := []client.Option{
		client.WithInterceptor(client.UnauthorizedInterceptor(local, logger)),
		client.WithLogger(logger),
	}
	if o.httpClient != nil {
		httpOpts = append(httpOpts, client.WithHTTPClient(o.httpClient))
	}
	api, err := client.NewHTTPClient(c.APIBaseURL, httpOpts...)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("api client: %w", err)
	}

	sink := notify.NewDetachable(o.sink)
	classifier := errmsg.NewClassifier(errmsg.MatchLocale(c.Locale), logger, c.Production())
	engine := query.NewEngine(query.EngineConfig{StaleTime: c.QueryStaleTime, Retries: c.EngineRetries()}, logger)

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		local:   local,
		session: session.NewStore(),
		qc:      query.NewClient(engine, query.NewErrorHandler(classifier, sink)),
		queries: queries.New(api),
		history: &bootstrap.History{},
		sink:    sink,
		reader:  bufio.NewReader(o.in),
		out:     o.out,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().Authenticated()
}

func (a *App) getStatus() string {
	snap := a.session.Snapshot()
	if snap.Authenticated() {
		return fmt.Sprintf("(%s)", snap.Profile.Username)
	}
	return fmt.Sprintf("(%s)", snap.AuthState)
}

// Bootstrap resolves the initial session and reports where it landed. It
// blocks until the self query settles or ctx is done.
func (a *App) Bootstrap(ctx context.Context) error {
	b := bootstrap.New(a.queries.Self, a.qc, a.session, a.history, a.logger)
	b.Start(ctx)
	printlnFn(b.View(""))

	if err := b.Wait(ctx); err != nil {
		return err
	}
	printlnFn(b.View("Route: " + a.history.Current()))
	return nil
}

// Run bootstraps the session and then serves the REPL until the user exits
// or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to the gateway client (type 'help' for commands)")
	if err := a.Bootstrap(ctx); err != nil {
		a.logger.Error(ctx, "bootstrap interrupted", "error", err)
		return
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close stops notifications and releases local storage.
func (a *App) Close() {
	a.sink.Detach()
	if err := a.db.Close(); err != nil {
		a.logger.Warn(context.Background(), "failed to close local storage", "error", err)
	}
}
