package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/walterschell/chess-tracker/api"
	"github.com/walterschell/chess-tracker/bus"
	"github.com/walterschell/chess-tracker/config"
	"github.com/walterschell/chess-tracker/journal"
	"github.com/walterschell/chess-tracker/render"
	"github.com/walterschell/chess-tracker/tracker"
)

const maxBodySize = 1 << 16

//go:embed assets
var assets embed.FS
var static fs.FS
var templates fs.FS

func init() {
	static, _ = fs.Sub(assets, "assets/static")
	templates, _ = fs.Sub(assets, "assets/templates")
}

func stdoutLogger(next http.Handler) http.Handler {
	return handlers.LoggingHandler(os.Stdout, next)
}

type Client struct {
	conn        *websocket.Conn
	application *Application
	writeLock   sync.Mutex
}

func (c *Client) send(v any) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	return c.conn.WriteJSON(v)
}

// wsRequest is a command sent by a websocket client. ID is echoed back so
// the client can match replies.
type wsRequest struct {
	ID   int             `json:"id"`
	Op   api.Op          `json:"op"`
	Body json.RawMessage `json:"body,omitempty"`
}

type wsReply struct {
	ID    int    `json:"id"`
	Op    api.Op `json:"op"`
	Reply any    `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

type wsEvent struct {
	Event tracker.Event `json:"event"`
}

type Application struct {
	router      *mux.Router
	templates   *template.Template
	tracker     *tracker.Tracker
	journal     *journal.Journal
	clients     map[*Client]interface{}
	clientsLock sync.RWMutex
	upgrader    websocket.Upgrader
}

// NewApplication serves t. j may be nil, in which case the history endpoint
// reports that the journal is disabled.
func NewApplication(t *tracker.Tracker, j *journal.Journal) *Application {
	templateParser := template.New("")
	templateParser.Delims("[[", "]]")
	result := Application{
		router:    mux.NewRouter(),
		templates: template.Must(templateParser.ParseFS(templates, "*.html.gotmpl")),
		tracker:   t,
		journal:   j,
		clients:   make(map[*Client]interface{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	result.router.NotFoundHandler = stdoutLogger(http.HandlerFunc(notFoundHandler))
	result.router.Use(stdoutLogger)

	result.router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	result.router.HandleFunc("/", result.indexHandler).Methods(http.MethodGet)
	result.router.HandleFunc("/ws", result.wsHandler)
	result.router.HandleFunc("/board.svg", result.svgHandler).Methods(http.MethodGet)

	apiRouter := result.router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/state", result.opHandler(api.OpState)).Methods(http.MethodGet)
	apiRouter.HandleFunc("/reset", result.opHandler(api.OpReset)).Methods(http.MethodPost)
	apiRouter.HandleFunc("/move", result.opHandler(api.OpMove)).Methods(http.MethodPost)
	apiRouter.HandleFunc("/steps", result.opHandler(api.OpSteps)).Methods(http.MethodPost)
	apiRouter.HandleFunc("/fen", result.opHandler(api.OpFEN)).Methods(http.MethodGet)
	apiRouter.HandleFunc("/fen", result.opHandler(api.OpLoad)).Methods(http.MethodPut)
	apiRouter.HandleFunc("/history", result.historyHandler).Methods(http.MethodGet)

	t.Subscribe(result.broadcast)
	return &result
}

func (app *Application) indexHandler(w http.ResponseWriter, r *http.Request) {
	templateVars := struct {
		Title string
	}{
		Title: "Chess Tracker",
	}

	err := app.templates.ExecuteTemplate(w, "index.html.gotmpl", templateVars)
	if err != nil {
		log.Error().Err(err).Msg("rendering template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("writing response")
	}
}

func (app *Application) opHandler(op api.Op) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, api.ErrorReply{Error: err.Error()})
			return
		}
		reply, err := api.Handle(app.tracker, op, body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, api.ErrorReply{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, reply)
	}
}

func (app *Application) historyHandler(w http.ResponseWriter, r *http.Request) {
	if app.journal == nil {
		writeJSON(w, http.StatusNotFound, api.ErrorReply{Error: "journal disabled"})
		return
	}
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, api.ErrorReply{Error: "invalid limit"})
			return
		}
		limit = n
	}
	entries, err := app.journal.List(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("listing journal")
		writeJSON(w, http.StatusInternalServerError, api.ErrorReply{Error: "journal unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (app *Application) svgHandler(w http.ResponseWriter, r *http.Request) {
	opts := render.Options{Title: app.tracker.FEN()}
	if name := r.URL.Query().Get("square"); name != "" {
		sq, err := tracker.ParseSquare(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		opts.Selected = &sq
		opts.Highlights, _ = app.tracker.Steps(sq)
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	render.Board(w, app.tracker.State(), opts)
}

func (application *Application) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := application.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade")
		return
	}
	log.Info().Stringer("remote", conn.RemoteAddr()).Msg("new websocket connection")
	client := &Client{
		conn:        conn,
		application: application,
	}
	application.clientsLock.Lock()
	application.clients[client] = nil
	application.clientsLock.Unlock()
	go client.readLoop()
}

func (client *Client) readLoop() {
	application := client.application
	defer func() {
		application.clientsLock.Lock()
		delete(application.clients, client)
		application.clientsLock.Unlock()
		client.conn.Close()
	}()
	for {
		var req wsRequest
		if err := client.conn.ReadJSON(&req); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				client.send(wsReply{Error: fmt.Sprintf("invalid message: %v", err)})
				continue
			}
			log.Debug().Err(err).Msg("websocket closed")
			return
		}
		reply := wsReply{ID: req.ID, Op: req.Op}
		result, err := api.Handle(application.tracker, req.Op, req.Body)
		if err != nil {
			reply.Error = err.Error()
		} else {
			reply.Reply = result
		}
		if err := client.send(reply); err != nil {
			log.Debug().Err(err).Msg("websocket write")
			return
		}
	}
}

// broadcast pushes a tracker event to every connected websocket client.
func (app *Application) broadcast(ev tracker.Event) {
	log.Debug().Str("kind", string(ev.Kind)).Msg("broadcasting event")
	app.clientsLock.RLock()
	defer app.clientsLock.RUnlock()
	for client := range app.clients {
		if err := client.send(wsEvent{Event: ev}); err != nil {
			log.Debug().Err(err).Msg("websocket broadcast")
		}
	}
}

func (app *Application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	app.router.ServeHTTP(w, r)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "File Not Found", http.StatusNotFound)
}

func main() {
	var (
		configPath string
		port       uint
	)
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.UintVar(&port, "port", 0, "Port to listen on (overrides config)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if port != 0 {
		cfg.Port = port
	}
	if cfg.Port > 65535 {
		fmt.Println("Invalid port number")
		os.Exit(1)
	}
	cfg.SetupLogging()

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	t := tracker.New(cfg.BoardOptions()...)

	var jrnl *journal.Journal
	if cfg.JournalPath != "" {
		var err error
		jrnl, err = journal.Open(ctx, cfg.JournalPath)
		if err != nil {
			return err
		}
		defer jrnl.Close()
		t.Subscribe(jrnl.Listener())
		log.Info().Str("path", cfg.JournalPath).Msg("journal enabled")
	}

	if cfg.NatsURL != "" {
		nc, err := bus.Connect(cfg.NatsURL, cfg.NatsPrefix, t)
		if err != nil {
			return err
		}
		defer nc.Drain()
	}

	app := NewApplication(t, jrnl)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Uint("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("server gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
