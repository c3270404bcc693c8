package server

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"relief-router/internal/database"
	"relief-router/internal/handlers"
	"relief-router/internal/models"
	"relief-router/internal/sqlite"
	"relief-router/web"
)

// Server wraps the HTTP server and all dependencies
type Server struct {
	httpServer *http.Server
	handler    *handlers.Handler
	db         database.DataStore
	listener   net.Listener
	addr       string
}

// Config holds server configuration
type Config struct {
	Addr          string // e.g., "127.0.0.1:8080" or "127.0.0.1:0" for random port
	DBPath        string // SQLite file, ":memory:" for a throwaway store
	SeedDir       string // optional directory of city CSV files
	CommandCenter string // zone routes start from by default
}

// LoadConfig reads ~/.relief-router/config.json. A missing file is created
// with the defaults.
func LoadConfig(addr string) (Config, error) {
	path, err := database.GetConfigFilePath()
	if err != nil {
		return Config{}, err
	}
	return loadConfigFile(path, addr)
}

func loadConfigFile(path, addr string) (Config, error) {
	_, statErr := os.Stat(path)
	app, err := database.LoadConfig(path)
	if err != nil {
		return Config{}, err
	}
	if os.IsNotExist(statErr) {
		if err := database.SaveConfig(path, app); err != nil {
			log.Printf("[ERROR] Could not write default config: %v", err)
		}
	}
	return Config{
		Addr:          addr,
		DBPath:        app.DatabasePath,
		SeedDir:       app.SeedDir,
		CommandCenter: app.CommandCenter,
	}, nil
}

// New creates and initializes a new server (does not start it)
func New(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		path, err := database.GetDefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = path
	}
	if cfg.CommandCenter == "" {
		cfg.CommandCenter = database.DefaultCommandCenter
	}

	log.Printf("Initializing data store at %s...", cfg.DBPath)
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize data store: %w", err)
	}

	if err := seedStore(context.Background(), db, cfg.SeedDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed data store: %w", err)
	}

	log.Printf("Loading templates...")
	templates, err := loadTemplates(web.Templates)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	handler := &handlers.Handler{
		DB:            db,
		Templates:     templates,
		Missions:      handlers.NewMissionLog(),
		CommandCenter: cfg.CommandCenter,
	}

	router := setupRoutes(handler, web.Static)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      loggingMiddleware(corsMiddleware(router)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
		db:         db,
		addr:       cfg.Addr,
	}, nil
}

// seedStore loads city data into an empty store, from seedDir when set and
// from the bundled reference city otherwise. Disaster closures are always
// ensured.
func seedStore(ctx context.Context, db database.DataStore, seedDir string) error {
	empty, err := database.IsEmpty(ctx, db)
	if err != nil {
		return err
	}
	if !empty {
		return database.SeedClosures(ctx, db)
	}

	var city *database.CityData
	if seedDir != "" {
		city, err = database.LoadCityDir(seedDir)
	} else {
		log.Printf("[IMPORT] Store is empty, loading reference city")
		var sub fs.FS
		sub, err = fs.Sub(web.Seed, "seed")
		if err == nil {
			city, err = database.LoadCity(sub)
		}
	}
	if err != nil {
		return err
	}
	return database.Seed(ctx, db, city)
}

// Handler returns the HTTP handler including middleware
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the server and returns the actual address (useful for random port)
func (s *Server) Start() (string, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = listener
	actualAddr := listener.Addr().String()
	log.Printf("Starting server on %s", actualAddr)

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return actualAddr, nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	return s.db.Close()
}

// Template helper functions
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"formatKm": func(km float64) string {
			return strconv.FormatFloat(km, 'f', -1, 64) + " km"
		},
		"pathString": func(zones []string) string {
			return strings.Join(zones, " → ")
		},
		"inList": func(id string, ids []string) bool {
			for _, v := range ids {
				if v == id {
					return true
				}
			}
			return false
		},
		"statusClass": func(s models.ZoneStatus) string {
			return strings.ToLower(string(s))
		},
	}
}

// loadTemplates loads all templates from the embedded filesystem
func loadTemplates(templatesFS fs.FS) (*handlers.TemplateSet, error) {
	funcs := templateFuncs()
	base := template.New("").Funcs(funcs)

	layoutContent, err := fs.ReadFile(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	if _, err = base.New("layout.html").Parse(string(layoutContent)); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	// Page templates stay unparsed; each render clones the base and adds one
	pages := make(map[string]string)
	for _, name := range []string{"dashboard.html"} {
		content, err := fs.ReadFile(templatesFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %s: %w", name, err)
		}
		pages[name] = string(content)
	}

	return &handlers.TemplateSet{
		Base:  base,
		Pages: pages,
		Funcs: funcs,
	}, nil
}

// setupRoutes configures all HTTP routes
func setupRoutes(handler *handlers.Handler, staticFS fs.FS) *mux.Router {
	r := mux.NewRouter()

	staticSubFS, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("failed to create static sub-filesystem: %v", err)
	}
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(staticSubFS))))

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", handler.HandleHealthCheck).Methods(http.MethodGet)

	api.HandleFunc("/zones", handler.HandleListZones).Methods(http.MethodGet)
	api.HandleFunc("/zones", handler.HandleCreateZone).Methods(http.MethodPost)
	api.HandleFunc("/zones/{id}", handler.HandleGetZone).Methods(http.MethodGet)
	api.HandleFunc("/zones/{id}", handler.HandleUpdateZone).Methods(http.MethodPut)
	api.HandleFunc("/zones/{id}", handler.HandleDeleteZone).Methods(http.MethodDelete)

	api.HandleFunc("/roads", handler.HandleListRoads).Methods(http.MethodGet)
	api.HandleFunc("/roads", handler.HandleCreateRoad).Methods(http.MethodPost)
	api.HandleFunc("/roads/{id:[0-9]+}", handler.HandleDeleteRoad).Methods(http.MethodDelete)

	api.HandleFunc("/shelters", handler.HandleListShelters).Methods(http.MethodGet)
	api.HandleFunc("/shelters", handler.HandleCreateShelter).Methods(http.MethodPost)
	api.HandleFunc("/shelters/{id}", handler.HandleDeleteShelter).Methods(http.MethodDelete)

	api.HandleFunc("/resources", handler.HandleListResources).Methods(http.MethodGet)
	api.HandleFunc("/resources", handler.HandleSetResource).Methods(http.MethodPut)

	api.HandleFunc("/disasters", handler.HandleListDisasters).Methods(http.MethodGet)
	api.HandleFunc("/disasters/closures", handler.HandleCreateClosure).Methods(http.MethodPost)
	api.HandleFunc("/disasters/closures/{id:[0-9]+}", handler.HandleDeleteClosure).Methods(http.MethodDelete)

	api.HandleFunc("/routes", handler.HandleRoute).Methods(http.MethodPost)
	api.HandleFunc("/routes/tree", handler.HandleRouteTree).Methods(http.MethodPost)
	api.HandleFunc("/graph.dot", handler.HandleGraphDOT).Methods(http.MethodGet)

	api.HandleFunc("/priority", handler.HandlePriority).Methods(http.MethodPost)
	api.HandleFunc("/allocations", handler.HandleAllocate).Methods(http.MethodPost)
	api.HandleFunc("/supplies", handler.HandleSupplies).Methods(http.MethodPost)

	api.HandleFunc("/missions", handler.HandleListMissions).Methods(http.MethodGet)
	api.HandleFunc("/missions", handler.HandleApproveMission).Methods(http.MethodPost)
	api.HandleFunc("/missions", handler.HandleResetMissions).Methods(http.MethodDelete)

	// Page routes
	r.HandleFunc("/", handler.HandleDashboard).Methods(http.MethodGet)

	return r
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		duration := time.Since(start)
		log.Printf("[HTTP] %s %s %d %v", r.Method, r.URL.Path, lrw.statusCode, duration)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Only allow localhost origins (Wails webview and local development)
		if origin == "" ||
			strings.HasPrefix(origin, "http://localhost:") ||
			strings.HasPrefix(origin, "http://127.0.0.1:") ||
			strings.HasPrefix(origin, "wails://") {
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
