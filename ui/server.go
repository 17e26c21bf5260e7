package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"gradebook/app"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

// Options holds page-level settings
type Options struct {
	Title          string
	FooterMarkdown string
}

// Server represents the web server for the student report UI
type Server struct {
	router    *gin.Engine
	roster    *app.RosterService
	templates *template.Template
	assets    fs.FS
	title     string
	footer    template.HTML
}

// NewServer creates a server that renders pages from the embedded assets
func NewServer(roster *app.RosterService, opts Options) (*Server, error) {
	return newServer(roster, opts, embeddedFiles)
}

func newServer(roster *app.RosterService, opts Options, assets fs.FS) (*Server, error) {
	s := &Server{
		router: gin.New(),
		roster: roster,
		assets: assets,
		title:  opts.Title,
		footer: renderMarkdown(opts.FooterMarkdown),
	}
	if s.title == "" {
		s.title = "Student Data Management & Analysis"
	}

	if err := s.parseTemplates(); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) parseTemplates() error {
	funcMap := template.FuncMap{
		"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"fixed2": func(v float64) string {
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		},
		"checked": func(selected []string, v string) bool {
			for _, s := range selected {
				if s == v {
					return true
				}
			}
			return false
		},
	}

	templatesFS, err := fs.Sub(s.assets, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = tmpl
	log.Printf("[TemplateInit] Parsed templates: %s", tmpl.DefinedTemplates())
	return nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger(), gin.Recovery(), RequestID())

	staticFS, err := fs.Sub(s.assets, "static")
	if err != nil {
		log.Printf("[setupMiddleware] Error creating static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/students", s.handleSubmit)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/students", s.handleListStudents)
	api.POST("/students", s.handleSubmit)
	api.GET("/stats", s.handleStats)

	s.router.GET("/charts/:name", s.handleChart)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	log.Printf("Starting student report UI on http://%s", addr)
	return s.router.Run(addr)
}
