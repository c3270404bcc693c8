package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io"
	"log"
	"net/http"
	"sync"

	"relief-router/internal/database"
	"relief-router/internal/models"
)

// TemplateSet holds base templates and page templates separately
type TemplateSet struct {
	Base  *template.Template
	Pages map[string]string
	Funcs template.FuncMap
}

// Handler provides common handler utilities and dependencies
type Handler struct {
	DB            database.DataStore
	Templates     *TemplateSet
	Missions      *MissionLog
	CommandCenter string

	// allocMu serializes allocation runs so two requests never share one
	// capacity snapshot.
	allocMu sync.Mutex
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	h.writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// handleNotFound handles 404 errors
func (h *Handler) handleNotFound(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// handleValidationError handles 400 errors
func (h *Handler) handleValidationError(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", message, nil)
}

// handleNoRoute handles 422 errors for targets cut off by blocked roads.
// onNetwork is false when no road touches the target at all.
func (h *Handler) handleNoRoute(w http.ResponseWriter, route models.Route, blocked []string, onNetwork bool) {
	h.writeError(w, http.StatusUnprocessableEntity, "NO_ROUTE",
		fmt.Sprintf("no safe route from %s to %s", route.Start, route.Target),
		map[string]interface{}{
			"start":             route.Start,
			"target":            route.Target,
			"target_on_network": onNetwork,
			"blocked":           blocked,
			"route":             route,
		})
}

// handleInternalError handles 500 errors
func (h *Handler) handleInternalError(w http.ResponseWriter, err error) {
	log.Printf("[ERROR] Internal error: %v", err)
	h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An error occurred. Please try again.", nil)
}

// handleStoreError maps repository errors onto API errors
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, what string) {
	switch {
	case h.checkNotFound(err):
		h.handleNotFound(w, what+" not found")
	case errors.Is(err, database.ErrConflict):
		h.writeError(w, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case database.IsValidation(err):
		h.handleValidationError(w, err.Error())
	default:
		h.handleInternalError(w, err)
	}
}

// checkNotFound checks if an error is a not found error
func (h *Handler) checkNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

// decodeJSON reads a JSON request body into v. An empty body leaves v unchanged.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// city is a per-request snapshot of the reference data
type city struct {
	zones     []models.Zone
	roads     []models.Road
	shelters  []models.Shelter
	resources []models.Resource
}

// loadCity reads a fresh copy of the reference data. Every request works on
// its own copy so the engine never sees shared mutable state.
func (h *Handler) loadCity(ctx context.Context) (*city, error) {
	zones, err := h.DB.Zones().List(ctx)
	if err != nil {
		return nil, err
	}
	roads, err := h.DB.Roads().List(ctx)
	if err != nil {
		return nil, err
	}
	shelters, err := h.DB.Shelters().List(ctx)
	if err != nil {
		return nil, err
	}
	resources, err := h.DB.Resources().List(ctx)
	if err != nil {
		return nil, err
	}
	return &city{zones: zones, roads: roads, shelters: shelters, resources: resources}, nil
}

// affectedSet turns a zone id list into a set
func affectedSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// renderTemplate renders an HTML template
func (h *Handler) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	// Always clone to avoid "cannot Clone after executed" error
	tmpl, err := h.Templates.Base.Clone()
	if err != nil {
		log.Printf("[ERROR] Template clone error: template=%s err=%v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if pageContent, ok := h.Templates.Pages[name]; ok {
		// Parse the page template (which defines "content")
		if _, err = tmpl.New(name).Parse(pageContent); err != nil {
			log.Printf("[ERROR] Template parse error: template=%s err=%v", name, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
			log.Printf("[ERROR] Template execute error: template=%s err=%v", name, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("[ERROR] Template partial error: template=%s err=%v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// renderError renders an HTML error page fragment
func (h *Handler) renderError(w http.ResponseWriter, err error) {
	log.Printf("[ERROR] Page error: %v", err)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, `<div class="alert alert-error">%s</div>`, html.EscapeString(err.Error()))
}

// HandleHealthCheck handles GET /api/v1/health
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "connected"

	if err := h.DB.HealthCheck(r.Context()); err != nil {
		status = "degraded"
		dbStatus = "error"
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":   status,
		"version":  "1.0.0",
		"database": dbStatus,
	})
}
