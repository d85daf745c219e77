package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mattermost/mattermost/server/public/plugin"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
)

// backendSummary is one entry of the backend list
type backendSummary struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Type   string         `json:"type"`
	Status backend.Status `json:"status"`
}

// ServeHTTP handles HTTP requests for the plugin.
// The root URL is currently <siteUrl>/plugins/com.mattermost.plugin-orefalerts/api/v1/.
func (p *Plugin) ServeHTTP(c *plugin.Context, w http.ResponseWriter, r *http.Request) {
	p.router().ServeHTTP(w, r)
}

func (p *Plugin) router() *mux.Router {
	router := mux.NewRouter()

	// Scraped by Prometheus, which carries no Mattermost session
	if p.metrics != nil {
		router.Handle("/metrics", p.metrics.Handler()).Methods(http.MethodGet)
	}

	apiRouter := router.PathPrefix("/api/v1").Subrouter()

	// Middleware to require that the user is logged in
	apiRouter.Use(p.MattermostAuthorizationRequired)

	apiRouter.HandleFunc("/backends", p.handleListBackends).Methods(http.MethodGet)
	apiRouter.HandleFunc("/backends/{id}/alerts", p.handleGetAlerts).Methods(http.MethodGet)
	apiRouter.HandleFunc("/backends/{id}/refresh", p.handleRefresh).Methods(http.MethodPost)

	return router
}

func (p *Plugin) MattermostAuthorizationRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("Mattermost-User-ID")
		if userID == "" {
			http.Error(w, "Not authorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (p *Plugin) handleListBackends(w http.ResponseWriter, r *http.Request) {
	if p.registry == nil {
		http.Error(w, "Plugin not ready", http.StatusServiceUnavailable)
		return
	}

	monitors := p.registry.List()
	summaries := make([]backendSummary, 0, len(monitors))
	for _, b := range monitors {
		summaries = append(summaries, backendSummary{
			ID:     b.GetID(),
			Name:   b.GetName(),
			Type:   b.GetType(),
			Status: b.GetStatus(),
		})
	}

	p.writeJSON(w, http.StatusOK, summaries)
}

func (p *Plugin) handleGetAlerts(w http.ResponseWriter, r *http.Request) {
	b := p.lookupBackend(w, r)
	if b == nil {
		return
	}

	p.writeJSON(w, http.StatusOK, b.GetSnapshot())
}

func (p *Plugin) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b := p.lookupBackend(w, r)
	if b == nil {
		return
	}

	// Refresh is a no-op while a cycle is in flight or the monitor is stopped
	started := b.Refresh()
	status := http.StatusAccepted
	if !started {
		status = http.StatusOK
	}

	p.writeJSON(w, status, map[string]bool{"started": started})
}

// lookupBackend resolves the {id} route variable, writing an error response
// and returning nil when the monitor does not exist.
func (p *Plugin) lookupBackend(w http.ResponseWriter, r *http.Request) backend.Backend {
	if p.registry == nil {
		http.Error(w, "Plugin not ready", http.StatusServiceUnavailable)
		return nil
	}

	id := mux.Vars(r)["id"]
	b := p.registry.Get(id)
	if b == nil {
		http.Error(w, "Backend not found", http.StatusNotFound)
		return nil
	}

	return b
}

func (p *Plugin) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		p.API.LogWarn("Failed to write response", "error", err.Error())
	}
}
