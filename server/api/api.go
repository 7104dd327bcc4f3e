package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericzzh/mattermost-plugin-purge/server/app"
	"github.com/ericzzh/mattermost-plugin-purge/server/bot"
)

// UserIDHeader is set by the Mattermost server on authenticated plugin requests.
const UserIDHeader = "Mattermost-User-ID"

// Handler serves the plugin's HTTP endpoints.
type Handler struct {
	router  *chi.Mux
	stats   app.StatsProvider
	window  time.Duration
	isAdmin func(userID string) bool
	logger  bot.Logger
}

type statsResponse struct {
	Owners          int    `json:"owners"`
	Posts           int    `json:"posts"`
	RetentionWindow string `json:"retention_window"`
}

// NewHandler builds the router. Every route requires a user for whom isAdmin is true.
func NewHandler(stats app.StatsProvider, window time.Duration, gatherer prometheus.Gatherer, isAdmin func(userID string) bool, logger bot.Logger) *Handler {
	h := &Handler{
		router:  chi.NewRouter(),
		stats:   stats,
		window:  window,
		isAdmin: isAdmin,
		logger:  logger,
	}

	h.router.Use(h.requireAdmin)
	h.router.Get("/api/v1/stats", h.handleGetStats)
	h.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			return
		}
		if !h.isAdmin(userID) {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "not allowed"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	st := h.stats.Stats()
	h.logger.Debugf("Purge: stats requested by %s.", r.Header.Get(UserIDHeader))

	writeJSON(w, http.StatusOK, statsResponse{
		Owners:          st.Owners,
		Posts:           st.Events,
		RetentionWindow: h.window.String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
