// Package httpx exposes the configuration publishing and deployment status
// endpoints.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mayankch283/Site-o-Matic/internal/deploystatus"
	"github.com/mayankch283/Site-o-Matic/internal/domain"
	"github.com/mayankch283/Site-o-Matic/internal/extract"
	"github.com/mayankch283/Site-o-Matic/internal/git"
	"github.com/mayankch283/Site-o-Matic/internal/publish"
	"github.com/mayankch283/Site-o-Matic/internal/validate"
	"github.com/mayankch283/Site-o-Matic/internal/ws"
)

const (
	signatureHeader = "x-vercel-signature"
	maxWebhookBody  = 1 << 20

	rateWindowDefault = time.Minute
	rateLimitPublish  = 10
	rateLimitDetect   = 60
	rateLimitWebhook  = 120
	rateLimitStatus   = 120
)

// Publisher abstracts the repository publisher for handler tests.
type Publisher interface {
	Publish(ctx context.Context, cfg domain.Configuration, commitMessage string) (domain.PublishResult, error)
}

// Router wires HTTP endpoints to services.
type Router struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	publisher Publisher
	tracker   *deploystatus.Tracker
	detector  *extract.Detector
	hub       *ws.Hub
	upgrader  websocket.Upgrader
	limiter   RateLimiter

	metricsOnce        sync.Once
	metricsInitialized bool
	requestTotal       *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	publishResults     *prometheus.CounterVec
	webhookResults     *prometheus.CounterVec
}

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, publisher Publisher, tracker *deploystatus.Tracker, detector *extract.Detector, hub *ws.Hub, limiter RateLimiter) *Router {
	r := &Router{
		mux:       http.NewServeMux(),
		logger:    logger,
		publisher: publisher,
		tracker:   tracker,
		detector:  detector,
		hub:       hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		limiter: limiter,
	}
	if r.limiter == nil {
		r.limiter = NewMemoryRateLimiter()
	}
	r.initMetrics()
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Close()
	}
}

func (r *Router) register() {
	r.mux.HandleFunc("/metrics", promhttp.Handler().ServeHTTP)
	r.mux.HandleFunc("/healthz", r.instrument("/healthz", r.handleHealthz))
	r.mux.HandleFunc("/update-config", r.instrument("/update-config", r.withRateLimit(rateLimitPublish, rateWindowDefault, r.handleUpdateConfig)))
	r.mux.HandleFunc("/detect-config", r.instrument("/detect-config", r.withRateLimit(rateLimitDetect, rateWindowDefault, r.handleDetectConfig)))
	r.mux.HandleFunc("/webhooks/", r.instrument("/webhooks/:provider", r.withRateLimit(rateLimitWebhook, rateWindowDefault, r.handleWebhook)))
	r.mux.HandleFunc("/deployment-status", r.instrument("/deployment-status", r.withRateLimit(rateLimitStatus, rateWindowDefault, r.handleDeploymentStatus)))
	r.mux.HandleFunc("/ws/deployments", r.handleDeploymentsWS)
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	components := map[string]any{}
	status := "ok"
	if err := git.Available(); err != nil {
		status = "degraded"
		components["git"] = map[string]any{"status": "down", "error": err.Error()}
	} else {
		components["git"] = map[string]any{"status": "up"}
	}
	if err := r.tracker.Health(req.Context()); err != nil {
		status = "degraded"
		components["store"] = map[string]any{"status": "down", "error": err.Error()}
	} else {
		components["store"] = map[string]any{"status": "up"}
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (r *Router) handleUpdateConfig(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		ConfigObject  domain.Configuration `json:"configObject"`
		CommitMessage string               `json:"commitMessage"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		r.recordPublishResult("bad_request")
		writeJSON(w, http.StatusBadRequest, domain.PublishResult{
			Success: false,
			Error:   "Invalid request body",
			Message: "Request body must be valid JSON",
		})
		return
	}
	if payload.ConfigObject == nil {
		r.recordPublishResult("bad_request")
		writeJSON(w, http.StatusBadRequest, domain.PublishResult{
			Success: false,
			Error:   "Configuration object is required",
			Message: "Please provide a valid configuration object in the request body",
		})
		return
	}
	var missing []string
	for _, name := range domain.RequiredSections {
		if _, ok := payload.ConfigObject[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		r.recordPublishResult("bad_request")
		writeJSON(w, http.StatusBadRequest, domain.PublishResult{
			Success: false,
			Error:   "Invalid configuration structure",
			Message: "Configuration must include site, theme, and navigation properties",
			Details: "Missing properties: " + strings.Join(missing, ", "),
		})
		return
	}
	if result := validate.Configuration(payload.ConfigObject); !result.IsValid {
		r.recordPublishResult("validation_failed")
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid configuration structure",
			"message": "Configuration failed validation",
			"errors":  result.Errors,
		})
		return
	}

	result, err := r.publisher.Publish(req.Context(), payload.ConfigObject, payload.CommitMessage)
	if err != nil {
		r.respondPublishError(w, err)
		return
	}
	if result.NoChanges {
		r.recordPublishResult("no_changes")
	} else {
		r.recordPublishResult("success")
	}
	writeJSON(w, http.StatusOK, result)
}

// respondPublishError maps typed failure kinds to status codes; the message
// text is never inspected.
func (r *Router) respondPublishError(w http.ResponseWriter, err error) {
	if errors.Is(err, publish.ErrInvalidConfiguration) {
		r.recordPublishResult("validation_failed")
		writeJSON(w, http.StatusBadRequest, domain.PublishResult{
			Success: false,
			Error:   "Repository update failed",
			Message: err.Error(),
			Details: err.Error(),
		})
		return
	}
	r.recordPublishResult("server_error")
	r.logger.Error("publish failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, domain.PublishResult{
		Success: false,
		Error:   "Repository update failed",
		Message: "An internal server error occurred while updating the repository",
		Details: err.Error(),
	})
}

func (r *Router) handleDetectConfig(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Content   string `json:"content"`
		MessageID string `json:"messageId"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.MessageID == "" {
		writeError(w, http.StatusBadRequest, "messageId is required")
		return
	}
	detected, found := r.detector.Inspect(payload.MessageID, payload.Content)
	response := map[string]any{
		"found":       found,
		"configCount": r.detector.Count(),
	}
	if found {
		response["config"] = detected
	}
	writeJSON(w, http.StatusOK, response)
}

func (r *Router) handleWebhook(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	provider := strings.Trim(strings.TrimPrefix(req.URL.Path, "/webhooks/"), "/")
	if provider != "vercel" {
		writeError(w, http.StatusNotFound, "unknown webhook provider")
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxWebhookBody))
	if err != nil {
		r.recordWebhookResult("bad_request")
		writeError(w, http.StatusBadRequest, "unable to read request body")
		return
	}
	record, err := r.tracker.ProcessEvent(req.Context(), body, req.Header.Get(signatureHeader))
	if err != nil {
		if errors.Is(err, deploystatus.ErrBadSignature) {
			r.recordWebhookResult("unauthorized")
			writeError(w, http.StatusUnauthorized, "Invalid signature")
			return
		}
		r.recordWebhookResult("error")
		r.logger.Error("webhook processing failed", "provider", provider, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process webhook")
		return
	}
	r.recordWebhookResult("processed")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Webhook processed successfully",
		"status":  record.Status,
	})
}

func (r *Router) handleDeploymentStatus(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		r.handleDeploymentStatusGet(w, req)
	case http.MethodPost:
		r.handleDeploymentStatusRefresh(w, req)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleDeploymentStatusGet(w http.ResponseWriter, req *http.Request) {
	projectID := req.URL.Query().Get("projectId")
	commitSHA := req.URL.Query().Get("commitSha")
	if projectID == "" || commitSHA == "" {
		writeError(w, http.StatusBadRequest, "Missing projectId or commitSha parameters")
		return
	}
	record, err := r.tracker.Lookup(req.Context(), projectID, commitSHA)
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "deployment": record})
		return
	}
	if !errors.Is(err, deploystatus.ErrNotFound) {
		r.logger.Error("deployment lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to check deployment status")
		return
	}
	if !r.tracker.HasProvider() {
		writeError(w, http.StatusNotFound, "Deployment not found")
		return
	}
	// No event has arrived yet; fall back to the provider's listing API.
	record, err = r.tracker.LiveStatus(req.Context(), projectID, commitSHA)
	if err != nil {
		r.logger.Error("live status check failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to check deployment status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deployment": record})
}

func (r *Router) handleDeploymentStatusRefresh(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		CommitSHA string `json:"commitSha"`
		ProjectID string `json:"projectId"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.CommitSHA == "" {
		writeError(w, http.StatusBadRequest, "Missing commitSha in request body")
		return
	}
	record, err := r.tracker.LiveStatus(req.Context(), payload.ProjectID, payload.CommitSHA)
	if err != nil {
		r.logger.Error("manual status refresh failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to refresh deployment status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"deployment":  record,
		"refreshedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func (r *Router) handleDeploymentsWS(w http.ResponseWriter, req *http.Request) {
	projectID := req.URL.Query().Get("projectId")
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "projectId is required")
		return
	}
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := ws.NewClient(conn, r.logger)
	r.hub.Register(projectID, client)
	go func() {
		defer func() {
			r.hub.Unregister(projectID, client)
			client.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
