package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/simplemem/simplemem-mcp/internal/errors"
	"github.com/simplemem/simplemem-mcp/internal/httputil"
	"github.com/simplemem/simplemem-mcp/internal/metrics"
)

// Handler exposes the memory API operations behind bearer authentication.
// Requests and responses pass through unmodified; the gateway adds no
// semantics beyond authentication and the clear confirmation check.
type Handler struct {
	client  *Client
	logger  *slog.Logger
	metrics metrics.BusinessMetrics
}

// NewHandler creates a gateway handler with required dependencies.
func NewHandler(client *Client, logger *slog.Logger, businessMetrics metrics.BusinessMetrics) *Handler {
	return &Handler{
		client:  client,
		logger:  logger,
		metrics: businessMetrics,
	}
}

// do performs the upstream call and records a gateway_proxy observation.
func (h *Handler) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	contentType string,
	body io.Reader,
) (*http.Response, error) {
	start := time.Now()
	resp, err := h.client.Do(ctx, method, path, query, contentType, body)
	metrics.Observe(ctx, h.metrics, "gateway", metrics.OperationGatewayProxy, start, err)
	return resp, err
}

// DialogueHandler records a dialogue turn in the memory store.
// POST /api/dialogue
func (h *Handler) DialogueHandler(c *gin.Context) {
	h.forward(c, http.MethodPost, "/dialogue")
}

// FinalizeHandler finalizes the current memory session.
// POST /api/finalize
func (h *Handler) FinalizeHandler(c *gin.Context) {
	h.forward(c, http.MethodPost, "/finalize")
}

// QueryHandler runs a semantic query against stored memories.
// POST /api/query
func (h *Handler) QueryHandler(c *gin.Context) {
	h.forward(c, http.MethodPost, "/query")
}

// RetrieveHandler fetches stored memories.
// GET /api/retrieve
func (h *Handler) RetrieveHandler(c *gin.Context) {
	h.forward(c, http.MethodGet, "/retrieve")
}

// StatsHandler reports memory store statistics.
// GET /api/stats
func (h *Handler) StatsHandler(c *gin.Context) {
	h.forward(c, http.MethodGet, "/stats")
}

// clearRequest is the body required to wipe the memory store.
type clearRequest struct {
	Confirmation bool `json:"confirmation"`
}

// ClearHandler wipes the memory store. The destructive operation requires an
// explicit {"confirmation": true} body.
// DELETE /api/clear
func (h *Handler) ClearHandler(c *gin.Context) {
	var req clearRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Confirmation {
		httputil.HandleErrorGin(
			c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "clearing memory requires confirmation=true"),
			h.logger,
		)
		return
	}

	body, err := json.Marshal(req)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	resp, err := h.do(
		c.Request.Context(),
		http.MethodDelete,
		"/clear",
		c.Request.URL.Query(),
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	h.relay(c, resp)
}

// HealthHandler reports the upstream memory API health.
// GET /api/health
func (h *Handler) HealthHandler(c *gin.Context) {
	h.forward(c, http.MethodGet, "/health")
}

// forward relays the request body and query string to the upstream path and
// copies the upstream response back.
func (h *Handler) forward(c *gin.Context, method, path string) {
	resp, err := h.do(
		c.Request.Context(),
		method,
		path,
		c.Request.URL.Query(),
		c.ContentType(),
		c.Request.Body,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	h.relay(c, resp)
}

// relay streams the upstream response to the client.
func (h *Handler) relay(c *gin.Context, resp *http.Response) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			h.logger.Warn("failed to close upstream body", slog.Any("error", err))
		}
	}()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	c.DataFromReader(resp.StatusCode, resp.ContentLength, contentType, resp.Body, nil)
}
