package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/corrispettivi/registro-api/internal/infrastructure/upstream"
	"github.com/corrispettivi/registro-api/internal/presentation/http/dto/response"
)

// RelayHandler forwards arbitrary requests to the upstream fiscal API,
// keeping the API token off the browser. The caller names the upstream
// resource with the X-Api-Endpoint header and optionally selects the
// environment with X-Api-Environment.
type RelayHandler struct {
	client *upstream.Client
	logger *zap.Logger
}

// NewRelayHandler creates a new relay handler
func NewRelayHandler(client *upstream.Client, logger *zap.Logger) *RelayHandler {
	return &RelayHandler{client: client, logger: logger}
}

// Relay forwards the request verbatim and mirrors the upstream status and body
func (h *RelayHandler) Relay(c *gin.Context) {
	endpoint := c.GetHeader("X-Api-Endpoint")
	if endpoint == "" {
		response.BadRequest(c, "X-Api-Endpoint header is required")
		return
	}

	authorization := c.GetHeader("Authorization")
	if authorization == "" {
		response.Unauthorized(c, "Authorization header is required")
		return
	}

	env := upstream.ParseEnvironment(c.GetHeader("X-Api-Environment"))

	var body []byte
	if c.Request.Body != nil {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Unreadable request body")
			return
		}
		body = raw
	}

	result, err := h.client.Forward(c.Request.Context(), env, authorization, c.Request.Method, endpoint, body)
	if err != nil {
		h.logger.Warn("Relay request failed",
			zap.String("endpoint", endpoint), zap.Error(err))
		response.ErrorWithCode(c, 502, "Upstream API unreachable")
		return
	}

	c.Data(result.Status, "application/json", result.Body)
}
