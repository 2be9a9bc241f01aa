package llm

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"

	"datastudio/internal/models"
)

// classifyError maps provider SDK errors to typed ActivityErrors so workflows
// can distinguish retryable failures (5xx, rate limits, network) from
// permanent ones (auth, bad request, context overflow).
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		return classifyByStatusCode(oaErr.StatusCode, err)
	}

	var anErr *anthropic.Error
	if errors.As(err, &anErr) {
		return classifyByStatusCode(anErr.StatusCode, err)
	}

	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return classifyByStatusCode(gErr.Code, err)
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "context length") || strings.Contains(msg, "context_length_exceeded") {
		return models.NewActivityError(models.ErrorTypeContextOverflow, false, err.Error())
	}

	// Unrecognized errors (DNS failures, connection resets) are treated as
	// transient so Temporal's retry policy gets a chance.
	return models.NewActivityError(models.ErrorTypeTransient, true, err.Error())
}

// classifyByStatusCode maps an HTTP status code to a typed activity error.
func classifyByStatusCode(status int, err error) *models.ActivityError {
	switch status {
	case http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
		http.StatusUnprocessableEntity:
		return models.NewActivityError(models.ErrorTypeFatal, false, err.Error())
	case http.StatusTooManyRequests:
		return models.NewActivityError(models.ErrorTypeAPILimit, true, err.Error())
	default:
		return models.NewActivityError(models.ErrorTypeTransient, true, err.Error())
	}
}
