package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datastudio/internal/models"
)

// fakeResponsesAPIResponse returns a minimal valid Responses API JSON response.
func fakeResponsesAPIResponse() string {
	return `{
		"id": "resp_test123",
		"object": "response",
		"created_at": 1700000000,
		"model": "gpt-4o-mini",
		"status": "completed",
		"output": [{
			"type": "message",
			"id": "msg_1",
			"role": "assistant",
			"status": "completed",
			"content": [{"type": "output_text", "text": "Hello!", "annotations": []}]
		}],
		"usage": {"input_tokens": 10, "output_tokens": 5, "total_tokens": 15, "input_tokens_details": {"cached_tokens": 0}, "output_tokens_details": {"reasoning_tokens": 0}},
		"parallel_tool_calls": true,
		"temperature": 1.0,
		"top_p": 1.0,
		"tool_choice": "auto",
		"tools": [],
		"text": {"format": {"type": "text"}}
	}`
}

// newCapturingServer returns a test server that records the request body and
// replies with the given JSON.
func newCapturingServer(t *testing.T, reply string, captured *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, captured))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, reply)
	}))
}

// TestOpenAIComplete_RequestShape verifies model, temperature, max tokens,
// instructions, and prompt all land in the HTTP request body.
func TestOpenAIComplete_RequestShape(t *testing.T) {
	var captured map[string]interface{}
	server := newCapturingServer(t, fakeResponsesAPIResponse(), &captured)
	defer server.Close()

	client := NewOpenAIClient(
		option.WithBaseURL(server.URL),
		option.WithAPIKey("test-key"),
	)

	_, err := client.Complete(context.Background(), CompletionRequest{
		System: "You are a validator.",
		Prompt: "Check this row.",
		ModelConfig: models.ModelConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.1,
			MaxTokens:   512,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", captured["model"])
	assert.InDelta(t, 0.1, captured["temperature"], 0.01)
	assert.EqualValues(t, 512, captured["max_output_tokens"])
	assert.Equal(t, "You are a validator.", captured["instructions"])
	assert.Equal(t, "Check this row.", captured["input"])
}

// TestOpenAIComplete_ZeroSamplingOmitted verifies zero temperature and
// max tokens are not sent.
func TestOpenAIComplete_ZeroSamplingOmitted(t *testing.T) {
	var captured map[string]interface{}
	server := newCapturingServer(t, fakeResponsesAPIResponse(), &captured)
	defer server.Close()

	client := NewOpenAIClient(
		option.WithBaseURL(server.URL),
		option.WithAPIKey("test-key"),
	)

	_, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:      "hello",
		ModelConfig: models.ModelConfig{Model: "gpt-4o-mini"},
	})
	require.NoError(t, err)

	_, hasTemp := captured["temperature"]
	_, hasMax := captured["max_output_tokens"]
	assert.False(t, hasTemp, "zero temperature should not be sent")
	assert.False(t, hasMax, "zero max_output_tokens should not be sent")
}

// TestOpenAIComplete_ResponseParsed verifies text and token usage extraction.
func TestOpenAIComplete_ResponseParsed(t *testing.T) {
	var captured map[string]interface{}
	server := newCapturingServer(t, fakeResponsesAPIResponse(), &captured)
	defer server.Close()

	client := NewOpenAIClient(
		option.WithBaseURL(server.URL),
		option.WithAPIKey("test-key"),
	)

	resp, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:      "hello",
		ModelConfig: models.DefaultModelConfig(),
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello!", resp.Text)
	assert.Equal(t, 10, resp.InputTokens)
	assert.Equal(t, 5, resp.OutputTokens)
}

// TestOpenAIComplete_ErrorClassified verifies API errors come back as typed
// activity errors.
func TestOpenAIComplete_ErrorClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limited", "type": "rate_limit_error"}}`)
	}))
	defer server.Close()

	client := NewOpenAIClient(
		option.WithBaseURL(server.URL),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)

	_, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:      "hello",
		ModelConfig: models.DefaultModelConfig(),
	})
	require.Error(t, err)

	var actErr *models.ActivityError
	require.ErrorAs(t, err, &actErr)
	assert.Equal(t, models.ErrorTypeAPILimit, actErr.Type)
	assert.True(t, actErr.Retryable)
}

// --- classifyError / classifyByStatusCode ---

func TestClassifyByStatusCode_Fatal(t *testing.T) {
	for _, code := range []int{400, 401, 403, 404, 422} {
		err := classifyByStatusCode(code, fmt.Errorf("status %d", code))
		assert.Equal(t, models.ErrorTypeFatal, err.Type, "status %d", code)
		assert.False(t, err.Retryable, "status %d", code)
	}
}

func TestClassifyByStatusCode_Transient(t *testing.T) {
	for _, code := range []int{408, 409, 500, 502, 503} {
		err := classifyByStatusCode(code, fmt.Errorf("status %d", code))
		assert.Equal(t, models.ErrorTypeTransient, err.Type, "status %d", code)
		assert.True(t, err.Retryable, "status %d", code)
	}
}

func TestClassifyByStatusCode_RateLimit(t *testing.T) {
	err := classifyByStatusCode(http.StatusTooManyRequests, fmt.Errorf("rate limited"))
	assert.Equal(t, models.ErrorTypeAPILimit, err.Type)
	assert.True(t, err.Retryable)
}

// newOpenAIError creates an openai.Error with required Request/Response fields.
func newOpenAIError(statusCode int) *openai.Error {
	req := httptest.NewRequest("POST", "https://api.openai.com/v1/responses", nil)
	resp := &http.Response{StatusCode: statusCode, Request: req}
	return &openai.Error{
		StatusCode: statusCode,
		Request:    req,
		Response:   resp,
	}
}

func TestClassifyError_OpenAI_400_NonRetryable(t *testing.T) {
	result := classifyError(newOpenAIError(400))
	var actErr *models.ActivityError
	require.ErrorAs(t, result, &actErr)
	assert.Equal(t, models.ErrorTypeFatal, actErr.Type)
	assert.False(t, actErr.Retryable)
}

func TestClassifyError_ContextLengthExceeded(t *testing.T) {
	result := classifyError(fmt.Errorf("maximum context length exceeded"))
	var actErr *models.ActivityError
	require.ErrorAs(t, result, &actErr)
	assert.Equal(t, models.ErrorTypeContextOverflow, actErr.Type)
	assert.False(t, actErr.Retryable)
}

func TestClassifyError_NetworkError_Transient(t *testing.T) {
	result := classifyError(fmt.Errorf("dial tcp: connection refused"))
	var actErr *models.ActivityError
	require.ErrorAs(t, result, &actErr)
	assert.Equal(t, models.ErrorTypeTransient, actErr.Type)
	assert.True(t, actErr.Retryable)
}

func TestClassifyError_Nil(t *testing.T) {
	assert.NoError(t, classifyError(nil))
}
