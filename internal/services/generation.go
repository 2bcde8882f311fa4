package services

import (
	"context"
	"time"

	"contenthub/internal/models"
	"contenthub/internal/pkg"

	"github.com/go-resty/resty/v2"
)

// GenerationService calls the external text generation backend. Failures
// surface as ErrGenerationFailed; the backend's own message is kept in the
// cause for logs, never returned to clients.
type GenerationService struct {
	client *resty.Client
	logger *pkg.Logger
}

// NewGenerationService creates a generation client against baseURL.
func NewGenerationService(baseURL, apiKey string, timeout time.Duration) *GenerationService {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey)

	return &GenerationService{
		client: client,
		logger: pkg.NewLoggerWithPrefix(pkg.LevelInfo, "GENERATION"),
	}
}

// GenerateRequest is one generation call.
type GenerateRequest struct {
	Type   models.ContentType     `json:"type"`
	Prompt string                 `json:"prompt"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// GenerateResponse is the backend's reply.
type GenerateResponse struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

type generationError struct {
	Error string `json:"error"`
}

// Generate produces text for the given prompt and content type.
func (s *GenerationService) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	var result GenerateResponse
	var apiErr generationError

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&apiErr).
		Post("/v1/generate")

	if err != nil {
		s.logger.Error("Generation request failed", map[string]interface{}{
			"type":  string(req.Type),
			"error": err.Error(),
		})
		return nil, pkg.ErrGenerationFailed.WithCause(err)
	}

	if resp.IsError() {
		s.logger.Error("Generation backend returned error", map[string]interface{}{
			"type":    string(req.Type),
			"status":  resp.StatusCode(),
			"message": apiErr.Error,
		})
		return nil, pkg.ErrGenerationFailed.WithDetails(map[string]interface{}{
			"status": resp.StatusCode(),
		})
	}

	return &result, nil
}
