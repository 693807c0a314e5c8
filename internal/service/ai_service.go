package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// AIConfig is read from the environment in cmd/api.
type AIConfig struct {
	APIKey           string
	Endpoint         string // e.g. https://generativelanguage.googleapis.com/v1beta
	Model            string // e.g. gemini-2.0-flash
	Enabled          bool
	Timeout          time.Duration
	Temperature      float64
	MaxTokensTitle   int
	MaxTokensDesc    int
	RateLimitPerHour int
}

type AIGenerationResponse struct {
	Content        string `json:"content"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	Success        bool   `json:"success"`
	ErrorMessage   string `json:"error_message,omitempty"`
}

// RateLimitError carries how long the caller should wait before retrying.
// It unwraps to ErrRateLimit so handlers can match the kind.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %ds", int(e.RetryAfter.Seconds()))
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimit }

// --- Interface ---

type AIService interface {
	GenerateTitle(ctx context.Context, req AIGenerationDTO, userID string) (AIGenerationResponse, error)
	GenerateDescription(ctx context.Context, req AIGenerationDTO, userID string) (AIGenerationResponse, error)
	IsAvailable() bool
	RemainingRequests(userID string) int
}

type aiService struct {
	cfg     AIConfig
	client  *http.Client
	limiter RateLimiter
}

func NewAIService(cfg AIConfig, limiter RateLimiter) AIService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &aiService{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// --- Implementation ---

func (s *aiService) GenerateTitle(ctx context.Context, req AIGenerationDTO, userID string) (AIGenerationResponse, error) {
	if !s.cfg.Enabled {
		return AIGenerationResponse{ErrorMessage: "AI generation is currently disabled"}, nil
	}
	if err := s.checkRateLimit(userID); err != nil {
		return AIGenerationResponse{}, err
	}
	return s.callGemini(ctx, BuildTitlePrompt(req), s.cfg.MaxTokensTitle)
}

func (s *aiService) GenerateDescription(ctx context.Context, req AIGenerationDTO, userID string) (AIGenerationResponse, error) {
	if !s.cfg.Enabled {
		return AIGenerationResponse{ErrorMessage: "AI generation is currently disabled"}, nil
	}
	if err := s.checkRateLimit(userID); err != nil {
		return AIGenerationResponse{}, err
	}
	return s.callGemini(ctx, BuildDescriptionPrompt(req), s.cfg.MaxTokensDesc)
}

func (s *aiService) IsAvailable() bool {
	return s.cfg.Enabled
}

func (s *aiService) RemainingRequests(userID string) int {
	if userID == "" {
		return 0
	}
	return s.limiter.Remaining(userID)
}

func (s *aiService) checkRateLimit(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required for rate limiting", ErrValidation)
	}
	if !s.limiter.Allow(userID) {
		retryAfter := s.limiter.ResetAfter(userID)
		log.Printf("AI rate limit exceeded for user %s, retry after %s", userID, retryAfter)
		return &RateLimitError{RetryAfter: retryAfter}
	}
	return nil
}

// Gemini generateContent wire format, reduced to the fields used here.
type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (s *aiService) callGemini(ctx context.Context, prompt string, maxTokens int) (AIGenerationResponse, error) {
	start := time.Now()

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:     s.cfg.Temperature,
			MaxOutputTokens: maxTokens,
		},
	})
	if err != nil {
		return AIGenerationResponse{}, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.cfg.Endpoint, s.cfg.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return AIGenerationResponse{}, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", s.cfg.APIKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return AIGenerationResponse{}, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return AIGenerationResponse{}, fmt.Errorf("generation request failed with status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return AIGenerationResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return AIGenerationResponse{}, fmt.Errorf("generation returned no candidates")
	}

	return AIGenerationResponse{
		Content:        parsed.Candidates[0].Content.Parts[0].Text,
		ResponseTimeMs: time.Since(start).Milliseconds(),
		Success:        true,
	}, nil
}
