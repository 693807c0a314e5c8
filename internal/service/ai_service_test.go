package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAIService_Disabled(t *testing.T) {
	svc := NewAIService(AIConfig{Enabled: false}, NewRateLimiter(10, time.Hour))

	resp, err := svc.GenerateTitle(context.Background(), AIGenerationDTO{ItemName: "Bike", Category: "Other"}, "u1")
	if err != nil {
		t.Fatalf("disabled service must not error: %v", err)
	}
	if resp.Success {
		t.Fatal("disabled response must not report success")
	}
	if resp.ErrorMessage == "" {
		t.Fatal("expected an error message explaining the feature is off")
	}
	if svc.IsAvailable() {
		t.Fatal("IsAvailable must be false when disabled")
	}
}

func TestAIService_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []struct {
				Content geminiContent `json:"content"`
			}{{Content: geminiContent{Parts: []geminiPart{{Text: "Sturdy mountain bike"}}}}},
		})
	}))
	defer server.Close()

	svc := NewAIService(AIConfig{
		Enabled:  true,
		APIKey:   "k",
		Endpoint: server.URL,
		Model:    "test-model",
	}, NewRateLimiter(1, time.Hour))

	dto := AIGenerationDTO{ItemName: "Bike", Category: "Other"}

	resp, err := svc.GenerateTitle(context.Background(), dto, "u1")
	if err != nil {
		t.Fatalf("first call err: %v", err)
	}
	if !resp.Success || resp.Content != "Sturdy mountain bike" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	_, err = svc.GenerateTitle(context.Background(), dto, "u1")
	if !errors.Is(err, ErrRateLimit) {
		t.Fatalf("second call err = %v, want rate limit", err)
	}
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("err %T does not carry RetryAfter", err)
	}
	if rateErr.RetryAfter <= 0 {
		t.Fatalf("RetryAfter = %v, want positive", rateErr.RetryAfter)
	}

	// A different user still has quota.
	if _, err := svc.GenerateTitle(context.Background(), dto, "u2"); err != nil {
		t.Fatalf("second user err: %v", err)
	}
}

func TestAIService_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewAIService(AIConfig{
		Enabled:  true,
		APIKey:   "k",
		Endpoint: server.URL,
		Model:    "test-model",
	}, NewRateLimiter(5, time.Hour))

	_, err := svc.GenerateDescription(context.Background(), AIGenerationDTO{ItemName: "Bike", Category: "Other"}, "u1")
	if err == nil {
		t.Fatal("expected error on upstream failure")
	}
}

func TestAIService_RequiresUserID(t *testing.T) {
	svc := NewAIService(AIConfig{Enabled: true, APIKey: "k"}, NewRateLimiter(5, time.Hour))

	_, err := svc.GenerateTitle(context.Background(), AIGenerationDTO{ItemName: "Bike", Category: "Other"}, "")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}
