// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ---------- Helpers ----------

// newTestServer creates an httptest.Server that responds with the given status
// code and body bytes. The caller must call Close on the returned server.
func newTestServer(t *testing.T, statusCode int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		io.WriteString(w, body)
	}))
}

const openAIChatBody = `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hello from OpenAI"},"finish_reason":"stop"}]}`

const openAIQuotaBody = `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","param":null,"code":"insufficient_quota"}}`

// =====================================================================
// OpenAI Provider Tests
// =====================================================================

func TestOpenAIComplete_Success(t *testing.T) {
	var gotBody map[string]any
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, openAIChatBody)
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})
	got, err := p.Complete(context.Background(), CompletionRequest{
		System: "sys", User: "usr", MaxTokens: 1000, Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Hello from OpenAI" {
		t.Errorf("got %q", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["model"] != "gpt-4o" {
		t.Errorf("model = %v", gotBody["model"])
	}
	if gotBody["max_tokens"] != float64(1000) {
		t.Errorf("max_tokens = %v", gotBody["max_tokens"])
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v", gotBody["messages"])
	}
	if m := msgs[0].(map[string]any); m["role"] != "system" || m["content"] != "sys" {
		t.Errorf("system message = %v", m)
	}
}

func TestOpenAIComplete_QuotaError(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests, openAIQuotaBody)
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := p.Complete(context.Background(), CompletionRequest{User: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if e.StatusCode != http.StatusTooManyRequests || e.Code != "insufficient_quota" {
		t.Errorf("classified = %+v", e)
	}
	if !IsQuotaOrAuth(err) || !IsDemoEligible(err) {
		t.Error("quota error should trigger fallback and demo")
	}
	if e.Message != "You exceeded your current quota" {
		t.Errorf("Message = %q", e.Message)
	}
}

func TestOpenAIComplete_EmptyChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"choices":[]}`)
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	if _, err := p.Complete(context.Background(), CompletionRequest{}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestOpenAIGenerateImage(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{"created":1,"data":[{"url":"https://cdn.example/img.png","revised_prompt":"A revised prompt"}]}`)
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	res, err := p.GenerateImage(context.Background(), ImageRequest{Prompt: "A cat", Size: "1024x1024", Quality: "standard"})
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if res.Locator != "https://cdn.example/img.png" || res.RevisedPrompt != "A revised prompt" {
		t.Errorf("result = %+v", res)
	}
	if gotBody["model"] != "dall-e-3" || gotBody["n"] != float64(1) || gotBody["size"] != "1024x1024" {
		t.Errorf("request body = %v", gotBody)
	}
}

func TestOpenAIGenerateImage_BadRequest(t *testing.T) {
	srv := newTestServer(t, http.StatusBadRequest,
		`{"error":{"message":"Your request was rejected","type":"image_generation_user_error","code":null}}`)
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := p.GenerateImage(context.Background(), ImageRequest{Prompt: "x"})
	if !IsDemoEligible(err) {
		t.Errorf("IsDemoEligible(%v) = false", err)
	}
	if IsQuotaOrAuth(err) {
		t.Error("bad request is not a quota/auth failure")
	}
}

func TestOpenAIListModels(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"object":"list","data":[{"id":"gpt-4o","object":"model"},{"id":"dall-e-3","object":"model"}]}`)
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	ids, err := p.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if strings.Join(ids, ",") != "gpt-4o,dall-e-3" {
		t.Errorf("ids = %v", ids)
	}
}

func TestOpenAIComplete_ConnectionRefused(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, openAIChatBody)
	url := srv.URL
	srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: url})
	_, err := p.Complete(context.Background(), CompletionRequest{})
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if IsQuotaOrAuth(err) {
		t.Error("transport failure must not look like quota")
	}
}

func TestOpenAIDefaults(t *testing.T) {
	p := newOpenAI(ProviderConfig{APIKey: "k"})
	if p.Name() != "openai" || p.model == "" || p.imageModel != "dall-e-3" {
		t.Errorf("defaults = %+v", p)
	}
}

// =====================================================================
// Mistral Provider Tests
// =====================================================================

func TestMistralComplete(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, openAIChatBody)
	}))
	defer srv.Close()

	p := newMistral(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	got, err := p.Complete(context.Background(), CompletionRequest{User: "hi"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Hello from OpenAI" || gotPath != "/chat/completions" {
		t.Errorf("got %q at %q", got, gotPath)
	}
	if p.Name() != "mistral" {
		t.Errorf("Name() = %q", p.Name())
	}
	var _ Provider = p
	if _, ok := any(p).(ImageGenerator); ok {
		t.Error("mistral must not implement ImageGenerator")
	}
}

// =====================================================================
// Claude Provider Tests
// =====================================================================

func TestClaudeComplete(t *testing.T) {
	var gotBody claudeRequest
	var gotKey, gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{"content":[{"type":"text","text":"Hello from Claude"}]}`)
	}))
	defer srv.Close()

	p := newClaude(ProviderConfig{APIKey: "ck", Model: "claude-sonnet", BaseURL: srv.URL})
	got, err := p.Complete(context.Background(), CompletionRequest{System: "sys", User: "usr", MaxTokens: 10})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Hello from Claude" {
		t.Errorf("got %q", got)
	}
	if gotKey != "ck" || gotVersion != "2023-06-01" {
		t.Errorf("headers key=%q version=%q", gotKey, gotVersion)
	}
	if gotBody.System != "sys" || gotBody.MaxTokens != 10 || gotBody.Messages[0].Content != "usr" {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestClaudeComplete_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		quota  bool
	}{
		{"rate limit", http.StatusTooManyRequests, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`, true},
		{"auth", http.StatusUnauthorized, `{"type":"error","error":{"type":"authentication_error","message":"bad key"}}`, true},
		{"server", http.StatusInternalServerError, `oops`, false},
		{"no text block", http.StatusOK, `{"content":[{"type":"image"}]}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body)
			defer srv.Close()

			p := newClaude(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
			_, err := p.Complete(context.Background(), CompletionRequest{})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := IsQuotaOrAuth(err); got != tt.quota {
				t.Errorf("IsQuotaOrAuth = %v, want %v (%v)", got, tt.quota, err)
			}
		})
	}
}

// =====================================================================
// Gemini Provider Tests
// =====================================================================

func TestGeminiComplete(t *testing.T) {
	var gotBody geminiRequest
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"Hello from Gemini"}]}}]}`)
	}))
	defer srv.Close()

	p := newGemini(ProviderConfig{APIKey: "gk", Model: "gemini-2.0-flash", BaseURL: srv.URL})
	got, err := p.Complete(context.Background(), CompletionRequest{System: "sys", User: "usr", MaxTokens: 5})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Hello from Gemini" {
		t.Errorf("got %q", got)
	}
	if gotPath != "/v1beta/models/gemini-2.0-flash:generateContent" || gotKey != "gk" {
		t.Errorf("path=%q key=%q", gotPath, gotKey)
	}
	if gotBody.SystemInstruction == nil || gotBody.SystemInstruction.Parts[0].Text != "sys" {
		t.Errorf("system instruction = %+v", gotBody.SystemInstruction)
	}
	if gotBody.GenerationConfig.MaxOutputTokens != 5 {
		t.Errorf("maxOutputTokens = %d", gotBody.GenerationConfig.MaxOutputTokens)
	}
}

func TestGeminiComplete_NoCandidates(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"candidates":[]}`)
	defer srv.Close()

	p := newGemini(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
	if _, err := p.Complete(context.Background(), CompletionRequest{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestGeminiComplete_QuotaError(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests,
		`{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`)
	defer srv.Close()

	p := newGemini(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
	_, err := p.Complete(context.Background(), CompletionRequest{})
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error type = %T", err)
	}
	if e.Message != "Resource has been exhausted" || e.Code != "resource_exhausted" {
		t.Errorf("classified = %+v", e)
	}
	if !IsQuotaExceeded(err) {
		t.Error("429 should be quota exceeded")
	}
}

func TestGeminiGenerateImage(t *testing.T) {
	srv := newTestServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"A cat on a mat"},{"inlineData":{"mimeType":"image/png","data":"aGVsbG8="}}]}}]}`)
	defer srv.Close()

	p := newGemini(ProviderConfig{APIKey: "k", Model: "m", ImageModel: "img", BaseURL: srv.URL})
	res, err := p.GenerateImage(context.Background(), ImageRequest{Prompt: "cat"})
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if res.Locator != "data:image/png;base64,aGVsbG8=" {
		t.Errorf("Locator = %q", res.Locator)
	}
	if res.RevisedPrompt != "A cat on a mat" {
		t.Errorf("RevisedPrompt = %q", res.RevisedPrompt)
	}
}

func TestGeminiGenerateImage_NoModel(t *testing.T) {
	p := newGemini(ProviderConfig{APIKey: "k"})
	if _, err := p.GenerateImage(context.Background(), ImageRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected error without image model")
	}
}

func TestGeminiListModels(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"models":[{"name":"models/gemini-2.0-flash"},{"name":"models/imagen"}]}`)
	defer srv.Close()

	p := newGemini(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	ids, err := p.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if strings.Join(ids, ",") != "gemini-2.0-flash,imagen" {
		t.Errorf("ids = %v", ids)
	}
}

// =====================================================================
// Registry wired to real HTTP providers
// =====================================================================

func TestRegistryComplete_WithRealHTTPProviders(t *testing.T) {
	openaiSrv := newTestServer(t, http.StatusOK, openAIChatBody)
	defer openaiSrv.Close()
	claudeSrv := newTestServer(t, http.StatusOK, `{"content":[{"type":"text","text":"Hello from Claude"}]}`)
	defer claudeSrv.Close()

	reg := NewRegistry("openai", "openai", map[string]ProviderConfig{
		"openai": {APIKey: "k", BaseURL: openaiSrv.URL},
		"claude": {APIKey: "k", BaseURL: claudeSrv.URL},
	})

	got, err := reg.Complete(context.Background(), CompletionRequest{User: "x"})
	if err != nil || got != "Hello from OpenAI" {
		t.Fatalf("openai: got %q, %v", got, err)
	}

	if err := reg.SetActive("claude"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	got, err = reg.Complete(context.Background(), CompletionRequest{User: "x"})
	if err != nil || got != "Hello from Claude" {
		t.Fatalf("claude: got %q, %v", got, err)
	}
}
