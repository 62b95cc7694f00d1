// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"brandshot/internal/ai"
	"brandshot/internal/generation"
	"brandshot/internal/models"
)

const requestsPath = "/api/projects/Acme/campaigns/Spring/requests"

func TestCreateRequest_Valid_ReturnsPending(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)

	rec := e.do(t, http.MethodPost, requestsPath, map[string]string{"rawPrompt": "sneaker on a beach"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	req := decode[models.Request](t, rec)
	if req.Status != models.RequestStatusPending || req.RawPrompt != "sneaker on a beach" {
		t.Errorf("request = %+v", req)
	}

	rec = e.do(t, http.MethodGet, requestsPath+"/"+req.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
}

func TestCreateRequest_EmptyPrompt_Returns400(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)

	rec := e.do(t, http.MethodPost, requestsPath, map[string]string{"rawPrompt": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateRequest_UnknownCampaign_Returns404(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)

	rec := e.do(t, http.MethodPost, "/api/projects/Acme/campaigns/Nope/requests", map[string]string{"rawPrompt": "x"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetRequest_InvalidID_Returns404(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)

	rec := e.do(t, http.MethodGet, requestsPath+"/not-a-uuid", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateRequest_StatusAndFeedback(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)
	req := e.newRequest(t, "sneaker")

	rec := e.do(t, http.MethodPut, requestsPath+"/"+req.ID.String(), map[string]any{
		"status": "Needs Feedback", "feedback": "more contrast",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	got := decode[models.Request](t, rec)
	if got.Status != models.RequestStatusNeedsFeedback || got.Feedback != "more contrast" || got.RawPrompt != "sneaker" {
		t.Errorf("request = %+v", got)
	}

	rec = e.do(t, http.MethodPut, requestsPath+"/"+req.ID.String(), map[string]any{"status": "Done"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status: code = %d, want 400", rec.Code)
	}
}

func TestDeleteRequest(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)
	req := e.newRequest(t, "sneaker")

	if rec := e.do(t, http.MethodDelete, requestsPath+"/"+req.ID.String(), nil); rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec := e.do(t, http.MethodDelete, requestsPath+"/"+req.ID.String(), nil); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", rec.Code)
	}
}

func TestGenerate_Success_StoresImageAndLog(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)
	req := e.newRequest(t, "sneaker on a beach")

	rec := e.do(t, http.MethodPost, requestsPath+"/"+req.ID.String()+"/generate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	out := decode[generation.Outcome](t, rec)
	if !out.Success || out.Status != models.RequestStatusSucceeded {
		t.Fatalf("outcome = %+v", out)
	}
	if out.OptimizedPrompt != e.text.reply || out.RevisedPrompt != "revised" {
		t.Errorf("prompts = %q / %q", out.OptimizedPrompt, out.RevisedPrompt)
	}
	if !strings.HasPrefix(out.ImagePath, "/assets/Acme/Spring/"+req.ID.String()+"/") {
		t.Errorf("imagePath = %q", out.ImagePath)
	}

	stored, err := e.api.Requests.Get(context.Background(), "Acme", "Spring", req.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if stored.Status != models.RequestStatusSucceeded {
		t.Errorf("stored status = %q", stored.Status)
	}

	img := e.do(t, http.MethodGet, out.ImagePath, nil)
	if img.Code != http.StatusOK {
		t.Fatalf("serve image: status = %d", img.Code)
	}
	if ct := img.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}

	logs := e.do(t, http.MethodGet, requestsPath+"/"+req.ID.String()+"/logs", nil)
	if got := decode[[]models.GenerationLog](t, logs); len(got) != 1 || got[0].ImprovedPrompt != e.text.reply {
		t.Errorf("logs = %+v", got)
	}
}

func TestGenerate_ProviderFailure_Returns500(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)
	e.images.err = &ai.Error{Provider: "openai", StatusCode: http.StatusInternalServerError, Message: "server error"}
	req := e.newRequest(t, "sneaker")

	rec := e.do(t, http.MethodPost, requestsPath+"/"+req.ID.String()+"/generate", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	out := decode[generation.Outcome](t, rec)
	if out.Success || !strings.Contains(out.Error, "image generation failed") {
		t.Errorf("outcome = %+v", out)
	}

	stored, _ := e.api.Requests.Get(context.Background(), "Acme", "Spring", req.ID)
	if stored.Status != models.RequestStatusFailed {
		t.Errorf("stored status = %q, want Failed", stored.Status)
	}
}

func TestOptimize_PreviewDoesNotChangeStatus(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)
	req := e.newRequest(t, "sneaker")

	rec := e.do(t, http.MethodPost, requestsPath+"/"+req.ID.String()+"/optimize", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if got := decode[map[string]string](t, rec); got["optimizedPrompt"] != e.text.reply {
		t.Errorf("optimizedPrompt = %q", got["optimizedPrompt"])
	}
	if e.images.calls != 0 {
		t.Errorf("image provider called %d times during preview", e.images.calls)
	}
	stored, _ := e.api.Requests.Get(context.Background(), "Acme", "Spring", req.ID)
	if stored.Status != models.RequestStatusPending {
		t.Errorf("status = %q, want Pending", stored.Status)
	}
}

func TestOptimize_QuotaExceeded_UsesFallback(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)
	e.text.err = &ai.Error{Provider: "openai", StatusCode: http.StatusTooManyRequests, Code: "insufficient_quota", Message: "quota"}
	req := e.newRequest(t, "sneaker")

	rec := e.do(t, http.MethodPost, requestsPath+"/"+req.ID.String()+"/optimize", map[string]string{"rawPrompt": "red sneaker"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	got := decode[map[string]string](t, rec)["optimizedPrompt"]
	if !strings.Contains(got, "red sneaker") || !strings.Contains(got, "Bold pop-art") {
		t.Errorf("fallback prompt = %q", got)
	}
}

func TestOptimize_ProviderError_Returns502(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)
	e.text.err = &ai.Error{Provider: "openai", StatusCode: http.StatusInternalServerError, Message: "boom"}
	req := e.newRequest(t, "sneaker")

	rec := e.do(t, http.MethodPost, requestsPath+"/"+req.ID.String()+"/optimize", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}
