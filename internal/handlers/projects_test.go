// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"testing"

	"brandshot/internal/models"
)

func TestCreateProject_Valid_Returns201(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/projects/", map[string]any{
		"name": "Acme", "clientName": "Acme Corp", "description": "Sneakers", "styleGuide": "Bold",
		"approvedImages": []map[string]any{{"requestId": "x", "imagePath": "p", "finalPrompt": "f"}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	p := decode[models.Project](t, rec)
	if p.Name != "Acme" || p.StartDate == "" {
		t.Errorf("project = %+v", p)
	}
	if len(p.ApprovedImages) != 0 {
		t.Errorf("approvedImages accepted on create: %+v", p.ApprovedImages)
	}
}

func TestCreateProject_MissingFields_Returns400(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/projects/", map[string]any{"name": "Acme"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestCreateProject_Duplicate_Returns409(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)

	rec := e.do(t, http.MethodPost, "/api/projects/", map[string]any{
		"name": "Acme", "clientName": "Other", "description": "d", "styleGuide": "s",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestCreateProject_InvalidJSON_Returns400(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/projects/", "not an object")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetProject_Unknown_Returns404(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/projects/Nope/", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateProject_PartialFields(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)

	rec := e.do(t, http.MethodPut, "/api/projects/Acme/", map[string]any{"styleGuide": "Muted pastels"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	p := decode[models.Project](t, rec)
	if p.StyleGuide != "Muted pastels" || p.ClientName != "Acme Corp" {
		t.Errorf("project = %+v", p)
	}
	if p.Updated.Before(p.Created) {
		t.Errorf("updated %v before created %v", p.Updated, p.Created)
	}
}

func TestDeleteProject_CascadesCampaigns(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)

	if rec := e.do(t, http.MethodDelete, "/api/projects/Acme/", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := e.do(t, http.MethodGet, "/api/projects/Acme/", nil); rec.Code != http.StatusNotFound {
		t.Errorf("project after delete: status = %d", rec.Code)
	}
	if rec := e.do(t, http.MethodGet, "/api/projects/Acme/campaigns/Spring/", nil); rec.Code != http.StatusNotFound {
		t.Errorf("campaign after delete: status = %d", rec.Code)
	}
}

func TestListProjects(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/projects/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[[]models.Project](t, rec); len(got) != 0 {
		t.Errorf("empty store listed %d projects", len(got))
	}

	e.seed(t)
	rec = e.do(t, http.MethodGet, "/api/projects/", nil)
	if got := decode[[]models.Project](t, rec); len(got) != 1 || got[0].Name != "Acme" {
		t.Errorf("projects = %+v", got)
	}
}

func TestCampaignCRUD(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)

	rec := e.do(t, http.MethodPost, "/api/projects/Acme/campaigns", map[string]any{
		"name": "Fall", "description": "Back to school", "palette": []string{"#ff0000"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body)
	}
	c := decode[models.Campaign](t, rec)
	if c.CampaignType != models.CampaignTypeOther || c.Recurrence != models.RecurrenceOneTime {
		t.Errorf("defaults not applied: %+v", c)
	}

	rec = e.do(t, http.MethodPut, "/api/projects/Acme/campaigns/Fall/", map[string]any{"targetAudience": "students"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body)
	}
	if c := decode[models.Campaign](t, rec); c.TargetAudience != "students" || c.Description != "Back to school" {
		t.Errorf("updated campaign = %+v", c)
	}

	rec = e.do(t, http.MethodGet, "/api/projects/Acme/campaigns", nil)
	if got := decode[[]models.Campaign](t, rec); len(got) != 2 {
		t.Errorf("campaigns = %d, want 2", len(got))
	}

	if rec := e.do(t, http.MethodDelete, "/api/projects/Acme/campaigns/Fall/", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := e.do(t, http.MethodGet, "/api/projects/Acme/campaigns/Fall/", nil); rec.Code != http.StatusNotFound {
		t.Errorf("campaign after delete: status = %d", rec.Code)
	}
}

func TestCreateCampaign_UnknownProject_Returns404(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/projects/Nope/campaigns", map[string]any{"name": "Fall", "description": "d"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
