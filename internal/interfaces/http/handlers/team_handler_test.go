package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Dorstol/BitBuddies/internal/domain/entities"
)

func newTeamRouter(env *handlerEnv, userID uint) *gin.Engine {
	h := NewTeamHandler(env.teamUsecase)
	r := gin.New()
	teams := r.Group("/teams", authAs(userID))
	teams.GET("", h.ListTeams)
	teams.POST("", h.CreateTeam)
	teams.GET("/:id", h.GetTeam)
	teams.PATCH("/:id", h.UpdateTeam)
	teams.DELETE("/:id", h.DeleteTeam)
	teams.POST("/join/:id", h.JoinTeam)
	teams.DELETE("/leave/:id", h.LeaveTeam)
	teams.DELETE("/remove_member/:id/:user_id", h.RemoveMember)
	return r
}

func TestTeamHandlerCreateAndGet(t *testing.T) {
	env := newHandlerEnv(t)
	owner := env.seedVerifiedUser(t, "owner@example.com", "secret123")
	r := newTeamRouter(env, owner.ID)

	rec := doJSON(t, r, http.MethodPost, "/teams", map[string]any{
		"title":       "Alpha",
		"projectName": "Rocket",
		"description": "builds rockets",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	var created entities.Team
	decodeBody(t, rec, &created)
	if created.Title != "Alpha" || created.OwnerID != owner.ID {
		t.Fatalf("unexpected team: %+v", created)
	}
	if len(created.Members) != 1 || created.Members[0].ID != owner.ID {
		t.Fatalf("owner is not the first member: %+v", created.Members)
	}
	if created.Status != entities.StatusInitiation {
		t.Fatalf("unexpected status: %s", created.Status)
	}

	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/teams/%d", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestTeamHandlerSecondTeamRefused(t *testing.T) {
	env := newHandlerEnv(t)
	owner := env.seedVerifiedUser(t, "owner@example.com", "secret123")
	r := newTeamRouter(env, owner.ID)

	rec := doJSON(t, r, http.MethodPost, "/teams", map[string]any{
		"title": "Alpha", "projectName": "p", "description": "d",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodPost, "/teams", map[string]any{
		"title": "Beta", "projectName": "p", "description": "d",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "CANNOT_CREATE_TEAM" {
		t.Fatalf("unexpected code: %s", code)
	}
}

func TestTeamHandlerGetUnknown(t *testing.T) {
	env := newHandlerEnv(t)
	owner := env.seedVerifiedUser(t, "owner@example.com", "secret123")
	r := newTeamRouter(env, owner.ID)

	rec := doJSON(t, r, http.MethodGet, "/teams/42", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "DOES_NOT_EXIST" {
		t.Fatalf("unexpected code: %s", code)
	}

	rec = doJSON(t, r, http.MethodGet, "/teams/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestTeamHandlerJoinLeave(t *testing.T) {
	env := newHandlerEnv(t)
	owner := env.seedVerifiedUser(t, "owner@example.com", "secret123")
	member := env.seedVerifiedUser(t, "member@example.com", "secret123")

	team, err := env.teamUsecase.CreateTeam(context.Background(), owner.ID, &entities.CreateTeamInput{
		Title: "Alpha", ProjectName: "p", Description: "d",
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	memberRouter := newTeamRouter(env, member.ID)

	rec := doJSON(t, memberRouter, http.MethodPost, fmt.Sprintf("/teams/join/%d", team.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var joined entities.Team
	decodeBody(t, rec, &joined)
	if len(joined.Members) != 2 {
		t.Fatalf("unexpected member count: %d", len(joined.Members))
	}

	rec = doJSON(t, memberRouter, http.MethodPost, fmt.Sprintf("/teams/join/%d", team.ID), nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "ALREADY_IN_TEAM" {
		t.Fatalf("unexpected code: %s", code)
	}

	rec = doJSON(t, memberRouter, http.MethodDelete, fmt.Sprintf("/teams/leave/%d", team.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	// the owner cannot leave
	ownerRouter := newTeamRouter(env, owner.ID)
	rec = doJSON(t, ownerRouter, http.MethodDelete, fmt.Sprintf("/teams/leave/%d", team.ID), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "OWNER_CANNOT_LEAVE" {
		t.Fatalf("unexpected code: %s", code)
	}
}

func TestTeamHandlerCapacity(t *testing.T) {
	env := newHandlerEnv(t)
	owner := env.seedVerifiedUser(t, "owner@example.com", "secret123")

	team, err := env.teamUsecase.CreateTeam(context.Background(), owner.ID, &entities.CreateTeamInput{
		Title: "Alpha", ProjectName: "p", Description: "d",
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	for i := 1; i < entities.MaxTeamMembers; i++ {
		u := env.seedVerifiedUser(t, fmt.Sprintf("member%d@example.com", i), "secret123")
		if _, err := env.teamUsecase.JoinTeam(context.Background(), team.ID, u.ID); err != nil {
			t.Fatalf("join team: %v", err)
		}
	}

	extra := env.seedVerifiedUser(t, "extra@example.com", "secret123")
	r := newTeamRouter(env, extra.ID)
	rec := doJSON(t, r, http.MethodPost, fmt.Sprintf("/teams/join/%d", team.ID), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "MAX_MEMBERS" {
		t.Fatalf("unexpected code: %s", code)
	}
}

func TestTeamHandlerUpdateDelete(t *testing.T) {
	env := newHandlerEnv(t)
	owner := env.seedVerifiedUser(t, "owner@example.com", "secret123")
	member := env.seedVerifiedUser(t, "member@example.com", "secret123")

	team, err := env.teamUsecase.CreateTeam(context.Background(), owner.ID, &entities.CreateTeamInput{
		Title: "Alpha", ProjectName: "p", Description: "d",
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if _, err := env.teamUsecase.JoinTeam(context.Background(), team.ID, member.ID); err != nil {
		t.Fatalf("join team: %v", err)
	}

	memberRouter := newTeamRouter(env, member.ID)
	rec := doJSON(t, memberRouter, http.MethodPatch, fmt.Sprintf("/teams/%d", team.ID), map[string]any{
		"title": "Hijacked",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "NOT_OWNER" {
		t.Fatalf("unexpected code: %s", code)
	}

	ownerRouter := newTeamRouter(env, owner.ID)
	rec = doJSON(t, ownerRouter, http.MethodPatch, fmt.Sprintf("/teams/%d", team.ID), map[string]any{
		"title":  "Alpha Prime",
		"status": "Development",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var updated entities.Team
	decodeBody(t, rec, &updated)
	if updated.Title != "Alpha Prime" || updated.Status != entities.StatusDevelopment {
		t.Fatalf("unexpected team: %+v", updated)
	}

	rec = doJSON(t, memberRouter, http.MethodDelete, fmt.Sprintf("/teams/%d", team.ID), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, ownerRouter, http.MethodDelete, fmt.Sprintf("/teams/%d", team.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestTeamHandlerRemoveMember(t *testing.T) {
	env := newHandlerEnv(t)
	owner := env.seedVerifiedUser(t, "owner@example.com", "secret123")
	member := env.seedVerifiedUser(t, "member@example.com", "secret123")

	team, err := env.teamUsecase.CreateTeam(context.Background(), owner.ID, &entities.CreateTeamInput{
		Title: "Alpha", ProjectName: "p", Description: "d",
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if _, err := env.teamUsecase.JoinTeam(context.Background(), team.ID, member.ID); err != nil {
		t.Fatalf("join team: %v", err)
	}

	// the owner cannot be removed, even by themselves
	ownerRouter := newTeamRouter(env, owner.ID)
	rec := doJSON(t, ownerRouter, http.MethodDelete, fmt.Sprintf("/teams/remove_member/%d/%d", team.ID, owner.ID), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "OWNER_CANNOT_LEAVE" {
		t.Fatalf("unexpected code: %s", code)
	}

	// a plain member cannot remove others
	memberRouter := newTeamRouter(env, member.ID)
	rec = doJSON(t, memberRouter, http.MethodDelete, fmt.Sprintf("/teams/remove_member/%d/%d", team.ID, member.ID), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, ownerRouter, http.MethodDelete, fmt.Sprintf("/teams/remove_member/%d/%d", team.ID, member.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var got entities.Team
	decodeBody(t, rec, &got)
	if len(got.Members) != 1 {
		t.Fatalf("member not removed: %+v", got.Members)
	}
}

func TestTeamHandlerListFilters(t *testing.T) {
	env := newHandlerEnv(t)
	owner := env.seedVerifiedUser(t, "owner@example.com", "secret123")
	other := env.seedVerifiedUser(t, "other@example.com", "secret123")

	if _, err := env.teamUsecase.CreateTeam(context.Background(), owner.ID, &entities.CreateTeamInput{
		Title: "Alpha", ProjectName: "Rocket", Description: "d",
	}); err != nil {
		t.Fatalf("create team: %v", err)
	}
	if _, err := env.teamUsecase.CreateTeam(context.Background(), other.ID, &entities.CreateTeamInput{
		Title: "Beta", ProjectName: "Submarine", Description: "d",
	}); err != nil {
		t.Fatalf("create team: %v", err)
	}

	r := newTeamRouter(env, owner.ID)
	rec := doJSON(t, r, http.MethodGet, "/teams?title=Alph", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var body struct {
		Teams []entities.Team `json:"teams"`
	}
	decodeBody(t, rec, &body)
	if len(body.Teams) != 1 || body.Teams[0].Title != "Alpha" {
		t.Fatalf("unexpected teams: %+v", body.Teams)
	}
}
