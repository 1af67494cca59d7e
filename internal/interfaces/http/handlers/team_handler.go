package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Dorstol/BitBuddies/internal/domain/entities"
	domainerrors "github.com/Dorstol/BitBuddies/internal/domain/errors"
	"github.com/Dorstol/BitBuddies/internal/interfaces/http/middleware"
	"github.com/Dorstol/BitBuddies/internal/interfaces/http/response"
	"github.com/Dorstol/BitBuddies/internal/usecases"
	"github.com/Dorstol/BitBuddies/pkg/utils"
)

// TeamHandler handles team endpoints
type TeamHandler struct {
	teamUsecase *usecases.TeamUsecase
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamUsecase *usecases.TeamUsecase) *TeamHandler {
	return &TeamHandler{
		teamUsecase: teamUsecase,
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, domainerrors.BadRequest("invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}

// ListTeams returns teams matching the filters
// GET /api/v1/teams
func (h *TeamHandler) ListTeams(c *gin.Context) {
	filter := entities.TeamFilter{
		Title:       c.Query("title"),
		ProjectName: c.Query("project_name"),
		Status:      entities.TeamStatus(c.Query("status")),
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	params := utils.GetPaginationParams(page, limit)

	teams, total, err := h.teamUsecase.ListTeams(c.Request.Context(), filter, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"teams":      teams,
		"pagination": utils.CalculateMeta(total, params.Page, params.Limit),
	})
}

// GetTeam returns a single team with its members
// GET /api/v1/teams/:id
func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	team, err := h.teamUsecase.GetTeam(c.Request.Context(), teamID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, team)
}

// CreateTeam creates a team owned by the authenticated user
// POST /api/v1/teams
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	var input entities.CreateTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	team, err := h.teamUsecase.CreateTeam(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, team)
}

// UpdateTeam applies a partial update to an owned team
// PATCH /api/v1/teams/:id
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input entities.UpdateTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	team, err := h.teamUsecase.UpdateTeam(c.Request.Context(), teamID, userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, team)
}

// DeleteTeam removes an owned team
// DELETE /api/v1/teams/:id
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.teamUsecase.DeleteTeam(c.Request.Context(), teamID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Team deleted",
	})
}

// JoinTeam adds the authenticated user to a team
// POST /api/v1/teams/join/:id
func (h *TeamHandler) JoinTeam(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	team, err := h.teamUsecase.JoinTeam(c.Request.Context(), teamID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, team)
}

// LeaveTeam removes the authenticated user from a team
// DELETE /api/v1/teams/leave/:id
func (h *TeamHandler) LeaveTeam(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	team, err := h.teamUsecase.LeaveTeam(c.Request.Context(), teamID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, team)
}

// RemoveMember lets the owner remove another member
// DELETE /api/v1/teams/remove_member/:id/:user_id
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	requesterID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	team, err := h.teamUsecase.RemoveMember(c.Request.Context(), teamID, requesterID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, team)
}
