package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Dorstol/BitBuddies/internal/domain/entities"
	domainerrors "github.com/Dorstol/BitBuddies/internal/domain/errors"
	"github.com/Dorstol/BitBuddies/internal/infrastructure/storage"
	"github.com/Dorstol/BitBuddies/internal/interfaces/http/middleware"
	"github.com/Dorstol/BitBuddies/internal/interfaces/http/response"
	"github.com/Dorstol/BitBuddies/internal/usecases"
	"github.com/Dorstol/BitBuddies/pkg/utils"
)

// UserHandler handles user profile endpoints
type UserHandler struct {
	accountUsecase *usecases.AccountUsecase
}

// NewUserHandler creates a new user handler
func NewUserHandler(accountUsecase *usecases.AccountUsecase) *UserHandler {
	return &UserHandler{
		accountUsecase: accountUsecase,
	}
}

// GetMe returns the authenticated user
// GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	user, err := h.accountUsecase.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// UpdateMe applies a partial profile update
// PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	var input entities.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	user, err := h.accountUsecase.UpdateProfile(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// UpdatePassword changes the authenticated user's password
// POST /api/v1/users/me/update_password
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	var input entities.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.accountUsecase.ChangePassword(c.Request.Context(), userID, &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Password updated",
	})
}

// UploadPhoto stores a profile photo
// POST /api/v1/users/me/upload_photo
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, domainerrors.BadRequest("file is required"))
		return
	}

	if fileHeader.Size >= storage.MaxPhotoSize {
		response.Error(c, domainerrors.InvalidOperation(domainerrors.CodeUnsupportedFileSize, "file exceeds the size limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, domainerrors.InternalError(err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, storage.MaxPhotoSize))
	if err != nil {
		response.Error(c, domainerrors.InternalError(err))
		return
	}

	photo, err := h.accountUsecase.UploadPhoto(c.Request.Context(), userID, fileHeader.Filename, content)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"photo": photo,
	})
}

// ListUsers returns users matching the filters
// GET /api/v1/users/all
func (h *UserHandler) ListUsers(c *gin.Context) {
	filter := entities.UserFilter{
		FullName: c.Query("full_name"),
		Email:    c.Query("email"),
		Position: entities.Position(c.Query("position")),
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	params := utils.GetPaginationParams(page, limit)

	users, total, err := h.accountUsecase.ListUsers(c.Request.Context(), filter, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"users":      users,
		"pagination": utils.CalculateMeta(total, params.Page, params.Limit),
	})
}

// ListMyTeams returns teams the authenticated user belongs to
// GET /api/v1/users/me/teams
func (h *UserHandler) ListMyTeams(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	filter := entities.TeamFilter{
		Title:       c.Query("title"),
		ProjectName: c.Query("project_name"),
		Status:      entities.TeamStatus(c.Query("status")),
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	params := utils.GetPaginationParams(page, limit)

	teams, total, err := h.accountUsecase.ListUserTeams(c.Request.Context(), userID, filter, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"teams":      teams,
		"pagination": utils.CalculateMeta(total, params.Page, params.Limit),
	})
}
