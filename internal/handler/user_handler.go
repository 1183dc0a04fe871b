package handler

import (
	"net/http"

	"cryptoheaven.app/api/internal/dto"
	"cryptoheaven.app/api/internal/service"
	"cryptoheaven.app/api/pkg/response"
	"cryptoheaven.app/api/pkg/validator"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) OnboardUser(c *gin.Context) {
	var req dto.OnboardUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	authID, err := response.GetAuthID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	user, err := h.service.OnboardUser(c.Request.Context(), authID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	authID, err := response.GetAuthID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), authID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetCurrentUserCommunities(c *gin.Context) {
	authID, err := response.GetAuthID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	communities, err := h.service.GetUserCommunities(c.Request.Context(), authID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"communities": communities})
}
