package handler

import (
	"net/http"

	"cryptoheaven.app/api/internal/dto"
	"cryptoheaven.app/api/internal/service"
	"cryptoheaven.app/api/pkg/response"
	"cryptoheaven.app/api/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	service service.CommunityService
}

func NewCommunityHandler(service service.CommunityService) *CommunityHandler {
	return &CommunityHandler{service: service}
}

func (h *CommunityHandler) CreateCommunity(c *gin.Context) {
	var req dto.CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	authID, err := response.GetAuthID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	community, err := h.service.CreateCommunity(c.Request.Context(), authID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, community)
}

func (h *CommunityHandler) GetCommunityDetails(c *gin.Context) {
	community, err := h.service.GetCommunityDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, community)
}

func (h *CommunityHandler) ListCommunities(c *gin.Context) {
	var filter dto.CommunityFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	communities, err := h.service.ListCommunities(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, communities)
}

func (h *CommunityHandler) UpdateCommunityInfo(c *gin.Context) {
	var req dto.UpdateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	community, err := h.service.UpdateCommunityInfo(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, community)
}

func (h *CommunityHandler) DeleteCommunity(c *gin.Context) {
	authID, err := response.GetAuthID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteCommunity(c.Request.Context(), c.Param("id"), authID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CommunityHandler) JoinCommunity(c *gin.Context) {
	authID, err := response.GetAuthID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status, err := h.service.Join(c.Request.Context(), c.Param("id"), authID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *CommunityHandler) LeaveCommunity(c *gin.Context) {
	authID, err := response.GetAuthID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status, err := h.service.Leave(c.Request.Context(), c.Param("id"), authID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *CommunityHandler) ApproveJoinRequest(c *gin.Context) {
	authID, err := response.GetAuthID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status, err := h.service.ApproveJoinRequest(c.Request.Context(), c.Param("id"), c.Param("userID"), authID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *CommunityHandler) RejectJoinRequest(c *gin.Context) {
	authID, err := response.GetAuthID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status, err := h.service.RejectJoinRequest(c.Request.Context(), c.Param("id"), c.Param("userID"), authID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *CommunityHandler) AddCommunityAdmin(c *gin.Context) {
	var req dto.AddAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	authID, err := response.GetAuthID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status, err := h.service.AddCommunityAdmin(c.Request.Context(), c.Param("id"), req.UserID, authID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
