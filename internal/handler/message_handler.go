package handler

import (
	"net/http"

	"cryptoheaven.app/api/internal/dto"
	"cryptoheaven.app/api/internal/service"
	"cryptoheaven.app/api/pkg/response"
	"cryptoheaven.app/api/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageHandler struct {
	service service.MessageService
}

func NewMessageHandler(service service.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	authID, err := response.GetAuthID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.service.SendMessage(c.Request.Context(), c.Param("id"), authID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *MessageHandler) FetchCommunityMessages(c *gin.Context) {
	var filter dto.MessageFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	messages, err := h.service.FetchCommunityMessages(c.Request.Context(), c.Param("id"), filter.PageSize)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *MessageHandler) LikeMessage(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	authID, err := response.GetAuthID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.service.LikeMessage(c.Request.Context(), messageID, authID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	if err := h.service.DeleteMessage(c.Request.Context(), messageID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
