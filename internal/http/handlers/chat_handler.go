// README: Chat message handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripdesk/internal/service"
)

type ChatHandler struct {
	planner *service.ChatPlanner
}

func NewChatHandler(planner *service.ChatPlanner) *ChatHandler {
	return &ChatHandler{planner: planner}
}

type chatMessageReq struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type chatMessageResp struct {
	Reply string `json:"reply"`
}

func (h *ChatHandler) Message(c *gin.Context) {
	var req chatMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ConversationID == "" || req.Message == "" {
		writeError(c, http.StatusBadRequest, "conversation_id and message are required")
		return
	}

	reply, err := h.planner.HandleMessage(c.Request.Context(), req.ConversationID, req.Message)
	if err != nil {
		internalError(c)
		return
	}
	writeJSON(c, http.StatusOK, chatMessageResp{Reply: reply})
}
