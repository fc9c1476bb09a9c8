// README: PDF analysis and reprice handlers.
package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripdesk/internal/service"
)

// maxPdfBytes caps uploads; supplier proposals are rarely over a few MB.
const maxPdfBytes = 20 << 20

type PdfHandler struct {
	planner *service.ChatPlanner
}

func NewPdfHandler(planner *service.ChatPlanner) *PdfHandler {
	return &PdfHandler{planner: planner}
}

// Analyze accepts a multipart upload (field "file") plus a conversation_id
// form value and returns the structured analysis result.
func (h *PdfHandler) Analyze(c *gin.Context) {
	conversationID := c.PostForm("conversation_id")
	if conversationID == "" {
		writeError(c, http.StatusBadRequest, "conversation_id is required")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "file is required")
		return
	}
	if header.Size > maxPdfBytes {
		writeError(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	f, err := header.Open()
	if err != nil {
		internalError(c)
		return
	}
	defer f.Close()
	pdf, err := io.ReadAll(io.LimitReader(f, maxPdfBytes))
	if err != nil {
		internalError(c)
		return
	}

	res, err := h.planner.HandlePdfUpload(c.Request.Context(), conversationID, header.Filename, pdf)
	if err != nil {
		internalError(c)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

type repriceReq struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type repriceResp struct {
	Reply string `json:"reply"`
}

// Reprice applies a free-text price directive against the conversation's
// latest analyzed proposal.
func (h *PdfHandler) Reprice(c *gin.Context) {
	var req repriceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ConversationID == "" || req.Message == "" {
		writeError(c, http.StatusBadRequest, "conversation_id and message are required")
		return
	}

	reply, err := h.planner.HandlePriceChange(c.Request.Context(), req.ConversationID, req.Message)
	if err != nil {
		internalError(c)
		return
	}
	writeJSON(c, http.StatusOK, repriceResp{Reply: reply})
}
