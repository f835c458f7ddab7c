package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/voicetranslate/internal/models"
	"github.com/yoockh/voicetranslate/internal/services"
	"github.com/yoockh/voicetranslate/internal/utils"
)

type TranscriptionHandler struct {
	svc services.TranscriptionService
}

func NewTranscriptionHandler(svc services.TranscriptionService) *TranscriptionHandler {
	return &TranscriptionHandler{svc: svc}
}

func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	var req models.TranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TranscriptionHandler.Transcribe", "invalid request body", err))
		return
	}

	res, err := h.svc.Transcribe(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
