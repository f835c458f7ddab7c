package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/voicetranslate/internal/models"
	"github.com/yoockh/voicetranslate/internal/services"
	"github.com/yoockh/voicetranslate/internal/utils"
)

const voiceFilename = "output.mp3"

type VoiceHandler struct {
	svc services.VoiceService
}

func NewVoiceHandler(svc services.VoiceService) *VoiceHandler {
	return &VoiceHandler{svc: svc}
}

// Synthesize forwards the synthesis stream to the client as it arrives.
func (h *VoiceHandler) Synthesize(c *gin.Context) {
	var req models.VoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "VoiceHandler.Synthesize", "invalid request body", err))
		return
	}

	audio, err := h.svc.Synthesize(c.Request.Context(), req.Transcript)
	if err != nil {
		writeError(c, err)
		return
	}
	defer audio.Body.Close()

	c.DataFromReader(http.StatusOK, -1, "audio/mpeg", audio.Body, map[string]string{
		"Content-Disposition": "attachment; filename=" + voiceFilename,
	})
}
