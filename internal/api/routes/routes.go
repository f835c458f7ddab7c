package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yoockh/voicetranslate/internal/api/handlers"
)

type Deps struct {
	Transcription *handlers.TranscriptionHandler
	Voice         *handlers.VoiceHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Both routes are also reachable under /api, matching the browser client's paths.
	for _, g := range []*gin.RouterGroup{r.Group("/"), r.Group("/api")} {
		g.POST("/transcription", d.Transcription.Transcribe)
		g.POST("/voice", d.Voice.Synthesize)
	}
}
