package main

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/akashsharma1462/portfolio/internal/typewriter"
)

// handleTypewriter streams hero frames as server-sent events until the
// client goes away. Each connection gets its own engine.
func (s *site) handleTypewriter(c *gin.Context) {
	engine, err := typewriter.New(s.portfolio.Phrases(), s.timing...)
	if err != nil {
		s.logger.Error("typewriter_init_failed", "err", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	emit := func(f typewriter.Frame) {
		payload, err := sonic.MarshalString(f)
		if err != nil {
			s.logger.Error("typewriter_encode_failed", "err", err)
			return
		}
		c.SSEvent("typewriter", payload)
		c.Writer.Flush()
	}

	emit(engine.Frame())
	err = engine.Run(c.Request.Context(), emit)
	s.logger.Debug("typewriter_stream_closed", "reason", err)
}
