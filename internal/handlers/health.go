package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace_back_end/internal/responses"
)

type Pinger interface {
	Ping(ctx context.Context) map[string]error
}

// 🟢 GET /health
func Health(p Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{}
		for name, err := range p.Ping(ctx) {
			if err != nil {
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		if status != http.StatusOK {
			c.JSON(status, responses.Envelope{Success: false, Message: "Service dégradé", Data: checks})
			return
		}
		responses.OK(c, status, "", checks)
	}
}
