package middleware

import (
	"log"

	"github.com/gin-gonic/gin"

	"marketplace_back_end/internal/audit"
	"marketplace_back_end/internal/models"
)

// AuditResourceKey est posé par les handlers avec l'id produit concerné.
const AuditResourceKey = "audit_resource_id"

type AuditRecorder interface {
	Record(entry models.AuditLog) error
}

// AuditCartAction enregistre le résultat de chaque mutation du panier.
func AuditCartAction(recorder AuditRecorder, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		entry := models.AuditLog{
			UserID:     GetIdentity(c).UserID,
			Action:     action,
			Resource:   audit.ResourceCart,
			ResourceID: c.GetString(AuditResourceKey),
			IPAddress:  c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
			Success:    status >= 200 && status < 300,
			RequestID:  GetRequestID(c),
		}
		if !entry.Success {
			if last := c.Errors.Last(); last != nil {
				entry.ErrorMsg = last.Error()
			} else {
				entry.ErrorMsg = "Action échouée"
			}
		}

		if err := recorder.Record(entry); err != nil {
			log.Printf("⚠️ Audit %s non enregistré: %v", action, err)
		}
	}
}
