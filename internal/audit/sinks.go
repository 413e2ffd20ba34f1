package audit

import (
	"context"
	"log"

	"github.com/gocql/gocql"

	"marketplace_back_end/internal/models"
)

const insertAuditLog = `
	INSERT INTO audit_logs (
		id, user_id, action, resource, resource_id, new_value,
		ip_address, user_agent, success, error_msg, timestamp, request_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// ScyllaSink écrit dans la table audit_logs du keyspace d'audit.
type ScyllaSink struct {
	session *gocql.Session
}

func NewScyllaSink(session *gocql.Session) *ScyllaSink {
	return &ScyllaSink{session: session}
}

func (s *ScyllaSink) Write(ctx context.Context, e models.AuditLog) error {
	return s.session.Query(insertAuditLog,
		e.ID, e.UserID, e.Action, e.Resource, e.ResourceID, e.NewValue,
		e.IPAddress, e.UserAgent, e.Success, e.ErrorMsg, e.Timestamp, e.RequestID,
	).WithContext(ctx).Exec()
}

// LogSink remplace Scylla quand aucun keyspace d'audit n'est configuré.
type LogSink struct{}

func (LogSink) Write(_ context.Context, e models.AuditLog) error {
	status := "✅"
	if !e.Success {
		status = "❌"
	}
	log.Printf("📝 %s audit %s user=%s resource=%s/%s request=%s %s",
		status, e.Action, e.UserID, e.Resource, e.ResourceID, e.RequestID, e.ErrorMsg)
	return nil
}
