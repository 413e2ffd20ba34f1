package database

import (
	"fmt"

	"github.com/gocql/gocql"
)

const createAuditLogs = `
	CREATE TABLE IF NOT EXISTS audit_logs (
		id timeuuid PRIMARY KEY,
		user_id text,
		action text,
		resource text,
		resource_id text,
		new_value text,
		ip_address text,
		user_agent text,
		success boolean,
		error_msg text,
		timestamp timestamp,
		request_id text
	)
`

// EnsureAuditSchema crée la table audit_logs dans le keyspace de la session.
func EnsureAuditSchema(session *gocql.Session) error {
	if err := session.Query(createAuditLogs).Exec(); err != nil {
		return fmt.Errorf("création table audit_logs: %w", err)
	}
	return nil
}
