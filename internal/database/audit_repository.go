package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditRepository persists booking activity events for back office review
type AuditRepository struct {
	db DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// AuditEvent is a single recorded action against a booking entity
type AuditEvent struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	EntityType string          `db:"entity_type" json:"entity_type"`
	EntityID   uuid.UUID       `db:"entity_id" json:"entity_id"`
	Action     string          `db:"action" json:"action"`
	ActorID    *uuid.UUID      `db:"actor_id" json:"actor_id,omitempty"`
	Details    json.RawMessage `db:"details" json:"details,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// Record inserts an audit event. details may be any JSON-serializable
// value and lands in a JSONB column.
func (r *AuditRepository) Record(entityType string, entityID uuid.UUID, action string, actorID *uuid.UUID, details interface{}) error {
	var raw json.RawMessage
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("failed to encode audit details: %w", err)
		}
		raw = data
	}

	query := `
		INSERT INTO audit_events (id, entity_type, entity_id, action, actor_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query, uuid.New(), entityType, entityID, action, actorID, raw, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}

// ListByEntity retrieves audit events for one entity, newest first
func (r *AuditRepository) ListByEntity(entityType string, entityID uuid.UUID, limit int) ([]*AuditEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var events []*AuditEvent
	query := `
		SELECT id, entity_type, entity_id, action, actor_id, details, created_at
		FROM audit_events
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3`

	if err := r.db.Select(&events, query, entityType, entityID, limit); err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	return events, nil
}
