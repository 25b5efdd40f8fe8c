package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type EventRepository interface {
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*model.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	Create(ctx context.Context, event *model.Event) error
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AddAttendance mengembalikan false bila pengunjung sudah check-in sebelumnya
	AddAttendance(ctx context.Context, eventID, visitorID uuid.UUID) (bool, error)
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*model.Event, error) {
	var events []*model.Event
	err := r.db.SelectContext(ctx, &events,
		"SELECT * FROM events WHERE tenant_id = $1 ORDER BY start_date ASC", tenantID)
	return events, err
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	err := r.db.GetContext(ctx, &event, "SELECT * FROM events WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `
		INSERT INTO events (id, tenant_id, title, description, location, start_date, end_date,
		                    certificate_background_url, cultural_hours, created_at, updated_at)
		VALUES (:id, :tenant_id, :title, :description, :location, :start_date, :end_date,
		        :certificate_background_url, :cultural_hours, NOW(), NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, event)
	return err
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	query := `
		UPDATE events
		SET title = :title, description = :description, location = :location,
		    start_date = :start_date, end_date = :end_date,
		    certificate_background_url = :certificate_background_url,
		    cultural_hours = :cultural_hours, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, event)
	return err
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id)
	return err
}

func (r *eventRepository) AddAttendance(ctx context.Context, eventID, visitorID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO event_attendances (event_id, visitor_id, checked_in_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (event_id, visitor_id) DO NOTHING
	`, eventID, visitorID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
