package service

import (
	"context"
	"strings"
	"time"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
	"github.com/google/uuid"
)

var ErrEventNotFound = notFound("Evento não encontrado")

type CheckInResult struct {
	EventID   uuid.UUID `json:"event_id"`
	VisitorID uuid.UUID `json:"visitor_id"`
	// false bila pengunjung sudah check-in sebelumnya
	FirstCheckIn bool `json:"first_check_in"`
}

type EventService interface {
	GetByTenant(ctx context.Context, tenantID string) ([]*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Create(ctx context.Context, actor Actor, req model.EventRequest) (*model.Event, error)
	Update(ctx context.Context, actor Actor, id string, req model.EventRequest) (*model.Event, error)
	Delete(ctx context.Context, actor Actor, id string) error
	CheckIn(ctx context.Context, actor Actor, id string, req model.CheckInRequest) (*CheckInResult, error)
}

type eventService struct {
	repo        repository.EventRepository
	visitorRepo repository.VisitorRepository
	progression *Progression
}

func NewEventService(repo repository.EventRepository, visitorRepo repository.VisitorRepository, progression *Progression) EventService {
	return &eventService{repo: repo, visitorRepo: visitorRepo, progression: progression}
}

func (s *eventService) GetByTenant(ctx context.Context, tenantID string) ([]*model.Event, error) {
	tid, err := uuid.Parse(tenantID)
	if err != nil {
		return nil, ErrNoTenantID
	}
	return s.repo.FindByTenant(ctx, tid)
}

func (s *eventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	event, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func (s *eventService) Create(ctx context.Context, actor Actor, req model.EventRequest) (*model.Event, error) {
	tenantID, err := actor.scopeTenant()
	if err != nil {
		return nil, err
	}

	event := &model.Event{ID: uuid.New(), TenantID: tenantID}
	if err := applyEventRequest(event, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, actor Actor, id string, req model.EventRequest) (*model.Event, error) {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.requireManage(event.TenantID); err != nil {
		return nil, err
	}

	if err := applyEventRequest(event, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, actor Actor, id string) error {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := actor.requireManage(event.TenantID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, event.ID)
}

// CheckIn mencatat kehadiran sekali per pasangan lalu menjalankan rule EVENT_ATTENDED.
// Rule tetap dievaluasi pada check-in ulang; penerbitan sudah idempoten per rule.
func (s *eventService) CheckIn(ctx context.Context, actor Actor, id string, req model.CheckInRequest) (*CheckInResult, error) {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	visitor, err := visitorInTenant(ctx, s.visitorRepo, req.VisitorID, event.TenantID)
	if err != nil {
		return nil, err
	}
	if err := authorizeVisitor(actor, visitor); err != nil {
		return nil, err
	}

	inserted, err := s.repo.AddAttendance(ctx, event.ID, visitor.ID)
	if err != nil {
		return nil, err
	}

	s.progression.EventAttended(ctx, event.TenantID, visitor.ID, event.ID)

	return &CheckInResult{EventID: event.ID, VisitorID: visitor.ID, FirstCheckIn: inserted}, nil
}

func applyEventRequest(event *model.Event, req model.EventRequest) error {
	start, err := parseEventDate(req.StartDate)
	if err != nil {
		return badInput("format start_date tidak valid, gunakan RFC3339 atau YYYY-MM-DD")
	}

	var end *time.Time
	if strings.TrimSpace(req.EndDate) != "" {
		t, err := parseEventDate(req.EndDate)
		if err != nil {
			return badInput("format end_date tidak valid, gunakan RFC3339 atau YYYY-MM-DD")
		}
		if t.Before(start) {
			return badInput("end_date tidak boleh sebelum start_date")
		}
		end = &t
	}

	event.Title = strings.TrimSpace(req.Title)
	event.Description = req.Description
	event.Location = req.Location
	event.StartDate = start
	event.EndDate = end
	event.CertificateBackgroundURL = req.CertificateBackgroundURL
	event.CulturalHours = req.CulturalHours
	return nil
}

func parseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
