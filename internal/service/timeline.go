package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
	"github.com/paradox1612/shaadi-timeline/internal/observability/logger"
	"github.com/paradox1612/shaadi-timeline/internal/repo"
)

var (
	ErrEventDayNotFound   = repo.ErrEventDayNotFound
	ErrAdjustmentNotFound = repo.ErrAdjustmentNotFound
	ErrAdjustmentReverted = repo.ErrAdjustmentReverted
)

// TimelineService owns the event-day program. Reads are open to every
// member; mutations, including the whole-day shift and its undo, are
// restricted to the couple and the planner.
type TimelineService struct {
	actorResolver
	timelineRepo *repo.TimelineRepository
	auditRepo    *repo.AuditRepo
	log          *logger.Logger
}

func NewTimelineService(timelineRepo *repo.TimelineRepository, auditRepo *repo.AuditRepo, weddingRepo *repo.WeddingRepository, log *logger.Logger) *TimelineService {
	return &TimelineService{
		actorResolver: actorResolver{weddings: weddingRepo, log: log, module: "timeline"},
		timelineRepo:  timelineRepo,
		auditRepo:     auditRepo,
		log:           log,
	}
}

// ListEventDays retrieves the wedding program. Any member may read it.
func (s *TimelineService) ListEventDays(ctx context.Context, weddingID, actorID string) ([]domain.EventDay, error) {
	if _, err := s.resolveActor(ctx, actorID, weddingID); err != nil {
		return nil, err
	}
	return s.timelineRepo.ListEventDays(ctx, weddingID)
}

// CreateEventDay adds a day to the program.
func (s *TimelineService) CreateEventDay(ctx context.Context, weddingID, actorID string, req *domain.CreateEventDayRequest) (*domain.EventDay, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAdjustTimeline(actor.Role) {
		return nil, ErrUnauthorized
	}

	day := &domain.EventDay{
		ID:        uuid.NewString(),
		WeddingID: weddingID,
		Title:     req.Title,
		Date:      req.Date,
	}
	if err := s.timelineRepo.CreateEventDay(ctx, day); err != nil {
		return nil, fmt.Errorf("create event day: %w", err)
	}
	return day, nil
}

// ListItems retrieves the schedule of one event day. Any member may read it.
func (s *TimelineService) ListItems(ctx context.Context, weddingID, eventDayID, actorID string) ([]domain.TimelineItem, error) {
	if _, err := s.resolveActor(ctx, actorID, weddingID); err != nil {
		return nil, err
	}

	// Scope check: the day must belong to this wedding.
	if _, err := s.timelineRepo.GetEventDay(ctx, weddingID, eventDayID); err != nil {
		return nil, err
	}
	return s.timelineRepo.ListItems(ctx, eventDayID)
}

// CreateItem adds a slot to an event day.
func (s *TimelineService) CreateItem(ctx context.Context, weddingID, actorID string, req *domain.CreateTimelineItemRequest) (*domain.TimelineItem, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAdjustTimeline(actor.Role) {
		return nil, ErrUnauthorized
	}

	if _, err := s.timelineRepo.GetEventDay(ctx, weddingID, req.EventDayID); err != nil {
		return nil, err
	}

	item := &domain.TimelineItem{
		ID:         uuid.NewString(),
		EventDayID: req.EventDayID,
		Title:      req.Title,
		Location:   req.Location,
		VendorID:   req.VendorID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if err := s.timelineRepo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create timeline item: %w", err)
	}
	return item, nil
}

// DeleteItem removes a slot from an event day.
func (s *TimelineService) DeleteItem(ctx context.Context, weddingID, eventDayID, itemID, actorID string) error {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return err
	}
	if !domain.CanAdjustTimeline(actor.Role) {
		return ErrUnauthorized
	}

	if _, err := s.timelineRepo.GetEventDay(ctx, weddingID, eventDayID); err != nil {
		return err
	}
	return s.timelineRepo.DeleteItem(ctx, eventDayID, itemID)
}

// ShiftDay moves every slot of a day by the requested delta and journals
// the shift for undo. The classic wedding-day scenario: everything runs 30
// minutes late, move the whole day at once.
func (s *TimelineService) ShiftDay(ctx context.Context, weddingID, actorID string, req *domain.ShiftDayRequest) (*domain.TimelineAdjustment, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAdjustTimeline(actor.Role) {
		return nil, ErrUnauthorized
	}

	adj := &domain.TimelineAdjustment{
		ID:              uuid.NewString(),
		WeddingID:       weddingID,
		EventDayID:      req.EventDayID,
		DeltaMinutes:    req.DeltaMinutes,
		Reason:          req.Reason,
		CreatedByUserID: actorID,
	}
	if err := s.timelineRepo.ShiftDay(ctx, adj); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "event day shifted",
		logger.Module("timeline"),
		logger.Action("shift_day"),
		zap.String("wedding_id", weddingID),
		zap.String("event_day_id", req.EventDayID),
		zap.Int("delta_minutes", req.DeltaMinutes),
	)
	_ = s.auditRepo.LogAction(ctx, weddingID, actorID, "timeline.shift_day", "event_day", &req.EventDayID, map[string]interface{}{
		"delta_minutes": req.DeltaMinutes,
		"reason":        req.Reason,
	})

	return adj, nil
}

// UndoShift reverts a journaled shift.
func (s *TimelineService) UndoShift(ctx context.Context, weddingID, adjustmentID, actorID string) (*domain.TimelineAdjustment, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAdjustTimeline(actor.Role) {
		return nil, ErrUnauthorized
	}

	adj, err := s.timelineRepo.UndoShift(ctx, weddingID, adjustmentID)
	if err != nil {
		return nil, err
	}

	_ = s.auditRepo.LogAction(ctx, weddingID, actorID, "timeline.undo_shift", "event_day", &adj.EventDayID, map[string]interface{}{
		"adjustment_id": adjustmentID,
		"delta_minutes": -adj.DeltaMinutes,
	})

	return adj, nil
}

// ListAdjustments retrieves the shift journal of an event day.
func (s *TimelineService) ListAdjustments(ctx context.Context, weddingID, eventDayID, actorID string) ([]domain.TimelineAdjustment, error) {
	if _, err := s.resolveActor(ctx, actorID, weddingID); err != nil {
		return nil, err
	}
	return s.timelineRepo.ListAdjustments(ctx, weddingID, eventDayID)
}
