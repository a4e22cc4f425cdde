package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
	"github.com/paradox1612/shaadi-timeline/internal/observability/logger"
	"github.com/paradox1612/shaadi-timeline/internal/permissions"
	"github.com/paradox1612/shaadi-timeline/internal/repo"
)

var (
	ErrTaskNotFound = repo.ErrTaskNotFound
)

// TaskService owns the task lifecycle. Every read goes through the
// permission engine's point check or its compiled list filter; every write
// goes through the corresponding capability gate.
type TaskService struct {
	actorResolver
	engine    *permissions.Engine
	taskRepo  *repo.TaskRepository
	auditRepo *repo.AuditRepo
	log       *logger.Logger
}

func NewTaskService(engine *permissions.Engine, taskRepo *repo.TaskRepository, auditRepo *repo.AuditRepo, weddingRepo *repo.WeddingRepository, log *logger.Logger) *TaskService {
	return &TaskService{
		actorResolver: actorResolver{weddings: weddingRepo, log: log, module: "task"},
		engine:        engine,
		taskRepo:      taskRepo,
		auditRepo:     auditRepo,
		log:           log,
	}
}

// ListTasks retrieves the tasks the actor may see. The visibility predicate
// is compiled once and applied inside the list query; no post-filtering.
func (s *TaskService) ListTasks(ctx context.Context, weddingID, actorID string, params domain.ListTasksParams) (*domain.TaskListResponse, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	filter, err := s.engine.BuildTaskFilter(ctx, actor, weddingID)
	if err != nil {
		return nil, fmt.Errorf("build task filter: %w", err)
	}

	params.WeddingID = weddingID
	params.Normalize()

	tasks, nextCursor, err := s.taskRepo.List(ctx, params, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	response := &domain.TaskListResponse{Data: tasks}
	response.Meta.HasNextPage = nextCursor != ""
	if nextCursor != "" {
		response.Meta.NextCursor = &nextCursor
	}
	return response, nil
}

// GetTask retrieves a single task if the actor may view it. A task the
// actor cannot see reads as not found; the response never reveals that a
// hidden task exists.
func (s *TaskService) GetTask(ctx context.Context, weddingID, taskID, actorID string) (*domain.Task, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.Get(ctx, weddingID, taskID)
	if err != nil {
		return nil, err
	}

	visible, err := s.engine.CanViewTask(ctx, task, actor, weddingID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// CreateTask creates a task. Requires task.create; setting an assignee
// additionally requires task.assign, and seeding the allow/block lists is
// couple-only like the ACL endpoint.
func (s *TaskService) CreateTask(ctx context.Context, weddingID, actorID string, req *domain.CreateTaskRequest) (*domain.Task, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.engine.HasPermission(ctx, actorID, actor.Role, weddingID, permissions.CapTaskCreate)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	if req.AssignedToUserID != nil {
		canAssign, err := s.engine.HasPermission(ctx, actorID, actor.Role, weddingID, permissions.CapTaskAssign)
		if err != nil {
			return nil, err
		}
		if !canAssign {
			return nil, ErrUnauthorized
		}
	}

	if (len(req.AllowedUserIDs) > 0 || len(req.BlockedUserIDs) > 0) && !domain.IsCouple(actor.Role) {
		return nil, ErrUnauthorized
	}

	task := &domain.Task{
		ID:               uuid.NewString(),
		WeddingID:        weddingID,
		Title:            req.Title,
		Description:      req.Description,
		Visibility:       domain.VisibilityInternalTeam,
		Status:           domain.TaskStatusTodo,
		CreatedByUserID:  actorID,
		AssignedToUserID: req.AssignedToUserID,
		VendorID:         req.VendorID,
		DueDate:          req.DueDate,
		AllowedUserIDs:   req.AllowedUserIDs,
		BlockedUserIDs:   req.BlockedUserIDs,
	}
	if req.Visibility != nil {
		task.Visibility = *req.Visibility
	}
	if req.Status != nil {
		task.Status = *req.Status
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.log.Info(ctx, "task created",
		logger.Module("task"),
		logger.Action("create"),
		zap.String("task_id", task.ID),
		zap.String("wedding_id", weddingID),
		zap.String("visibility", string(task.Visibility)),
	)
	_ = s.auditRepo.LogAction(ctx, weddingID, actorID, "task.create", "task", &task.ID, map[string]interface{}{
		"visibility": string(task.Visibility),
	})
	return s.taskRepo.Get(ctx, weddingID, task.ID)
}

// UpdateTask applies a partial update if the actor may edit the task.
// Reassignment requires task.assign on top of edit access.
func (s *TaskService) UpdateTask(ctx context.Context, weddingID, taskID, actorID string, req *domain.UpdateTaskRequest) (*domain.Task, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.Get(ctx, weddingID, taskID)
	if err != nil {
		return nil, err
	}

	visible, err := s.engine.CanViewTask(ctx, task, actor, weddingID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrTaskNotFound
	}

	editable, err := s.engine.CanEditTask(ctx, task, actor, weddingID)
	if err != nil {
		return nil, err
	}
	if !editable {
		return nil, ErrUnauthorized
	}

	if req.AssignedToUserID != nil {
		canAssign, err := s.engine.HasPermission(ctx, actorID, actor.Role, weddingID, permissions.CapTaskAssign)
		if err != nil {
			return nil, err
		}
		if !canAssign {
			return nil, ErrUnauthorized
		}
	}

	if err := s.taskRepo.Update(ctx, weddingID, taskID, req); err != nil {
		return nil, err
	}

	_ = s.auditRepo.LogAction(ctx, weddingID, actorID, "task.update", "task", &taskID, nil)
	return s.taskRepo.Get(ctx, weddingID, taskID)
}

// DeleteTask removes a task. Couple always may; otherwise task.edit_any.
func (s *TaskService) DeleteTask(ctx context.Context, weddingID, taskID, actorID string) error {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return err
	}

	task, err := s.taskRepo.Get(ctx, weddingID, taskID)
	if err != nil {
		return err
	}

	visible, err := s.engine.CanViewTask(ctx, task, actor, weddingID)
	if err != nil {
		return err
	}
	if !visible {
		return ErrTaskNotFound
	}

	allowed, err := s.engine.HasPermission(ctx, actorID, actor.Role, weddingID, permissions.CapTaskEditAny)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}

	if err := s.taskRepo.Delete(ctx, weddingID, taskID); err != nil {
		return err
	}

	_ = s.auditRepo.LogAction(ctx, weddingID, actorID, "task.delete", "task", &taskID, nil)
	return nil
}

// UpdateTaskACL replaces the allow and block lists. Couple-only: the
// exception lists are the couple's instrument, no capability opens them.
func (s *TaskService) UpdateTaskACL(ctx context.Context, weddingID, taskID, actorID string, req *domain.UpdateTaskACLRequest) (*domain.Task, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}
	if !domain.IsCouple(actor.Role) {
		return nil, ErrUnauthorized
	}

	if err := s.taskRepo.ReplaceACL(ctx, weddingID, taskID, req); err != nil {
		return nil, err
	}

	_ = s.auditRepo.LogAction(ctx, weddingID, actorID, "task.acl_update", "task", &taskID, map[string]interface{}{
		"allowed": len(req.AllowedUserIDs),
		"blocked": len(req.BlockedUserIDs),
	})

	return s.taskRepo.Get(ctx, weddingID, taskID)
}

// ListComments retrieves the comments on a task the actor may view.
func (s *TaskService) ListComments(ctx context.Context, weddingID, taskID, actorID string) ([]domain.TaskComment, error) {
	task, err := s.GetTask(ctx, weddingID, taskID, actorID)
	if err != nil {
		return nil, err
	}

	comments, err := s.taskRepo.ListComments(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("list task comments: %w", err)
	}
	return comments, nil
}

// CreateComment adds a comment if the actor may comment on the task.
func (s *TaskService) CreateComment(ctx context.Context, weddingID, taskID, actorID, body string) (*domain.TaskComment, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.Get(ctx, weddingID, taskID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.engine.CanCommentOnTask(ctx, task, actor, weddingID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		visible, err := s.engine.CanViewTask(ctx, task, actor, weddingID)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, ErrTaskNotFound
		}
		return nil, ErrUnauthorized
	}

	comment := &domain.TaskComment{
		ID:     uuid.NewString(),
		TaskID: task.ID,
		UserID: actorID,
		Body:   body,
	}
	if err := s.taskRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
