package task

import (
	"context"
	"log/slog"

	"github.com/khawarh/taskpro/internal/platform/validate"
	"github.com/khawarh/taskpro/pkg/pointer"
	"github.com/khawarh/taskpro/pkg/uuid"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # List-Scoped Operations

func (service *Service) ListTasksInList(context context.Context, callerID, listID string, limit, offset int) ([]*Task, int, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldID, listID)
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	return service.repo.ListByList(context, callerID, listID, limit, offset)
}

func (service *Service) CreateTaskInList(context context.Context, callerID, listID, title string) (*Task, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldID, listID).
		Required(FieldTitle, title).
		MaxLen(FieldTitle, title, MaxTitleLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	t := &Task{
		ID:     uuid.New(),
		Title:  title,
		ListID: pointer.To(listID),
	}

	if err := service.repo.CreateInList(context, callerID, listID, t); err != nil {
		return nil, err
	}

	service.logger.Info("task_created", slog.String("task_id", t.ID), slog.String("list_id", listID))
	return t, nil
}

func (service *Service) GetTaskInList(context context.Context, callerID, listID, taskID string) (*Task, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldID, listID).UUID(FieldID, taskID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.repo.GetInList(context, callerID, listID, taskID)
}

func (service *Service) UpdateTaskInList(context context.Context, callerID, listID, taskID, title string) (*Task, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldID, listID).
		UUID(FieldID, taskID).
		Required(FieldTitle, title).
		MaxLen(FieldTitle, title, MaxTitleLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	t := &Task{
		ID:     taskID,
		Title:  title,
		ListID: pointer.To(listID),
	}

	if err := service.repo.UpdateInList(context, callerID, listID, t); err != nil {
		return nil, err
	}

	service.logger.Info("task_updated", slog.String("task_id", taskID))
	return t, nil
}

func (service *Service) DeleteTaskInList(context context.Context, callerID, listID, taskID string) error {
	validator := &validate.Validator{}
	validator.UUID(FieldID, listID).UUID(FieldID, taskID)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.DeleteInList(context, callerID, listID, taskID); err != nil {
		return err
	}

	service.logger.Warn("task_deleted", slog.String("task_id", taskID), slog.String("list_id", listID))
	return nil
}

// # Sub-User-Scoped Operations

func (service *Service) ListTasksForUser(context context.Context, callerID, targetUserID string, limit, offset int) ([]*Task, int, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldID, targetUserID)
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	return service.repo.ListByUser(context, callerID, targetUserID, limit, offset)
}

func (service *Service) CreateTaskForUser(context context.Context, callerID, targetUserID, title string) (*Task, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldID, targetUserID).
		Required(FieldTitle, title).
		MaxLen(FieldTitle, title, MaxTitleLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	t := &Task{
		ID:     uuid.New(),
		Title:  title,
		UserID: pointer.To(targetUserID),
	}

	if err := service.repo.CreateForUser(context, callerID, targetUserID, t); err != nil {
		return nil, err
	}

	service.logger.Info("task_created", slog.String("task_id", t.ID), slog.String("target_user_id", targetUserID))
	return t, nil
}

func (service *Service) GetTaskForUser(context context.Context, callerID, targetUserID, taskID string) (*Task, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldID, targetUserID).UUID(FieldID, taskID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.repo.GetForUser(context, callerID, targetUserID, taskID)
}

func (service *Service) UpdateTaskForUser(context context.Context, callerID, targetUserID, taskID, title string) (*Task, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldID, targetUserID).
		UUID(FieldID, taskID).
		Required(FieldTitle, title).
		MaxLen(FieldTitle, title, MaxTitleLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	t := &Task{
		ID:     taskID,
		Title:  title,
		UserID: pointer.To(targetUserID),
	}

	if err := service.repo.UpdateForUser(context, callerID, targetUserID, t); err != nil {
		return nil, err
	}

	service.logger.Info("task_updated", slog.String("task_id", taskID))
	return t, nil
}

func (service *Service) DeleteTaskForUser(context context.Context, callerID, targetUserID, taskID string) error {
	validator := &validate.Validator{}
	validator.UUID(FieldID, targetUserID).UUID(FieldID, taskID)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.DeleteForUser(context, callerID, targetUserID, taskID); err != nil {
		return err
	}

	service.logger.Warn("task_deleted", slog.String("task_id", taskID), slog.String("target_user_id", targetUserID))
	return nil
}
