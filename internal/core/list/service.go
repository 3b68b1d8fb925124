package list

import (
	"context"
	"log/slog"

	"github.com/khawarh/taskpro/internal/platform/jobs"
	"github.com/khawarh/taskpro/internal/platform/validate"
	"github.com/khawarh/taskpro/pkg/uuid"
)

type Service struct {
	repo     Repository
	cascader TaskCascader
	runner   *jobs.Runner
	logger   *slog.Logger
}

func NewService(repo Repository, cascader TaskCascader, runner *jobs.Runner, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cascader: cascader,
		runner:   runner,
		logger:   logger,
	}
}

func (service *Service) ListLists(context context.Context, userID string, limit, offset int) ([]*List, int, error) {
	return service.repo.ListByUser(context, userID, limit, offset)
}

func (service *Service) CreateList(context context.Context, userID, title string) (*List, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, MaxTitleLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	l := &List{
		ID:     uuid.New(),
		Title:  title,
		UserID: userID,
	}

	if err := service.repo.Create(context, l); err != nil {
		return nil, err
	}

	service.logger.Info("list_created", slog.String("list_id", l.ID), slog.String("user_id", userID))
	return l, nil
}

func (service *Service) UpdateList(context context.Context, userID, listID, title string) (*List, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldID, listID).
		Required(FieldTitle, title).
		MaxLen(FieldTitle, title, MaxTitleLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	l := &List{
		ID:     listID,
		Title:  title,
		UserID: userID,
	}

	// Ownership is checked by the UPDATE itself; someone else's list comes
	// back as not found.
	if err := service.repo.UpdateOwned(context, l); err != nil {
		return nil, err
	}

	service.logger.Info("list_updated", slog.String("list_id", listID))
	return l, nil
}

func (service *Service) DeleteList(ctx context.Context, userID, listID string) error {
	validator := &validate.Validator{}
	validator.UUID(FieldID, listID)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.DeleteOwned(ctx, userID, listID); err != nil {
		return err
	}

	service.logger.Warn("list_deleted", slog.String("list_id", listID), slog.String("user_id", userID))

	// Tasks go asynchronously; the delete response never waits on them.
	service.runner.Enqueue(jobs.Job{
		Name: "cascade_delete_list_tasks",
		Run: func(jobContext context.Context) error {
			return service.cascader.DeleteByListID(jobContext, listID)
		},
	})

	return nil
}
