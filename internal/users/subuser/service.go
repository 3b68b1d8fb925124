// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

package subuser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/khawarh/taskpro/internal/platform/apperr"
	"github.com/khawarh/taskpro/internal/platform/jobs"
	"github.com/khawarh/taskpro/internal/platform/sec"
	"github.com/khawarh/taskpro/internal/platform/validate"
	"github.com/khawarh/taskpro/pkg/uuid"
)

// Caller identifies the authenticated account performing a management call.
type Caller struct {
	UserID  string
	IsOwner bool
}

// Service implements sub-user management use cases.
type Service struct {
	repository Repository
	cascader   TaskCascader
	runner     *jobs.Runner
	logger     *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repository Repository, cascader TaskCascader, runner *jobs.Runner, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		cascader:   cascader,
		runner:     runner,
		logger:     logger,
	}
}

// CreateSubUserInput holds the data to provision a new sub-user account.
type CreateSubUserInput struct {
	Email    string
	Password string
}

/*
CreateSubUser provisions a new sub-user account under the calling owner.

Description: Management is owner-only; a sub-user attempting it gets an
explicit Forbidden. The email shares the global uniqueness space with every
other account, owner or sub-user.

Parameters:
  - context: context.Context
  - caller: Caller
  - input: CreateSubUserInput

Returns:
  - *SubUser: Created account
  - err: Forbidden, validation (duplicate email), or storage errors
*/
func (service *Service) CreateSubUser(context context.Context, caller Caller, input CreateSubUserInput) (*SubUser, error) {
	if !caller.IsOwner {
		return nil, apperr.Forbidden("Only owner accounts can manage sub-users")
	}

	email := strings.TrimSpace(input.Email)

	exists, err := service.repository.EmailExists(context, email)
	if err != nil {
		return nil, fmt.Errorf("subuser_service_email_check_failed: %w", err)
	}
	if exists {
		return nil, validate.RequiredError(FieldEmail, "Email is already registered")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("subuser_service_hash_failed: %w", err)
	}

	subUser := &SubUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		OwnerID:      caller.UserID,
	}

	if err := service.repository.Create(context, subUser); err != nil {
		return nil, err
	}

	service.logger.Info("subuser_created",
		slog.String("owner_id", caller.UserID),
		slog.String("subuser_id", subUser.ID),
	)
	return subUser, nil
}

/*
ListSubUsers returns the calling owner's sub-users, paginated.

Parameters:
  - context: context.Context
  - caller: Caller
  - limit: int
  - offset: int

Returns:
  - []*SubUser: The owner's sub-user accounts
  - int: Total count for pagination metadata
  - err: Forbidden or storage errors
*/
func (service *Service) ListSubUsers(context context.Context, caller Caller, limit, offset int) ([]*SubUser, int, error) {
	if !caller.IsOwner {
		return nil, 0, apperr.Forbidden("Only owner accounts can manage sub-users")
	}

	return service.repository.ListByOwner(context, caller.UserID, limit, offset)
}

/*
DeleteSubUser removes one of the calling owner's sub-users and queues the
cascade that deletes the sub-user's tasks.

Description: The delete statement itself is owner-scoped; zero affected rows
means "not found" whether the ID was bogus or belongs to another owner. The
account row (and its sessions, via FK) goes synchronously. Task cleanup runs
as a background job so the response never waits on it.

Parameters:
  - context: context.Context
  - caller: Caller
  - subUserID: string

Returns:
  - err: Forbidden, apperr.NotFound, or storage errors
*/
func (service *Service) DeleteSubUser(ctx context.Context, caller Caller, subUserID string) error {
	if !caller.IsOwner {
		return apperr.Forbidden("Only owner accounts can manage sub-users")
	}

	if err := service.repository.DeleteOwned(ctx, caller.UserID, subUserID); err != nil {
		return err
	}

	service.logger.Warn("subuser_deleted",
		slog.String("owner_id", caller.UserID),
		slog.String("subuser_id", subUserID),
	)

	// The job closes over the ID, not the request context; the runner supplies
	// its own lifetime-bound context per attempt.
	service.runner.Enqueue(jobs.Job{
		Name: "cascade_delete_subuser_tasks",
		Run: func(jobContext context.Context) error {
			return service.cascader.DeleteByUserID(jobContext, subUserID)
		},
	})

	return nil
}
