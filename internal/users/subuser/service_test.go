// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

package subuser

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khawarh/taskpro/internal/platform/apperr"
	"github.com/khawarh/taskpro/internal/platform/jobs"
	"github.com/khawarh/taskpro/internal/platform/sec"
)

// # In-Memory Fakes

type fakeRepository struct {
	mu       sync.Mutex
	subUsers map[string]*SubUser
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{subUsers: make(map[string]*SubUser)}
}

func (f *fakeRepository) Create(_ context.Context, subUser *SubUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subUsers[subUser.ID] = subUser
	return nil
}

func (f *fakeRepository) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, subUser := range f.subUsers {
		if subUser.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*SubUser, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var owned []*SubUser
	for _, subUser := range f.subUsers {
		if subUser.OwnerID == ownerID {
			owned = append(owned, subUser)
		}
	}
	return owned, len(owned), nil
}

func (f *fakeRepository) DeleteOwned(_ context.Context, ownerID, subUserID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if subUser, ok := f.subUsers[subUserID]; ok && subUser.OwnerID == ownerID {
		delete(f.subUsers, subUserID)
		return nil
	}
	return apperr.NotFound("Sub-user")
}

type fakeCascader struct {
	mu         sync.Mutex
	deletedFor []string
}

func (f *fakeCascader) DeleteByUserID(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedFor = append(f.deletedFor, userID)
	return nil
}

func (f *fakeCascader) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deletedFor)
}

func newTestService(t *testing.T) (*Service, *fakeRepository, *fakeCascader) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	repo := newFakeRepository()
	cascader := &fakeCascader{}
	runner := jobs.NewRunner(slog.Default(), 8)
	runner.Start(ctx)

	return NewService(repo, cascader, runner, slog.Default()), repo, cascader
}

var owner = Caller{UserID: "owner-1", IsOwner: true}

// # Tests

/*
TestService_CreateSubUser verifies provisioning under the calling owner.
*/
func TestService_CreateSubUser(t *testing.T) {
	service, repo, _ := newTestService(t)

	created, err := service.CreateSubUser(context.Background(), owner, CreateSubUserInput{
		Email:    "helper@example.com",
		Password: "helper-password",
	})
	require.NoError(t, err)

	assert.Equal(t, "owner-1", created.OwnerID)
	assert.NotEqual(t, "helper-password", created.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("helper-password", created.PasswordHash))

	stored := repo.subUsers[created.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "helper@example.com", stored.Email)
}

/*
TestService_CreateSubUser_NotOwner asserts the explicit 403 for sub-users
attempting account management.
*/
func TestService_CreateSubUser_NotOwner(t *testing.T) {
	service, _, _ := newTestService(t)

	subUserCaller := Caller{UserID: "sub-1", IsOwner: false}
	_, err := service.CreateSubUser(context.Background(), subUserCaller, CreateSubUserInput{
		Email:    "helper@example.com",
		Password: "helper-password",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)
	assert.Equal(t, 403, ae.HTTPStatus)
}

/*
TestService_CreateSubUser_DuplicateEmail expects a field-level validation failure.
*/
func TestService_CreateSubUser_DuplicateEmail(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.CreateSubUser(context.Background(), owner, CreateSubUserInput{
		Email:    "helper@example.com",
		Password: "helper-password",
	})
	require.NoError(t, err)

	_, err = service.CreateSubUser(context.Background(), owner, CreateSubUserInput{
		Email:    "helper@example.com",
		Password: "another-password",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, FieldEmail, ae.Details[0].Field)
}

/*
TestService_DeleteSubUser verifies the owner-scoped delete and the queued
task cascade.
*/
func TestService_DeleteSubUser(t *testing.T) {
	service, repo, cascader := newTestService(t)

	created, err := service.CreateSubUser(context.Background(), owner, CreateSubUserInput{
		Email:    "helper@example.com",
		Password: "helper-password",
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteSubUser(context.Background(), owner, created.ID))
	assert.Empty(t, repo.subUsers)

	// The cascade runs in the background worker
	deadline := time.Now().Add(2 * time.Second)
	for cascader.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, 1, cascader.count())
	assert.Equal(t, created.ID, cascader.deletedFor[0])
}

/*
TestService_DeleteSubUser_Masking asserts that someone else's sub-user and a
nonexistent one are the same 404, and that no cascade is queued.
*/
func TestService_DeleteSubUser_Masking(t *testing.T) {
	service, _, cascader := newTestService(t)

	created, err := service.CreateSubUser(context.Background(), owner, CreateSubUserInput{
		Email:    "helper@example.com",
		Password: "helper-password",
	})
	require.NoError(t, err)

	otherOwner := Caller{UserID: "owner-2", IsOwner: true}

	existsErr := service.DeleteSubUser(context.Background(), otherOwner, created.ID)
	missingErr := service.DeleteSubUser(context.Background(), otherOwner, "0190a3a2-6f8b-7cc3-9b7d-2f0e8f1c4a55")

	for _, err := range []error{existsErr, missingErr} {
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "NOT_FOUND", ae.Code)
		assert.Equal(t, 404, ae.HTTPStatus)
	}

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, cascader.count())
}

/*
TestService_ListSubUsers_NotOwner blocks sub-users from listing accounts.
*/
func TestService_ListSubUsers_NotOwner(t *testing.T) {
	service, _, _ := newTestService(t)

	_, _, err := service.ListSubUsers(context.Background(), Caller{UserID: "sub-1", IsOwner: false}, 20, 0)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}
