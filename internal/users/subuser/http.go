// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

package subuser

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/khawarh/taskpro/internal/platform/request"
	"github.com/khawarh/taskpro/internal/platform/respond"
	"github.com/khawarh/taskpro/internal/platform/validate"
	"github.com/khawarh/taskpro/pkg/pagination"
)

// Handler implements the sub-user management HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the management endpoints on the given router.
//
// The router is expected to already sit behind the access-token gate; the
// owner-only rule is enforced in the service, not here.
//
// # Endpoints
//   - POST   /create-sub-user    : Provisions a new sub-user.
//   - GET    /sub-users          : Lists the caller's sub-users.
//   - DELETE /sub-users/{userID} : Removes a sub-user and queues task cleanup.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/create-sub-user", handler.createSubUser)
	router.Get("/sub-users", handler.listSubUsers)
	router.Delete("/sub-users/{userID}", handler.deleteSubUser)
}

type createSubUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *Handler) createSubUser(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createSubUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	subUser, err := handler.service.CreateSubUser(request.Context(), callerFromClaims(claims.UserID, claims.IsOwner), CreateSubUserInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, subUser)
}

func (handler *Handler) listSubUsers(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	subUsers, total, err := handler.service.ListSubUsers(
		request.Context(),
		callerFromClaims(claims.UserID, claims.IsOwner),
		paginationParams.Limit,
		paginationParams.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, subUsers, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) deleteSubUser(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	subUserID := requestutil.ID(request, "userID")

	validator := &validate.Validator{}
	validator.UUID("user_id", subUserID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteSubUser(request.Context(), callerFromClaims(claims.UserID, claims.IsOwner), subUserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// callerFromClaims converts verified JWT claims into the service-level caller.
func callerFromClaims(userID string, isOwner bool) Caller {
	return Caller{UserID: userID, IsOwner: isOwner}
}
