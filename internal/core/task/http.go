package task

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/khawarh/taskpro/internal/platform/request"
	"github.com/khawarh/taskpro/internal/platform/respond"
	"github.com/khawarh/taskpro/internal/platform/validate"
	"github.com/khawarh/taskpro/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterListRoutes mounts list-scoped task endpoints. Expected to be
// mounted under /lists/{listID}/tasks behind the access gate.
func (handler *Handler) RegisterListRoutes(router chi.Router) {
	router.Get("/", handler.listInList)
	router.Post("/", handler.createInList)
	router.Get("/{taskID}", handler.getInList)
	router.Patch("/{taskID}", handler.updateInList)
	router.Delete("/{taskID}", handler.deleteInList)
}

// RegisterSubUserRoutes mounts sub-user-scoped task endpoints. Expected to be
// mounted under /users/{userID}/tasks behind the access gate.
func (handler *Handler) RegisterSubUserRoutes(router chi.Router) {
	router.Get("/", handler.listForUser)
	router.Post("/", handler.createForUser)
	router.Get("/{taskID}", handler.getForUser)
	router.Patch("/{taskID}", handler.updateForUser)
	router.Delete("/{taskID}", handler.deleteForUser)
}

type taskPayload struct {
	Title string `json:"title"`
}

// # List-Scoped Handlers

func (handler *Handler) listInList(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	tasks, total, err := handler.service.ListTasksInList(
		request.Context(),
		callerID,
		requestutil.ID(request, "listID"),
		paginationParams.Limit,
		paginationParams.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, tasks, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) createInList(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input taskPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	created, err := handler.service.CreateTaskInList(request.Context(), callerID, requestutil.ID(request, "listID"), input.Title)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) getInList(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.service.GetTaskInList(
		request.Context(),
		callerID,
		requestutil.ID(request, "listID"),
		requestutil.ID(request, "taskID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

func (handler *Handler) updateInList(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input taskPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.service.UpdateTaskInList(
		request.Context(),
		callerID,
		requestutil.ID(request, "listID"),
		requestutil.ID(request, "taskID"),
		input.Title,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

func (handler *Handler) deleteInList(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.DeleteTaskInList(
		request.Context(),
		callerID,
		requestutil.ID(request, "listID"),
		requestutil.ID(request, "taskID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Sub-User-Scoped Handlers

func (handler *Handler) listForUser(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	tasks, total, err := handler.service.ListTasksForUser(
		request.Context(),
		callerID,
		requestutil.ID(request, "userID"),
		paginationParams.Limit,
		paginationParams.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, tasks, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) createForUser(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input taskPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	created, err := handler.service.CreateTaskForUser(request.Context(), callerID, requestutil.ID(request, "userID"), input.Title)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) getForUser(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.service.GetTaskForUser(
		request.Context(),
		callerID,
		requestutil.ID(request, "userID"),
		requestutil.ID(request, "taskID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

func (handler *Handler) updateForUser(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input taskPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.service.UpdateTaskForUser(
		request.Context(),
		callerID,
		requestutil.ID(request, "userID"),
		requestutil.ID(request, "taskID"),
		input.Title,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

func (handler *Handler) deleteForUser(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.DeleteTaskForUser(
		request.Context(),
		callerID,
		requestutil.ID(request, "userID"),
		requestutil.ID(request, "taskID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
