package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"go-rest-auth-starter/internal/domain"
	"go-rest-auth-starter/internal/http/middleware"
	"go-rest-auth-starter/internal/http/response"
	"go-rest-auth-starter/internal/observability"
	"go-rest-auth-starter/internal/repository"
	"go-rest-auth-starter/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type userListPayload struct {
	Results      []domain.User `json:"results"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
	TotalPages   int           `json:"totalPages"`
	TotalResults int64         `json:"totalResults"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())
	if err := service.Authorize(actor, service.ActionCreateUser, uuid.Nil); err != nil {
		response.FromError(w, r, err)
		return
	}

	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleUser
	}
	if err := validateFields(
		requireField("name", req.Name),
		validEmail(req.Email),
		validPassword(req.Password),
	); err != nil {
		response.FromError(w, r, err)
		return
	}

	user, err := h.users.Create(r.Context(), req.Name, strings.ToLower(req.Email), req.Password, req.Role)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	observability.Audit(r, "users.create", "user_id", user.ID, "actor_id", actor.ID)
	response.JSON(w, r, http.StatusCreated, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())
	if err := service.Authorize(actor, service.ActionListUsers, uuid.Nil); err != nil {
		response.FromError(w, r, err)
		return
	}

	q := r.URL.Query()
	query := repository.UserListQuery{
		PageRequest: repository.PageRequest{
			Page:     queryInt(q.Get("page"), repository.DefaultPage),
			PageSize: queryInt(q.Get("limit"), repository.DefaultPageSize),
		},
		Name: q.Get("name"),
		Role: q.Get("role"),
	}
	query.SortBy, query.SortOrder = parseSortBy(q.Get("sortBy"))

	result, err := h.users.List(r.Context(), query)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	if result.Items == nil {
		result.Items = []domain.User{}
	}
	response.JSON(w, r, http.StatusOK, userListPayload{
		Results:      result.Items,
		Page:         result.Page,
		Limit:        result.PageSize,
		TotalPages:   result.TotalPages,
		TotalResults: result.Total,
	})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	actor, _ := middleware.UserFromContext(r.Context())
	if err := service.Authorize(actor, service.ActionViewUser, id); err != nil {
		response.FromError(w, r, err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	actor, _ := middleware.UserFromContext(r.Context())
	if err := service.Authorize(actor, service.ActionUpdateUser, id); err != nil {
		response.FromError(w, r, err)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}
	var problems []string
	if req.Email != nil {
		problems = append(problems, validEmail(*req.Email))
		lower := strings.ToLower(*req.Email)
		req.Email = &lower
	}
	if req.Password != nil {
		problems = append(problems, validPassword(*req.Password))
	}
	if req.Name != nil {
		problems = append(problems, requireField("name", *req.Name))
	}
	if err := validateFields(problems...); err != nil {
		response.FromError(w, r, err)
		return
	}

	user, err := h.users.Update(r.Context(), id, service.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	observability.Audit(r, "users.update", "user_id", user.ID, "actor_id", actor.ID)
	response.JSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUserID(r)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	actor, _ := middleware.UserFromContext(r.Context())
	if err := service.Authorize(actor, service.ActionDeleteUser, id); err != nil {
		response.FromError(w, r, err)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		response.FromError(w, r, err)
		return
	}
	observability.Audit(r, "users.delete", "user_id", id, "actor_id", actor.ID)
	response.NoContent(w)
}

func pathUserID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, service.NewValidation("\"id\" must be a valid UUID")
	}
	return id, nil
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// parseSortBy splits "field:desc" style sort parameters. A bare field name
// sorts ascending.
func parseSortBy(raw string) (field, order string) {
	if raw == "" {
		return "", ""
	}
	parts := strings.SplitN(raw, ":", 2)
	field = parts[0]
	order = "asc"
	if len(parts) == 2 && strings.EqualFold(parts[1], "desc") {
		order = "desc"
	}
	return field, order
}
