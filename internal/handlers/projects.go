package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"dconn.dev/portfolio-api/internal/metrics"
	"dconn.dev/portfolio-api/internal/middleware"
	"dconn.dev/portfolio-api/internal/models"
	"dconn.dev/portfolio-api/internal/services"
)

// Response messages
const (
	MessageInvalidPostPassword = "Acesso negado. Senha de post inválida."
	MessageProjectNotFound     = "Projeto não encontrado."
	MessageProjectCreated      = "Projeto adicionado com sucesso!"
	MessageInvalidRequest      = "Requisição inválida."
	messageProjectUpdated      = "Projeto \"%s\" (ID: %s) atualizado com sucesso!"
	messageProjectDeleted      = "Projeto \"%s\" (ID: %s) deletado com sucesso."
)

// ProjectsResponse is the body of the list endpoint
type ProjectsResponse struct {
	Projects []models.Project `json:"projects"`
}

// CreateResponse is the body returned after creating a project
type CreateResponse struct {
	Message string         `json:"message"`
	Project models.Project `json:"project"`
}

// MessageResponse carries a single human-readable message
type MessageResponse struct {
	Message string `json:"message"`
}

// ProjectHandler handles project-related endpoints
type ProjectHandler struct {
	projectService *services.ProjectService
	postPassword   string
	logger         *zap.Logger
	metrics        *metrics.Metrics
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(ps *services.ProjectService, postPassword string, logger *zap.Logger, m *metrics.Metrics) *ProjectHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectHandler{projectService: ps, postPassword: postPassword, logger: logger, metrics: m}
}

// ListProjects handles POST /api
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.GetAll(r.Context())
	if err != nil {
		h.fail(w, r, "failed to list projects", err)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	respondJSON(w, http.StatusOK, ProjectsResponse{Projects: projects})
}

// CreateProject handles POST /api-post
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		h.fail(w, r, "failed to create project", err)
		return
	}

	if !middleware.SecretMatches(body.secret("postPassword"), h.postPassword) {
		h.metrics.AuthFailure("post_password")
		h.logger.Warn("rejected project creation with invalid post password",
			zap.String("request_id", middleware.GetRequestID(r.Context())))
		respondError(w, http.StatusForbidden, MessageInvalidPostPassword)
		return
	}

	project, err := body.project()
	if err != nil {
		h.fail(w, r, "failed to create project", err)
		return
	}

	created, err := h.projectService.Create(r.Context(), project)
	if err != nil {
		h.fail(w, r, "failed to create project", err)
		return
	}
	respondJSON(w, http.StatusCreated, CreateResponse{Message: MessageProjectCreated, Project: created})
}

// UpdateProject handles PUT /api-edit
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		h.fail(w, r, "failed to edit project", err)
		return
	}
	changes, err := body.project()
	if err != nil {
		h.fail(w, r, "failed to edit project", err)
		return
	}

	if _, err := h.projectService.Update(r.Context(), changes); err != nil {
		h.fail(w, r, "failed to edit project", err)
		return
	}
	id, _ := changes.ID()
	respondJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf(messageProjectUpdated, changes.DisplayTitle(), id),
	})
}

// DeleteProject handles DELETE /api-delete
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		h.fail(w, r, "failed to delete project", err)
		return
	}
	id, err := body.id()
	if err != nil {
		h.fail(w, r, "failed to delete project", err)
		return
	}

	deleted, err := h.projectService.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, "failed to delete project", err)
		return
	}
	respondJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf(messageProjectDeleted, deleted.DisplayTitle(), id),
	})
}

// fail maps an error to its response; anything unexpected is logged and masked as 500
func (h *ProjectHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		respondError(w, http.StatusNotFound, MessageProjectNotFound)
	case errors.Is(err, errInvalidRequest):
		h.logger.Debug(msg, zap.Error(err))
		respondError(w, http.StatusBadRequest, MessageInvalidRequest)
	default:
		h.logger.Error(msg,
			zap.Error(err),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
		)
		respondError(w, http.StatusInternalServerError, middleware.MessageInternalError)
	}
}
