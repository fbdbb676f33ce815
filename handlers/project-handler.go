package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Kamal-Bhagchandani/jira-lite/apperrors"
	"github.com/Kamal-Bhagchandani/jira-lite/middleware"
	"github.com/Kamal-Bhagchandani/jira-lite/models"
	"github.com/Kamal-Bhagchandani/jira-lite/services"
)

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.BadRequest("invalid request body"))
		return
	}

	project, err := h.service.CreateProject(r.Context(), caller, req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) GetMyProjects(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	projects, err := h.service.GetMyProjects(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	projectID, err := models.ProjectIDFromHex(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, r, apperrors.BadRequest("invalid project id"))
		return
	}

	project, err := h.service.GetProject(r.Context(), caller, projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) AddMembers(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	projectID, err := models.ProjectIDFromHex(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, r, apperrors.BadRequest("invalid project id"))
		return
	}

	var req struct {
		Emails []string `json:"emails"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.BadRequest("invalid request body"))
		return
	}

	project, added, err := h.service.AddMembers(r.Context(), caller, projectID, req.Emails)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"project": project,
		"added":   added,
	})
}

// AddMember is the single-email variant; it refuses an already related user
// instead of skipping it.
func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	projectID, err := models.ProjectIDFromHex(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, r, apperrors.BadRequest("invalid project id"))
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.BadRequest("invalid request body"))
		return
	}

	project, err := h.service.AddMember(r.Context(), caller, projectID, req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}
