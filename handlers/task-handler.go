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

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ProjectID   string `json:"projectId"`
		AssignedTo  string `json:"assignedTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.BadRequest("invalid request body"))
		return
	}

	projectID, err := models.ProjectIDFromHex(req.ProjectID)
	if err != nil {
		writeError(w, r, apperrors.BadRequest("invalid project id"))
		return
	}

	var assignedTo *models.UserID
	if req.AssignedTo != "" {
		id, err := models.UserIDFromHex(req.AssignedTo)
		if err != nil {
			writeError(w, r, apperrors.BadRequest("invalid assignee id"))
			return
		}
		assignedTo = &id
	}

	task, err := h.service.CreateTask(r.Context(), caller, projectID, req.Title, req.Description, assignedTo)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := models.TaskIDFromHex(mux.Vars(r)["taskId"])
	if err != nil {
		writeError(w, r, apperrors.BadRequest("invalid task id"))
		return
	}

	var req struct {
		Status models.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.BadRequest("invalid request body"))
		return
	}

	task, err := h.service.UpdateStatus(r.Context(), caller, taskID, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := models.TaskIDFromHex(mux.Vars(r)["taskId"])
	if err != nil {
		writeError(w, r, apperrors.BadRequest("invalid task id"))
		return
	}

	var req struct {
		AssignedTo string `json:"assignedTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.BadRequest("invalid request body"))
		return
	}
	if req.AssignedTo == "" {
		writeError(w, r, apperrors.BadRequest("assignee is required"))
		return
	}

	newAssignee, err := models.UserIDFromHex(req.AssignedTo)
	if err != nil {
		writeError(w, r, apperrors.BadRequest("invalid assignee id"))
		return
	}

	task, err := h.service.Reassign(r.Context(), caller, taskID, newAssignee)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := models.TaskIDFromHex(mux.Vars(r)["taskId"])
	if err != nil {
		writeError(w, r, apperrors.BadRequest("invalid task id"))
		return
	}

	task, err := h.service.GetTask(r.Context(), caller, taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) GetTasksByProject(w http.ResponseWriter, r *http.Request) {
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

	tasks, err := h.service.GetTasksByProject(r.Context(), caller, projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}
