// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

// getTasks serves GET /api/tasks. Without an id query parameter it returns
// the full task set; with one it returns the single matching task.
func (h *Handler) getTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ctx := r.Context()

	if id := r.URL.Query().Get("id"); id != "" {
		task, err := h.services.TaskService.Get(ctx, id)
		if err != nil {
			log.Err(err).Str("func", "Handler.getTasks").Str("id", id).Msg("failed to get task")
			writeError(w, err)
			return
		}
		_, _ = utils.WriteJSON(w, task, http.StatusOK)
		return
	}

	tasks, err := h.services.TaskService.List(ctx)
	if err != nil {
		log.Err(err).Str("func", "Handler.getTasks").Msg("failed to list tasks")
		writeError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, tasks, http.StatusOK)
}

// createTask serves POST /api/tasks.
func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		http.Error(w, "invalid task payload", http.StatusBadRequest)
		return
	}

	created, err := h.services.TaskService.Create(r.Context(), task)
	if err != nil {
		log.Err(err).Str("func", "Handler.createTask").Str("id", task.ID).Msg("failed to create task")
		writeError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, created, http.StatusCreated)
}

// patchTask serves PATCH /api/tasks. Only the fields present in the payload
// are applied.
func (h *Handler) patchTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var patch models.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid patch payload", http.StatusBadRequest)
		return
	}

	updated, err := h.services.TaskService.Update(r.Context(), patch.ID, patch)
	if err != nil {
		log.Err(err).Str("func", "Handler.patchTask").Str("id", patch.ID).Msg("failed to update task")
		writeError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, updated, http.StatusOK)
}

// putTask serves PUT /api/tasks. The payload replaces the stored task state
// wholesale; unknown ids are a 404, never an implicit create.
func (h *Handler) putTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		http.Error(w, "invalid task payload", http.StatusBadRequest)
		return
	}

	replaced, err := h.services.TaskService.Replace(r.Context(), task)
	if err != nil {
		log.Err(err).Str("func", "Handler.putTask").Str("id", task.ID).Msg("failed to replace task")
		writeError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, replaced, http.StatusOK)
}

// deleteTask serves DELETE /api/tasks?id=.
func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	id := r.URL.Query().Get("id")
	if err := h.services.TaskService.Delete(r.Context(), id); err != nil {
		log.Err(err).Str("func", "Handler.deleteTask").Str("id", id).Msg("failed to delete task")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func writeError(w http.ResponseWriter, err error) {
	_, _ = utils.WriteJSON(w, models.ErrorResponse{Error: err.Error()}, statusFromError(err))
}
