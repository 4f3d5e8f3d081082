package handlers

import (
	"net/http"
	"strings"

	"github.com/ramonehamilton/hooplog/internal/api/response"
	"github.com/ramonehamilton/hooplog/internal/gui"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// GoalHandler handles goal requests.
type GoalHandler struct {
	base
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(services *gui.Services) *GoalHandler {
	return &GoalHandler{base: base{services: services}}
}

func (h *GoalHandler) facade(r *http.Request) *gui.GoalFacade {
	return gui.NewGoalFacade(h.scoped(r))
}

// StatusRequest changes a goal's status.
type StatusRequest struct {
	Status models.GoalStatus `json:"status"`
}

// ProgressRequest records a goal's progress.
type ProgressRequest struct {
	Progress float64 `json:"progress"`
}

// GetGoals returns the caller's goals, newest first. The optional status
// query filters them.
func (h *GoalHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	status := models.GoalStatus(strings.ToUpper(r.URL.Query().Get("status")))
	if status != "" && !status.Valid() {
		response.FieldError(w, gui.InvalidInputMessage, "status")
		return
	}

	goals, err := h.facade(r).GetGoals(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}
	if goals == nil {
		goals = []*models.Goal{}
	}
	response.Success(w, goals)
}

// GetGoal returns one goal.
func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "goalID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	goal, err := h.facade(r).GetGoal(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, goal)
}

// CreateGoal stores a new goal with a generated description.
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var form gui.GoalForm
	if err := decode(r, &form); err != nil {
		response.BadRequest(w, err)
		return
	}

	facade := h.facade(r)
	state := facade.Create(r.Context(), form)
	writeState(w, state, true, func() (interface{}, error) {
		return facade.GetGoal(r.Context(), state.ID)
	})
}

// UpdateGoal replaces a goal's target and regenerates its description.
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "goalID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	var form gui.GoalForm
	if err := decode(r, &form); err != nil {
		response.BadRequest(w, err)
		return
	}

	facade := h.facade(r)
	state := facade.Edit(r.Context(), id, form)
	writeState(w, state, false, func() (interface{}, error) {
		return facade.GetGoal(r.Context(), id)
	})
}

// UpdateStatus changes a goal's status.
func (h *GoalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "goalID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	var req StatusRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	facade := h.facade(r)
	if err := facade.SetStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	goal, err := facade.GetGoal(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, goal)
}

// UpdateProgress records a goal's progress.
func (h *GoalHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "goalID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	var req ProgressRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	facade := h.facade(r)
	if err := facade.SetProgress(r.Context(), id, req.Progress); err != nil {
		writeError(w, err)
		return
	}
	goal, err := facade.GetGoal(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, goal)
}

// DeleteGoal removes a goal.
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "goalID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	if err := h.facade(r).Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}
