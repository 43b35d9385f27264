package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

func goalFromBody(r *http.Request, userID int64) (*models.Goal, error) {
	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	return &models.Goal{
		UserID:       userID,
		TargetAmount: req.TargetAmount,
		TargetMonth:  req.TargetMonth,
		TargetYear:   req.TargetYear,
	}, nil
}

func (h *Handlers) listGoals(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	goalsList, err := h.goals.GetAll(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	list := make([]goalResponse, 0, len(goalsList))
	for _, g := range goalsList {
		list = append(list, toGoalResponse(g))
	}
	writeData(w, http.StatusOK, list)
}

func (h *Handlers) getGoalByMonth(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	month, okM := pathInt(r, "month")
	year, okY := pathInt(r, "year")
	if !okM || !okY {
		writeError(w, http.StatusBadRequest, "month and year must be numbers")
		return
	}

	g, err := h.goals.GetByMonthYear(r.Context(), userID, month, year)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, toGoalResponse(*g))
}

// createGoal answers a duplicate month with 409 and, when possible, the
// existing record's id in the data field. Offline clients use that id to
// retry the push as an update.
func (h *Handlers) createGoal(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	g, err := goalFromBody(r, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, err := h.goals.Create(r.Context(), g)
	if errors.Is(err, common.ErrAlreadyExists) {
		env := envelope{Success: false, Message: "goal already exists for this month"}
		if existing, lookupErr := h.goals.GetByMonthYear(r.Context(), userID, g.TargetMonth, g.TargetYear); lookupErr == nil {
			env.Data = idResponse{ID: existing.ID}
		}
		writeJSON(w, http.StatusConflict, env)
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handlers) updateGoal(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, ok := pathInt64(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id must be a number")
		return
	}

	g, err := goalFromBody(r, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	g.ID = id

	if err := h.goals.Update(r.Context(), g); err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "updated")
}

func (h *Handlers) deleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, ok := pathInt64(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id must be a number")
		return
	}

	if err := h.goals.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "deleted")
}
