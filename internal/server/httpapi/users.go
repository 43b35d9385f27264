package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/common"
)

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrValidation)
	}
	return nil
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	var dob time.Time
	if req.DateOfBirth != "" {
		var err error
		if dob, err = time.Parse(dateLayout, req.DateOfBirth); err != nil {
			writeError(w, http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
			return
		}
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, dob, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusCreated, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, loginResponse{
		User:      userResponse{ID: user.ID, Name: user.Name, Email: user.Email},
		Token:     token,
		ExpiresIn: formatExpiresIn(h.tokenTTL),
	})
}

func (h *Handlers) profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}
