package httpapi

import (
	"net/http"
	"strconv"
	"time"
)

func queryInt(r *http.Request, name, fallback string) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		v = fallback
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

// monthlyReport defaults to the current month when no query parameters are
// given, matching the dashboard's initial view.
func (h *Handlers) monthlyReport(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	now := time.Now()
	month, okM := queryInt(r, "month", strconv.Itoa(int(now.Month())))
	year, okY := queryInt(r, "year", strconv.Itoa(now.Year()))
	if !okM || !okY {
		writeError(w, http.StatusBadRequest, "month and year must be numbers")
		return
	}

	report, err := h.reports.Monthly(r.Context(), userID, month, year)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, report)
}

func (h *Handlers) yearlyReport(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	year, ok := queryInt(r, "year", strconv.Itoa(time.Now().Year()))
	if !ok {
		writeError(w, http.StatusBadRequest, "year must be a number")
		return
	}

	report, err := h.reports.Yearly(r.Context(), userID, year)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, report)
}
