package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fitadmin/diary_service/internal/apperror"
	"github.com/julienschmidt/httprouter"
)

type checkInRequest struct {
	FacilityID     int64  `json:"facility_id" validate:"required,min=1"`
	DayAvailableID int64  `json:"day_available_id" validate:"required,min=1"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (a *API) checkIn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := identityFrom(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	var req checkInRequest
	if err := a.decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	date, _ := time.Parse(dateLayout, req.Date)

	record, err := a.attendance.CheckIn(r.Context(), caller.UserID, req.FacilityID, req.DayAvailableID, date)
	if err != nil {
		a.writeError(w, err)
		return
	}

	// A repeated check-in returns the existing record, so 200 rather
	// than 201.
	a.writeJSON(w, http.StatusOK, record)
}

func (a *API) todayAttendance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := identityFrom(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	facilityID, err := queryID(r, "facility_id")
	if err != nil {
		a.writeError(w, err)
		return
	}
	slotIDs, err := queryIDList(r, "slots")
	if err != nil {
		a.writeError(w, err)
		return
	}

	records, err := a.attendance.GetTodayAttendance(r.Context(), caller.UserID, facilityID, slotIDs)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, records)
}

func (a *API) calendarWeek(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := identityFrom(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	facilityID, err := queryID(r, "facility_id")
	if err != nil {
		a.writeError(w, err)
		return
	}
	start, err := time.Parse(dateLayout, r.URL.Query().Get("start"))
	if err != nil {
		a.writeError(w, apperror.Validation("start", "must be a YYYY-MM-DD date"))
		return
	}

	events, err := a.calendar.ProjectWeek(r.Context(), caller.UserID, facilityID, start)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, events)
}

func queryID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation(name, "must be a positive integer")
	}
	return id, nil
}

// queryIDList parses a comma-separated id list query parameter.
func queryIDList(r *http.Request, name string) ([]int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, apperror.Validation(name, "must be a comma-separated list of positive integers")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
