package httpapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type enrollRequest struct {
	DiaryID        int64   `json:"diary_id" validate:"required,min=1"`
	SelectedDayIDs []int64 `json:"selected_day_ids"`
}

func (a *API) enroll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := identityFrom(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	var req enrollRequest
	if err := a.decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}

	enrollment, err := a.enrollment.Enroll(r.Context(), caller.UserID, req.DiaryID, req.SelectedDayIDs, caller.Gender)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, enrollment)
}

func (a *API) unenroll(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if _, err := identityFrom(r); err != nil {
		a.writeError(w, err)
		return
	}

	id, err := pathID(params, "id")
	if err != nil {
		a.writeError(w, err)
		return
	}

	if err := a.enrollment.Unenroll(r.Context(), id); err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusNoContent, nil)
}

type changeDaysRequest struct {
	SelectedDayIDs []int64 `json:"selected_day_ids" validate:"required,min=1"`
}

func (a *API) changeSelectedDays(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if _, err := identityFrom(r); err != nil {
		a.writeError(w, err)
		return
	}

	id, err := pathID(params, "id")
	if err != nil {
		a.writeError(w, err)
		return
	}

	var req changeDaysRequest
	if err := a.decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}

	enrollment, err := a.enrollment.ChangeSelectedDays(r.Context(), id, req.SelectedDayIDs)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, enrollment)
}

func (a *API) listEnrollments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := identityFrom(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	enrollments, err := a.enrollment.ListUserEnrollments(r.Context(), caller.UserID)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, enrollments)
}
