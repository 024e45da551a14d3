package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fitadmin/diary_service/internal/apperror"
	"github.com/fitadmin/diary_service/internal/model"
	"github.com/fitadmin/diary_service/internal/service"
	"github.com/julienschmidt/httprouter"
)

const dateLayout = "2006-01-02"

type dayRequest struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	TimeStart string `json:"time_start" validate:"required,datetime=15:04"`
	TimeEnd   string `json:"time_end" validate:"required,datetime=15:04"`
}

type createDiaryRequest struct {
	Name           string       `json:"name" validate:"required"`
	TypeSchedule   string       `json:"type_schedule" validate:"required,oneof=weekly interval"`
	DateFrom       string       `json:"date_from" validate:"required,datetime=2006-01-02"`
	DateUntil      string       `json:"date_until" validate:"required,datetime=2006-01-02"`
	RepeatFor      *int         `json:"repeat_for" validate:"omitempty,min=1"`
	OfferDays      []bool       `json:"offer_days" validate:"required,len=7"`
	TermDuration   int          `json:"term_duration" validate:"required,min=1"`
	AmountOfPeople int          `json:"amount_of_people" validate:"required,min=1"`
	GenreExclusive string       `json:"genre_exclusive" validate:"omitempty,oneof=none male female"`
	WorksHolidays  bool         `json:"works_holidays"`
	Observations   string       `json:"observations"`
	FacilityID     int64        `json:"facility_id" validate:"required,min=1"`
	Days           []dayRequest `json:"days" validate:"omitempty,dive"`
}

func (a *API) createDiary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, err := identityFrom(r); err != nil {
		a.writeError(w, err)
		return
	}

	var req createDiaryRequest
	if err := a.decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}

	dateFrom, _ := time.Parse(dateLayout, req.DateFrom)
	dateUntil, _ := time.Parse(dateLayout, req.DateUntil)

	in := service.CreateDiaryInput{
		Name:           req.Name,
		TypeSchedule:   model.ScheduleType(req.TypeSchedule),
		DateFrom:       dateFrom,
		DateUntil:      dateUntil,
		RepeatFor:      req.RepeatFor,
		OfferDays:      req.OfferDays,
		TermDuration:   req.TermDuration,
		AmountOfPeople: req.AmountOfPeople,
		GenreExclusive: model.GenreExclusive(req.GenreExclusive),
		WorksHolidays:  req.WorksHolidays,
		Observations:   req.Observations,
		FacilityID:     req.FacilityID,
	}
	for _, day := range req.Days {
		in.Days = append(in.Days, service.DaySpec{
			DayOfWeek: day.DayOfWeek,
			TimeStart: day.TimeStart,
			TimeEnd:   day.TimeEnd,
		})
	}

	diary, err := a.schedule.CreateDiary(r.Context(), in)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, diary)
}

type updateDiaryRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1"`
	TypeSchedule   *string `json:"type_schedule" validate:"omitempty,oneof=weekly interval"`
	DateFrom       *string `json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateUntil      *string `json:"date_until" validate:"omitempty,datetime=2006-01-02"`
	RepeatFor      *int    `json:"repeat_for" validate:"omitempty,min=1"`
	OfferDays      []bool  `json:"offer_days" validate:"omitempty,len=7"`
	TermDuration   *int    `json:"term_duration" validate:"omitempty,min=1"`
	AmountOfPeople *int    `json:"amount_of_people" validate:"omitempty,min=1"`
	GenreExclusive *string `json:"genre_exclusive" validate:"omitempty,oneof=none male female"`
	WorksHolidays  *bool   `json:"works_holidays"`
	Observations   *string `json:"observations"`
}

func (a *API) updateDiary(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if _, err := identityFrom(r); err != nil {
		a.writeError(w, err)
		return
	}

	id, err := pathID(params, "id")
	if err != nil {
		a.writeError(w, err)
		return
	}

	var req updateDiaryRequest
	if err := a.decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}

	patch := service.DiaryPatch{
		Name:           req.Name,
		RepeatFor:      req.RepeatFor,
		OfferDays:      req.OfferDays,
		TermDuration:   req.TermDuration,
		AmountOfPeople: req.AmountOfPeople,
		WorksHolidays:  req.WorksHolidays,
		Observations:   req.Observations,
	}
	if req.TypeSchedule != nil {
		ts := model.ScheduleType(*req.TypeSchedule)
		patch.TypeSchedule = &ts
	}
	if req.DateFrom != nil {
		from, _ := time.Parse(dateLayout, *req.DateFrom)
		patch.DateFrom = &from
	}
	if req.DateUntil != nil {
		until, _ := time.Parse(dateLayout, *req.DateUntil)
		patch.DateUntil = &until
	}
	if req.GenreExclusive != nil {
		ge := model.GenreExclusive(*req.GenreExclusive)
		patch.GenreExclusive = &ge
	}

	diary, err := a.schedule.UpdateDiary(r.Context(), id, patch)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, diary)
}

func (a *API) toggleDiary(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if _, err := identityFrom(r); err != nil {
		a.writeError(w, err)
		return
	}

	id, err := pathID(params, "id")
	if err != nil {
		a.writeError(w, err)
		return
	}

	active, err := a.schedule.ToggleActive(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]bool{"is_active": active})
}

func (a *API) listDiaries(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if _, err := identityFrom(r); err != nil {
		a.writeError(w, err)
		return
	}

	facilityID, err := pathID(params, "facilityID")
	if err != nil {
		a.writeError(w, err)
		return
	}

	filter := model.DiaryFilter{
		OnlyActive:   r.URL.Query().Get("active") == "true",
		TypeSchedule: model.ScheduleType(r.URL.Query().Get("type")),
	}

	diaries, err := a.schedule.ListDiaries(r.Context(), facilityID, filter)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, diaries)
}

// pathID parses a positive integer path parameter.
func pathID(params httprouter.Params, name string) (int64, error) {
	id, err := strconv.ParseInt(params.ByName(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation(name, "must be a positive integer")
	}
	return id, nil
}
