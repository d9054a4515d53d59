package main

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"reviewdesk/internal/store"

	"github.com/go-chi/chi/v5"
)

var hhmmRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type businessHourPayload struct {
	Weekday  int    `json:"weekday" validate:"min=0,max=6"`
	OpensAt  string `json:"opens_at" validate:"required"`
	ClosesAt string `json:"closes_at" validate:"required"`
}

type replaceHoursPayload struct {
	Hours []businessHourPayload `json:"hours" validate:"required,dive"`
}

// listHoursHandler godoc
//
//	@Summary		Lists the opening hours of a business
//	@Description	Returns the weekly schedule plus whether the business is open right now.
//	@Tags			businesses
//	@Produce		json
//	@Param			businessID	path	int	true	"Business ID"
//	@Success		200	{object}	map[string]any
//	@Router			/businesses/{businessID}/hours [get]
func (app *application) listHoursHandler(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid business ID"))
		return
	}

	hours, err := app.store.Hours.ListByBusiness(r.Context(), businessID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]any{
		"hours":    hours,
		"open_now": store.OpenNow(hours, time.Now()),
	}
	app.jsonResponse(w, http.StatusOK, response)
}

// replaceHoursHandler godoc
//
//	@Summary		Replaces the opening hours of a business (business owner only)
//	@Description	The full weekly schedule is swapped in one transaction; days left out become closed days.
//	@Tags			businesses
//	@Accept			json
//	@Produce		json
//	@Param			businessID	path		int					true	"Business ID"
//	@Param			payload		body		replaceHoursPayload	true	"Weekly schedule"
//	@Success		200			{object}	[]store.BusinessHour
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/businesses/{businessID}/hours [put]
func (app *application) replaceHoursHandler(w http.ResponseWriter, r *http.Request) {
	business := app.requireBusinessOwner(w, r)
	if business == nil {
		return
	}

	var payload replaceHoursPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	hours := make([]store.BusinessHour, 0, len(payload.Hours))
	for _, h := range payload.Hours {
		if !hhmmRe.MatchString(h.OpensAt) || !hhmmRe.MatchString(h.ClosesAt) {
			app.badRequestResponse(w, r, errors.New("hours must use the HH:MM format"))
			return
		}
		hours = append(hours, store.BusinessHour{
			BusinessID: business.ID,
			Weekday:    h.Weekday,
			OpensAt:    h.OpensAt,
			ClosesAt:   h.ClosesAt,
		})
	}

	if err := app.store.Hours.Replace(r.Context(), business.ID, hours); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, hours)
}
