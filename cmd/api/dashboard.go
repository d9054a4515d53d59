package main

import (
	"net/http"
)

// dashboardOverviewHandler godoc
//
//	@Summary		Platform-wide counters for the admin dashboard
//	@Tags			dashboard
//	@Produce		json
//	@Success		200	{object}	store.Overview
//	@Failure		401	{object}	ErrorBadRequestResponse
//	@Security		BasicAuth
//	@Router			/dashboard/overview [get]
func (app *application) dashboardOverviewHandler(w http.ResponseWriter, r *http.Request) {
	overview, err := app.store.Dashboard.GetOverview(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, overview)
}
