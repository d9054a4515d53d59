package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"reviewdesk/internal/mailer"
	"reviewdesk/internal/report"
	"reviewdesk/internal/sharecode"

	"github.com/go-chi/chi/v5"
)

// ratingSummaryHandler godoc
//
//	@Summary		Rating summary of a business
//	@Description	Star distribution, total selection count and selection-weighted average, optionally restricted to a from/to window.
//	@Tags			reports
//	@Produce		json
//	@Param			businessID	path	int		true	"Business ID"
//	@Param			from		query	string	false	"Window start (RFC3339 or YYYY-MM-DD)"
//	@Param			to			query	string	false	"Window end (RFC3339 or YYYY-MM-DD, inclusive)"
//	@Success		200	{object}	report.RatingSummary
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Failure		404	{object}	ErrorBadRequestResponse
//	@Router			/businesses/{businessID}/summary [get]
func (app *application) ratingSummaryHandler(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid business ID"))
		return
	}

	window, err := parseWindow(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	summary, err := app.reports.BuildRatingSummary(r.Context(), businessID, window)
	if err != nil {
		app.reportErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, summary)
}

// reportHandler godoc
//
//	@Summary		Full review report of a business
//	@Description	Overall distribution, commented reviews and the per-question star/tag breakdown.
//	@Tags			reports
//	@Produce		json
//	@Param			businessID	path	int		true	"Business ID"
//	@Param			from		query	string	false	"Window start (RFC3339 or YYYY-MM-DD)"
//	@Param			to			query	string	false	"Window end (RFC3339 or YYYY-MM-DD, inclusive)"
//	@Success		200	{object}	report.Report
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Failure		404	{object}	ErrorBadRequestResponse
//	@Router			/businesses/{businessID}/report [get]
func (app *application) reportHandler(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid business ID"))
		return
	}

	window, err := parseWindow(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	rep, err := app.reports.BuildReport(r.Context(), businessID, window)
	if err != nil {
		app.reportErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, rep)
}

// sharedReportHandler godoc
//
//	@Summary		Full report behind an opaque share code
//	@Description	Resolves a share code minted by the share-link endpoint and serves the same report as the owner-facing route.
//	@Tags			reports
//	@Produce		json
//	@Param			code	path	string	true	"Share code"
//	@Param			from	query	string	false	"Window start (RFC3339 or YYYY-MM-DD)"
//	@Param			to		query	string	false	"Window end (RFC3339 or YYYY-MM-DD, inclusive)"
//	@Success		200	{object}	report.Report
//	@Failure		404	{object}	ErrorBadRequestResponse
//	@Router			/reports/{code} [get]
func (app *application) sharedReportHandler(w http.ResponseWriter, r *http.Request) {
	businessID, err := app.shareCodes.Decode(chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, sharecode.ErrInvalidCode) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	window, err := parseWindow(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	rep, err := app.reports.BuildReport(r.Context(), businessID, window)
	if err != nil {
		app.reportErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, rep)
}

// shareLinkHandler godoc
//
//	@Summary		Mints a shareable report link (business owner only)
//	@Tags			reports
//	@Produce		json
//	@Param			businessID	path	int	true	"Business ID"
//	@Success		200	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/businesses/{businessID}/share-link [get]
func (app *application) shareLinkHandler(w http.ResponseWriter, r *http.Request) {
	business := app.requireBusinessOwner(w, r)
	if business == nil {
		return
	}

	code, err := app.shareCodes.Encode(business.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]string{
		"code": code,
		"url":  fmt.Sprintf("%s/reports/%s", app.config.frontendURL, code),
	}
	app.jsonResponse(w, http.StatusOK, response)
}

// emailReportHandler godoc
//
//	@Summary		Emails the current report summary to the business owner
//	@Tags			reports
//	@Produce		json
//	@Param			businessID	path	int	true	"Business ID"
//	@Success		200	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/businesses/{businessID}/report/email [post]
func (app *application) emailReportHandler(w http.ResponseWriter, r *http.Request) {
	business := app.requireBusinessOwner(w, r)
	if business == nil {
		return
	}
	user := getUserFromContext(r)

	window, err := parseWindow(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	summary, err := app.reports.BuildRatingSummary(r.Context(), business.ID, window)
	if err != nil {
		app.reportErrorResponse(w, r, err)
		return
	}

	code, err := app.shareCodes.Encode(business.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	vars := struct {
		Username     string
		BusinessName string
		Total        int
		Average      float64
		ReportURL    string
	}{
		Username:     user.FirstName,
		BusinessName: business.Name,
		Total:        summary.Total,
		Average:      summary.Average,
		ReportURL:    fmt.Sprintf("%s/reports/%s", app.config.frontendURL, code),
	}

	status, err := app.mailer.Send(mailer.ReportReadyTemplate, user.FirstName, user.Email, vars)
	if err != nil {
		app.logger.Errorw("error sending report email", "error", err)
		app.internalServerError(w, r, err)
		return
	}
	app.logger.Infow("report email sent", "status code", status, "email", user.Email)

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "report email sent"})
}

// reportErrorResponse maps aggregation failures onto HTTP statuses.
func (app *application) reportErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, report.ErrBusinessNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, report.ErrInvalidWindow):
		app.badRequestResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}

// parseWindow reads the optional from/to query parameters. Values are
// RFC3339 timestamps or bare dates; a bare "to" date covers its whole
// day since window ends are inclusive.
func parseWindow(r *http.Request) (*report.Window, error) {
	fromRaw := r.URL.Query().Get("from")
	toRaw := r.URL.Query().Get("to")
	if fromRaw == "" && toRaw == "" {
		return nil, nil
	}

	window := &report.Window{}

	if fromRaw != "" {
		t, _, err := parseTimeParam(fromRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid from parameter: %w", err)
		}
		window.Start = t
	}

	if toRaw != "" {
		t, dateOnly, err := parseTimeParam(toRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid to parameter: %w", err)
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		window.End = t
	} else {
		window.End = time.Now()
	}

	if err := window.Validate(); err != nil {
		return nil, err
	}
	return window, nil
}

func parseTimeParam(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
