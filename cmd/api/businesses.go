package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"reviewdesk/internal/store"

	"github.com/go-chi/chi/v5"
)

type createBusinessPayload struct {
	Name string `json:"name" validate:"required,max=120"`
	Slug string `json:"slug" validate:"omitempty,max=120"`
}

// createBusinessHandler godoc
//
//	@Summary		Creates a business owned by the authenticated user
//	@Tags			businesses
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		createBusinessPayload	true	"Business data"
//	@Success		201		{object}	store.Business
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		409		{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/businesses [post]
func (app *application) createBusinessHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("unauthorized request"))
		return
	}

	var payload createBusinessPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	slug := payload.Slug
	if slug == "" {
		slug = slugify(payload.Name)
	}

	business := &store.Business{
		OwnerID: user.ID,
		Name:    payload.Name,
		Slug:    slug,
	}

	if err := app.store.Businesses.Create(r.Context(), business); err != nil {
		if errors.Is(err, store.ErrConflict) {
			app.conflictResponse(w, r, errors.New("a business with that slug already exists"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, business)
}

// getBusinessHandler godoc
//
//	@Summary		Fetches a business by ID
//	@Tags			businesses
//	@Produce		json
//	@Param			businessID	path		int	true	"Business ID"
//	@Success		200			{object}	store.Business
//	@Failure		404			{object}	ErrorBadRequestResponse
//	@Router			/businesses/{businessID} [get]
func (app *application) getBusinessHandler(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid business ID"))
		return
	}

	business, err := app.store.Businesses.GetByID(r.Context(), businessID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, business)
}

// getBusinessBySlugHandler godoc
//
//	@Summary		Fetches a business by its slug
//	@Tags			businesses
//	@Produce		json
//	@Param			slug	path		string	true	"Business slug"
//	@Success		200		{object}	store.Business
//	@Failure		404		{object}	ErrorBadRequestResponse
//	@Router			/businesses/by-slug/{slug} [get]
func (app *application) getBusinessBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	business, err := app.store.Businesses.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, business)
}

// slugify turns "Mel's Coffee House" into "mels-coffee-house".
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
