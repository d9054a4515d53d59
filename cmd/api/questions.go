package main

import (
	"errors"
	"net/http"
	"strconv"

	"reviewdesk/internal/store"

	"github.com/go-chi/chi/v5"
)

type createQuestionPayload struct {
	Label string `json:"label" validate:"required,max=200"`
}

// createQuestionHandler godoc
//
//	@Summary		Adds a custom question to a business (business owner only)
//	@Tags			questions
//	@Accept			json
//	@Produce		json
//	@Param			businessID	path		int						true	"Business ID"
//	@Param			payload		body		createQuestionPayload	true	"Question data"
//	@Success		201			{object}	store.Question
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/businesses/{businessID}/questions [post]
func (app *application) createQuestionHandler(w http.ResponseWriter, r *http.Request) {
	business := app.requireBusinessOwner(w, r)
	if business == nil {
		return
	}

	var payload createQuestionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	question := &store.Question{
		BusinessID: store.NullInt64{Value: business.ID, Valid: true},
		Label:      payload.Label,
	}

	if err := app.store.Questions.Create(r.Context(), question); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, question)
}

// listQuestionsHandler godoc
//
//	@Summary		Lists the questions a business asks its reviewers
//	@Description	Default catalog questions plus the business's own custom ones.
//	@Tags			questions
//	@Produce		json
//	@Param			businessID	path	int	true	"Business ID"
//	@Success		200	{object}	[]store.Question
//	@Router			/businesses/{businessID}/questions [get]
func (app *application) listQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid business ID"))
		return
	}

	questions, err := app.store.Questions.ListByBusiness(r.Context(), businessID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, questions)
}

type createStarPayload struct {
	Value int `json:"value" validate:"required,min=1,max=10"`
}

// createStarHandler godoc
//
//	@Summary		Adds a customized star level to a business (business owner only)
//	@Tags			questions
//	@Accept			json
//	@Produce		json
//	@Param			businessID	path		int					true	"Business ID"
//	@Param			payload		body		createStarPayload	true	"Star data"
//	@Success		201			{object}	store.Star
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/businesses/{businessID}/stars [post]
func (app *application) createStarHandler(w http.ResponseWriter, r *http.Request) {
	business := app.requireBusinessOwner(w, r)
	if business == nil {
		return
	}

	var payload createStarPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	star := &store.Star{
		Value:      payload.Value,
		BusinessID: store.NullInt64{Value: business.ID, Valid: true},
	}

	if err := app.store.Stars.CreateCustom(r.Context(), star); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, star)
}

type addStarTagPayload struct {
	StarID int64  `json:"star_id" validate:"required"`
	TagID  *int64 `json:"tag_id"`
	Label  string `json:"label" validate:"omitempty,max=60"`
}

// addStarTagHandler godoc
//
//	@Summary		Permits a (star, tag) pair on a question
//	@Description	Accepts an existing tag ID or a label, which is created or reused.
//	@Tags			questions
//	@Accept			json
//	@Produce		json
//	@Param			questionID	path		int					true	"Question ID"
//	@Param			payload		body		addStarTagPayload	true	"Association data"
//	@Success		201			{object}	map[string]any
//	@Failure		409			{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/questions/{questionID}/star-tags [post]
func (app *application) addStarTagHandler(w http.ResponseWriter, r *http.Request) {
	questionID, err := strconv.ParseInt(chi.URLParam(r, "questionID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid question ID"))
		return
	}

	var payload addStarTagPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var tagID int64
	switch {
	case payload.TagID != nil:
		tagID = *payload.TagID
	case payload.Label != "":
		tag := &store.Tag{Label: payload.Label}
		if err := app.store.Questions.CreateTag(r.Context(), tag); err != nil {
			app.internalServerError(w, r, err)
			return
		}
		tagID = tag.ID
	default:
		app.badRequestResponse(w, r, errors.New("either tag_id or label is required"))
		return
	}

	if err := app.store.Questions.AddStarTag(r.Context(), questionID, payload.StarID, tagID); err != nil {
		if errors.Is(err, store.ErrConflict) {
			app.conflictResponse(w, r, errors.New("association already exists"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]any{
		"question_id": questionID,
		"star_id":     payload.StarID,
		"tag_id":      tagID,
	}
	app.jsonResponse(w, http.StatusCreated, response)
}

// listStarTagsHandler godoc
//
//	@Summary		Lists the permitted (star, tag) pairs of a question
//	@Tags			questions
//	@Produce		json
//	@Param			questionID	path	int	true	"Question ID"
//	@Success		200	{object}	[]store.StarTag
//	@Router			/questions/{questionID}/star-tags [get]
func (app *application) listStarTagsHandler(w http.ResponseWriter, r *http.Request) {
	questionID, err := strconv.ParseInt(chi.URLParam(r, "questionID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid question ID"))
		return
	}

	assocs, err := app.store.Questions.ListStarTags(r.Context(), questionID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, assocs)
}

// listTagsHandler godoc
//
//	@Summary		Lists the global tag catalog
//	@Tags			questions
//	@Produce		json
//	@Success		200	{object}	[]store.Tag
//	@Router			/tags [get]
func (app *application) listTagsHandler(w http.ResponseWriter, r *http.Request) {
	tags, err := app.store.Questions.ListTags(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, tags)
}
