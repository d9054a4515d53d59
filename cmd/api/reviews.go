package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"reviewdesk/internal/notifications"
	"reviewdesk/internal/params"
	"reviewdesk/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type reviewSelectionPayload struct {
	QuestionID int64  `json:"question_id" validate:"required"`
	StarID     int64  `json:"star_id" validate:"required"`
	TagID      *int64 `json:"tag_id"`
}

type createReviewPayload struct {
	Rate       int                      `json:"rate" validate:"required,min=1,max=5"`
	Comment    string                   `json:"comment" validate:"max=1000"`
	Selections []reviewSelectionPayload `json:"selections" validate:"dive"`
}

// createReviewHandler godoc
//
//	@Summary		Submits a review for a business
//	@Description	Accepts an overall rate, an optional comment and per-question star/tag selections. Anonymous submissions get a server-minted guest identity and are excluded from aggregates.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			businessID	path		int					true	"Business ID"
//	@Param			payload		body		createReviewPayload	true	"Review data"
//	@Success		201			{object}	store.Review
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	ErrorBadRequestResponse
//	@Router			/businesses/{businessID}/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid business ID"))
		return
	}

	var payload createReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
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

	review := &store.Review{
		BusinessID: businessID,
		Rate:       payload.Rate,
	}
	if payload.Comment != "" {
		review.Comment = store.NullString{Value: payload.Comment, Valid: true}
	}

	// a bearer token makes it an identified review, otherwise the
	// reviewer stays an anonymous guest
	if user := app.tryUserFromBearer(r); user != nil {
		review.UserID = store.NullInt64{Value: user.ID, Valid: true}
	} else {
		review.GuestID = store.NullString{Value: uuid.New().String(), Valid: true}
	}

	selections := make([]store.ReviewValue, 0, len(payload.Selections))
	for _, sel := range payload.Selections {
		allowed, err := app.store.Questions.TripleAllowed(r.Context(), sel.QuestionID, sel.StarID, sel.TagID)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		if !allowed {
			app.badRequestResponse(w, r, fmt.Errorf("selection not allowed for question %d", sel.QuestionID))
			return
		}

		value := store.ReviewValue{
			QuestionID: sel.QuestionID,
			StarID:     sel.StarID,
		}
		if sel.TagID != nil {
			value.TagID = store.NullInt64{Value: *sel.TagID, Valid: true}
		}
		selections = append(selections, value)
	}

	if err := app.store.Reviews.Create(r.Context(), review, selections); err != nil {
		if errors.Is(err, store.ErrSelectionNotAllowed) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	// the reviewer should not wait on Expo
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := notifications.SendReviewNotification(ctx, app.push, app.store, business.OwnerID, business.Name, review.Rate)
		if err != nil {
			app.logger.Warnw("review push notification failed", "business_id", business.ID, "error", err)
		}
	}()

	app.jsonResponse(w, http.StatusCreated, review)
}

// listReviewsHandler godoc
//
//	@Summary		Lists reviews of a business
//	@Tags			reviews
//	@Produce		json
//	@Param			businessID	path	int	true	"Business ID"
//	@Param			page		query	int	false	"Page number"
//	@Param			limit		query	int	false	"Items per page"
//	@Success		200	{object}	map[string]any
//	@Router			/businesses/{businessID}/reviews [get]
func (app *application) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid business ID"))
		return
	}

	p := params.ParsePagination(r.URL.Query())

	reviews, total, err := app.store.Reviews.ListByBusiness(r.Context(), businessID, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	response := map[string]any{
		"reviews":    reviews,
		"pagination": p,
	}
	app.jsonResponse(w, http.StatusOK, response)
}

// deleteReviewHandler godoc
//
//	@Summary		Deletes a review (business owner only)
//	@Tags			reviews
//	@Produce		json
//	@Param			businessID	path	int	true	"Business ID"
//	@Param			reviewID	path	int	true	"Review ID"
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/businesses/{businessID}/reviews/{reviewID} [delete]
func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("unauthorized request"))
		return
	}

	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	if err := app.store.Reviews.Delete(r.Context(), reviewID, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "review deleted"})
}

// tryUserFromBearer resolves the user behind an optional bearer token.
// Unlike AuthTokenMiddleware it never rejects the request; an absent or
// invalid token just means an anonymous caller.
func (app *application) tryUserFromBearer(r *http.Request) *store.User {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil
	}

	jwtToken, err := app.authenticator.ValidateAccessToken(parts[1])
	if err != nil {
		return nil
	}
	claims, ok := jwtToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	userID, err := parseSubject(claims)
	if err != nil {
		return nil
	}

	user, err := app.store.Users.GetByID(r.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}
