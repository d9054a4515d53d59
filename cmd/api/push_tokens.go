package main

import (
	"encoding/json"
	"errors"
	"net/http"
)

type savePushTokenRequest struct {
	Token      string          `json:"token" validate:"required"`
	DeviceInfo json.RawMessage `json:"device_info"`
}

type removePushTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type bulkRemoveTokensRequest struct {
	Tokens []string `json:"tokens" validate:"required,min=1"`
}

// savePushTokenHandler godoc
//
//	@Summary		Save or update a push notification token
//	@Description	Stores or updates a user's Expo push token along with optional device info
//	@Tags			notifications
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	savePushTokenRequest	true	"Push token data"
//	@Success		204
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/users/push-tokens [post]
func (app *application) savePushTokenHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("unauthorized request"))
		return
	}

	var payload savePushTokenRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.PushTokens.AddOrUpdate(r.Context(), user.ID, payload.Token, payload.DeviceInfo); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// removePushTokenHandler godoc
//
//	@Summary		Remove a push notification token
//	@Description	Deletes a specific push token for the current user
//	@Tags			notifications
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	removePushTokenRequest	true	"Token to remove"
//	@Success		204
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/users/push-tokens [delete]
func (app *application) removePushTokenHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("unauthorized request"))
		return
	}

	var payload removePushTokenRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.PushTokens.Remove(r.Context(), user.ID, payload.Token); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// bulkRemovePushTokensHandler godoc
//
//	@Summary		Bulk remove push notification tokens
//	@Description	Deletes multiple push tokens at once, e.g. after Expo reports them dead
//	@Tags			notifications
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	bulkRemoveTokensRequest	true	"Tokens to remove"
//	@Success		204
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/users/push-tokens/bulk [delete]
func (app *application) bulkRemovePushTokensHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		app.forbiddenResponse(w, r)
		return
	}

	var payload bulkRemoveTokensRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.PushTokens.RemoveByTokenList(r.Context(), payload.Tokens); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
