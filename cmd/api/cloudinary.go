package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"reviewdesk/internal/store"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// uploadLogoToCloudinary stores the logo under a deterministic public ID
// so re-uploads replace the previous asset instead of piling up.
func (app *application) uploadLogoToCloudinary(file io.Reader, businessID int64) (string, error) {
	resp, err := app.cld.Upload.Upload(
		context.Background(), // external call, not tied to the request context
		file,
		uploader.UploadParams{
			Folder:    "business-logos",
			PublicID:  fmt.Sprintf("business_%d_logo", businessID),
			Overwrite: api.Bool(true),
		},
	)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return resp.SecureURL, nil
}

func (app *application) deleteAssetFromCloudinary(assetURL string) error {
	publicID, err := extractPublicIDFromURL(assetURL)
	if err != nil {
		return fmt.Errorf("failed to extract public ID: %w", err)
	}

	_, err = app.cld.Upload.Destroy(context.Background(), uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete asset from Cloudinary: %w", err)
	}
	return nil
}

// Helper function to extract the public ID from the Cloudinary URL
func extractPublicIDFromURL(assetURL string) (string, error) {
	parsedURL, err := url.Parse(assetURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	pathParts := strings.Split(parsedURL.Path, "/")
	for i, part := range pathParts {
		if part == "upload" && i+1 < len(pathParts) {
			return strings.Join(pathParts[i+1:], "/"), nil
		}
	}

	return "", errors.New("failed to extract public ID from URL")
}

// uploadLogoHandler godoc
//
//	@Summary		Uploads a business logo (business owner only)
//	@Tags			businesses
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			businessID	path		int		true	"Business ID"
//	@Param			logo		formData	file	true	"Logo image"
//	@Success		200			{object}	map[string]string
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/businesses/{businessID}/logo [post]
func (app *application) uploadLogoHandler(w http.ResponseWriter, r *http.Request) {
	business := app.requireBusinessOwner(w, r)
	if business == nil {
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("could not parse multipart form: %w", err))
		return
	}

	file, _, err := r.FormFile("logo")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("logo file is required"))
		return
	}
	defer file.Close()

	logoURL, err := app.uploadLogoToCloudinary(file, business.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Businesses.SetLogo(r.Context(), business.ID, logoURL); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"logo_url": logoURL})
}

// deleteLogoHandler godoc
//
//	@Summary		Removes a business logo (business owner only)
//	@Tags			businesses
//	@Produce		json
//	@Param			businessID	path		int	true	"Business ID"
//	@Success		200			{object}	map[string]string
//	@Failure		404			{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/businesses/{businessID}/logo [delete]
func (app *application) deleteLogoHandler(w http.ResponseWriter, r *http.Request) {
	business := app.requireBusinessOwner(w, r)
	if business == nil {
		return
	}

	previousURL, err := app.store.Businesses.RemoveLogo(r.Context(), business.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if previousURL != "" {
		if err := app.deleteAssetFromCloudinary(previousURL); err != nil {
			// DB already cleared; the orphaned asset is only a storage leak
			app.logger.Warnw("failed to delete logo asset", "business_id", business.ID, "error", err)
		}
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "logo removed"})
}
