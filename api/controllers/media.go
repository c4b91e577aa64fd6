package controllers

import (
	"net/http"

	"github.com/kantinhub/kantin-backend/api/responses"
	"github.com/kantinhub/kantin-backend/internal/media"
	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
	"github.com/kantinhub/kantin-backend/pkg/logger"
)

// multipartMemoryBytes bounds how much of the upload is buffered in memory
// before spilling to temp files.
const multipartMemoryBytes = 4 << 20

// MediaUpload accepts a multipart photo upload under the "file" field.
func MediaUpload(svc media.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		_, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+multipartMemoryBytes)
		if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid multipart payload"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "file field is required"))
			return
		}
		defer file.Close()

		result, err := svc.UploadPhoto(r.Context(), role, media.UploadInput{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
