package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/cltl/micro-portraits/internal/server/middleware"
	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/cltl/micro-portraits/pkg/format/csvrows"
	"github.com/cltl/micro-portraits/pkg/logger"
	"github.com/cltl/micro-portraits/pkg/store"

	"github.com/labstack/echo/v4"
)

const downloadLinkExpiry = 15 * time.Minute

// ListDocumentsHandler lists every document with stored portraits.
func ListDocumentsHandler(c echo.Context) error {
	type listDocumentsResponse struct {
		Message   string               `json:"message"`
		Documents []store.DocumentInfo `json:"documents"`
	}

	app := c.(*middleware.AppContext).App
	docs, err := app.Store.ListDocuments(c.Request().Context())
	if err != nil {
		logger.Error("[Server] Failed to list documents", "err", err)
		return c.JSON(http.StatusInternalServerError, listDocumentsResponse{Message: "Internal server error"})
	}
	if docs == nil {
		docs = []store.DocumentInfo{}
	}
	return c.JSON(http.StatusOK, listDocumentsResponse{Message: "OK", Documents: docs})
}

// GetDocumentPortraitsHandler returns the stored rows of a document as
// JSON, or as semicolon separated values with ?format=csv.
func GetDocumentPortraitsHandler(c echo.Context) error {
	type getPortraitsParams struct {
		ID     string `param:"id" validate:"required"`
		Format string `query:"format" validate:"omitempty,oneof=json csv"`
	}

	type getPortraitsResponse struct {
		Message    string       `json:"message"`
		DocumentID string       `json:"document_id,omitempty"`
		Rows       []common.Row `json:"rows,omitempty"`
	}

	params := new(getPortraitsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getPortraitsResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getPortraitsResponse{Message: "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	rows, err := app.Store.GetDocumentRows(c.Request().Context(), params.ID)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, getPortraitsResponse{Message: "Document not found"})
	}
	if err != nil {
		logger.Error("[Server] Failed to load rows", "document", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, getPortraitsResponse{Message: "Internal server error"})
	}

	if params.Format == "csv" {
		c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		c.Response().WriteHeader(http.StatusOK)
		w := csvrows.NewWriter(c.Response())
		if err := w.Write(rows); err != nil {
			return err
		}
		return w.Flush()
	}

	return c.JSON(http.StatusOK, getPortraitsResponse{
		Message:    "OK",
		DocumentID: params.ID,
		Rows:       rows,
	})
}

// GetDocumentSourceHandler returns a presigned link to the uploaded
// source of a document.
func GetDocumentSourceHandler(c echo.Context) error {
	type getSourceResponse struct {
		Message string `json:"message"`
		URL     string `json:"url,omitempty"`
	}

	app := c.(*middleware.AppContext).App
	if app.Files == nil {
		return c.JSON(http.StatusServiceUnavailable, getSourceResponse{Message: "Uploads are not configured"})
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	key, err := app.Files.FindDocument(ctx, id)
	if err != nil {
		logger.Error("[Server] Failed to look up document source", "document", id, "err", err)
		return c.JSON(http.StatusInternalServerError, getSourceResponse{Message: "Internal server error"})
	}
	if key == "" {
		return c.JSON(http.StatusNotFound, getSourceResponse{Message: "Document not found"})
	}

	link, err := app.Files.DownloadLink(ctx, key, downloadLinkExpiry)
	if err != nil {
		logger.Error("[Server] Failed to presign document source", "key", key, "err", err)
		return c.JSON(http.StatusInternalServerError, getSourceResponse{Message: "Internal server error"})
	}
	return c.JSON(http.StatusOK, getSourceResponse{Message: "OK", URL: link})
}
