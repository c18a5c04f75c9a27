package routes

import (
	"errors"
	"net/http"

	"github.com/cltl/micro-portraits/internal/server/middleware"
	"github.com/cltl/micro-portraits/pkg/logger"
	"github.com/cltl/micro-portraits/pkg/store"

	"github.com/labstack/echo/v4"
)

// DeleteDocumentHandler removes the stored portraits of a document and
// its uploaded source.
func DeleteDocumentHandler(c echo.Context) error {
	type deleteDocumentResponse struct {
		Message string `json:"message"`
	}

	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, deleteDocumentResponse{Message: "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	err := app.Store.DeleteDocument(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, deleteDocumentResponse{Message: "Document not found"})
	}
	if err != nil {
		logger.Error("[Server] Failed to delete document", "document", id, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteDocumentResponse{Message: "Internal server error"})
	}

	if app.Files != nil {
		if err := app.Files.DeleteDocument(ctx, id); err != nil {
			logger.Warn("[Server] Failed to delete document source", "document", id, "err", err)
		}
	}

	return c.JSON(http.StatusOK, deleteDocumentResponse{Message: "Document deleted"})
}
