package routes

import (
	"net/http"

	"github.com/cltl/micro-portraits/internal/queue"
	"github.com/cltl/micro-portraits/internal/server/middleware"
	"github.com/cltl/micro-portraits/internal/storage"
	"github.com/cltl/micro-portraits/internal/util"
	"github.com/cltl/micro-portraits/pkg/format"
	"github.com/cltl/micro-portraits/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CreateDocumentHandler queues a document for extraction by the worker.
// The document is either uploaded as multipart "file" or referenced by
// the key of an object already in the bucket.
func CreateDocumentHandler(c echo.Context) error {
	type createDocumentBody struct {
		DocumentID string `form:"document_id" json:"document_id" validate:"omitempty,max=200,excludesall=/"`
		Key        string `form:"key" json:"key"`
		Format     string `form:"format" json:"format" validate:"omitempty,oneof=naf json"`
	}

	type createDocumentResponse struct {
		Message    string `json:"message"`
		DocumentID string `json:"document_id,omitempty"`
		RunID      string `json:"run_id,omitempty"`
		Key        string `json:"key,omitempty"`
	}

	data := new(createDocumentBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createDocumentResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createDocumentResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	upload, _ := c.FormFile("file")
	if upload == nil && data.Key == "" {
		return c.JSON(http.StatusBadRequest, createDocumentResponse{Message: "Either file or key is required"})
	}

	if upload != nil {
		if data.Format == "" {
			if _, err := format.ForPath(upload.Filename); err != nil {
				return c.JSON(http.StatusBadRequest, createDocumentResponse{Message: "Unknown document format"})
			}
		}
		if data.DocumentID == "" {
			id, err := util.NewID()
			if err != nil {
				return c.JSON(http.StatusInternalServerError, createDocumentResponse{Message: "Internal server error"})
			}
			data.DocumentID = id
		}
		if app.Files == nil {
			return c.JSON(http.StatusServiceUnavailable, createDocumentResponse{Message: "Uploads are not configured"})
		}

		src, err := upload.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, createDocumentResponse{Message: "Invalid request body"})
		}
		defer src.Close()

		data.Key = storage.DocumentKey(data.DocumentID, upload.Filename)
		if err := app.Files.PutFile(ctx, data.Key, src); err != nil {
			logger.Error("[Server] Failed to upload document", "key", data.Key, "err", err)
			return c.JSON(http.StatusInternalServerError, createDocumentResponse{Message: "Internal server error"})
		}
	}
	if data.DocumentID == "" {
		data.DocumentID = util.DocumentIDFromPath(data.Key)
	}

	runID, err := util.NewID()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createDocumentResponse{Message: "Internal server error"})
	}
	msg, err := queue.NewExtractMsg(queue.ExtractMsg{
		DocumentID: data.DocumentID,
		Key:        data.Key,
		Format:     data.Format,
		RunID:      runID,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, createDocumentResponse{Message: "Invalid request body"})
	}
	if err := app.Queue.Enqueue(queue.ExtractQueue, msg); err != nil {
		logger.Error("[Server] Failed to enqueue document", "document", data.DocumentID, "err", err)
		return c.JSON(http.StatusInternalServerError, createDocumentResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, createDocumentResponse{
		Message:    "Document queued for extraction",
		DocumentID: data.DocumentID,
		RunID:      runID,
		Key:        data.Key,
	})
}
