package routes

import (
	"io"
	"net/http"
	"time"

	"github.com/cltl/micro-portraits/internal/server/middleware"
	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/cltl/micro-portraits/pkg/format"
	"github.com/cltl/micro-portraits/pkg/logger"
	"github.com/cltl/micro-portraits/pkg/portrait"

	"github.com/labstack/echo/v4"
)

// ExtractHandler extracts the portraits of a parsed document sent as the
// request body and returns them without storing anything.
func ExtractHandler(c echo.Context) error {
	type extractParams struct {
		Format     string `query:"format" validate:"omitempty,oneof=naf json"`
		DocumentID string `query:"document_id" validate:"omitempty,max=200"`
	}

	type extractResponse struct {
		Message     string                `json:"message"`
		DocumentID  string                `json:"document_id,omitempty"`
		Portraits   int                   `json:"portraits"`
		Rows        []common.Row          `json:"rows,omitempty"`
		Diagnostics []portrait.Diagnostic `json:"diagnostics,omitempty"`
	}

	params := new(extractParams)
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, params); err != nil {
		return c.JSON(http.StatusBadRequest, extractResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, extractResponse{Message: "Invalid request params"})
	}
	if params.Format == "" {
		params.Format = format.JSON
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil || len(body) == 0 {
		return c.JSON(http.StatusBadRequest, extractResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	start := time.Now()
	res, err := app.Extractor.ExtractBytes(body, params.Format, params.DocumentID)
	if err != nil {
		logger.Debug("[Server] Extraction rejected", "err", err)
		if app.Metrics != nil {
			app.Metrics.ObserveFailure()
		}
		return c.JSON(http.StatusUnprocessableEntity, extractResponse{Message: "Document could not be parsed"})
	}
	if app.Metrics != nil {
		app.Metrics.ObserveResult(res, time.Since(start))
	}

	return c.JSON(http.StatusOK, extractResponse{
		Message:     "Document extracted",
		DocumentID:  res.DocumentID,
		Portraits:   len(res.Portraits),
		Rows:        res.Rows(),
		Diagnostics: res.Diagnostics,
	})
}
