package server

import (
	"github.com/cltl/micro-portraits/internal/server/middleware"
	"github.com/cltl/micro-portraits/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, app *middleware.App) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})
	if app.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(app.Metrics.Handler()))
	}

	// Every /api route needs an entry in middleware.routePermissions.
	apiRoutes := e.Group("/api", middleware.AuthMiddleware, middleware.Authorize)

	// Stateless extraction
	apiRoutes.POST("/extract", routes.ExtractHandler)

	// Document routes
	apiRoutes.GET("/documents", routes.ListDocumentsHandler)
	apiRoutes.POST("/documents", routes.CreateDocumentHandler)
	apiRoutes.DELETE("/documents/:id", routes.DeleteDocumentHandler)
	apiRoutes.GET("/documents/:id/portraits", routes.GetDocumentPortraitsHandler)
	apiRoutes.GET("/documents/:id/source", routes.GetDocumentSourceHandler)
}
