package middleware

import (
	"context"
	"io"
	"time"

	"github.com/cltl/micro-portraits/internal/metrics"
	"github.com/cltl/micro-portraits/pkg/portrait"
	"github.com/cltl/micro-portraits/pkg/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type AppUser struct {
	Subject     string
	Role        string
	Permissions []string
}

// Enqueuer hands work to the worker queue.
type Enqueuer interface {
	Enqueue(queueName string, data []byte) error
}

// DocumentFiles stores uploaded source documents.
type DocumentFiles interface {
	PutFile(ctx context.Context, key string, body io.Reader) error
	FindDocument(ctx context.Context, documentID string) (string, error)
	DeleteDocument(ctx context.Context, documentID string) error
	DownloadLink(ctx context.Context, key string, expires time.Duration) (string, error)
}

type App struct {
	Extractor    *portrait.ExtractorClient
	Store        store.PortraitStorage
	Queue        Enqueuer
	Files        DocumentFiles
	Metrics      *metrics.Metrics
	Keyfunc      jwt.Keyfunc
	MasterAPIKey string
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

// AppContextMiddleware wraps every request context so handlers can reach
// the shared services.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{Context: c, App: app})
		}
	}
}
