// Package web is a thin layer over gin that lets handlers return errors and
// keeps a request scoped context.Context next to the gin context.
package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles an http request inside the App.
type Handler func(c *Context) error

// Middleware runs some code before and/or after another Handler.
type Middleware func(Handler) Handler

// App is the entrypoint into the application and what configures the
// context for each request.
type App struct {
	*gin.Engine
	log *zap.Logger
	mw  []Middleware
}

// NewApp creates an App value that handles a set of routes for the application.
func NewApp(log *zap.Logger, mw ...Middleware) *App {
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &App{
		Engine: engine,
		log:    log,
		mw:     mw,
	}
}

// Log returns the application logger.
func (a *App) Log() *zap.Logger {
	return a.log
}

// Handle sets a handler function for a given HTTP method and path pair.
// Route middleware wraps the handler first, then the application wide one.
func (a *App) Handle(method string, path string, handler Handler, mw ...Middleware) {
	handler = wrapMiddleware(mw, handler)
	handler = wrapMiddleware(a.mw, handler)

	h := func(gc *gin.Context) {
		c := &Context{
			Context: gc,
			Ctx:     gc.Request.Context(),
			log:     a.log,
		}

		if err := handler(c); err != nil {
			a.log.Error("unhandled error",
				zap.String("method", gc.Request.Method),
				zap.String("path", gc.Request.URL.Path),
				zap.Error(err))
		}
	}

	a.Engine.Handle(method, path, h)
}

func (a *App) Get(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodGet, path, handler, mw...)
}

func (a *App) Post(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodPost, path, handler, mw...)
}

func (a *App) Put(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodPut, path, handler, mw...)
}

func (a *App) Patch(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodPatch, path, handler, mw...)
}

func (a *App) Delete(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodDelete, path, handler, mw...)
}

// wrapMiddleware creates a new handler by wrapping middleware around a final
// handler. The first middleware of the slice is the outermost one.
func wrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		if h := mw[i]; h != nil {
			handler = h(handler)
		}
	}

	return handler
}

// WithValue stores a value in the request context carried by c.
func (c *Context) WithValue(key, value any) {
	c.Ctx = context.WithValue(c.Ctx, key, value)
}
