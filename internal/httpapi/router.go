// Package httpapi is Scribe's HTTP boundary: request parsing, routing, and
// the JSON codec, kept outside the core per the in-core/out-of-core split.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/scribehq/scribe/internal/httpapi/dto"
	"github.com/scribehq/scribe/internal/httpapi/middleware"
	"github.com/scribehq/scribe/internal/jsonx"
	"github.com/scribehq/scribe/pkg/logstore"
	"github.com/scribehq/scribe/pkg/query"
)

var validate = validator.New()

// API wires the Query Engine into gin handlers.
type API struct {
	engine  *query.Engine
	version string
	logger  *log.Logger
}

// New builds an API for engine, reporting version from GET /version.
func New(engine *query.Engine, version string, logger *log.Logger) *API {
	return &API{engine: engine, version: version, logger: logger}
}

// Router builds the gin.Engine exposing GET /version, POST /save and
// POST /read.
func (a *API) Router() *gin.Engine {
	r := gin.New()
	// sync.RWMutex has no poison state, so a handler panic is logged and ends
	// the process instead of serving further requests.
	r.Use(gin.CustomRecovery(func(c *gin.Context, rec any) {
		a.logger.Fatalf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, rec)
	}))
	r.Use(middleware.RequestID())
	r.Use(a.accessLog())

	r.GET("/version", a.handleVersion)
	r.POST("/save", a.handleSave)
	r.POST("/read", a.handleRead)
	return r
}

func (a *API) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		a.logger.Debugf("%s %s -> %d [%s]", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), middleware.GetRequestID(c))
	}
}

func (a *API) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, dto.VersionResponse{Version: a.version})
}

func (a *API) handleSave(c *gin.Context) {
	var req dto.SaveRequest
	if err := jsonx.ParseStrictJSONBody(c.Request, &req); err != nil {
		c.String(http.StatusBadRequest, "malformed request body: %v", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		c.String(http.StatusBadRequest, "invalid request: %v", err)
		return
	}

	if err := a.engine.Ingest(c.Request.Context(), req.Log); err != nil {
		a.logger.Errorf("save failed: %v", err)
		c.String(http.StatusInternalServerError, storageErrorMessage(err))
		return
	}
	c.Status(http.StatusOK)
}

func (a *API) handleRead(c *gin.Context) {
	var req dto.ReadRequest
	if err := jsonx.ParseStrictJSONBody(c.Request, &req); err != nil {
		c.String(http.StatusBadRequest, "malformed request body: %v", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		c.String(http.StatusBadRequest, "invalid request: %v", err)
		return
	}

	params := query.Params{From: req.From, To: req.To, Words: req.Words}
	if req.Prefix != nil {
		params.Prefix = *req.Prefix
	}

	logs, err := a.engine.Query(c.Request.Context(), params)
	if err != nil {
		a.logger.Errorf("read failed: %v", err)
		c.String(http.StatusInternalServerError, storageErrorMessage(err))
		return
	}
	if logs == nil {
		logs = []string{}
	}
	c.JSON(http.StatusOK, dto.ReadResponse{Logs: logs})
}

func storageErrorMessage(err error) string {
	switch {
	case errors.Is(err, logstore.ErrCorruptBlob):
		return "stored log data is corrupt"
	case errors.Is(err, logstore.ErrConnection):
		return "storage connection failed"
	case errors.Is(err, logstore.ErrUnavailable):
		return "storage unavailable"
	default:
		return "internal error"
	}
}
