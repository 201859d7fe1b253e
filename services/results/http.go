package results

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"

	"github.com/nvbf/quadball-live-sync/pkg/auth"
	resultsrepo "github.com/nvbf/quadball-live-sync/repos/results"
	"github.com/nvbf/quadball-live-sync/services/live"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Results is the reporting side of the results service.
type Results interface {
	ReportResult(ctx context.Context, publicID, reportedBy string) (*resultsrepo.Result, error)
	GetResult(ctx context.Context, publicID string) (*resultsrepo.Result, error)
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provide the HTTP transport for.
	Service Results

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.GET("/result/:public_id", h.resultHandler)
	r.POST("/report/:public_id", h.reportHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) reportHandler(c *gin.Context) {
	publicID := c.Param("public_id")

	reportedBy := auth.UserID(c)
	if reportedBy == "" {
		reportedBy = "api"
	}

	result, err := h.Service.ReportResult(c.Request.Context(), publicID, reportedBy)
	if err != nil {
		switch {
		case errors.Is(err, live.ErrUnknownMatch):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrGameNotOver):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, resultsrepo.ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			glog.Errorf("[results] could not register result: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		}
		c.Abort()
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"message": "Result registered",
		"result":  result,
	})
}

func (h *httpHandler) resultHandler(c *gin.Context) {
	publicID := c.Param("public_id")

	result, err := h.Service.GetResult(c.Request.Context(), publicID)
	if err != nil {
		if errors.Is(err, resultsrepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		glog.Errorf("[results] could not read result: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, result)
}
