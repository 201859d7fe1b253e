package live

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Live is the read side of the watcher.
type Live interface {
	Views() []MatchView
	View(publicID string) (MatchView, bool)
	Listen(kind NotificationKind, h Handler) string
	Unlisten(id string) bool
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provide the HTTP transport for.
	Service Live

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.GET("/matches", h.listHandler)
	r.GET("/matches/:public_id", h.matchHandler)
	r.GET("/stream", h.streamHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) listHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"matches": h.Service.Views()})
}

func (h *httpHandler) matchHandler(c *gin.Context) {
	publicID := c.Param("public_id")
	view, ok := h.Service.View(publicID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown match"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, view)
}

// streamEvent is the payload of one server-sent event.
type streamEvent struct {
	PublicID string `json:"public_id"`
	Side     Side   `json:"side,omitempty"`
	Value    any    `json:"value"`
}

// streamHandler forwards notifications as server-sent events. Delivery is
// handed off through a dispatcher and written from the request goroutine,
// so a slow client never blocks reconciliation.
func (h *httpHandler) streamHandler(c *gin.Context) {
	kinds := NotificationKinds
	if requested := c.QueryArray("kind"); len(requested) > 0 {
		kinds = nil
		for _, name := range requested {
			kind, ok := ParseNotificationKind(name)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown notification kind " + name})
				c.Abort()
				return
			}
			kinds = append(kinds, kind)
		}
	}
	filter := c.Query("public_id")

	d := NewDispatcher()
	send := d.Wrap(func(n Notification) {
		publicID := ""
		if n.Match != nil {
			publicID = n.Match.PublicID
		}
		if filter != "" && filter != publicID {
			return
		}
		c.SSEvent(string(n.Kind), streamEvent{PublicID: publicID, Side: n.Side, Value: n.Value})
		c.Writer.Flush()
	})

	ids := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		ids = append(ids, h.Service.Listen(kind, send))
	}
	defer func() {
		for _, id := range ids {
			h.Service.Unlisten(id)
		}
		d.Close()
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	if err := d.Run(c.Request.Context()); err != nil {
		glog.V(1).Infof("[live] stream closed: %v\n", err)
	}
}
