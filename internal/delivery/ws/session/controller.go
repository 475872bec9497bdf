package ws_session

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	usecase_session "github.com/akhirox/chbk/core/internal/usecase/session"
)

type Controller struct {
	hub      *Hub
	usecase  *usecase_session.Usecase
	upgrader websocket.Upgrader

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController builds the websocket entry point. allowedOrigins limits
// which browser origins may connect; an empty list allows any.
func NewController(hub *Hub, usecase *usecase_session.Usecase, allowedOrigins []string, opts ...ControllerOption) *Controller {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}

	c := &Controller{
		hub:     hub,
		usecase: usecase,
		logger:  slog.Default(),
	}
	c.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(origins) == 0 {
				return true
			}
			return origins[r.Header.Get("Origin")]
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ws", c.serveWS)
}

func (c *Controller) serveWS(ctx *gin.Context) {
	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade to websocket",
			slog.String("error", err.Error()),
		)
		return
	}

	client := NewClient(c.hub, c.usecase, conn, uuid.NewString(), c.logger)
	c.logger.Info("client connected", "client", client.id)

	go client.WritePump()
	go client.ReadPump()
}
