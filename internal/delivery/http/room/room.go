package http_room

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	http_common "github.com/akhirox/chbk/core/internal/delivery/http/common"
	usecase_session "github.com/akhirox/chbk/core/internal/usecase/session"
)

// Controller exposes a small read-only REST surface next to the
// websocket: a health probe and a room status lookup so a client can
// check a code before connecting.
type Controller struct {
	usecase *usecase_session.Usecase
	logger  *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(usecase *usecase_session.Usecase, opts ...ControllerOption) *Controller {
	c := &Controller{
		usecase: usecase,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", c.health)

	rooms := router.Group("/rooms")
	rooms.GET("/:room_code/status", c.status)
}

func (c *Controller) health(ctx *gin.Context) {
	ctx.Status(http.StatusOK)
}

type StatusResponseDTO struct {
	Status string `json:"status"`
}

func (c *Controller) status(ctx *gin.Context) {
	code := ctx.Param("room_code")

	state, err := c.usecase.Status(ctx.Request.Context(), code)
	if err != nil {
		if errors.Is(err, usecase_session.ErrRoomUnavailable) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "not found",
			})
			return
		}
		c.logger.Error("failed to get status", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	ctx.JSON(http.StatusOK, StatusResponseDTO{
		Status: string(state),
	})
}
