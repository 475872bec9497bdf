package app

import (
	"log/slog"
	"time"

	"github.com/akhirox/chbk/core/internal/config"
	http_init "github.com/akhirox/chbk/core/internal/delivery/http/init"
	http_room "github.com/akhirox/chbk/core/internal/delivery/http/room"
	ws_session "github.com/akhirox/chbk/core/internal/delivery/ws/session"
	"github.com/akhirox/chbk/core/internal/registry"
	usecase_session "github.com/akhirox/chbk/core/internal/usecase/session"
)

func Go(cfg *config.Config) {
	logger := slog.Default()

	rooms := registry.New(registry.WithLogger(logger))
	go reap(rooms, cfg.Rooms.TTL, cfg.Rooms.SweepPeriod)

	sessionUC := usecase_session.New(rooms, usecase_session.WithLogger(logger))

	hub := ws_session.NewHub(logger)

	controllerPool := http_init.NewControllerPool()
	controllerPool.Add(http_room.New(sessionUC, http_room.WithLogger(logger)))
	controllerPool.Add(ws_session.NewController(hub, sessionUC, cfg.Websocket.AllowedOrigins, ws_session.WithLogger(logger)))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}

func reap(rooms *registry.Registry, ttl, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for range ticker.C {
		rooms.Sweep(ttl)
	}
}
