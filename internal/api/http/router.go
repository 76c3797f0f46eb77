package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koronatech/entryhub/internal/api/http/handler"
	"github.com/koronatech/entryhub/internal/api/http/middleware"
	"github.com/koronatech/entryhub/internal/devices"
	"github.com/koronatech/entryhub/internal/heartbeat"
	"github.com/koronatech/entryhub/internal/operators"
	"github.com/koronatech/entryhub/internal/relay"
)

type Services struct {
	Devices    devices.Store
	Processor  *heartbeat.Processor
	Relay      *relay.Client
	Operators  *operators.Service
	JWTSecret  string
	Grace      time.Duration
	ScannerLog string
}

func SetupRoute(engine *gin.Engine, srvs *Services) {
	engine.Use(middleware.RequestLogger())

	healthHandler := handler.NewHealthHandler()
	engine.GET("/ping", healthHandler.Check)
	engine.GET("/health", healthHandler.Check)

	authHandler := handler.NewAuthHandler(srvs.Operators)
	engine.POST("/api/v1/auth/login", authHandler.Login)

	heartbeatHandler := handler.NewHeartbeatHandler(srvs.Processor)
	engine.POST("/api/v1/heartbeat",
		middleware.DeviceAuth(srvs.Devices), heartbeatHandler.Post)

	devicesHandler := handler.NewDevicesHandler(srvs.Devices, srvs.Grace)
	relayHandler := handler.NewRelayHandler(srvs.Devices, srvs.Relay, srvs.ScannerLog)

	operator := engine.Group("/api/v1", middleware.JWTAuth(srvs.JWTSecret))
	operator.GET("/devices", devicesHandler.List)
	operator.POST("/devices/:entrypoint/exec", relayHandler.Exec)
	operator.GET("/devices/:entrypoint/last-scan", relayHandler.LastScan)
	operator.POST("/devices/:entrypoint/diag", relayHandler.Diag)
	operator.POST("/devices/:entrypoint/power", relayHandler.Power)
}
