package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/phamvd/haulbid-BE/internal/db"
	"github.com/phamvd/haulbid-BE/internal/event"
	"github.com/phamvd/haulbid-BE/internal/locator"
	"github.com/phamvd/haulbid-BE/internal/util"
)

type Server struct {
	router      *gin.Engine
	dbStore     db.Store
	config      *util.Config
	eventSender event.EventSender
	locator     *locator.Locator
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(store db.Store, config *util.Config, eventSender event.EventSender, loc *locator.Locator) (*Server, error) {
	server := &Server{
		dbStore:     store,
		config:      config,
		eventSender: eventSender,
		locator:     loc,
	}

	server.setupRouter()
	return server, nil
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	v1 := router.Group("/v1")

	vehicleGroup := v1.Group("/vehicles")
	{
		vehicleGroup.GET("", server.listVehicles)
		vehicleGroup.POST("", server.createVehicle)
		vehicleGroup.GET(":vehicleID", server.getVehicle)
		vehicleGroup.PUT(":vehicleID", server.updateVehicle)

		// Đặt giá và xem lịch sử đặt giá
		vehicleGroup.POST(":vehicleID/bids", server.placeBid)
		vehicleGroup.GET(":vehicleID/bids", server.listVehicleBids)

		// Theo dõi đấu giá theo thời gian thực qua SSE
		vehicleGroup.GET(":vehicleID/stream", server.streamVehicleBids)
		vehicleGroup.POST(":vehicleID/stream/refresh", server.refreshVehicleStream)
	}

	server.router = router
	return router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}
