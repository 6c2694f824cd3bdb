package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phamvd/haulbid-BE/internal/db"
	"github.com/phamvd/haulbid-BE/internal/locator"
	"github.com/rs/zerolog/log"
)

type createVehicleRequest struct {
	Make      string `json:"make" binding:"required"`
	Model     string `json:"model" binding:"required"`
	Year      string `json:"year"`
	BodyStyle string `json:"body_style"`
	CountryA  string `json:"country_a" binding:"required"`
	CityA     string `json:"city_a" binding:"required"`
	CountryB  string `json:"country_b" binding:"required"`
	CityB     string `json:"city_b" binding:"required"`
}

type vehicleDetailsResponse struct {
	db.Vehicle
	Route locator.RouteCoordinates `json:"route"`
}

//	@Summary		List vehicles
//	@Description	Lists all vehicle transport listings with their current auction state.
//	@Tags			vehicles
//	@Produce		json
//	@Router			/vehicles [get]
func (server *Server) listVehicles(c *gin.Context) {
	vehicles, err := server.dbStore.ListVehicles(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to list vehicles: %w", err)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

//	@Summary		Get vehicle details
//	@Description	Returns one vehicle listing with its route endpoints resolved to coordinates.
//	@Tags			vehicles
//	@Produce		json
//	@Param			vehicleID	path	string	true	"Vehicle ID"
//	@Router			/vehicles/{vehicleID} [get]
func (server *Server) getVehicle(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("vehicleID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid vehicle ID format")))
		return
	}

	vehicle, err := server.dbStore.GetVehicleByID(c, vehicleID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Errorf("vehicle ID %s not found", vehicleID)))
			return
		}

		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to get vehicle: %w", err)))
		return
	}

	// Tọa độ tuyến đường chỉ được gắn vào lúc đọc, không lưu trong bản ghi
	route, err := server.locator.LookupRoute(c, vehicle.CountryA, vehicle.CityA, vehicle.CountryB, vehicle.CityB)
	if err != nil {
		if resp, ok := routeRejection(err, vehicle); ok {
			c.JSON(http.StatusBadRequest, resp)
			return
		}

		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to resolve route coordinates: %w", err)))
		return
	}

	c.JSON(http.StatusOK, vehicleDetailsResponse{Vehicle: vehicle, Route: route})
}

//	@Summary		Create vehicle
//	@Description	Creates a vehicle transport listing. Both route endpoints must geocode before the listing is stored.
//	@Tags			vehicles
//	@Accept			json
//	@Produce		json
//	@Param			request	body	createVehicleRequest	true	"Vehicle listing"
//	@Router			/vehicles [post]
func (server *Server) createVehicle(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid request body: %w", err)))
		return
	}

	// Kiểm tra cả hai đầu tuyến geocode được trước khi lưu tin đăng
	if _, err := server.locator.LookupRoute(c, req.CountryA, req.CityA, req.CountryB, req.CityB); err != nil {
		if resp, ok := routeRejectionFromRequest(err, req); ok {
			c.JSON(http.StatusBadRequest, resp)
			return
		}

		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to resolve route coordinates: %w", err)))
		return
	}

	vehicle, err := server.dbStore.CreateVehicle(c, db.CreateVehicleParams{
		ID:        uuid.New(),
		Make:      req.Make,
		Model:     req.Model,
		Year:      req.Year,
		BodyStyle: req.BodyStyle,
		CountryA:  req.CountryA,
		CityA:     req.CityA,
		CountryB:  req.CountryB,
		CityB:     req.CityB,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to create vehicle: %w", err)))
		return
	}

	log.Info().Str("vehicle_id", vehicle.ID.String()).Str("make", vehicle.Make).Str("model", vehicle.Model).
		Msg("vehicle listing created")

	c.JSON(http.StatusCreated, vehicle)
}

type updateVehicleRequest struct {
	Make  *string `json:"make"`
	Model *string `json:"model"`
}

//	@Summary		Update vehicle
//	@Description	Updates the descriptive fields of a vehicle listing.
//	@Tags			vehicles
//	@Accept			json
//	@Produce		json
//	@Param			vehicleID	path	string					true	"Vehicle ID"
//	@Param			request		body	updateVehicleRequest	true	"Fields to update"
//	@Router			/vehicles/{vehicleID} [put]
func (server *Server) updateVehicle(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("vehicleID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid vehicle ID format")))
		return
	}

	var req updateVehicleRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid request body: %w", err)))
		return
	}

	vehicle, err := server.dbStore.UpdateVehicle(c, db.UpdateVehicleParams{
		ID:    vehicleID,
		Make:  req.Make,
		Model: req.Model,
	})
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Errorf("vehicle ID %s not found", vehicleID)))
			return
		}

		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to update vehicle: %w", err)))
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func routeRejection(err error, vehicle db.Vehicle) (RejectionResponse, bool) {
	switch {
	case errors.Is(err, locator.ErrOriginNotFound):
		return rejectionResponse(ErrorCodeOriginNotFound, "country_a, city_a",
			fmt.Sprintf("%s, %s", vehicle.CityA, vehicle.CountryA), "Origin city or country not found"), true
	case errors.Is(err, locator.ErrDestinationNotFound):
		return rejectionResponse(ErrorCodeDestinationNotFound, "country_b, city_b",
			fmt.Sprintf("%s, %s", vehicle.CityB, vehicle.CountryB), "Destination city or country not found"), true
	}
	return RejectionResponse{}, false
}

func routeRejectionFromRequest(err error, req createVehicleRequest) (RejectionResponse, bool) {
	return routeRejection(err, db.Vehicle{
		CountryA: req.CountryA,
		CityA:    req.CityA,
		CountryB: req.CountryB,
		CityB:    req.CityB,
	})
}
