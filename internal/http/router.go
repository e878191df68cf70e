package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"

	intconfig "seatreserve/internal/config"
	h "seatreserve/internal/http/handlers"
	"seatreserve/internal/http/middleware"
	"seatreserve/internal/services"
	"seatreserve/internal/utils"
)

// Deps are the shared services behind the API.
type Deps struct {
	Store  services.Store
	Locker services.TripLocker
	Auth   services.AuthService
}

func NewRouter(env intconfig.Env, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Logger().Warn("failed to set trusted proxies", "error", err.Error())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"code":   "not_found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	hs := h.Handlers{Store: deps.Store, Locker: deps.Locker, Auth: deps.Auth}
	authed := middleware.RequireAuth(deps.Auth)
	admin := middleware.RequireRoles(services.RoleAdmin)
	limiter := middleware.NewRateLimiter(env.ReserveRatePerSec, env.ReserveRateBurst)

	api := r.Group("/api")
	{
		api.GET("/health", hs.Health)
		api.GET("/routes", h.Routes)

		auth := api.Group("/auth")
		auth.POST("/login", hs.Login)

		// Catalog
		busModels := api.Group("/bus-models")
		busModels.POST("", authed, admin, hs.CreateBusModel)
		busModels.GET("/:id", hs.GetBusModel)

		buses := api.Group("/buses")
		buses.POST("", authed, admin, hs.CreateBus)
		buses.GET("/:id", hs.GetBus)

		stops := api.Group("/stops")
		stops.POST("", authed, admin, hs.CreateStop)
		stops.GET("/:id", hs.GetStop)

		busRoutes := api.Group("/bus-routes")
		busRoutes.POST("", authed, admin, hs.CreateRoute)
		busRoutes.GET("/:id", hs.GetRoute)

		// Trips and reservations
		trips := api.Group("/trips")
		trips.POST("", authed, admin, hs.CreateTrip)
		trips.GET("/:id", hs.GetTrip)
		trips.POST("/:id/reservations", authed, limiter.Middleware(), hs.ReserveSeat)
		trips.GET("/:id/reservations", authed, hs.ListReservations)
		trips.GET("/:id/seat-map", hs.SeatMap)
		trips.GET("/:id/available-seats", hs.AvailableSeats)

		reservations := api.Group("/reservations")
		reservations.GET("/:code", hs.GetReservation)
		reservations.GET("/:code/ticket", hs.GetReservationTicket)
	}

	h.SetRouter(r)
	return r
}

// Compress wraps the engine with gzip for clients that accept it.
func Compress(next stdhttp.Handler) stdhttp.Handler {
	return gzhttp.GzipHandler(next)
}
