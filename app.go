package main

import (
	"errors"
	"sync"

	"booking-api/config"
	"booking-api/controllers"
	"booking-api/events"
	"booking-api/middleware"
	"booking-api/repositories"
	"booking-api/services"
	"booking-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// application junta las capas ya inicializadas (Patrón MVC)
type application struct {
	cfg       *config.Config
	db        *gorm.DB
	logger    *logrus.Logger
	sessions  repositories.SessionRepository
	publisher events.Publisher
	limiter   *middleware.RateLimiter
	metrics   *middleware.Metrics

	users        services.UserService
	auth         services.AuthService
	properties   services.PropertyService
	reservations services.ReservationService
	reviews      services.ReviewService
}

func newApplication(
	cfg *config.Config,
	db *gorm.DB,
	logger *logrus.Logger,
	sessions repositories.SessionRepository,
	publisher events.Publisher,
) *application {
	// Repositories: acceso a datos
	userRepo := repositories.NewUserRepository(db)
	propertyRepo := repositories.NewPropertyRepository(db)
	photoRepo := repositories.NewPhotoRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	// Services: lógica de negocio
	jwtManager := utils.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := services.NewUserService(userRepo, logger)

	return &application{
		cfg:       cfg,
		db:        db,
		logger:    logger,
		sessions:  sessions,
		publisher: publisher,
		limiter:   middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginBurst, logger),
		metrics:   middleware.NewMetrics(),

		users:        userService,
		auth:         services.NewAuthService(userRepo, sessions, userService, jwtManager, logger),
		properties:   services.NewPropertyService(propertyRepo, photoRepo, publisher, cfg.MaxUploadBytes, logger),
		reservations: services.NewReservationService(reservationRepo, propertyRepo, logger),
		reviews:      services.NewReviewService(reviewRepo, reservationRepo, propertyRepo, logger),
	}
}

// newPublisher usa RabbitMQ si hay URL configurada; si no, los eventos se descartan
func newPublisher(cfg *config.Config, logger *logrus.Logger) (events.Publisher, error) {
	if cfg.RabbitMQURL == "" {
		logger.Warn("RABBITMQ_URL not set, property events will not be published")
		return events.NopPublisher{}, nil
	}
	return events.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.PropertiesQueue, logger)
}

var registerValidatorsOnce sync.Once

// registerValidators agrega la regla "cpf" al validador de gin binding
func registerValidators() error {
	var err error
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected gin validator engine")
			return
		}
		err = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
			return utils.ValidateCPF(fl.Field().String())
		})
	})
	return err
}

// routes arma el router con todos los endpoints bajo /v1
func (app *application) routes() (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	// Controllers: manejan HTTP
	authController := controllers.NewAuthController(app.auth, app.cfg.CookieSecure)
	userController := controllers.NewUserController(app.users)
	propertyController := controllers.NewPropertyController(app.properties, app.cfg.MaxUploadBytes)
	bookingController := controllers.NewBookingController(app.reservations, app.reviews)
	healthController := controllers.NewHealthController(app.db)

	router := gin.New()
	router.MaxMultipartMemory = app.cfg.MaxUploadBytes
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(app.logger),
		app.metrics.Middleware(),
		middleware.CORS(),
	)

	router.GET("/health", healthController.Health)
	router.GET("/metrics", app.metrics.Handler())

	authRequired := middleware.AuthMiddleware(app.auth)
	adminOnly := middleware.AdminMiddleware(app.users)
	ownerOrAdmin := middleware.PropertyOwnershipMiddleware(app.properties)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", app.limiter.Handler(), authController.Login)
		auth.POST("/logout", authController.Logout)
		auth.POST("/register", authController.Register)
		auth.POST("/refresh", authController.Refresh)
		auth.POST("/check", authRequired, authController.Check)
	}

	user := v1.Group("/user", authRequired)
	{
		user.GET("", adminOnly, userController.List)
		user.GET("/me", userController.Me)
		user.PUT("/password", userController.UpdatePassword)
		user.GET("/:id", adminOnly, userController.GetByID)
		user.PUT("/:id", middleware.SelfOrAdminMiddleware("id"), userController.Update)
		user.DELETE("/:id", adminOnly, userController.Delete)
	}

	property := v1.Group("/property")
	{
		// Rutas PÚBLICAS
		property.GET("", propertyController.List)
		property.GET("/search", propertyController.Search)
		property.GET("/:id", propertyController.GetByID)
		property.GET("/:id/reviews", bookingController.ListReviews)

		// Rutas PROTEGIDAS
		property.POST("", authRequired, propertyController.Create)
		property.GET("/me", authRequired, propertyController.ListMine)
		property.GET("/:id/photos", authRequired, propertyController.ListPhotos)
		property.POST("/:id/reserve", authRequired, bookingController.Reserve)
		property.POST("/:id/rate", authRequired, bookingController.Rate)

		// Solo el anfitrión o un admin
		property.PUT("/:id", authRequired, ownerOrAdmin, propertyController.Update)
		property.DELETE("/:id", authRequired, ownerOrAdmin, propertyController.Delete)
		property.POST("/:id/photos", authRequired, ownerOrAdmin, propertyController.AddPhoto)
		property.DELETE("/:id/photos/:photoId", authRequired, ownerOrAdmin, propertyController.RemovePhoto)
		property.POST("/:id/commodities", authRequired, ownerOrAdmin, propertyController.AddCommodities)
		property.DELETE("/:id/commodities", authRequired, ownerOrAdmin, propertyController.RemoveCommodities)
		property.GET("/:id/reservations", authRequired, ownerOrAdmin, bookingController.ListPropertyReservations)
	}

	v1.GET("/photos/:photoId", propertyController.PhotoData)

	reservations := v1.Group("/reservations", authRequired)
	{
		reservations.GET("/me", bookingController.MyReservations)
		reservations.PATCH("/:id/cancel", bookingController.Cancel)
	}

	return router, nil
}
