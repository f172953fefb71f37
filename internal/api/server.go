package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/popuphq/passes-api/docs"
	v1 "github.com/popuphq/passes-api/internal/api/handler/v1"
	"github.com/popuphq/passes-api/internal/api/middleware"
	"github.com/popuphq/passes-api/internal/config"
	"github.com/popuphq/passes-api/internal/repository"
	"github.com/popuphq/passes-api/internal/repository/dao"
	"github.com/popuphq/passes-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))

	authHandler := s.initAuthHandler(db)
	userHandler := v1.NewUserHandler(userSvc)
	popupHandler := s.initPopupHandler(db, userSvc)
	applicationHandler := s.initApplicationHandler(db, userSvc)
	passesHandler, paymentHandler := s.initPassesHandlers(db, userSvc)
	s.MountHandlers(authHandler, userHandler, popupHandler, applicationHandler, passesHandler, paymentHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initPopupHandler(db *gorm.DB, userSvc *service.UserService) *v1.PopupHandler {
	popupDAO := dao.NewPopupDAO(db)
	repo := repository.NewPopupRepository(popupDAO)
	svc := service.NewPopupService(repo)
	handler := v1.NewPopupHandler(svc, userSvc)

	return handler
}

func (s *Server) initApplicationHandler(db *gorm.DB, userSvc *service.UserService) *v1.ApplicationHandler {
	appDAO := dao.NewApplicationDAO(db)
	repo := repository.NewApplicationRepository(appDAO)
	svc := service.NewApplicationService(repo)
	handler := v1.NewApplicationHandler(svc, userSvc)

	return handler
}

func (s *Server) initPassesHandlers(db *gorm.DB, userSvc *service.UserService) (*v1.PassesHandler, *v1.PaymentHandler) {
	appRepo := repository.NewApplicationRepository(dao.NewApplicationDAO(db))
	popupRepo := repository.NewPopupRepository(dao.NewPopupDAO(db))
	paymentRepo := repository.NewPaymentRepository(dao.NewPaymentDAO(db))

	passesSvc := service.NewPassesService(appRepo, popupRepo)
	paymentSvc := service.NewPaymentService(paymentRepo, appRepo, s.Config.Stripe)
	appSvc := service.NewApplicationService(appRepo)

	passesHandler := v1.NewPassesHandler(passesSvc, paymentSvc, userSvc)
	paymentHandler := v1.NewPaymentHandler(paymentSvc, appSvc, userSvc)

	return passesHandler, paymentHandler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	popupHandler *v1.PopupHandler,
	applicationHandler *v1.ApplicationHandler,
	passesHandler *v1.PassesHandler,
	paymentHandler *v1.PaymentHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	portal := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		portal.GET("/users/:userID", userHandler.HandleGetUser)

		portal.GET("/popups", popupHandler.HandleListPopups)
		portal.GET("/popups/:popupID", popupHandler.HandleGetPopup)
		portal.GET("/popups/:popupID/products", popupHandler.HandleListProducts)

		portal.POST("/applications", applicationHandler.HandleCreateApplication)
		portal.GET("/applications", applicationHandler.HandleListMyApplications)
		portal.GET("/applications/:applicationID", applicationHandler.HandleGetApplication)
		portal.POST("/applications/:applicationID/submit", applicationHandler.HandleSubmitApplication)
		portal.POST("/applications/:applicationID/attendees", applicationHandler.HandleAddAttendee)
		portal.DELETE("/applications/:applicationID/attendees/:attendeeID", applicationHandler.HandleRemoveAttendee)

		portal.GET("/applications/:applicationID/passes", passesHandler.HandleGetPassState)
		portal.POST("/applications/:applicationID/passes/toggle", passesHandler.HandleToggleProduct)
		portal.POST("/applications/:applicationID/passes/coupon", passesHandler.HandleApplyCoupon)
		portal.POST("/applications/:applicationID/passes/refresh", passesHandler.HandleRefresh)
		portal.POST("/applications/:applicationID/passes/checkout", passesHandler.HandleCheckout)
		portal.GET("/applications/:applicationID/payments", paymentHandler.HandleListMyPayments)
	}

	admin := s.Router.Group(basePath+"/admin", middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		admin.POST("/popups", popupHandler.HandleCreatePopup)
		admin.PUT("/popups/:popupID", popupHandler.HandleUpdatePopup)
		admin.POST("/popups/:popupID/products", popupHandler.HandleCreateProduct)
		admin.PUT("/popups/:popupID/products/:productID", popupHandler.HandleUpdateProduct)
		admin.POST("/popups/:popupID/coupons", popupHandler.HandleCreateCoupon)
		admin.GET("/popups/:popupID/coupons", popupHandler.HandleListCoupons)
		admin.GET("/popups/:popupID/applications", applicationHandler.HandleListApplicationsByPopup)
		admin.GET("/popups/:popupID/payments", paymentHandler.HandleListPaymentsByPopup)
		admin.POST("/applications/:applicationID/review", applicationHandler.HandleReviewApplication)
		admin.POST("/payments/:paymentID/approve", paymentHandler.HandleApprovePayment)
		admin.POST("/payments/:paymentID/reject", paymentHandler.HandleRejectPayment)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Popup Passes API"
	docs.SwaggerInfo.Description = "Pass pricing and registration API for popup city events."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
