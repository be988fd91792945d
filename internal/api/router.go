package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adpulse/marketing-api/internal/api/handler"
	"github.com/adpulse/marketing-api/internal/api/middleware"
	"github.com/adpulse/marketing-api/internal/core/ports"
	"github.com/adpulse/marketing-api/internal/core/service"
	storemongo "github.com/adpulse/marketing-api/internal/infrastructure/db/mongo"
	storeredis "github.com/adpulse/marketing-api/internal/infrastructure/db/redis"
)

// Dependencies carries everything the router needs to assemble the handler
// graph. Collaborator clients are injected so tests and the local debug
// entry point can substitute fakes.
type Dependencies struct {
	DB        *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Log       zerolog.Logger

	Subscriptions ports.SubscriptionClient
	AdClients     []ports.AdNetworkClient
	IdP           ports.IdentityProvider
	Mailer        ports.Mailer
	Publisher     ports.Publisher

	Settings handler.PlatformSettings
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	// --- Repositories ---
	accountRepo := storemongo.NewAccountRepository(deps.DB)
	businessRepo := storemongo.NewBusinessRepository(deps.DB)
	promoRepo := storemongo.NewPromoRepository(deps.DB)
	twoFactor := storeredis.NewTwoFactorStore(deps.Redis)

	// --- Services ---
	entitlements := service.NewEntitlementService(accountRepo)
	accountSvc := service.NewAccountService(accountRepo, promoRepo, twoFactor)
	billingSvc := service.NewBillingService(accountRepo, deps.Subscriptions)
	adSvc := service.NewAdNetworkService(accountRepo, deps.Publisher, deps.Log, deps.AdClients...)
	staffSvc := service.NewStaffService(accountRepo, deps.IdP, deps.Mailer, deps.Log)
	businessSvc := service.NewBusinessService(businessRepo)

	// --- Handlers ---
	shell := handler.NewShell(entitlements, deps.Log)
	accountHandler := handler.NewAccountHandler(shell, accountSvc)
	billingHandler := handler.NewBillingHandler(shell, billingSvc)
	adHandler := handler.NewAdNetworkHandler(shell, adSvc)
	staffHandler := handler.NewStaffHandler(shell, staffSvc)
	businessHandler := handler.NewBusinessHandler(shell, businessSvc)
	settingsHandler := handler.NewSettingsHandler(shell, deps.Settings)

	auth := middleware.Auth(deps.JWTSecret)

	// --- Unauthenticated surface ---
	e.GET("/settings", settingsHandler.Get)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operations ---
	ops := e.Group("/ops", auth)
	ops.POST("/account.get", accountHandler.Get)
	ops.POST("/account.updateProfile", accountHandler.UpdateProfile)
	ops.POST("/account.disconnect", accountHandler.Disconnect)
	ops.POST("/account.setupTwoFactor", accountHandler.SetupTwoFactor)
	ops.POST("/account.verifyTwoFactor", accountHandler.VerifyTwoFactor)
	ops.POST("/account.redeemPromo", accountHandler.RedeemPromo)

	ops.POST("/billing.getSubscription", billingHandler.GetSubscription)
	ops.POST("/billing.changePlan", billingHandler.ChangePlan)

	ops.POST("/adnetwork.connect", adHandler.Connect)
	ops.POST("/adnetwork.listAdAccounts", adHandler.ListAdAccounts)
	ops.POST("/adnetwork.listCampaigns", adHandler.ListCampaigns)
	ops.POST("/adnetwork.listPixels", adHandler.ListPixels)
	ops.POST("/adnetwork.triggerFetch", adHandler.TriggerFetch)

	ops.POST("/staff.invite", staffHandler.Invite)
	ops.POST("/staff.list", staffHandler.List)
	ops.POST("/staff.remove", staffHandler.Remove)

	ops.POST("/business.get", businessHandler.Get)
	ops.POST("/business.create", businessHandler.Create)
	ops.POST("/business.update", businessHandler.Update)
	ops.POST("/business.list", businessHandler.List)

	return e
}
