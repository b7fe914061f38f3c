package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/config"
	httpx "github.com/you/identitysvc/internal/http"
	"github.com/you/identitysvc/internal/http/handlers"
	"github.com/you/identitysvc/internal/http/middleware"
	"github.com/you/identitysvc/internal/infrastructure/audit"
	"github.com/you/identitysvc/internal/infrastructure/auth"
	"github.com/you/identitysvc/internal/infrastructure/database"
	"github.com/you/identitysvc/internal/infrastructure/notifications"
	"github.com/you/identitysvc/internal/infrastructure/repositories"
	"github.com/you/identitysvc/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Registry    *prometheus.Registry
	Casbin      *auth.CasbinService

	// Repositories
	UserRepo          domain.UserRepository
	VerificationStore domain.VerificationStore

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	AuditLogger     domain.AuditLogger
	PolicySvc       domain.PolicyService
	IdentitySvc     domain.IdentityService
	VerificationSvc domain.VerificationService

	Router *gin.Engine
}

// Option overrides a dependency before the container builds it
type Option func(*Container)

// WithLogger sets the logger
func WithLogger(lg *zap.Logger) Option {
	return func(c *Container) { c.Logger = lg }
}

// WithDB uses an already opened database
func WithDB(db *gorm.DB) Option {
	return func(c *Container) { c.DB = db }
}

// WithNotificationService replaces the Twilio client
func WithNotificationService(svc domain.NotificationService) Option {
	return func(c *Container) { c.NotificationSvc = svc }
}

// WithRegistry sets the metrics registry
func WithRegistry(reg *prometheus.Registry) Option {
	return func(c *Container) { c.Registry = reg }
}

// NewContainer creates and initializes all dependencies
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	// Initialize infrastructure
	if err := c.initDatabase(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.initRegistry()

	// Initialize repositories
	c.initRepositories()

	// Initialize services
	if err := c.initServices(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initPolicies(); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.initRouter(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) initDatabase() error {
	if c.DB == nil {
		db, err := database.Open(c.Config.DBDriver, c.Config.DSN, database.Options{
			MaxOpenConns:    c.Config.DBMaxOpenConns,
			MaxIdleConns:    c.Config.DBMaxIdleConns,
			ConnMaxLifetime: c.Config.DBConnMaxLifetime,
		})
		if err != nil {
			return err
		}
		c.DB = db
	}
	return database.AutoMigrate(c.DB)
}

// initRedis connects when an address is configured. Without Redis the
// verification resend window is not enforced.
func (c *Container) initRedis(ctx context.Context) error {
	if c.Config.RedisAddr == "" {
		c.Logger.Warn("redis not configured, verification resend throttling disabled")
		return nil
	}
	client, err := database.NewRedis(ctx, c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err != nil {
		return err
	}
	c.RedisClient = client
	return nil
}

func (c *Container) initRegistry() {
	if c.Registry != nil {
		return
	}
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	if c.RedisClient != nil {
		c.VerificationStore = repositories.NewVerificationStore(c.RedisClient)
	}
}

func (c *Container) initServices() error {
	// Initialize basic services
	if c.Config.BcryptCost > 0 {
		c.PasswordSvc = auth.NewPasswordServiceWithCost(c.Config.BcryptCost)
	} else {
		c.PasswordSvc = auth.NewPasswordService()
	}
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.AccessTTL)
	if c.NotificationSvc == nil {
		c.NotificationSvc = notifications.NewTwilioService(notifications.TwilioConfig{
			AccountSID:       c.Config.TwilioSID,
			AuthToken:        c.Config.TwilioToken,
			VerifyServiceSID: c.Config.TwilioVerifyServiceSID,
		}, c.Logger.Named("twilio"))
	}

	auditLogger, err := audit.NewLogger(c.Logger, audit.Options{Registerer: c.Registry})
	if err != nil {
		return err
	}
	c.AuditLogger = auditLogger

	// Initialize identity and verification services
	c.IdentitySvc = services.NewIdentityService(c.UserRepo, c.PasswordSvc, c.TokenSvc, c.AuditLogger, c.Logger.Named("identity"))

	verificationCfg := services.VerificationConfig{ResendWindow: c.Config.VerificationResendWindow}
	if c.VerificationStore == nil {
		verificationCfg.ResendWindow = 0
	}
	c.VerificationSvc = services.NewVerificationService(
		c.UserRepo,
		c.NotificationSvc,
		c.VerificationStore,
		c.AuditLogger,
		verificationCfg,
		c.Logger.Named("verification"),
	)
	return nil
}

func (c *Container) initPolicies() error {
	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.Casbin = cas
	c.PolicySvc = services.NewPolicyService(cas.E)

	if err := services.SeedPolicies(c.PolicySvc, services.DefaultRoutePolicies); err != nil {
		return fmt.Errorf("failed to seed route policies: %w", err)
	}
	c.Logger.Info("casbin policies loaded", zap.Int("count", len(c.PolicySvc.GetPolicies())))
	return nil
}

func (c *Container) initRouter() error {
	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{Registerer: c.Registry})
	if err != nil {
		return err
	}

	c.Router = httpx.BuildRouter(httpx.RouterDeps{
		Identity:     handlers.NewIdentityHandlers(c.IdentitySvc, c.Logger),
		Verification: handlers.NewVerificationHandlers(c.VerificationSvc, c.Logger),
		JWT:          middleware.NewAuthMW(c.TokenSvc, c.UserRepo, c.Logger),
		Casbin:       middleware.NewCasbinMW(c.PolicySvc, c.Logger),
		Metrics:      metrics,
		Gatherer:     c.Registry,
		Logger:       c.Logger.Named("http"),
	})
	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
