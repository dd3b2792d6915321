// Package server assembles the echo instance: middleware chain and routes.
package server

import (
	"log/slog"
	"net"

	"client-gate/internal/adapter/cookies"
	"client-gate/internal/adapter/handler"
	authmiddleware "client-gate/internal/adapter/middleware"
	"client-gate/internal/domain"
	"client-gate/internal/usecase"
	appmiddleware "client-gate/middleware"
	"client-gate/utils/logger"
	"client-gate/utils/validator"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

// Options are the router's switches, resolved from config by the caller.
type Options struct {
	TenantBindingEnabled bool
	CookieSecure         bool
	InternalAuthSecret   string
	// TrustedProxies may set X-Forwarded-For. When empty the peer address is
	// the client IP and forwarding headers are ignored.
	TrustedProxies []*net.IPNet
	OTelEnabled          bool
	ServiceName          string
	AppTitle             string
}

// Deps carries the use cases and collaborators the routes need.
type Deps struct {
	Login                 *usecase.Login
	Logout                *usecase.Logout
	Register              *usecase.Register
	Authenticate          *usecase.Authenticate
	ValidateTenantBinding *usecase.ValidateTenantBinding
	GetClientInfo         *usecase.GetClientInfo

	// DB backs /health; nil reports healthy unconditionally.
	DB handler.Pinger
	// CredentialLimiter throttles login and register; nil disables throttling.
	CredentialLimiter *appmiddleware.RateLimiter
	Logger            *slog.Logger
}

// NewRouter builds the HTTP surface.
func NewRouter(opts Options, deps Deps) *echo.Echo {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	ctxLogger := logger.NewContextLogger(log)
	jar := cookies.NewJar(opts.CookieSecure)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()
	e.IPExtractor = ipExtractor(opts.TrustedProxies)

	e.Use(appmiddleware.SecurityHeaders(appmiddleware.SecurityHeadersConfig{HSTS: opts.CookieSecure}))

	if opts.OTelEnabled {
		e.Use(otelecho.Middleware(opts.ServiceName))
		e.Use(appmiddleware.OTelStatusMiddleware())
	}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			c.SetRequest(c.Request().WithContext(logger.WithRequestID(c.Request().Context(), id)))
		},
	}))
	e.Use(requestLogger(ctxLogger))
	e.Use(middleware.Recover())

	e.Use(authmiddleware.Authenticate(deps.Authenticate))
	e.Use(authmiddleware.TenantBinding(authmiddleware.TenantBindingConfig{
		Enabled: opts.TenantBindingEnabled,
		UseCase: deps.ValidateTenantBinding,
		Jar:     jar,
		Logger:  log,
	}))
	e.Use(logContext())

	authHandler := handler.NewAuthHandler(deps.Login, deps.Logout, deps.Register, jar)
	clientInfoHandler := handler.NewClientInfoHandler(deps.GetClientInfo)
	healthHandler := handler.NewHealthHandler(deps.DB)
	shellHandler := handler.NewAppShellHandler(opts.AppTitle)

	var throttle []echo.MiddlewareFunc
	if deps.CredentialLimiter != nil {
		throttle = append(throttle, deps.CredentialLimiter.Middleware())
	}

	api := e.Group("/api")
	api.POST("/login", authHandler.Login, throttle...)
	api.POST("/register", authHandler.Register, throttle...)

	protected := api.Group("", authmiddleware.RequireAuth())
	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", authHandler.Me)
	protected.GET("/client-info", clientInfoHandler.Handle)

	api.Any("/*", func(echo.Context) error { return echo.ErrNotFound })

	e.GET("/health", healthHandler.Handle)

	internal := e.Group("/internal")
	if opts.InternalAuthSecret != "" {
		internal.Use(appmiddleware.InternalAuth(opts.InternalAuthSecret))
	}
	internal.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/", shellHandler.Handle)
	e.GET("/*", shellHandler.Handle)

	return e
}

// ipExtractor decides what c.RealIP reports to the credential throttle and the
// audit log.
func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

func requestLogger(cl *logger.ContextLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			l := cl.WithContext(rctx)
			if v.Error == nil {
				l.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
				return nil
			}
			l.ErrorContext(rctx, "request failed",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"error", v.Error.Error())
			return nil
		},
	})
}

// logContext copies the resolved user and client ids into the logging context.
func logContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if p, ok := domain.PrincipalFrom(ctx); ok {
				ctx = logger.WithUserID(ctx, p.User.ID)
			}
			if t, ok := domain.TenantContextFrom(ctx); ok {
				ctx = logger.WithTenantID(ctx, t.ID)
			}
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
