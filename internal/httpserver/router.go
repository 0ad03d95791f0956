package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smartband-store/internal/domain"
	cartsvc "smartband-store/internal/service/cart"
	contactsvc "smartband-store/internal/service/contact"
	"smartband-store/internal/service/session"
)

type productService interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type cartService interface {
	Apply(ctx context.Context, store cartsvc.Dispatcher, in cartsvc.UpdateInput) (domain.CartState, error)
	Add(ctx context.Context, store cartsvc.Dispatcher, productID string) (domain.CartState, error)
}

type contactService interface {
	Submit(ctx context.Context, in contactsvc.Input) (*domain.ContactMessage, error)
}

type sessionResolver interface {
	Resolve(ctx context.Context, token string) (session.Issued, error)
}

type rateCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
}

// Deps are the services the router dispatches to. Limiter and the readiness
// checks are optional.
type Deps struct {
	ProductSvc productService
	CartSvc    cartService
	ContactSvc contactService
	Sessions   sessionResolver
	Limiter    rateCounter
	Ready      map[string]Pinger
}

type Options struct {
	CORSOrigins  []string
	CookieName   string
	CookieSecure bool
	AuthRateMax  int
	RateWindow   time.Duration
}

// buildRouter wires routes for the API.
func buildRouter(logger *slog.Logger, deps Deps, opts Options) (*gin.Engine, error) {
	if deps.ProductSvc == nil || deps.CartSvc == nil || deps.ContactSvc == nil || deps.Sessions == nil {
		return nil, errors.New("httpserver: missing service dependency")
	}
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), metricsMiddleware())
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", sessionHeader, requestIDHeader},
			ExposeHeaders:    []string{sessionHeader, requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Ready))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &handlers{deps: deps, logger: logger}

	api := router.Group("/api")
	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/contact/subjects", h.contactSubjects)
	api.POST("/contact", h.submitContact)

	sess := api.Group("", sessionMiddleware(deps.Sessions, opts))
	sess.GET("/cart", h.getCart)
	sess.POST("/cart/actions", h.applyCartActions)
	sess.POST("/cart/items", h.addCartItem)
	sess.PATCH("/cart/items/:productId", h.updateCartItem)
	sess.DELETE("/cart/items/:productId", h.removeCartItem)
	sess.DELETE("/cart", h.clearCart)

	sess.GET("/checkout", h.getCheckout)
	sess.PATCH("/checkout/customer", h.updateCustomerInfo)
	sess.PUT("/checkout/payment-method", h.selectPaymentMethod)
	sess.POST("/checkout/next", h.checkoutNext)
	sess.POST("/checkout/back", h.checkoutBack)
	sess.POST("/checkout/submit", h.checkoutSubmit)

	authGroup := sess.Group("/auth")
	authGroup.GET("/me", h.authState)
	authGroup.POST("/logout", h.logout)
	authGroup.POST("/clear-error", h.clearAuthError)
	limited := authGroup.Group("", rateLimiter(deps.Limiter, opts.AuthRateMax, opts.RateWindow))
	limited.POST("/login", h.login)
	limited.POST("/register", h.register)

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *slog.Logger
}
