package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakmart/shopcore/internal/service"
	"github.com/oakmart/shopcore/pkg/health"
	"github.com/oakmart/shopcore/pkg/middleware"
)

// Services bundles the service layer dependencies of the router.
type Services struct {
	Products   *service.ProductService
	Categories *service.CategoryService
	Offers     *service.OfferService
	Reviews    *service.ReviewService
	Carts      *service.CartService
	Wishlists  *service.WishlistService
	Coupons    *service.CouponService
	Orders     *service.OrderService
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(
	services Services,
	healthHandler *health.Handler,
	corsCfg middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("shopcore"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	productHandler := NewProductHandler(services.Products, logger)
	categoryHandler := NewCategoryHandler(services.Categories, logger)
	offerHandler := NewOfferHandler(services.Offers, logger)
	reviewHandler := NewReviewHandler(services.Reviews, logger)
	cartHandler := NewCartHandler(services.Carts, logger)
	wishlistHandler := NewWishlistHandler(services.Wishlists, logger)
	couponHandler := NewCouponHandler(services.Coupons, logger)
	orderHandler := NewOrderHandler(services.Orders, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.With(RequireAdmin).Post("/", productHandler.CreateProduct)
		r.Get("/", productHandler.ListProducts)

		// Static routes must come before /{id} to avoid conflict.
		r.Get("/slug/{slug}", productHandler.GetProductBySlug)

		r.Get("/{id}", productHandler.GetProduct)
		r.With(RequireAdmin).Put("/{id}", productHandler.UpdateProduct)
		r.With(RequireAdmin).Delete("/{id}", productHandler.DeleteProduct)

		r.Post("/{id}/reviews", reviewHandler.CreateReview)
		r.Get("/{id}/reviews", reviewHandler.ListReviews)
		r.Get("/{id}/reviews/stats", reviewHandler.GetReviewStats)
	})

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.With(RequireAdmin).Post("/", categoryHandler.CreateCategory)
		r.Get("/", categoryHandler.ListCategories)
		r.Get("/{id}", categoryHandler.GetCategory)
		r.With(RequireAdmin).Put("/{id}", categoryHandler.UpdateCategory)
		r.With(RequireAdmin).Delete("/{id}", categoryHandler.DeleteCategory)
	})

	r.Route("/api/v1/offers", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.With(RequireAdmin).Post("/", offerHandler.CreateOffer)
		r.Get("/active", offerHandler.ListActiveOffers)
		r.Get("/{id}", offerHandler.GetOffer)
		r.Post("/{id}/redeem", offerHandler.RedeemOffer)
		r.With(RequireAdmin).Put("/{id}", offerHandler.UpdateOffer)
		r.With(RequireAdmin).Delete("/{id}", offerHandler.DeleteOffer)
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/{id}", reviewHandler.GetReview)
		r.Put("/{id}", reviewHandler.UpdateReview)
		r.Delete("/{id}", reviewHandler.DeleteReview)
		r.Post("/{id}/helpful", reviewHandler.MarkHelpful)
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)
		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
		r.Delete("/items/{productId}", cartHandler.RemoveItem)
	})

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", wishlistHandler.GetWishlist)
		r.Delete("/", wishlistHandler.ClearWishlist)
		r.Post("/items", wishlistHandler.AddProduct)
		r.Delete("/items/{productId}", wishlistHandler.RemoveProduct)
	})

	r.Route("/api/v1/coupons", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.With(RequireAdmin).Post("/", couponHandler.CreateCoupon)
		r.With(RequireAdmin).Get("/", couponHandler.ListCoupons)
		r.Post("/validate", couponHandler.ValidateCoupon)
		r.With(RequireAdmin).Delete("/{id}", couponHandler.DeleteCoupon)
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/checkout", orderHandler.Checkout)
		r.Get("/", orderHandler.ListOrders)
		r.Get("/{id}", orderHandler.GetOrder)
		r.Post("/{id}/cancel", orderHandler.CancelOrder)
		r.With(RequireAdmin).Patch("/{id}/status", orderHandler.UpdateOrderStatus)
	})

	return r
}
