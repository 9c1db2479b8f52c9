package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"go-storefront/controllers"
	"go-storefront/middleware"
	"go-storefront/utils"
)

// Controllers groups every HTTP handler set the router needs.
type Controllers struct {
	User     *controllers.UserController
	Account  *controllers.AccountController
	Cart     *controllers.CartController
	Loved    *controllers.LovedController
	Order    *controllers.OrderController
	Payment  *controllers.PaymentController
	Product  *controllers.ProductController
	Delivery *controllers.DeliveryController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, auth *middleware.Auth, uploadDir string, logger *zap.Logger) {
	router.Use(middleware.Logger(logger))

	// Public routes
	user := router.PathPrefix("/user").Subrouter()
	user.HandleFunc("/register", c.User.Register).Methods(http.MethodPost)
	user.HandleFunc("/login", c.User.Login).Methods(http.MethodPost)
	user.HandleFunc("/forgotPassword", c.User.ForgotPassword).Methods(http.MethodPost)
	user.HandleFunc("/verify-otp", c.User.VerifyOTP).Methods(http.MethodPost)
	user.HandleFunc("/resetPassword", c.User.ResetPassword).Methods(http.MethodPost)

	// Protected user routes
	account := router.PathPrefix("/user").Subrouter()
	account.Use(auth.Middleware)
	account.HandleFunc("/profile", c.Account.GetProfile).Methods(http.MethodGet)
	account.HandleFunc("/profile", c.Account.UpdateProfile).Methods(http.MethodPut)
	account.HandleFunc("/delete", c.Account.DeleteAccount).Methods(http.MethodDelete)
	account.HandleFunc("/address", c.Account.AddAddress).Methods(http.MethodPost)
	account.HandleFunc("/addresses", c.Account.GetAddresses).Methods(http.MethodGet)
	account.HandleFunc("/address/{id}", c.Account.UpdateAddress).Methods(http.MethodPut)
	account.HandleFunc("/address/{id}", c.Account.DeleteAddress).Methods(http.MethodDelete)

	account.HandleFunc("/order", c.Order.CreateOrder).Methods(http.MethodPost)
	account.HandleFunc("/orders", c.Order.GetOrders).Methods(http.MethodGet)
	account.HandleFunc("/orders/clear", c.Order.ClearOrders).Methods(http.MethodDelete)

	account.HandleFunc("/loved", c.Loved.AddLoved).Methods(http.MethodPost)
	account.HandleFunc("/loved", c.Loved.GetLoved).Methods(http.MethodGet)
	account.HandleFunc("/remove", c.Loved.RemoveLoved).Methods(http.MethodPost)
	account.HandleFunc("/loved/clear", c.Loved.ClearLoved).Methods(http.MethodDelete)

	// Cart Routes
	cart := router.PathPrefix("/cart").Subrouter()
	cart.Use(auth.Middleware)
	cart.HandleFunc("", c.Cart.GetCart).Methods(http.MethodGet)
	cart.HandleFunc("", c.Cart.AddToCart).Methods(http.MethodPost)
	cart.HandleFunc("", c.Cart.UpdateCartItem).Methods(http.MethodPut)
	cart.HandleFunc("", c.Cart.ClearCart).Methods(http.MethodDelete)
	cart.HandleFunc("/{productId}", c.Cart.UpdateCartQuantity).Methods(http.MethodPatch)
	cart.HandleFunc("/{productId}", c.Cart.RemoveFromCart).Methods(http.MethodDelete)

	payment := router.PathPrefix("/payment").Subrouter()
	payment.Use(auth.Middleware)
	payment.HandleFunc("/create-order", c.Payment.CreatePaymentIntent).Methods(http.MethodPost)

	// Catalog
	router.HandleFunc("/products/getProducts", c.Product.GetProducts).Methods(http.MethodGet)
	router.HandleFunc("/categories/getCategories", c.Product.GetCategories).Methods(http.MethodGet)
	router.HandleFunc("/delivery/options", c.Delivery.GetOptions).Methods(http.MethodGet)

	// Admin routes
	admin := router.NewRoute().Subrouter()
	admin.Use(auth.Middleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/products/createProducts", c.Product.CreateProduct).Methods(http.MethodPost)
	admin.HandleFunc("/categories/createCategories", c.Product.CreateCategory).Methods(http.MethodPost)
	admin.HandleFunc("/orders/{id}/pay", c.Order.UpdateOrderPaymentStatus).Methods(http.MethodPut)
	admin.HandleFunc("/orders/{id}/deliver", c.Order.UpdateOrderDeliveryStatus).Methods(http.MethodPut)

	router.HandleFunc("/products/{id}", c.Product.GetProductByID).Methods(http.MethodGet)

	router.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", http.FileServer(http.Dir(uploadDir))))

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}
