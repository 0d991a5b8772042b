package api

import (
	"github.com/Thonzy/Inventory-App/internal/api/handlers"
	"github.com/Thonzy/Inventory-App/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDeps carries everything the router needs to wire its handlers.
type RouterDeps struct {
	FrontendURL    string
	Issuer         *auth.TokenIssuer
	Resolver       auth.UserResolver
	UserHandler    *handlers.UserHandler
	ProductHandler *handlers.ProductHandler
	EventHandler   *handlers.EventHandler
	WSHandler      *handlers.WebSocketHandler
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	requireAuth := auth.RequireAuth(deps.Issuer, deps.Resolver)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", deps.UserHandler.Register)
		r.Post("/login", deps.UserHandler.Login)
		r.Get("/logout", deps.UserHandler.Logout)
		r.Get("/loggedin", deps.UserHandler.LoginStatus)
		r.Post("/forgotpassword", deps.UserHandler.ForgotPassword)
		r.Put("/resetpassword/{resetToken}", deps.UserHandler.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/getuser", deps.UserHandler.GetUser)
			r.Patch("/updateuser", deps.UserHandler.UpdateUser)
			r.Patch("/changepassword", deps.UserHandler.ChangePassword)
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", deps.ProductHandler.GetAll)
		r.Post("/", deps.ProductHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", deps.ProductHandler.Get)
			r.Patch("/", deps.ProductHandler.Update)
			r.Delete("/", deps.ProductHandler.Delete)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/api/events", deps.EventHandler.GetRecent)
		r.Get("/ws", deps.WSHandler.Serve)
	})

	return r
}
