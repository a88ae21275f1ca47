package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// NewRouter assembles the full HTTP surface: public auth and recovery
// endpoints, bearer-protected document endpoints, and a health check.
func NewRouter(h *Handler, secretKey []byte, corsAllowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/sign-up", h.RegisterUser)
			r.Post("/login", h.LoginUser)
			r.Post("/recover", h.RecoverPassword)
			r.Post("/reset", h.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(secretKey))
			r.Route("/documents", func(r chi.Router) {
				r.Get("/", h.ListDocuments)
				r.Post("/", h.SaveDocument)
				r.Post("/upload", h.UploadDocument)
				r.Get("/{id}", h.GetDocument)
				r.Delete("/{id}", h.DeleteDocument)
			})
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})

	return c.Handler(r)
}
