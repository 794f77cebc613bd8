package v1

import (
	"github.com/go-chi/chi/v5"

	"github.com/devtrail/bootcamp-api/internal/auth"
	"github.com/devtrail/bootcamp-api/internal/config"
	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/service"
	"github.com/devtrail/bootcamp-api/internal/store"
	"github.com/devtrail/bootcamp-api/internal/utils"
)

type API struct {
	cfg    *config.Config
	router *chi.Mux
	store  *store.Store
	photos utils.PhotoStorage
}

func NewAPI(cfg *config.Config, s *store.Store, photos utils.PhotoStorage) *API {
	api := &API{cfg: cfg, router: chi.NewRouter(), store: s, photos: photos}
	api.routes()
	return api
}

func (a *API) Routes() *chi.Mux {
	return a.router
}

func (a *API) routes() {
	usvc := service.NewUserService(a.store)

	authH := NewAuthHandler(a.cfg, usvc)
	bootcampH := NewBootcampHandler(a.store, a.photos, a.cfg.MaxUploadBytes)
	courseH := NewCourseHandler(a.store)
	reviewH := NewReviewHandler(a.store)
	userH := NewUserHandler(a.store, usvc)

	protect := auth.Middleware(a.cfg, a.store)
	publisherOrAdmin := auth.RequireRoles(models.RolePublisher, models.RoleAdmin)
	userOrAdmin := auth.RequireRoles(models.RoleUser, models.RoleAdmin)
	adminOnly := auth.RequireRoles(models.RoleAdmin)

	r := a.router

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
		r.With(protect).Get("/me", authH.Me)
	})

	r.Route("/bootcamps", func(r chi.Router) {
		r.Get("/", bootcampH.List)
		r.Get("/radius/{zipcode}/{distance}", bootcampH.InRadius)
		r.With(protect, publisherOrAdmin).Post("/", bootcampH.Create)

		r.Route("/{bootcampID}", func(r chi.Router) {
			r.Get("/", bootcampH.Get)

			// ownership is checked in the handlers on top of the role gate
			r.Group(func(r chi.Router) {
				r.Use(protect, publisherOrAdmin)
				r.Put("/", bootcampH.Update)
				r.Delete("/", bootcampH.Delete)
				r.Put("/photo", bootcampH.UploadPhoto)
			})

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", courseH.List)
				r.With(protect, publisherOrAdmin).Post("/", courseH.Create)
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", reviewH.List)
				r.With(protect, userOrAdmin).Post("/", reviewH.Create)
			})
		})
	})

	r.Route("/courses", func(r chi.Router) {
		r.Get("/", courseH.List)
		r.Get("/{id}", courseH.Get)
		r.With(protect, publisherOrAdmin).Put("/{id}", courseH.Update)
		r.With(protect, publisherOrAdmin).Delete("/{id}", courseH.Delete)
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", reviewH.List)
		r.Get("/{id}", reviewH.Get)
		r.With(protect, userOrAdmin).Put("/{id}", reviewH.Update)
		r.With(protect, userOrAdmin).Delete("/{id}", reviewH.Delete)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(protect, adminOnly)
		r.Get("/", userH.List)
		r.Post("/", userH.Create)
		r.Get("/{id}", userH.Get)
		r.Put("/{id}", userH.Update)
		r.Delete("/{id}", userH.Delete)
	})

	r.Get("/health", HealthHandler(a.store))
}
