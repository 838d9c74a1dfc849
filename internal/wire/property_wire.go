package wire

import (
	"shop-api/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireProperty(r chi.Router, propertyHandler *adaptor.PropertyHandler, g guards) {
	r.Route("/properties", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.With(g.optional).Get("/", propertyHandler.GetProperties)
		r.With(g.optional).Get("/{id}", propertyHandler.GetPropertyDetails)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(g.auth)
			r.Post("/", propertyHandler.CreateProperty)
			r.Post("/{id}/media", propertyHandler.AddMedia)
		})
	})
}

func wireComment(r chi.Router, commentHandler *adaptor.CommentHandler, g guards) {
	r.Group(func(r chi.Router) {
		r.Use(g.auth)
		r.Post("/comments", commentHandler.CreateComment)
		r.Delete("/comments/{commentId}", commentHandler.DeleteComment)
	})
}
