package wire

import (
	"shop-api/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireProduct(r chi.Router, productHandler *adaptor.ProductHandler, commentHandler *adaptor.CommentHandler, g guards) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/products", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		// registered before /{id} so "categories" is not read as a slug
		r.Get("/categories", productHandler.GetCategories)
		r.With(g.optional).Get("/{id}", productHandler.GetProduct)
		r.Get("/{id}/similar", productHandler.GetSimilarProducts)
		r.Get("/{id}/comments", commentHandler.GetProductComments)
	})

	// ==================== PROTECTED ROUTES ====================
	r.With(g.auth).Get("/recently-viewed", productHandler.GetRecentlyViewed)

	// ==================== ADMIN ROUTES ====================
	r.With(g.auth, g.admin).Route("/admin/products", func(r chi.Router) {
		r.Post("/", productHandler.CreateProduct)
		r.Put("/{id}", productHandler.UpdateProduct)
		r.Delete("/{id}", productHandler.DeleteProduct)
	})
}
