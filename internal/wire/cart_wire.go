package wire

import (
	"shop-api/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCart(r chi.Router, cartHandler *adaptor.CartHandler, g guards) {
	r.With(g.auth).Route("/carts", func(r chi.Router) {
		r.Get("/", cartHandler.GetCart)
		r.Post("/", cartHandler.AddItem)
		r.Delete("/", cartHandler.ClearCart)
		r.Put("/{itemId}", cartHandler.UpdateItem)
		r.Delete("/{itemId}", cartHandler.RemoveItem)
	})
}

func wireFavorite(r chi.Router, favoriteHandler *adaptor.FavoriteHandler, g guards) {
	r.With(g.auth).Route("/favorites", func(r chi.Router) {
		r.Get("/", favoriteHandler.ListFavorites)
		r.Post("/", favoriteHandler.AddFavorite)
		r.Delete("/{productId}", favoriteHandler.RemoveFavorite)
	})
}
