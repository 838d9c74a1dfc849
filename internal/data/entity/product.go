package entity

type Product struct {
	Base
	Name          string   `db:"name"`
	Slug          string   `db:"slug"`
	Description   *string  `db:"description"`
	Category      string   `db:"category"`
	Price         float64  `db:"price"`
	OriginalPrice *float64 `db:"original_price"`
	Discount      int      `db:"discount"`
	Image         *string  `db:"image"`
	Images        []string `db:"images"`
	Tags          []string `db:"tags"`
	InStock       bool     `db:"in_stock"`
	IsOnSale      bool     `db:"is_on_sale"`
	Rating        float64  `db:"rating"`
	RatingCount   int      `db:"rating_count"`
	ViewCount     int64    `db:"view_count"`
	CommentCount  int      `db:"comment_count"`
}
