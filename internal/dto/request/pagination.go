package request

import (
	"net/url"

	"shop-api/pkg/utils"
)

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"itemsPerPage" validate:"min=1,max=100"`
}

// PaginationFromQuery reads page and itemsPerPage (or per_page). Missing or
// non-numeric values fall back to the defaults and the size is capped.
func PaginationFromQuery(q url.Values) PaginatedRequest {
	perPage := q.Get("itemsPerPage")
	if perPage == "" {
		perPage = q.Get("per_page")
	}

	page, size := utils.NormalizePaging(
		utils.ParseInt(q.Get("page"), utils.DefaultPage),
		utils.ParseInt(perPage, utils.DefaultPerPage),
	)
	return PaginatedRequest{Page: page, PerPage: size}
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return utils.DefaultPerPage
	}
	if p.PerPage > utils.MaxPerPage {
		return utils.MaxPerPage
	}
	return p.PerPage
}
