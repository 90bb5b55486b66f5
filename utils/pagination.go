package utils

import "github.com/gofiber/fiber/v2"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Paginate reads ?page and ?limit, clamping them to sane bounds.
func Paginate(c *fiber.Ctx) Pagination {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultPageSize)
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return Pagination{Page: page, Limit: limit}
}

type Page struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}
