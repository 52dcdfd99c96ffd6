package utils

import (
	"github.com/kataras/iris/v12"
)

// PageMeta describes one page of an admin listing.
type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

// JSONPage writes a paginated collection in the data/meta/links envelope used
// by the admin listings.
func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	ctx.JSON(iris.Map{
		"data":  data,
		"meta":  PageMeta{Page: page, PerPage: perPage, Total: total},
		"links": iris.Map{},
	})
}

// JSONError writes the tagged error shape {"error": code, "message": detail}.
func JSONError(ctx iris.Context, status int, code, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": code, "message": message})
}
