package routes

import (
	"log"
	"strings"

	"parkpal-server/models"
	"parkpal-server/storage"
	"parkpal-server/utils"

	"github.com/kataras/iris/v12"
)

const defaultSearchLimit = 50

// SearchSpaces handles parking-space search with text, availability and
// price-order filters
func SearchSpaces(ctx iris.Context) {
	q := storage.DB.Model(&models.ParkingSpace{})

	// Free-text filter: case-insensitive substring across the location-ish
	// columns. A partial postcode like "SE17" matches here too. Postcodes are
	// stored without the internal space, so the postcode column is also matched
	// against the space-stripped query ("SE17 3RY" -> "SE173RY").
	if text := strings.TrimSpace(ctx.URLParam("q")); text != "" {
		like := "%" + strings.ToLower(text) + "%"
		compact := "%" + strings.ToLower(utils.NormalizePostcode(text)) + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(location) LIKE ? OR LOWER(address) LIKE ? OR LOWER(postcode) LIKE ? OR LOWER(postcode) LIKE ?",
			like, like, like, like, compact)
	}

	// Availability flag arrives as bool or string bool depending on the
	// client; coerce at the boundary and ignore unrecognized values.
	if raw := strings.TrimSpace(ctx.URLParam("available")); raw != "" {
		if available, ok := utils.CoerceBool(raw); ok && available {
			q = q.Where("is_available = ?", true)
		} else if ok {
			q = q.Where("COALESCE(is_available, ?) = ?", false, false)
		}
	}

	limit := ctx.URLParamIntDefault("limit", defaultSearchLimit)
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}
	q = q.Limit(limit)

	sort := strings.ToLower(strings.TrimSpace(ctx.URLParam("sort")))
	switch sort {
	case "price_low":
		q = q.Order("price_per_hour ASC").Order("id DESC")
	case "price_high":
		q = q.Order("price_per_hour DESC").Order("id DESC")
	default:
		q = q.Order("created_at DESC")
	}

	spaces := []models.ParkingSpace{}
	if err := q.Find(&spaces).Error; err != nil {
		log.Printf("SearchSpaces: query failed: %v", err)
		utils.CreateQueryFailed(ctx)
		return
	}

	// No matches is not an error; an empty array is a valid result set.
	ctx.JSON(spaces)
}
