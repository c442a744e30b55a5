package routes

import (
	"strconv"
	"strings"

	"github.com/JavierManriquez/incluimap/models"
	"github.com/JavierManriquez/incluimap/storage"
	"github.com/JavierManriquez/incluimap/utils"

	"github.com/kataras/iris/v12"
)

type placeSearchRow struct {
	ID           uint
	Name         string
	Address      string
	Lat          string
	Lng          string
	Tags         string
	AvgRating    *float64
	ReportsCount int64
}

// PlaceSearchResult is the public map payload. Coordinates are numeric
// here; rows whose stored coordinates do not parse are skipped entirely.
type PlaceSearchResult struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	Tags         string   `json:"tags"`
	AvgRating    *float64 `json:"avg_rating"`
	ReportsCount int64    `json:"reports_count"`
}

// SearchPlaces serves the public map/search endpoint. The commune parameter
// is accepted for frontend compatibility but never filters anything, the
// whole dataset lives in a single commune.
func SearchPlaces(ctx iris.Context) {
	q := strings.TrimSpace(ctx.URLParam("q"))
	tagsParam := strings.TrimSpace(ctx.URLParam("tags"))
	_ = ctx.URLParam("commune")

	query := storage.DB.Model(&models.Place{}).
		Select("places.id, places.name, places.address, places.lat, places.lng, places.tags, AVG(reports.rating) AS avg_rating, COUNT(reports.id) AS reports_count").
		Joins("LEFT JOIN reports ON reports.place_id = places.id AND reports.deleted_at IS NULL").
		Group("places.id, places.name, places.address, places.lat, places.lng, places.tags").
		Order("reports_count DESC, places.name ASC")

	if q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(places.name) LIKE ? OR LOWER(places.address) LIKE ?", pattern, pattern)
	}

	if tagsParam != "" {
		var conditions []string
		var args []interface{}
		for _, tag := range strings.Split(tagsParam, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			conditions = append(conditions, "LOWER(places.tags) LIKE ?")
			args = append(args, "%"+strings.ToLower(tag)+"%")
		}
		if len(conditions) > 0 {
			query = query.Where(strings.Join(conditions, " OR "), args...)
		}
	}

	var rows []placeSearchRow
	if err := query.Scan(&rows).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	results := make([]PlaceSearchResult, 0, len(rows))
	for _, row := range rows {
		lat, err := strconv.ParseFloat(row.Lat, 64)
		if err != nil {
			continue
		}
		lng, err := strconv.ParseFloat(row.Lng, 64)
		if err != nil {
			continue
		}
		results = append(results, PlaceSearchResult{
			ID:           row.ID,
			Name:         row.Name,
			Address:      row.Address,
			Lat:          lat,
			Lng:          lng,
			Tags:         row.Tags,
			AvgRating:    row.AvgRating,
			ReportsCount: row.ReportsCount,
		})
	}

	ctx.JSON(iris.Map{"places": results})
}
