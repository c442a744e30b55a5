package routes

import (
	"github.com/JavierManriquez/incluimap/models"
	"github.com/JavierManriquez/incluimap/storage"
	"github.com/JavierManriquez/incluimap/utils"

	"github.com/kataras/iris/v12"
)

// PlaceStats is the per-place aggregate row. AvgRating is nil for a place
// with no reports, never zero.
type PlaceStats struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Tags         string   `json:"tags"`
	AvgRating    *float64 `json:"avg_rating"`
	ReportsCount int64    `json:"reports_count"`
}

// TagStats groups reports by the literal stored tags string. Differently
// ordered or spaced tag lists are distinct groups on purpose; the empty
// string shows up as "Sin tag".
type TagStats struct {
	Tags         string   `json:"tags"`
	TotalReports int64    `json:"total_reports"`
	AvgRating    *float64 `json:"avg_rating"`
}

// GetDashboard computes both aggregate views on demand; nothing is cached
// or maintained incrementally.
func GetDashboard(ctx iris.Context) {
	placesStats, err := computePlaceStats()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	tagsStats, err := computeTagStats()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success":      true,
		"places_stats": placesStats,
		"tags_stats":   tagsStats,
	})
}

func computePlaceStats() ([]PlaceStats, error) {
	stats := make([]PlaceStats, 0)
	err := storage.DB.Model(&models.Place{}).
		Select("places.id, places.name, places.tags, AVG(reports.rating) AS avg_rating, COUNT(reports.id) AS reports_count").
		Joins("LEFT JOIN reports ON reports.place_id = places.id AND reports.deleted_at IS NULL").
		Group("places.id, places.name, places.tags").
		Order("avg_rating DESC, places.name ASC").
		Scan(&stats).Error
	return stats, err
}

func computeTagStats() ([]TagStats, error) {
	stats := make([]TagStats, 0)
	err := storage.DB.Model(&models.Report{}).
		Select("tags, COUNT(id) AS total_reports, AVG(rating) AS avg_rating").
		Group("tags").
		Order("avg_rating ASC, tags ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	for i := range stats {
		if stats[i].Tags == "" {
			stats[i].Tags = "Sin tag"
		}
	}
	return stats, nil
}
