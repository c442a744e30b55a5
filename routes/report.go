package routes

import (
	"fmt"
	"strings"
	"time"

	"github.com/JavierManriquez/incluimap/models"
	"github.com/JavierManriquez/incluimap/services"
	"github.com/JavierManriquez/incluimap/storage"
	"github.com/JavierManriquez/incluimap/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// CreateReport files a new accessibility report. The author is always the
// acting user, the rating defaults to 3 when unspecified, and once the row
// is durably persisted the favorite-place fan-out runs exactly once,
// synchronously. Fan-out never runs on update.
func CreateReport(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input CreateReportInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var place models.Place
	if err := storage.DB.First(&place, input.PlaceID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	rating := input.Rating
	if rating == 0 {
		rating = 3
	}

	photoURL := ""
	if input.Photo != "" {
		publicID := fmt.Sprintf("reports/%d/photo_%d", claims.ID, time.Now().UnixNano()/int64(time.Millisecond))
		urlMap := storage.UploadBase64Image(input.Photo, publicID)
		if urlMap != nil {
			photoURL = urlMap["url"]
		}
	}

	report := models.Report{
		PlaceID:     place.ID,
		AuthorID:    claims.ID,
		Description: input.Description,
		Rating:      rating,
		Tags:        strings.Join(input.Tags, ","),
		PhotoURL:    photoURL,
	}

	if err := storage.DB.Create(&report).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Post-persist, exactly once. Email delivery inside is best effort and
	// can never fail this request.
	services.NotificationServiceInstance.NotifyFavoritePlaceReport(&report, &place)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "report": report})
}

// GetReports lists public reports, newest first by default, with the
// orden/desde/hasta filters of the original listing, capped at 24.
func GetReports(ctx iris.Context) {
	listReports(ctx, storage.DB.Model(&models.Report{}), 24)
}

// GetMyReports lists only the acting user's reports, capped at 50.
func GetMyReports(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	listReports(ctx, storage.DB.Model(&models.Report{}).Where("author_id = ?", claims.ID), 50)
}

func listReports(ctx iris.Context, query *gorm.DB, limit int) {
	order := strings.TrimSpace(ctx.URLParamDefault("orden", "newest"))
	if !slices.Contains([]string{"newest", "oldest"}, order) {
		order = "newest"
	}
	if order == "oldest" {
		query = query.Order("created_at ASC")
	} else {
		query = query.Order("created_at DESC")
	}

	if dateFrom := strings.TrimSpace(ctx.URLParam("desde")); dateFrom != "" {
		query = query.Where("DATE(created_at) >= ?", dateFrom)
	}
	if dateTo := strings.TrimSpace(ctx.URLParam("hasta")); dateTo != "" {
		query = query.Where("DATE(created_at) <= ?", dateTo)
	}

	var reports []models.Report
	if err := query.Preload("Place").Preload("Author").
		Limit(limit).Find(&reports).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "reports": reports, "order": order})
}

// GetReport returns one report with its comment thread, oldest first.
func GetReport(ctx iris.Context) {
	reportID := ctx.Params().GetUintDefault("id", 0)
	if reportID == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var report models.Report
	if err := storage.DB.Preload("Place").Preload("Author").
		First(&report, reportID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var comments []models.Comment
	if err := storage.DB.Preload("Author").
		Where("report_id = ?", report.ID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success":  true,
		"report":   report,
		"comments": comments,
	})
}

// UpdateReport edits a report. Only the author may edit; anyone else gets
// a not-found so the row's existence is not leaked. Never triggers fan-out.
func UpdateReport(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	report, ok := getOwnReport(ctx, claims.ID)
	if !ok {
		return
	}

	var input UpdateReportInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	report.Description = input.Description
	if input.Rating != 0 {
		report.Rating = input.Rating
	}
	if input.Tags != nil {
		report.Tags = strings.Join(input.Tags, ",")
	}
	if input.Photo != "" {
		publicID := fmt.Sprintf("reports/%d/photo_%d", claims.ID, time.Now().UnixNano()/int64(time.Millisecond))
		urlMap := storage.UploadBase64Image(input.Photo, publicID)
		if urlMap != nil && urlMap["url"] != "" {
			report.PhotoURL = urlMap["url"]
		}
	}

	if err := storage.DB.Save(report).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "report": report})
}

// DeleteReport removes the author's own report together with its comments
// and any notifications that reference it.
func DeleteReport(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	report, ok := getOwnReport(ctx, claims.ID)
	if !ok {
		return
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", report.ID).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("report_id = ?", report.ID).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(report).Error
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Report deleted"})
}

// getOwnReport loads the report only when it belongs to the acting user;
// otherwise it answers not-found and returns ok=false.
func getOwnReport(ctx iris.Context, userID uint) (*models.Report, bool) {
	reportID := ctx.Params().GetUintDefault("id", 0)
	if reportID == 0 {
		utils.CreateNotFound(ctx)
		return nil, false
	}

	var report models.Report
	if err := storage.DB.
		Where("id = ? AND author_id = ?", reportID, userID).
		First(&report).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil, false
	}
	return &report, true
}

type CreateReportInput struct {
	PlaceID     uint     `json:"placeID" validate:"required"`
	Description string   `json:"description" validate:"max=5000"`
	Rating      int      `json:"rating" validate:"omitempty,min=1,max=5"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=50"`
	Photo       string   `json:"photo"`
}

type UpdateReportInput struct {
	Description string   `json:"description" validate:"max=5000"`
	Rating      int      `json:"rating" validate:"omitempty,min=1,max=5"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=50"`
	Photo       string   `json:"photo"`
}
