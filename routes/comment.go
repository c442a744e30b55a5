package routes

import (
	"strings"

	"github.com/JavierManriquez/incluimap/models"
	"github.com/JavierManriquez/incluimap/storage"
	"github.com/JavierManriquez/incluimap/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// CreateComment appends a comment to a report. The text is trimmed first;
// a whitespace-only body counts as empty and is rejected. Comments are
// immutable, there is no edit or delete.
func CreateComment(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	reportID := ctx.Params().GetUintDefault("id", 0)
	if reportID == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var report models.Report
	if err := storage.DB.First(&report, reportID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input CreateCommentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		utils.CreateFieldErrors(ctx, map[string]string{
			"text": "El comentario no puede estar vacío.",
		})
		return
	}

	comment := models.Comment{
		ReportID: report.ID,
		AuthorID: claims.ID,
		Text:     text,
	}

	if err := storage.DB.Create(&comment).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "comment": comment})
}

// GetComments returns a report's comment thread, oldest first.
func GetComments(ctx iris.Context) {
	reportID := ctx.Params().GetUintDefault("id", 0)
	if reportID == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var report models.Report
	if err := storage.DB.First(&report, reportID).Error; err != nil {
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

	ctx.JSON(iris.Map{"success": true, "comments": comments})
}

type CreateCommentInput struct {
	Text string `json:"text" validate:"max=1000"`
}
