package routes

import (
	"github.com/JavierManriquez/incluimap/models"
	"github.com/JavierManriquez/incluimap/storage"
	"github.com/JavierManriquez/incluimap/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// GetNotifications returns the acting user's notifications, newest first
// (cap 50), and marks every unread one as read in the same request.
// Opening the list is the acknowledgment; there is no separate mark-read
// call.
func GetNotifications(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var notifications []models.Notification
	if err := storage.DB.
		Preload("Place").Preload("Report").
		Where("user_id = ?", claims.ID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", claims.ID, false).
		Update("is_read", true).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "notifications": notifications})
}

// GetUnreadNotificationCount returns the badge counter without marking
// anything read.
func GetUnreadNotificationCount(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var count int64
	if err := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", claims.ID, false).
		Count(&count).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "unread": count})
}
