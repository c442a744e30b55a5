package services

import (
	"fmt"
	"log"

	"github.com/JavierManriquez/incluimap/models"
	"github.com/JavierManriquez/incluimap/storage"
	"github.com/JavierManriquez/incluimap/utils"
)

// NotificationService fans out notifications when a new report lands on a
// favorited place.
type NotificationService struct{}

// NewNotificationService creates a new notification service instance
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyFavoritePlaceReport notifies every user who has the report's place
// among their favorites, excluding the report's author. It is called
// exactly once per report creation, after the row is durably persisted,
// and never on update.
//
// Each recipient is processed independently: a Notification row is created
// first, then an email is attempted when the user has an address on file.
// Email failures are logged and swallowed; they must never roll back the
// Notification row or stop the loop.
func (ns *NotificationService) NotifyFavoritePlaceReport(report *models.Report, place *models.Place) {
	var profiles []models.Profile
	err := storage.DB.
		Joins("JOIN profile_favorite_places pfp ON pfp.profile_id = profiles.id").
		Where("pfp.place_id = ? AND profiles.user_id <> ?", place.ID, report.AuthorID).
		Preload("User").
		Find(&profiles).Error
	if err != nil {
		log.Printf("notification fan-out: failed to load favoriting profiles for place %d: %v", place.ID, err)
		return
	}

	if len(profiles) == 0 {
		return
	}

	msg := fmt.Sprintf("Se ha creado un nuevo reporte en tu lugar favorito '%s'.", place.Name)
	if report.Description != "" {
		msg += fmt.Sprintf("\n\nDescripción: %s", truncateRunes(report.Description, 200))
	}

	for _, profile := range profiles {
		notification := models.Notification{
			UserID:   profile.UserID,
			PlaceID:  &place.ID,
			ReportID: &report.ID,
			Message:  msg,
		}

		if err := storage.DB.Create(&notification).Error; err != nil {
			log.Printf("notification fan-out: failed to create notification for user %d: %v", profile.UserID, err)
			continue
		}

		if profile.User.Email == "" {
			continue
		}

		subject := fmt.Sprintf("Nuevo reporte en tu lugar favorito: %s", place.Name)
		if _, err := utils.SendMail(profile.User.Email, subject, "<p>"+msg+"</p>"); err != nil {
			// Best effort only; the notification row already exists.
			log.Printf("notification fan-out: email to user %d failed: %v", profile.UserID, err)
		}
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Global notification service instance
var NotificationServiceInstance = NewNotificationService()
