package routes

import (
	"errors"
	"strconv"

	"github.com/JavierManriquez/incluimap/models"
	"github.com/JavierManriquez/incluimap/storage"
	"github.com/JavierManriquez/incluimap/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// CreatePlace registers a new place. The geofence check runs inside the
// model's save hook, so it also covers programmatic inserts; here we only
// translate a violation into field-level feedback on both coordinates.
func CreatePlace(ctx iris.Context) {
	var input CreatePlaceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	place := models.Place{
		Name:    input.Name,
		Address: input.Address,
		Lat:     strconv.FormatFloat(input.Lat, 'f', 6, 64),
		Lng:     strconv.FormatFloat(input.Lng, 'f', 6, 64),
		Tags:    input.Tags,
	}

	if err := storage.DB.Create(&place).Error; err != nil {
		var geoErr *models.GeofenceError
		if errors.As(err, &geoErr) {
			utils.CreateFieldErrors(ctx, map[string]string{
				"lat": geoErr.Lat,
				"lng": geoErr.Lng,
			})
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "place": place})
}

// GetPlaces is a public list of the newest places, capped at 100. When
// the request carries a valid token the acting user's favorite place ids
// ride along so the client can render the toggle state without a second
// call; anonymous callers get an empty list.
func GetPlaces(ctx iris.Context) {
	var places []models.Place
	if err := storage.DB.Order("created_at DESC").Limit(100).Find(&places).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	favoriteIDs := make([]uint, 0)
	if v := ctx.Values().Get("userID"); v != nil {
		if userID, ok := v.(uint); ok {
			if profile, err := models.GetOrCreateProfile(storage.DB, userID); err == nil {
				storage.DB.Table("profile_favorite_places").
					Where("profile_id = ?", profile.ID).
					Pluck("place_id", &favoriteIDs)
			}
		}
	}

	ctx.JSON(iris.Map{"success": true, "places": places, "favoriteIDs": favoriteIDs})
}

// GetPlace returns one place by id.
func GetPlace(ctx iris.Context) {
	placeID := ctx.Params().GetUintDefault("id", 0)
	if placeID == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var place models.Place
	if err := storage.DB.First(&place, placeID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "place": place})
}

// DeletePlace removes a place and everything hanging off it: its reports,
// their comments, notifications referencing the place or those reports,
// and favorites join rows. Admin only; runs in one transaction.
func DeletePlace(ctx iris.Context) {
	placeID := ctx.Params().GetUintDefault("id", 0)
	if placeID == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var place models.Place
	if err := storage.DB.First(&place, placeID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		var reportIDs []uint
		if err := tx.Model(&models.Report{}).Where("place_id = ?", place.ID).
			Pluck("id", &reportIDs).Error; err != nil {
			return err
		}

		if len(reportIDs) > 0 {
			if err := tx.Where("report_id IN ?", reportIDs).
				Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("report_id IN ?", reportIDs).
				Delete(&models.Notification{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("place_id = ?", place.ID).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("place_id = ?", place.ID).
			Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM profile_favorite_places WHERE place_id = ?", place.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&place).Error
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Place deleted"})
}

type CreatePlaceInput struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Address string  `json:"address" validate:"max=255"`
	Lat     float64 `json:"lat" validate:"required"`
	Lng     float64 `json:"lng" validate:"required"`
	Tags    string  `json:"tags" validate:"max=255"`
}
