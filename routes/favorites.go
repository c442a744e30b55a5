package routes

import (
	"github.com/JavierManriquez/incluimap/models"
	"github.com/JavierManriquez/incluimap/storage"
	"github.com/JavierManriquez/incluimap/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// ToggleFavoritePlace flips the (user, place) favorites membership. There
// is no separate add/remove: callers invoke the toggle and observe the
// resulting state. Two applications in a row restore the original state,
// and a concurrent double-submit can end either way but never errors or
// duplicates membership.
func ToggleFavoritePlace(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

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

	profile, err := models.GetOrCreateProfile(storage.DB, claims.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var count int64
	storage.DB.Table("profile_favorite_places").
		Where("profile_id = ? AND place_id = ?", profile.ID, place.ID).
		Count(&count)

	favorited := false
	var assocErr error
	if count > 0 {
		assocErr = storage.DB.Model(profile).Association("FavoritePlaces").Delete(&place)
	} else {
		assocErr = storage.DB.Model(profile).Association("FavoritePlaces").Append(&place)
		favorited = true
	}
	if assocErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success":   true,
		"placeID":   place.ID,
		"favorited": favorited,
	})
}

// GetFavoritePlaces lists the acting user's favorite places, by name.
func GetFavoritePlaces(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	profile, err := models.GetOrCreateProfile(storage.DB, claims.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var places []models.Place
	if err := storage.DB.
		Joins("JOIN profile_favorite_places pfp ON pfp.place_id = places.id").
		Where("pfp.profile_id = ?", profile.ID).
		Order("places.name ASC").
		Find(&places).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "places": places})
}
