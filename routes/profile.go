package routes

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/JavierManriquez/incluimap/models"
	"github.com/JavierManriquez/incluimap/storage"
	"github.com/JavierManriquez/incluimap/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// GetUserProfile returns the acting user's profile, creating the row if
// it is somehow missing.
func GetUserProfile(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	profile, err := models.GetOrCreateProfile(storage.DB, claims.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"profile": profile,
	})
}

// UpdateUserProfile updates avatar, bio and accessibility needs. Only the
// owner can mutate their own profile; the route is keyed off the token,
// never off a user id parameter.
func UpdateUserProfile(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input UpdateProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	profile, err := models.GetOrCreateProfile(storage.DB, claims.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Avatar comes in as base64 unless the client echoes back the hosted URL
	avatarURL := input.Avatar
	if avatarURL != "" && !strings.Contains(avatarURL, "res.cloudinary.com") {
		publicID := fmt.Sprintf("avatars/%d/avatar_%d", claims.ID, time.Now().Unix())
		urlMap := storage.UploadBase64Image(avatarURL, publicID)
		if urlMap != nil && urlMap["url"] != "" {
			avatarURL = urlMap["url"]
		} else {
			utils.CreateError(iris.StatusBadRequest, "Validation error", "No se pudo subir la imagen de avatar.", ctx)
			return
		}
	}

	needsJSON, _ := json.Marshal(input.AccessibilityNeeds)

	profile.AvatarURL = avatarURL
	profile.Bio = input.Bio
	profile.AccessibilityNeeds = needsJSON

	if err := storage.DB.Save(profile).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"profile": profile,
	})
}

type UpdateProfileInput struct {
	Avatar             string   `json:"avatar"`
	Bio                string   `json:"bio" validate:"max=2000"`
	AccessibilityNeeds []string `json:"accessibilityNeeds" validate:"max=20,dive,max=50"`
}
