package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile is the one-to-one extension of a User account: avatar, bio,
// accessibility needs and the set of favorite places. Every user account
// has exactly one Profile; it is created together with the account and
// re-materialized (get-or-create) on every profile read in case it is
// missing.
type Profile struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"userID" gorm:"not null;uniqueIndex"`
	User   User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	AvatarURL string `json:"avatarURL" gorm:"size:512"`
	Bio       string `json:"bio" gorm:"type:text"`

	// Array of strings, e.g. ["rampa", "ascensor"]
	AccessibilityNeeds datatypes.JSON `json:"accessibilityNeeds"`

	FavoritePlaces []Place `json:"favoritePlaces,omitempty" gorm:"many2many:profile_favorite_places"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Custom JSON marshaling so the JSON column comes out as a real array
func (p *Profile) MarshalJSON() ([]byte, error) {
	type Alias Profile
	aux := &struct {
		AccessibilityNeeds []string `json:"accessibilityNeeds"`
		*Alias
	}{
		AccessibilityNeeds: []string{},
		Alias:              (*Alias)(p),
	}

	if p.AccessibilityNeeds != nil {
		var needs []string
		if err := json.Unmarshal(p.AccessibilityNeeds, &needs); err == nil {
			aux.AccessibilityNeeds = needs
		}
	}

	return json.Marshal(aux)
}

// GetOrCreateProfile returns the user's profile, creating the row if it
// does not exist yet.
func GetOrCreateProfile(db *gorm.DB, userID uint) (*Profile, error) {
	var profile Profile
	err := db.Where(Profile{UserID: userID}).FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
