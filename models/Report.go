package models

import "gorm.io/gorm"

// Report is one accessibility assessment of a Place by one user.
// Rating bounds (1-5) are enforced at the input layer only; there is
// deliberately no storage-level check constraint.
type Report struct {
	gorm.Model
	PlaceID     uint   `json:"placeID" gorm:"not null;index"`
	AuthorID    uint   `json:"authorID" gorm:"not null;index"`
	Place       Place  `json:"place" gorm:"foreignKey:PlaceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Author      User   `json:"author" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Description string `json:"description" gorm:"type:text"`
	Rating      int    `json:"rating" gorm:"default:3"`
	Tags        string `json:"tags" gorm:"size:255"`
	PhotoURL    string `json:"photoURL" gorm:"size:512"`
}
