package models

import (
	"time"
)

// Notification tells a user about activity on their favorite places.
// For now: new reports on favorited places. Rows are created only by the
// fan-out on report creation, never directly by users, and flip to read
// in bulk when the recipient opens their notification list.
type Notification struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	UserID   uint    `json:"userID" gorm:"not null;index"`
	User     User    `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	PlaceID  *uint   `json:"placeID" gorm:"index"`
	Place    *Place  `json:"place,omitempty" gorm:"foreignKey:PlaceID"`
	ReportID *uint   `json:"reportID" gorm:"index"`
	Report   *Report `json:"report,omitempty" gorm:"foreignKey:ReportID"`

	Message   string    `json:"message" gorm:"type:text"`
	IsRead    bool      `json:"isRead" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt"`
}
