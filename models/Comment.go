package models

import (
	"time"
)

// Comment is a text reply on a Report. Immutable once created; threads
// are read oldest-first.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ReportID  uint      `json:"reportID" gorm:"not null;index"`
	AuthorID  uint      `json:"authorID" gorm:"not null;index"`
	Report    Report    `json:"-" gorm:"foreignKey:ReportID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Author    User      `json:"author" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Text      string    `json:"text" gorm:"size:1000;not null"`
	CreatedAt time.Time `json:"createdAt"`
}
