package models

import (
	"time"
)

// UserReport records that one user reported another. Duplicate pairs are
// rejected by a lookup inside the reporting transaction; the table itself
// carries no unique constraint on the pair.
type UserReport struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ReporterID     uint `gorm:"not null;index" json:"reporter_id"`
	Reporter       User `gorm:"foreignKey:ReporterID" json:"reporter"`
	ReportedUserID uint `gorm:"not null;index" json:"reported_user_id"`
	ReportedUser   User `gorm:"foreignKey:ReportedUserID" json:"reported_user"`
}

// ListingReport records that a user reported a listing. The composite unique
// index makes the database, not the pre-check, the authority on duplicates.
type ListingReport struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ReporterID uint    `gorm:"not null;uniqueIndex:idx_reporter_listing" json:"reporter_id"`
	Reporter   User    `gorm:"foreignKey:ReporterID" json:"reporter"`
	ListingID  uint    `gorm:"not null;uniqueIndex:idx_reporter_listing" json:"listing_id"`
	Listing    Listing `gorm:"foreignKey:ListingID" json:"listing"`
}
