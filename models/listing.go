package models

import (
	"time"
)

// Listing is a for-sale item post. A listing with a buyer but Sold == false
// is reserved: the buyer has initiated a purchase and not yet confirmed it.
type Listing struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title    string `gorm:"not null" json:"title"`
	Body     string `gorm:"type:text;not null" json:"body"`
	Price    int    `gorm:"not null" json:"price"`
	PhotoURL string `json:"photo_url"`

	SellerID uint  `gorm:"not null;index" json:"seller_id"`
	Seller   User  `gorm:"foreignKey:SellerID" json:"seller"`
	BuyerID  *uint `gorm:"index" json:"buyer_id"`
	Buyer    *User `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`

	Sold       bool       `gorm:"not null;default:false" json:"sold"`
	ReservedAt *time.Time `json:"reserved_at,omitempty"`
}

// Reserved reports whether a buyer holds this listing without having
// confirmed the purchase yet.
func (l *Listing) Reserved() bool {
	return l.BuyerID != nil && !l.Sold
}
