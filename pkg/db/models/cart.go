package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart holds an ordered multiset of item references for a single user.
// Quantity is represented by repeated entries; Total is a cached derived
// value recomputed on every mutation.
type Cart struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	Entries   []CartEntry     `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// CartEntry is one occurrence of an item in a cart. Position preserves
// insertion order across loads.
type CartEntry struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;index"`
	ItemID    uuid.UUID       `gorm:"column:item_id;type:uuid;not null"`
	Position  int             `gorm:"column:position;not null"`
	ItemName  string          `gorm:"column:item_name;type:text;not null"`
	ItemPrice decimal.Decimal `gorm:"column:item_price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
