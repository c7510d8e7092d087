package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is an immutable snapshot of a cart taken at checkout time.
type Order struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// OrderItem is a frozen copy of one cart entry. Name and price are copied so
// the order survives later catalog changes.
type OrderItem struct {
	ID       uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID  uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ItemID   uuid.UUID       `gorm:"column:item_id;type:uuid;not null"`
	Position int             `gorm:"column:position;not null"`
	Name     string          `gorm:"column:name;type:text;not null"`
	Price    decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
}
