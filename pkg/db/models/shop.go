package models

import (
	"time"

	"github.com/google/uuid"
)

// Shop is a storefront selling units.
type Shop struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;type:citext;not null;uniqueIndex"`
	Units     []Unit    `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
