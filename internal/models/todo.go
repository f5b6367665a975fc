package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TodoDescriptionMin = 1
	TodoDescriptionMax = 250
)

type Todo struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Description string    `gorm:"size:250;not null" json:"description"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
