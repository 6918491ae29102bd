package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Community is a scoping entity for community-admin grants.
type Community struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string         `gorm:"column:name;not null"`
	Description *string        `gorm:"column:description;type:text"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[]"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
