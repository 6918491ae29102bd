package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/memberhub/backend/pkg/enums"
)

// Member is owned by the registration subsystem. The review workflow
// only ever promotes RegistrationStatus to approved; a missing row for
// a given user is not an error there.
type Member struct {
	ID                 uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID                `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	FullName           string                   `gorm:"column:full_name;not null"`
	Email              string                   `gorm:"column:email;not null"`
	RegistrationStatus enums.RegistrationStatus `gorm:"column:registration_status;type:registration_status;not null;default:'pending'"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
