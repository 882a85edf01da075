// file: internals/features/users/model/user_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =============================================================================
   MODEL: users
   Note:
   - Identity itself (login, OAuth) is owned by the auth subsystem; this row is
     what the assessment engine reads and the sustainability points land on.
============================================================================= */
type UserModel struct {
	// PK
	UserID uuid.UUID `json:"user_id" gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey"`

	UserName  string `json:"user_name" gorm:"column:user_name;type:varchar(100);not null"`
	UserEmail string `json:"user_email" gorm:"column:user_email;type:varchar(255);not null;uniqueIndex:uq_users_email"`

	// Awarded when a carbon footprint test is sealed; NULL until the first test.
	UserSustainabilityPoint *int `json:"user_sustainability_point,omitempty" gorm:"column:user_sustainability_point;type:int"`

	// Audit
	UserCreatedAt time.Time `json:"user_created_at" gorm:"column:user_created_at;type:timestamptz;not null;default:now()"`
	UserUpdatedAt time.Time `json:"user_updated_at" gorm:"column:user_updated_at;type:timestamptz;not null;default:now()"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) BeforeSave(_ *gorm.DB) error {
	m.UserUpdatedAt = time.Now()
	return nil
}

// UpdateSustainabilityPoint overwrites the user's points with the latest award.
func (m *UserModel) UpdateSustainabilityPoint(points int) {
	m.UserSustainabilityPoint = &points
}
