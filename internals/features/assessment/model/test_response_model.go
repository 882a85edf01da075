// file: internals/features/assessment/model/test_response_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =============================================================================
   MODEL: test_responses
   Note:
   - Unique (test_id, question_id): a re-answer overwrites the option, never a
     second row.
   - sealed_test_id is NULL while the test is open and set to the test id when
     scoring seals it, so "responses of a completed test" queries never see an
     in-flight session.
============================================================================= */
type TestResponseModel struct {
	// PK
	TestResponseID uuid.UUID `json:"test_response_id" gorm:"column:test_response_id;type:uuid;default:gen_random_uuid();primaryKey"`

	// FK
	TestResponseTestID     uuid.UUID `json:"test_response_test_id" gorm:"column:test_response_test_id;type:uuid;not null;uniqueIndex:uq_test_responses_test_question,priority:1"`
	TestResponseQuestionID uuid.UUID `json:"test_response_question_id" gorm:"column:test_response_question_id;type:uuid;not null;uniqueIndex:uq_test_responses_test_question,priority:2"`
	TestResponseOptionID   uuid.UUID `json:"test_response_option_id" gorm:"column:test_response_option_id;type:uuid;not null"`

	// Sealed-link
	TestResponseSealedTestID *uuid.UUID `json:"test_response_sealed_test_id,omitempty" gorm:"column:test_response_sealed_test_id;type:uuid;index:idx_test_responses_sealed_test"`

	// Audit
	TestResponseCreatedAt time.Time `json:"test_response_created_at" gorm:"column:test_response_created_at;type:timestamptz;not null;default:now()"`
	TestResponseUpdatedAt time.Time `json:"test_response_updated_at" gorm:"column:test_response_updated_at;type:timestamptz;not null;default:now()"`
}

func (TestResponseModel) TableName() string { return "test_responses" }

func (m *TestResponseModel) BeforeSave(_ *gorm.DB) error {
	m.TestResponseUpdatedAt = time.Now()
	return nil
}

func (m *TestResponseModel) IsSealed() bool {
	return m.TestResponseSealedTestID != nil
}
