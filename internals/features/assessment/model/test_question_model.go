// file: internals/features/assessment/model/test_question_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

/* =============================================================================
   MODEL: test_questions
   Note:
   - Reference data. Seeded out of band (internals/databases/seeders); the
     engine only ever reads these rows.
============================================================================= */
type TestQuestionModel struct {
	// PK
	TestQuestionID uuid.UUID `json:"test_question_id" gorm:"column:test_question_id;type:uuid;default:gen_random_uuid();primaryKey"`

	TestQuestionText     string `json:"test_question_text" gorm:"column:test_question_text;type:text;not null"`
	TestQuestionCategory string `json:"test_question_category" gorm:"column:test_question_category;type:varchar(64);not null;index:idx_test_questions_category"`

	// Ascending display order; ties broken by id when listing.
	TestQuestionDisplayOrder int `json:"test_question_display_order" gorm:"column:test_question_display_order;type:int;not null;index:idx_test_questions_display_order"`

	TestQuestionCreatedAt time.Time `json:"test_question_created_at" gorm:"column:test_question_created_at;type:timestamptz;not null;default:now()"`

	// Relations
	Options []TestQuestionOptionModel `json:"options,omitempty" gorm:"foreignKey:TestQuestionOptionQuestionID;references:TestQuestionID"`
}

func (TestQuestionModel) TableName() string { return "test_questions" }

/* =============================================================================
   MODEL: test_question_options
============================================================================= */
type TestQuestionOptionModel struct {
	// PK
	TestQuestionOptionID uuid.UUID `json:"test_question_option_id" gorm:"column:test_question_option_id;type:uuid;default:gen_random_uuid();primaryKey"`

	// FK
	TestQuestionOptionQuestionID uuid.UUID `json:"test_question_option_question_id" gorm:"column:test_question_option_question_id;type:uuid;not null;index:idx_test_question_options_question"`

	TestQuestionOptionText string `json:"test_question_option_text" gorm:"column:test_question_option_text;type:text;not null"`

	// kg CO2e contributed when this option is selected; never negative.
	TestQuestionOptionFootprintWeight float64 `json:"test_question_option_footprint_weight" gorm:"column:test_question_option_footprint_weight;type:numeric(10,3);not null;default:0;check:test_question_option_footprint_weight >= 0"`

	TestQuestionOptionCreatedAt time.Time `json:"test_question_option_created_at" gorm:"column:test_question_option_created_at;type:timestamptz;not null;default:now()"`
}

func (TestQuestionOptionModel) TableName() string { return "test_question_options" }
