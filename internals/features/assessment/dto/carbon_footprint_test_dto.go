// file: internals/features/assessment/dto/carbon_footprint_test_dto.go
package dto

import (
	"time"

	"carbonwise_backend/internals/features/assessment/model"
)

// =============================
// 📤 Response DTOs
// =============================

type TestQuestionOptionDTO struct {
	TestQuestionOptionID string `json:"test_question_option_id"`
	Text                 string `json:"text"`
}

type TestQuestionDTO struct {
	TestQuestionID string                  `json:"test_question_id"`
	Text           string                  `json:"text"`
	Category       string                  `json:"category"`
	DisplayOrder   int                     `json:"display_order"`
	Options        []TestQuestionOptionDTO `json:"options"`
}

type TestResponseDTO struct {
	TestResponseID   string  `json:"test_response_id"`
	QuestionID       string  `json:"question_id"`
	SelectedOptionID string  `json:"selected_option_id"`
	SealedTestID     *string `json:"sealed_test_id,omitempty"`
}

type CarbonFootprintTestDTO struct {
	CarbonFootprintTestID string            `json:"carbon_footprint_test_id"`
	UserID                string            `json:"user_id"`
	Status                string            `json:"status"`
	CreatedAt             time.Time         `json:"created_at"`
	Responses             []TestResponseDTO `json:"responses"`
}

// StartTestDTO bundles the fresh session with the current question list so the
// client can render question 1 straight away.
type StartTestDTO struct {
	Test      CarbonFootprintTestDTO `json:"test"`
	Questions []TestQuestionDTO      `json:"questions"`
}

type CategoryResultDTO struct {
	Category       string  `json:"category"`
	FootprintValue float64 `json:"footprint_value"`
}

type CarbonFootprintResultDTO struct {
	CarbonFootprintTestID string              `json:"carbon_footprint_test_id"`
	UserID                string              `json:"user_id"`
	TotalFootprint        float64             `json:"total_footprint"`
	SustainabilityPoints  int                 `json:"sustainability_points"`
	CompletedAt           time.Time           `json:"completed_at"`
	CategoryResults       []CategoryResultDTO `json:"category_results"`
}

type SustainabilityStatsDTO struct {
	TotalUsers                       int64   `json:"total_users"`
	UsersWithSustainabilityPoints    int64   `json:"users_with_sustainability_points"`
	UsersWithoutSustainabilityPoints int64   `json:"users_without_sustainability_points"`
	TotalSustainabilityPoints        int64   `json:"total_sustainability_points"`
	AverageSustainabilityPoints      float64 `json:"average_sustainability_points"`
	HighestSustainabilityPoints      int     `json:"highest_sustainability_points"`
	LowestSustainabilityPoints       int     `json:"lowest_sustainability_points"`
}

// =============================
// 📥 Request DTO
// =============================

type SaveResponseRequest struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
	OptionID   string `json:"option_id" validate:"required,uuid"`
}

// =============================
// 🔁 Converters
// =============================

func FromModelTestQuestion(m model.TestQuestionModel) TestQuestionDTO {
	opts := make([]TestQuestionOptionDTO, 0, len(m.Options))
	for _, o := range m.Options {
		opts = append(opts, TestQuestionOptionDTO{
			TestQuestionOptionID: o.TestQuestionOptionID.String(),
			Text:                 o.TestQuestionOptionText,
		})
	}
	return TestQuestionDTO{
		TestQuestionID: m.TestQuestionID.String(),
		Text:           m.TestQuestionText,
		Category:       m.TestQuestionCategory,
		DisplayOrder:   m.TestQuestionDisplayOrder,
		Options:        opts,
	}
}

func FromModelTestQuestions(ms []model.TestQuestionModel) []TestQuestionDTO {
	out := make([]TestQuestionDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromModelTestQuestion(m))
	}
	return out
}

func FromModelTestResponse(m model.TestResponseModel) TestResponseDTO {
	var sealed *string
	if m.TestResponseSealedTestID != nil {
		s := m.TestResponseSealedTestID.String()
		sealed = &s
	}
	return TestResponseDTO{
		TestResponseID:   m.TestResponseID.String(),
		QuestionID:       m.TestResponseQuestionID.String(),
		SelectedOptionID: m.TestResponseOptionID.String(),
		SealedTestID:     sealed,
	}
}

func FromModelCarbonFootprintTest(m model.CarbonFootprintTestModel, responses []model.TestResponseModel) CarbonFootprintTestDTO {
	rs := make([]TestResponseDTO, 0, len(responses))
	for _, r := range responses {
		rs = append(rs, FromModelTestResponse(r))
	}
	return CarbonFootprintTestDTO{
		CarbonFootprintTestID: m.CarbonFootprintTestID.String(),
		UserID:                m.CarbonFootprintTestUserID.String(),
		Status:                m.CarbonFootprintTestStatus.String(),
		CreatedAt:             m.CarbonFootprintTestCreatedAt,
		Responses:             rs,
	}
}
