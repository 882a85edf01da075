// file: internals/features/assessment/service/carbon_footprint_test_service.go
package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"carbonwise_backend/internals/features/assessment/model"
	usermodel "carbonwise_backend/internals/features/users/model"
)

/* =========================================================
   ERRORS
========================================================= */

var (
	ErrTestNotFound    = errors.New("carbon footprint test not found")
	ErrTestSealed      = errors.New("carbon footprint test already sealed")
	ErrUnknownQuestion = errors.New("question not found in catalog")
	ErrOptionMismatch  = errors.New("option does not belong to question")
	ErrUserNotFound    = errors.New("user not found")
)

// lockForUpdate takes a row lock on engines that support it. sqlite has no
// FOR UPDATE; its writes serialize on the database lock anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

/* =========================================================
   SERVICE
========================================================= */

type CarbonFootprintTestService struct {
	DB      *gorm.DB
	Catalog *QuestionCatalog
}

func NewCarbonFootprintTestService(db *gorm.DB, catalog *QuestionCatalog) *CarbonFootprintTestService {
	return &CarbonFootprintTestService{DB: db, Catalog: catalog}
}

/* =========================================================
   RESULT TYPES
========================================================= */

type CategoryTotal struct {
	Category string
	Value    float64
}

type ScoredResult struct {
	Test                 *model.CarbonFootprintTestModel
	TotalFootprint       float64
	SustainabilityPoints int
	CompletedAt          time.Time
	// Descending by value, category name tiebreak.
	Breakdown []CategoryTotal
}

/* =========================================================
   PUBLIC API: StartTest
========================================================= */

// StartTest opens a new test for the user. A user may hold any number of open
// tests at once; only sealed tests feed the stats consumer.
func (s *CarbonFootprintTestService) StartTest(ctx context.Context, userID uuid.UUID) (*model.CarbonFootprintTestModel, error) {
	var user usermodel.UserModel
	if err := s.DB.WithContext(ctx).
		First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	test := model.CarbonFootprintTestModel{
		CarbonFootprintTestID:     uuid.New(),
		CarbonFootprintTestUserID: userID,
		CarbonFootprintTestStatus: model.TestStatusOpen,
	}
	if err := s.DB.WithContext(ctx).Create(&test).Error; err != nil {
		log.Printf("[CarbonFootprintTestService] ERROR create test: %v", err)
		return nil, err
	}
	return &test, nil
}

/* =========================================================
   PUBLIC API: GetTest
========================================================= */

func (s *CarbonFootprintTestService) GetTest(ctx context.Context, testID uuid.UUID) (*model.CarbonFootprintTestModel, []model.TestResponseModel, error) {
	var test model.CarbonFootprintTestModel
	if err := s.DB.WithContext(ctx).
		First(&test, "carbon_footprint_test_id = ?", testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTestNotFound
		}
		return nil, nil, err
	}

	var responses []model.TestResponseModel
	if err := s.DB.WithContext(ctx).
		Order("test_response_created_at ASC").
		Find(&responses, "test_response_test_id = ?", testID).Error; err != nil {
		return nil, nil, err
	}
	return &test, responses, nil
}

/* =========================================================
   PUBLIC API: SaveResponse
========================================================= */

// SaveResponse records (or overwrites) the user's choice for one question.
// The status check and the write share one transaction with the test row
// locked, so a save can never land after the seal.
func (s *CarbonFootprintTestService) SaveResponse(ctx context.Context, testID, questionID, optionID uuid.UUID) (*model.TestResponseModel, error) {
	// Catalog validation first; reference data is immutable so this needs no tx.
	if _, ok := s.Catalog.Question(questionID); !ok {
		return nil, ErrUnknownQuestion
	}
	if _, ok := s.Catalog.Option(questionID, optionID); !ok {
		return nil, ErrOptionMismatch
	}

	var saved model.TestResponseModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var test model.CarbonFootprintTestModel
		if err := lockForUpdate(tx).
			First(&test, "carbon_footprint_test_id = ?", testID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTestNotFound
			}
			return err
		}
		if test.IsSealed() {
			return ErrTestSealed
		}

		now := time.Now()
		resp := model.TestResponseModel{
			TestResponseID:         uuid.New(),
			TestResponseTestID:     testID,
			TestResponseQuestionID: questionID,
			TestResponseOptionID:   optionID,
			TestResponseCreatedAt:  now,
			TestResponseUpdatedAt:  now,
		}
		// Last write wins on (test_id, question_id); never a duplicate row.
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "test_response_test_id"},
				{Name: "test_response_question_id"},
			},
			DoUpdates: clause.Assignments(map[string]any{
				"test_response_option_id":  optionID,
				"test_response_updated_at": now,
			}),
		}).Create(&resp).Error; err != nil {
			return err
		}

		// Re-read so the caller sees the surviving row (id of the original
		// insert when this was an overwrite).
		return tx.
			First(&saved, "test_response_test_id = ? AND test_response_question_id = ?", testID, questionID).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

/* =========================================================
   PUBLIC API: CompleteTest
========================================================= */

// CompleteTest seals the test and computes the footprint. Sealing is
// idempotent: a second call returns the stored result and writes nothing.
// The result write, the status flip, the sealed-link stamp on every response
// and the point award are one atomic unit.
func (s *CarbonFootprintTestService) CompleteTest(ctx context.Context, testID uuid.UUID) (*ScoredResult, error) {
	var result *ScoredResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var test model.CarbonFootprintTestModel
		if err := lockForUpdate(tx).
			First(&test, "carbon_footprint_test_id = ?", testID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTestNotFound
			}
			return err
		}

		if test.IsSealed() {
			r, err := s.scoredResultFromSealed(&test)
			if err != nil {
				return err
			}
			result = r
			return nil
		}

		var responses []model.TestResponseModel
		if err := tx.Find(&responses, "test_response_test_id = ?", testID).Error; err != nil {
			return err
		}

		// Zero responses is a valid, if degenerate, completion.
		categoryTotals := map[string]float64{}
		total := 0.0
		for _, r := range responses {
			q, ok := s.Catalog.Question(r.TestResponseQuestionID)
			if !ok {
				// Responses are validated against the catalog at save time.
				log.Printf("[CarbonFootprintTestService] WARN: response %s references unknown question %s", r.TestResponseID, r.TestResponseQuestionID)
				continue
			}
			o, ok := s.Catalog.Option(r.TestResponseQuestionID, r.TestResponseOptionID)
			if !ok {
				log.Printf("[CarbonFootprintTestService] WARN: response %s references unknown option %s", r.TestResponseID, r.TestResponseOptionID)
				continue
			}
			categoryTotals[q.TestQuestionCategory] += o.TestQuestionOptionFootprintWeight
			total += o.TestQuestionOptionFootprintWeight
		}

		now := time.Now()
		if err := test.MarkSealed(total, categoryTotals, now); err != nil {
			return err
		}
		if err := tx.Model(&model.CarbonFootprintTestModel{}).
			Where("carbon_footprint_test_id = ?", testID).
			Updates(map[string]any{
				"carbon_footprint_test_status":           model.TestStatusSealed,
				"carbon_footprint_test_total_footprint":  test.CarbonFootprintTestTotalFootprint,
				"carbon_footprint_test_category_results": test.CarbonFootprintTestCategoryResults,
				"carbon_footprint_test_completed_at":     now,
				"carbon_footprint_test_updated_at":       now,
			}).Error; err != nil {
			return err
		}

		// Sealed-link: stamp every response of this test.
		if err := tx.Model(&model.TestResponseModel{}).
			Where("test_response_test_id = ?", testID).
			Updates(map[string]any{
				"test_response_sealed_test_id": testID,
				"test_response_updated_at":     now,
			}).Error; err != nil {
			return err
		}

		points := CalculateSustainabilityPoints(total)
		if err := tx.Model(&usermodel.UserModel{}).
			Where("user_id = ?", test.CarbonFootprintTestUserID).
			Updates(map[string]any{
				"user_sustainability_point": points,
				"user_updated_at":           now,
			}).Error; err != nil {
			return err
		}

		result = &ScoredResult{
			Test:                 &test,
			TotalFootprint:       total,
			SustainabilityPoints: points,
			CompletedAt:          now,
			Breakdown:            OrderedBreakdown(categoryTotals),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *CarbonFootprintTestService) scoredResultFromSealed(test *model.CarbonFootprintTestModel) (*ScoredResult, error) {
	categoryTotals, err := test.CategoryResults()
	if err != nil {
		return nil, err
	}
	completedAt := test.CarbonFootprintTestCreatedAt
	if test.CarbonFootprintTestCompletedAt != nil {
		completedAt = *test.CarbonFootprintTestCompletedAt
	}
	return &ScoredResult{
		Test:                 test,
		TotalFootprint:       test.CarbonFootprintTestTotalFootprint,
		SustainabilityPoints: CalculateSustainabilityPoints(test.CarbonFootprintTestTotalFootprint),
		CompletedAt:          completedAt,
		Breakdown:            OrderedBreakdown(categoryTotals),
	}, nil
}

/* =========================================================
   PUBLIC API: SustainabilityStats
========================================================= */

type SustainabilityStats struct {
	TotalUsers                       int64
	UsersWithSustainabilityPoints    int64
	UsersWithoutSustainabilityPoints int64
	TotalSustainabilityPoints        int64
	AverageSustainabilityPoints      float64
	HighestSustainabilityPoints      int
	LowestSustainabilityPoints       int
}

func (s *CarbonFootprintTestService) SustainabilityStats(ctx context.Context) (*SustainabilityStats, error) {
	var row struct {
		TotalUsers int64
		WithPoints int64
		SumPoints  int64
		MaxPoints  int
		MinPoints  int
	}
	if err := s.DB.WithContext(ctx).
		Raw(`
			SELECT COUNT(*)                                AS total_users,
			       COUNT(user_sustainability_point)        AS with_points,
			       COALESCE(SUM(user_sustainability_point), 0) AS sum_points,
			       COALESCE(MAX(user_sustainability_point), 0) AS max_points,
			       COALESCE(MIN(user_sustainability_point), 0) AS min_points
			FROM users
		`).Scan(&row).Error; err != nil {
		return nil, err
	}

	stats := &SustainabilityStats{
		TotalUsers:                       row.TotalUsers,
		UsersWithSustainabilityPoints:    row.WithPoints,
		UsersWithoutSustainabilityPoints: row.TotalUsers - row.WithPoints,
		TotalSustainabilityPoints:        row.SumPoints,
		HighestSustainabilityPoints:      row.MaxPoints,
		LowestSustainabilityPoints:       row.MinPoints,
	}
	if row.WithPoints > 0 {
		stats.AverageSustainabilityPoints = float64(row.SumPoints) / float64(row.WithPoints)
	}
	return stats, nil
}

/* =========================================================
   Helpers
========================================================= */

// CalculateSustainabilityPoints maps a total footprint (kg CO2e) to points.
func CalculateSustainabilityPoints(totalFootprint float64) int {
	switch {
	case totalFootprint <= 10:
		return 100
	case totalFootprint <= 25:
		return 80
	case totalFootprint <= 50:
		return 60
	case totalFootprint <= 75:
		return 40
	default:
		return 20
	}
}

// OrderedBreakdown sorts category totals descending by value, category name
// tiebreak, so chart consumers get a deterministic order.
func OrderedBreakdown(categoryTotals map[string]float64) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(categoryTotals))
	for c, v := range categoryTotals {
		out = append(out, CategoryTotal{Category: c, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Category < out[j].Category
	})
	return out
}
