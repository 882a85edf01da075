// file: internals/features/assessment/model/carbon_footprint_test_model.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =============================================================================
   ENUM-like: Test Status ('open','sealed')
============================================================================= */
type CarbonFootprintTestStatus string

const (
	TestStatusOpen   CarbonFootprintTestStatus = "open"
	TestStatusSealed CarbonFootprintTestStatus = "sealed"
)

func (s CarbonFootprintTestStatus) String() string { return string(s) }
func (s CarbonFootprintTestStatus) Valid() bool {
	switch s {
	case TestStatusOpen, TestStatusSealed:
		return true
	default:
		return false
	}
}

// sql.Scanner + driver.Valuer (safe when scanning into the enum)
func (s *CarbonFootprintTestStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = CarbonFootprintTestStatus(v)
	case []byte:
		*s = CarbonFootprintTestStatus(string(v))
	default:
		return fmt.Errorf("unsupported type for CarbonFootprintTestStatus: %T", value)
	}
	if !s.Valid() {
		return fmt.Errorf("invalid CarbonFootprintTestStatus: %q", *s)
	}
	return nil
}
func (s CarbonFootprintTestStatus) Value() (driver.Value, error) {
	if s == "" {
		return nil, nil
	}
	if !s.Valid() {
		return nil, fmt.Errorf("invalid CarbonFootprintTestStatus: %q", s)
	}
	return string(s), nil
}

/* =============================================================================
   MODEL: carbon_footprint_tests
   Note:
   - Total + category results are only meaningful once status = 'sealed'; they
     are written in the same transaction that flips the status.
============================================================================= */
type CarbonFootprintTestModel struct {
	// PK (doubles as the externally visible test id)
	CarbonFootprintTestID uuid.UUID `json:"carbon_footprint_test_id" gorm:"column:carbon_footprint_test_id;type:uuid;default:gen_random_uuid();primaryKey"`

	// FK
	CarbonFootprintTestUserID uuid.UUID `json:"carbon_footprint_test_user_id" gorm:"column:carbon_footprint_test_user_id;type:uuid;not null;index:idx_cft_user;index:idx_cft_user_status,priority:1"`

	// Status
	CarbonFootprintTestStatus CarbonFootprintTestStatus `json:"carbon_footprint_test_status" gorm:"column:carbon_footprint_test_status;type:varchar(8);not null;default:'open';index:idx_cft_status;index:idx_cft_user_status,priority:2"`

	// Result (kg CO2e)
	CarbonFootprintTestTotalFootprint  float64        `json:"carbon_footprint_test_total_footprint" gorm:"column:carbon_footprint_test_total_footprint;type:numeric(10,3);not null;default:0"`
	CarbonFootprintTestCategoryResults datatypes.JSON `json:"carbon_footprint_test_category_results,omitempty" gorm:"column:carbon_footprint_test_category_results;type:jsonb"`

	// Timing
	CarbonFootprintTestCreatedAt   time.Time  `json:"carbon_footprint_test_created_at" gorm:"column:carbon_footprint_test_created_at;type:timestamptz;not null;default:now()"`
	CarbonFootprintTestCompletedAt *time.Time `json:"carbon_footprint_test_completed_at,omitempty" gorm:"column:carbon_footprint_test_completed_at;type:timestamptz"`
	CarbonFootprintTestUpdatedAt   time.Time  `json:"carbon_footprint_test_updated_at" gorm:"column:carbon_footprint_test_updated_at;type:timestamptz;not null;default:now()"`
}

func (CarbonFootprintTestModel) TableName() string { return "carbon_footprint_tests" }

func (m *CarbonFootprintTestModel) BeforeSave(_ *gorm.DB) error {
	m.CarbonFootprintTestUpdatedAt = time.Now()
	return nil
}

/* ===================================================================
   Helper methods
=================================================================== */
func (m *CarbonFootprintTestModel) IsSealed() bool {
	return m.CarbonFootprintTestStatus == TestStatusSealed
}

// MarkSealed stamps the computed result onto the row. Caller owns persistence
// and must run it inside the seal transaction.
func (m *CarbonFootprintTestModel) MarkSealed(total float64, categoryResults map[string]float64, completedAt time.Time) error {
	b, err := json.Marshal(categoryResults)
	if err != nil {
		return err
	}
	m.CarbonFootprintTestStatus = TestStatusSealed
	m.CarbonFootprintTestTotalFootprint = total
	m.CarbonFootprintTestCategoryResults = datatypes.JSON(b)
	m.CarbonFootprintTestCompletedAt = &completedAt
	return nil
}

// CategoryResults decodes the stored jsonb map; nil column yields empty map.
func (m *CarbonFootprintTestModel) CategoryResults() (map[string]float64, error) {
	out := map[string]float64{}
	if len(m.CarbonFootprintTestCategoryResults) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(m.CarbonFootprintTestCategoryResults, &out); err != nil {
		return nil, err
	}
	return out, nil
}
