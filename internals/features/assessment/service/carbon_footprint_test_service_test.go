package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"carbonwise_backend/internals/features/assessment/model"
	usermodel "carbonwise_backend/internals/features/users/model"
)

const testSchema = `
CREATE TABLE users (
	user_id TEXT PRIMARY KEY,
	user_name TEXT NOT NULL,
	user_email TEXT NOT NULL UNIQUE,
	user_sustainability_point INTEGER,
	user_created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	user_updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE test_questions (
	test_question_id TEXT PRIMARY KEY,
	test_question_text TEXT NOT NULL,
	test_question_category TEXT NOT NULL,
	test_question_display_order INTEGER NOT NULL,
	test_question_created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE test_question_options (
	test_question_option_id TEXT PRIMARY KEY,
	test_question_option_question_id TEXT NOT NULL,
	test_question_option_text TEXT NOT NULL,
	test_question_option_footprint_weight REAL NOT NULL DEFAULT 0,
	test_question_option_created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE carbon_footprint_tests (
	carbon_footprint_test_id TEXT PRIMARY KEY,
	carbon_footprint_test_user_id TEXT NOT NULL,
	carbon_footprint_test_status TEXT NOT NULL DEFAULT 'open',
	carbon_footprint_test_total_footprint REAL NOT NULL DEFAULT 0,
	carbon_footprint_test_category_results TEXT,
	carbon_footprint_test_created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	carbon_footprint_test_completed_at DATETIME,
	carbon_footprint_test_updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE test_responses (
	test_response_id TEXT PRIMARY KEY,
	test_response_test_id TEXT NOT NULL,
	test_response_question_id TEXT NOT NULL,
	test_response_option_id TEXT NOT NULL,
	test_response_sealed_test_id TEXT,
	test_response_created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	test_response_updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (test_response_test_id, test_response_question_id)
);
`

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec(testSchema).Error)
	return db
}

// seedFixture inserts Q1 (Electricity, O1=1.5, O2=3.0) and
// Q2 (Transportation, O3=0.8, O4=2.0) plus one user.
type fixture struct {
	userID uuid.UUID
	q1, q2 uuid.UUID
	o1, o2 uuid.UUID
	o3, o4 uuid.UUID
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{
		userID: uuid.New(),
		q1:     uuid.New(), q2: uuid.New(),
		o1: uuid.New(), o2: uuid.New(),
		o3: uuid.New(), o4: uuid.New(),
	}

	require.NoError(t, db.Create(&usermodel.UserModel{
		UserID:    f.userID,
		UserName:  "Deniz",
		UserEmail: "deniz@example.edu",
	}).Error)

	require.NoError(t, db.Create(&model.TestQuestionModel{
		TestQuestionID:           f.q1,
		TestQuestionText:         "How do you usually light your home?",
		TestQuestionCategory:     "Electricity",
		TestQuestionDisplayOrder: 1,
	}).Error)
	require.NoError(t, db.Create(&model.TestQuestionModel{
		TestQuestionID:           f.q2,
		TestQuestionText:         "How do you get to campus most days?",
		TestQuestionCategory:     "Transportation",
		TestQuestionDisplayOrder: 2,
	}).Error)

	for _, o := range []model.TestQuestionOptionModel{
		{TestQuestionOptionID: f.o1, TestQuestionOptionQuestionID: f.q1, TestQuestionOptionText: "LED bulbs", TestQuestionOptionFootprintWeight: 1.5},
		{TestQuestionOptionID: f.o2, TestQuestionOptionQuestionID: f.q1, TestQuestionOptionText: "Incandescent", TestQuestionOptionFootprintWeight: 3.0},
		{TestQuestionOptionID: f.o3, TestQuestionOptionQuestionID: f.q2, TestQuestionOptionText: "Public transport", TestQuestionOptionFootprintWeight: 0.8},
		{TestQuestionOptionID: f.o4, TestQuestionOptionQuestionID: f.q2, TestQuestionOptionText: "Driving alone", TestQuestionOptionFootprintWeight: 2.0},
	} {
		o := o
		require.NoError(t, db.Create(&o).Error)
	}
	return f
}

func newService(t *testing.T, db *gorm.DB) *CarbonFootprintTestService {
	t.Helper()
	catalog, err := LoadQuestionCatalog(context.Background(), db)
	require.NoError(t, err)
	return NewCarbonFootprintTestService(db, catalog)
}

func TestStartTest(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newService(t, db)
	ctx := context.Background()

	test, err := svc.StartTest(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, model.TestStatusOpen, test.CarbonFootprintTestStatus)
	assert.Equal(t, f.userID, test.CarbonFootprintTestUserID)
	assert.Zero(t, test.CarbonFootprintTestTotalFootprint)
	assert.Nil(t, test.CarbonFootprintTestCompletedAt)

	// A user may hold several open tests at once.
	second, err := svc.StartTest(ctx, f.userID)
	require.NoError(t, err)
	assert.NotEqual(t, test.CarbonFootprintTestID, second.CarbonFootprintTestID)
}

func TestStartTestUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	svc := newService(t, db)

	_, err := svc.StartTest(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSaveResponseValidation(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newService(t, db)
	ctx := context.Background()

	test, err := svc.StartTest(ctx, f.userID)
	require.NoError(t, err)
	testID := test.CarbonFootprintTestID

	_, err = svc.SaveResponse(ctx, uuid.New(), f.q1, f.o1)
	assert.ErrorIs(t, err, ErrTestNotFound)

	_, err = svc.SaveResponse(ctx, testID, uuid.New(), f.o1)
	assert.ErrorIs(t, err, ErrUnknownQuestion)

	// o3 belongs to q2, not q1
	_, err = svc.SaveResponse(ctx, testID, f.q1, f.o3)
	assert.ErrorIs(t, err, ErrOptionMismatch)
}

func TestSaveResponseOverwritesNotDuplicates(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newService(t, db)
	ctx := context.Background()

	test, err := svc.StartTest(ctx, f.userID)
	require.NoError(t, err)
	testID := test.CarbonFootprintTestID

	first, err := svc.SaveResponse(ctx, testID, f.q1, f.o1)
	require.NoError(t, err)
	assert.Equal(t, f.o1, first.TestResponseOptionID)
	assert.Nil(t, first.TestResponseSealedTestID)

	second, err := svc.SaveResponse(ctx, testID, f.q1, f.o2)
	require.NoError(t, err)
	assert.Equal(t, f.o2, second.TestResponseOptionID)
	// same row, overwritten
	assert.Equal(t, first.TestResponseID, second.TestResponseID)

	var count int64
	require.NoError(t, db.Model(&model.TestResponseModel{}).
		Where("test_response_test_id = ? AND test_response_question_id = ?", testID, f.q1).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCompleteScoring(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newService(t, db)
	ctx := context.Background()

	test, err := svc.StartTest(ctx, f.userID)
	require.NoError(t, err)
	testID := test.CarbonFootprintTestID

	_, err = svc.SaveResponse(ctx, testID, f.q1, f.o2) // Electricity 3.0
	require.NoError(t, err)
	_, err = svc.SaveResponse(ctx, testID, f.q2, f.o3) // Transportation 0.8
	require.NoError(t, err)

	result, err := svc.CompleteTest(ctx, testID)
	require.NoError(t, err)
	assert.InDelta(t, 3.8, result.TotalFootprint, 1e-9)
	require.Len(t, result.Breakdown, 2)
	// descending by value
	assert.Equal(t, CategoryTotal{Category: "Electricity", Value: 3.0}, result.Breakdown[0])
	assert.Equal(t, CategoryTotal{Category: "Transportation", Value: 0.8}, result.Breakdown[1])

	sum := 0.0
	for _, b := range result.Breakdown {
		sum += b.Value
	}
	assert.InDelta(t, result.TotalFootprint, sum, 1e-9)

	// total <= 10 → full points
	assert.Equal(t, 100, result.SustainabilityPoints)

	// session row is sealed with the result on it
	sealed, responses, err := svc.GetTest(ctx, testID)
	require.NoError(t, err)
	assert.True(t, sealed.IsSealed())
	assert.NotNil(t, sealed.CarbonFootprintTestCompletedAt)
	assert.InDelta(t, 3.8, sealed.CarbonFootprintTestTotalFootprint, 1e-9)

	// every response carries the sealed-link
	require.Len(t, responses, 2)
	for _, r := range responses {
		require.NotNil(t, r.TestResponseSealedTestID)
		assert.Equal(t, testID, *r.TestResponseSealedTestID)
	}

	// points landed on the user
	var user usermodel.UserModel
	require.NoError(t, db.First(&user, "user_id = ?", f.userID).Error)
	require.NotNil(t, user.UserSustainabilityPoint)
	assert.Equal(t, 100, *user.UserSustainabilityPoint)
}

func TestCompleteIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newService(t, db)
	ctx := context.Background()

	test, err := svc.StartTest(ctx, f.userID)
	require.NoError(t, err)
	testID := test.CarbonFootprintTestID

	_, err = svc.SaveResponse(ctx, testID, f.q1, f.o2)
	require.NoError(t, err)

	first, err := svc.CompleteTest(ctx, testID)
	require.NoError(t, err)

	var before model.TestResponseModel
	require.NoError(t, db.First(&before, "test_response_test_id = ?", testID).Error)

	second, err := svc.CompleteTest(ctx, testID)
	require.NoError(t, err)

	assert.Equal(t, first.TotalFootprint, second.TotalFootprint)
	assert.Equal(t, first.SustainabilityPoints, second.SustainabilityPoints)
	assert.Equal(t, first.Breakdown, second.Breakdown)
	assert.WithinDuration(t, first.CompletedAt, second.CompletedAt, time.Second)

	// no second persistence write happened
	var after model.TestResponseModel
	require.NoError(t, db.First(&after, "test_response_test_id = ?", testID).Error)
	assert.Equal(t, before.TestResponseUpdatedAt, after.TestResponseUpdatedAt)
}

func TestSaveAfterSealRejected(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newService(t, db)
	ctx := context.Background()

	test, err := svc.StartTest(ctx, f.userID)
	require.NoError(t, err)
	testID := test.CarbonFootprintTestID

	_, err = svc.SaveResponse(ctx, testID, f.q1, f.o1)
	require.NoError(t, err)
	_, err = svc.CompleteTest(ctx, testID)
	require.NoError(t, err)

	_, err = svc.SaveResponse(ctx, testID, f.q2, f.o3)
	assert.ErrorIs(t, err, ErrTestSealed)

	// the sealed response set is untouched
	var count int64
	require.NoError(t, db.Model(&model.TestResponseModel{}).
		Where("test_response_test_id = ?", testID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCompleteWithNoResponses(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newService(t, db)
	ctx := context.Background()

	test, err := svc.StartTest(ctx, f.userID)
	require.NoError(t, err)

	result, err := svc.CompleteTest(ctx, test.CarbonFootprintTestID)
	require.NoError(t, err)
	assert.Zero(t, result.TotalFootprint)
	assert.Empty(t, result.Breakdown)
}

func TestCompleteUnknownTest(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	svc := newService(t, db)

	_, err := svc.CompleteTest(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTestNotFound)
}

func TestSessionIsolation(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newService(t, db)
	ctx := context.Background()

	s1, err := svc.StartTest(ctx, f.userID)
	require.NoError(t, err)
	s2, err := svc.StartTest(ctx, f.userID)
	require.NoError(t, err)

	_, err = svc.SaveResponse(ctx, s1.CarbonFootprintTestID, f.q1, f.o2)
	require.NoError(t, err)
	_, err = svc.SaveResponse(ctx, s2.CarbonFootprintTestID, f.q2, f.o3)
	require.NoError(t, err)

	r1, err := svc.CompleteTest(ctx, s1.CarbonFootprintTestID)
	require.NoError(t, err)
	r2, err := svc.CompleteTest(ctx, s2.CarbonFootprintTestID)
	require.NoError(t, err)

	// s2's answer never bleeds into s1's breakdown and vice versa
	assert.InDelta(t, 3.0, r1.TotalFootprint, 1e-9)
	require.Len(t, r1.Breakdown, 1)
	assert.Equal(t, "Electricity", r1.Breakdown[0].Category)

	assert.InDelta(t, 0.8, r2.TotalFootprint, 1e-9)
	require.Len(t, r2.Breakdown, 1)
	assert.Equal(t, "Transportation", r2.Breakdown[0].Category)
}

func TestSustainabilityStats(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newService(t, db)
	ctx := context.Background()

	// second user, never takes the test
	require.NoError(t, db.Create(&usermodel.UserModel{
		UserID:    uuid.New(),
		UserName:  "Mert",
		UserEmail: "mert@example.edu",
	}).Error)

	test, err := svc.StartTest(ctx, f.userID)
	require.NoError(t, err)
	_, err = svc.CompleteTest(ctx, test.CarbonFootprintTestID)
	require.NoError(t, err)

	stats, err := svc.SustainabilityStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.UsersWithSustainabilityPoints)
	assert.Equal(t, int64(1), stats.UsersWithoutSustainabilityPoints)
	assert.Equal(t, int64(100), stats.TotalSustainabilityPoints)
	assert.Equal(t, 100.0, stats.AverageSustainabilityPoints)
	assert.Equal(t, 100, stats.HighestSustainabilityPoints)
	assert.Equal(t, 100, stats.LowestSustainabilityPoints)
}

func TestCalculateSustainabilityPoints(t *testing.T) {
	cases := []struct {
		total float64
		want  int
	}{
		{0, 100},
		{10, 100},
		{10.1, 80},
		{25, 80},
		{50, 60},
		{75, 40},
		{75.1, 20},
		{200, 20},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CalculateSustainabilityPoints(tc.total), "total=%v", tc.total)
	}
}
