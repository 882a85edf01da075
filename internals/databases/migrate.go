package database

import (
	"log"

	assessmentmodel "carbonwise_backend/internals/features/assessment/model"
	usermodel "carbonwise_backend/internals/features/users/model"
)

// AutoMigrate creates/updates the schema. Only runs when DB_AUTOMIGRATE=true;
// production schemas are managed by DDL.
func AutoMigrate() {
	if err := DB.AutoMigrate(
		&usermodel.UserModel{},
		&assessmentmodel.TestQuestionModel{},
		&assessmentmodel.TestQuestionOptionModel{},
		&assessmentmodel.CarbonFootprintTestModel{},
		&assessmentmodel.TestResponseModel{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}
	log.Println("✅ Schema migrated.")
}
