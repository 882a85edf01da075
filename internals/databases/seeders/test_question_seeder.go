// file: internals/databases/seeders/test_question_seeder.go
package seeders

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carbonwise_backend/internals/features/assessment/model"
)

type seedOption struct {
	Text   string
	Weight float64
}

type seedQuestion struct {
	Text     string
	Category string
	Order    int
	Options  []seedOption
}

// The campus footprint question set. Weights are kg CO2e per month.
var testQuestionSeed = []seedQuestion{
	{
		Text: "How do you usually light your home?", Category: "Electricity", Order: 1,
		Options: []seedOption{
			{"LED bulbs everywhere", 1.5},
			{"Mixed LED and incandescent", 3.0},
			{"Mostly incandescent bulbs", 6.5},
		},
	},
	{
		Text: "How long does your air conditioner or electric heater run per day?", Category: "Electricity", Order: 2,
		Options: []seedOption{
			{"I don't use one", 0},
			{"Under 2 hours", 4.0},
			{"2-6 hours", 9.5},
			{"More than 6 hours", 18.0},
		},
	},
	{
		Text: "How do you get to campus most days?", Category: "Transportation", Order: 3,
		Options: []seedOption{
			{"Walking or cycling", 0},
			{"Public transport", 0.8},
			{"Carpool", 2.0},
			{"Driving alone", 4.6},
		},
	},
	{
		Text: "How many round-trip flights do you take per year?", Category: "Transportation", Order: 4,
		Options: []seedOption{
			{"None", 0},
			{"1-2 short-haul", 10.0},
			{"3 or more, or long-haul", 25.0},
		},
	},
	{
		Text: "How long are your showers?", Category: "Water", Order: 5,
		Options: []seedOption{
			{"Under 5 minutes", 0.5},
			{"5-10 minutes", 1.2},
			{"More than 10 minutes", 2.5},
		},
	},
	{
		Text: "How often do you eat red meat?", Category: "Food", Order: 6,
		Options: []seedOption{
			{"Never (vegetarian/vegan)", 1.0},
			{"A few times a week", 4.5},
			{"Daily", 9.0},
		},
	},
	{
		Text: "How much paper do you print per week?", Category: "Paper", Order: 7,
		Options: []seedOption{
			{"Almost none, I work digitally", 0.1},
			{"A few pages", 0.6},
			{"Dozens of pages", 1.8},
		},
	},
	{
		Text: "What do you do with recyclable waste?", Category: "Waste", Order: 8,
		Options: []seedOption{
			{"Always separate it", 0.3},
			{"Sometimes separate it", 1.1},
			{"Throw everything together", 2.4},
		},
	},
}

// SeedTestQuestions inserts the question catalog when the table is empty.
// Reference data enters the system here (or via external DDL), never through
// the assessment engine itself.
func SeedTestQuestions(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.TestQuestionModel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("[SEED] test_questions already has %d rows, skipping", count)
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, sq := range testQuestionSeed {
			q := model.TestQuestionModel{
				TestQuestionID:           uuid.New(),
				TestQuestionText:         sq.Text,
				TestQuestionCategory:     sq.Category,
				TestQuestionDisplayOrder: sq.Order,
			}
			if err := tx.Create(&q).Error; err != nil {
				return err
			}
			for _, so := range sq.Options {
				o := model.TestQuestionOptionModel{
					TestQuestionOptionID:              uuid.New(),
					TestQuestionOptionQuestionID:      q.TestQuestionID,
					TestQuestionOptionText:            so.Text,
					TestQuestionOptionFootprintWeight: so.Weight,
				}
				if err := tx.Create(&o).Error; err != nil {
					return err
				}
			}
		}
		log.Printf("[SEED] inserted %d test questions", len(testQuestionSeed))
		return nil
	})
}
