// file: internals/features/assessment/service/question_catalog.go
package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carbonwise_backend/internals/features/assessment/model"
)

/* =========================================================
   QUESTION CATALOG
   Immutable snapshot of the reference data. Built once from
   the DB before routes are mounted and never mutated; the
   question set only changes out of band (seeder + restart).
========================================================= */

type QuestionCatalog struct {
	questions  []model.TestQuestionModel
	byQuestion map[uuid.UUID]*model.TestQuestionModel
	byOption   map[uuid.UUID]*model.TestQuestionOptionModel
}

// LoadQuestionCatalog reads every question with its options and freezes them
// into an ordered snapshot. An empty table yields an empty (valid) catalog.
func LoadQuestionCatalog(ctx context.Context, db *gorm.DB) (*QuestionCatalog, error) {
	var questions []model.TestQuestionModel
	if err := db.WithContext(ctx).
		Preload("Options").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	// Ascending display order, id tiebreak for a stable listing.
	sort.SliceStable(questions, func(i, j int) bool {
		if questions[i].TestQuestionDisplayOrder != questions[j].TestQuestionDisplayOrder {
			return questions[i].TestQuestionDisplayOrder < questions[j].TestQuestionDisplayOrder
		}
		return questions[i].TestQuestionID.String() < questions[j].TestQuestionID.String()
	})

	cat := &QuestionCatalog{
		questions:  questions,
		byQuestion: make(map[uuid.UUID]*model.TestQuestionModel, len(questions)),
		byOption:   make(map[uuid.UUID]*model.TestQuestionOptionModel),
	}
	for i := range cat.questions {
		q := &cat.questions[i]
		cat.byQuestion[q.TestQuestionID] = q
		for j := range q.Options {
			o := &q.Options[j]
			cat.byOption[o.TestQuestionOptionID] = o
		}
	}
	return cat, nil
}

// ListQuestions returns the ordered snapshot. Callers must treat it as
// read-only.
func (c *QuestionCatalog) ListQuestions() []model.TestQuestionModel {
	return c.questions
}

func (c *QuestionCatalog) Question(id uuid.UUID) (*model.TestQuestionModel, bool) {
	q, ok := c.byQuestion[id]
	return q, ok
}

// Option resolves an option and checks it belongs to the given question.
func (c *QuestionCatalog) Option(questionID, optionID uuid.UUID) (*model.TestQuestionOptionModel, bool) {
	o, ok := c.byOption[optionID]
	if !ok || o.TestQuestionOptionQuestionID != questionID {
		return nil, false
	}
	return o, true
}

func (c *QuestionCatalog) Len() int { return len(c.questions) }
