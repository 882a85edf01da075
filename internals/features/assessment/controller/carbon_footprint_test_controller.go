// file: internals/features/assessment/controller/carbon_footprint_test_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	validator "github.com/go-playground/validator/v10"

	adto "carbonwise_backend/internals/features/assessment/dto"
	aservice "carbonwise_backend/internals/features/assessment/service"
	helper "carbonwise_backend/internals/helpers"
)

type CarbonFootprintTestController struct {
	Service   *aservice.CarbonFootprintTestService
	validator *validator.Validate
}

func NewCarbonFootprintTestController(svc *aservice.CarbonFootprintTestService) *CarbonFootprintTestController {
	return &CarbonFootprintTestController{Service: svc}
}

func (ctl *CarbonFootprintTestController) ensureValidator() {
	if ctl.validator == nil {
		ctl.validator = validator.New()
	}
}

// GET /carbon-footprint-test/questions
func (ctl *CarbonFootprintTestController) GetQuestions(c *fiber.Ctx) error {
	questions := ctl.Service.Catalog.ListQuestions()
	return helper.JsonList(c, "Questions fetched", adto.FromModelTestQuestions(questions))
}

// POST /carbon-footprint-test/start
func (ctl *CarbonFootprintTestController) StartTest(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	test, err := ctl.Service.StartTest(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, aservice.ErrUserNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to start test")
	}

	return helper.JsonCreated(c, "Test started", adto.StartTestDTO{
		Test:      adto.FromModelCarbonFootprintTest(*test, nil),
		Questions: adto.FromModelTestQuestions(ctl.Service.Catalog.ListQuestions()),
	})
}

// POST /carbon-footprint-test/:test_id/response
func (ctl *CarbonFootprintTestController) SaveResponse(c *fiber.Ctx) error {
	ctl.ensureValidator()

	testID, err := uuid.Parse(strings.TrimSpace(c.Params("test_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid test_id")
	}

	var req adto.SaveResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Validation failed")
	}
	questionID, _ := uuid.Parse(req.QuestionID)
	optionID, _ := uuid.Parse(req.OptionID)

	if _, err := ctl.Service.SaveResponse(c.UserContext(), testID, questionID, optionID); err != nil {
		switch {
		case errors.Is(err, aservice.ErrTestNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Test not found")
		case errors.Is(err, aservice.ErrUnknownQuestion):
			return helper.JsonError(c, fiber.StatusNotFound, "Question not found")
		case errors.Is(err, aservice.ErrTestSealed):
			return helper.JsonError(c, fiber.StatusConflict, "Test already completed")
		case errors.Is(err, aservice.ErrOptionMismatch):
			return helper.JsonError(c, fiber.StatusBadRequest, "Option does not belong to question")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save response")
		}
	}

	// Return the updated session view incl. all recorded responses.
	test, responses, err := ctl.Service.GetTest(c.UserContext(), testID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load test")
	}
	return helper.JsonOK(c, "Response saved", adto.FromModelCarbonFootprintTest(*test, responses))
}

// POST /carbon-footprint-test/:test_id/complete
func (ctl *CarbonFootprintTestController) CompleteTest(c *fiber.Ctx) error {
	testID, err := uuid.Parse(strings.TrimSpace(c.Params("test_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid test_id")
	}

	result, err := ctl.Service.CompleteTest(c.UserContext(), testID)
	if err != nil {
		if errors.Is(err, aservice.ErrTestNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Test not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to complete test")
	}

	breakdown := make([]adto.CategoryResultDTO, 0, len(result.Breakdown))
	for _, b := range result.Breakdown {
		breakdown = append(breakdown, adto.CategoryResultDTO{
			Category:       b.Category,
			FootprintValue: b.Value,
		})
	}
	return helper.JsonOK(c, "Test completed", adto.CarbonFootprintResultDTO{
		CarbonFootprintTestID: result.Test.CarbonFootprintTestID.String(),
		UserID:                result.Test.CarbonFootprintTestUserID.String(),
		TotalFootprint:        result.TotalFootprint,
		SustainabilityPoints:  result.SustainabilityPoints,
		CompletedAt:           result.CompletedAt,
		CategoryResults:       breakdown,
	})
}

// GET /carbon-footprint-test/stats
func (ctl *CarbonFootprintTestController) GetSustainabilityStats(c *fiber.Ctx) error {
	stats, err := ctl.Service.SustainabilityStats(c.UserContext())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to compute stats")
	}
	return helper.JsonOK(c, "Sustainability stats", adto.SustainabilityStatsDTO{
		TotalUsers:                       stats.TotalUsers,
		UsersWithSustainabilityPoints:    stats.UsersWithSustainabilityPoints,
		UsersWithoutSustainabilityPoints: stats.UsersWithoutSustainabilityPoints,
		TotalSustainabilityPoints:        stats.TotalSustainabilityPoints,
		AverageSustainabilityPoints:      stats.AverageSustainabilityPoints,
		HighestSustainabilityPoints:      stats.HighestSustainabilityPoints,
		LowestSustainabilityPoints:       stats.LowestSustainabilityPoints,
	})
}
