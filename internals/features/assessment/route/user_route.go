package route

import (
	"github.com/gofiber/fiber/v2"

	assessmentcontroller "carbonwise_backend/internals/features/assessment/controller"
)

/*
Note:
- Public group carries the catalog read only; everything stateful sits behind
  the JWT group mounted by the route index.
- Base here: /carbon-footprint-test
*/

// CarbonFootprintTestPublicRoutes: catalog only, no identity needed.
func CarbonFootprintTestPublicRoutes(r fiber.Router, ctl *assessmentcontroller.CarbonFootprintTestController) {
	g := r.Group("/carbon-footprint-test")
	g.Get("/questions", ctl.GetQuestions) // GET /api/carbon-footprint-test/questions
}

// CarbonFootprintTestUserRoutes: session lifecycle + stats, JWT required.
func CarbonFootprintTestUserRoutes(r fiber.Router, ctl *assessmentcontroller.CarbonFootprintTestController) {
	g := r.Group("/carbon-footprint-test")

	g.Post("/start", ctl.StartTest)                      // POST /api/u/carbon-footprint-test/start
	g.Post("/:test_id/response", ctl.SaveResponse)       // POST /api/u/carbon-footprint-test/:test_id/response
	g.Post("/:test_id/complete", ctl.CompleteTest)       // POST /api/u/carbon-footprint-test/:test_id/complete
	g.Get("/stats", ctl.GetSustainabilityStats)          // GET  /api/u/carbon-footprint-test/stats
}
