// file: internals/route/index.go
package routes

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assessmentcontroller "carbonwise_backend/internals/features/assessment/controller"
	assessmentroute "carbonwise_backend/internals/features/assessment/route"
	assessmentservice "carbonwise_backend/internals/features/assessment/service"
	authMiddleware "carbonwise_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Catalog snapshot is built once here; the question set only changes out
	// of band (seeder + restart).
	log.Println("[INFO] Loading question catalog...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	catalog, err := assessmentservice.LoadQuestionCatalog(ctx, db)
	if err != nil {
		log.Fatalf("❌ Failed to load question catalog: %v", err)
	}
	log.Printf("[INFO] Question catalog loaded (%d questions)", catalog.Len())

	svc := assessmentservice.NewCarbonFootprintTestService(db, catalog)
	ctl := assessmentcontroller.NewCarbonFootprintTestController(svc)

	// ===================== GROUPS =====================

	// PUBLIC → no JWT
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api")

	// PRIVATE (USER) → JWT required
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u", authMiddleware.AuthMiddleware())

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting CarbonFootprintTest routes...")
	assessmentroute.CarbonFootprintTestPublicRoutes(public, ctl)
	assessmentroute.CarbonFootprintTestUserRoutes(private, ctl)
}
