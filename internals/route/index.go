package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	admissionRoute "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/route"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	// ===================== ADMISSION =====================
	log.Println("[INFO] Setting up AdmissionRoutes...")
	api := app.Group("/api/a")
	admissionRoute.AdmissionRoutes(api, db)
}
