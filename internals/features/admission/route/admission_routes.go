package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/bhumingasorofficial/psb-bhumingasor/internals/configs"
	admissionController "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/controller"
	service "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/service"
	"github.com/bhumingasorofficial/psb-bhumingasor/internals/middlewares"
)

// AdmissionRoutes merakit seluruh dependensi fitur pendaftaran
// lalu memasang rutenya di bawah /api/a/admission.
func AdmissionRoutes(api fiber.Router, db *gorm.DB) {
	cfg := configs.App

	drafts := service.NewDraftService(db)
	sheet := service.NewSheetClient(cfg.SheetEndpointURL, nil)
	pipeline := service.NewAttachmentPipeline(cfg)
	store := service.NewSessionStore(cfg, drafts)
	orch := service.NewOrchestrator(cfg, sheet, pipeline, drafts)

	ctrl := &admissionController.AdmissionController{
		Store:  store,
		Orch:   orch,
		Sheet:  sheet,
		Drafts: drafts,
		Cfg:    cfg,
	}

	admission := api.Group("/admission")

	// publik
	admission.Get("/config", ctrl.GetConfig)
	admission.Post("/sessions", middlewares.RegisterLimiter(), ctrl.OpenSession)

	// butuh token sesi
	admission.Patch("/sessions/field", ctrl.SetField)
	admission.Post("/sessions/blur", ctrl.Blur)
	admission.Post("/sessions/step", ctrl.Step)
	admission.Get("/sessions/toasts", ctrl.Toasts)

	admission.Get("/regions/options", ctrl.RegionOptions)
	admission.Post("/regions/select", ctrl.RegionSelect)

	admission.Put("/sessions/files/:slot", ctrl.UploadFile)
	admission.Delete("/sessions/files/:slot", ctrl.ClearFile)

	admission.Post("/register", middlewares.SubmitLimiter(), ctrl.Register)
	admission.Post("/submit", middlewares.SubmitLimiter(), ctrl.SubmitFull)
	admission.Get("/receipt", ctrl.Receipt)
}
