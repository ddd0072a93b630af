// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/features/school/report_cards/dto"
	"schoolku_backend/internals/features/school/report_cards/render"
	"schoolku_backend/internals/features/school/report_cards/repository/gormrepo"
	reportCardRoutes "schoolku_backend/internals/features/school/report_cards/route"
	"schoolku_backend/internals/features/school/report_cards/service"
	authMw "schoolku_backend/internals/middlewares/auth"
	routeDetails "schoolku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	engine := service.NewEngine(gormrepo.New(db))
	renderer, err := render.NewHTMLRenderer(render.NewEngine())
	if err != nil {
		log.Fatalf("❌ Gagal load template rapor: %v", err)
	}
	h := reportCardRoutes.NewHandlers(engine, dto.NewValidator(), renderer)

	MountReportCardRoutes(app, h, configs.JWTSecret)
}

// MountReportCardRoutes: pasang group per role. Dipisah dari SetupRoutes agar bisa dipakai test.
func MountReportCardRoutes(app *fiber.App, h *reportCardRoutes.Handlers, secret string) {
	// ===================== ADMIN =====================
	log.Println("[INFO] Mounting ADMIN report card routes...")
	admin := app.Group("/api/a", authMw.AuthMiddleware(secret))
	routeDetails.ReportCardAdminRoutes(admin, h)

	// ===================== TEACHER =====================
	log.Println("[INFO] Mounting TEACHER report card routes...")
	teacher := app.Group("/api/t", authMw.AuthMiddleware(secret))
	routeDetails.ReportCardTeacherRoutes(teacher, h)

	// ===================== PRINCIPAL =====================
	log.Println("[INFO] Mounting PRINCIPAL report card routes...")
	principal := app.Group("/api/p", authMw.AuthMiddleware(secret))
	routeDetails.ReportCardPrincipalRoutes(principal, h)

	// ===================== USER (read) =====================
	log.Println("[INFO] Mounting USER report card routes...")
	user := app.Group("/api/u", authMw.AuthMiddleware(secret))
	routeDetails.ReportCardUserRoutes(user, h)
}
