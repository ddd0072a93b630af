package details

import (
	"github.com/gofiber/fiber/v2"

	reportCardRoutes "schoolku_backend/internals/features/school/report_cards/route"
)

func ReportCardAdminRoutes(r fiber.Router, h *reportCardRoutes.Handlers) {
	reportCardRoutes.AdminReportCardRoutes(r, h)
}

func ReportCardTeacherRoutes(r fiber.Router, h *reportCardRoutes.Handlers) {
	reportCardRoutes.TeacherReportCardRoutes(r, h)
}

func ReportCardPrincipalRoutes(r fiber.Router, h *reportCardRoutes.Handlers) {
	reportCardRoutes.PrincipalReportCardRoutes(r, h)
}

func ReportCardUserRoutes(r fiber.Router, h *reportCardRoutes.Handlers) {
	reportCardRoutes.UserReportCardRoutes(r, h)
}
