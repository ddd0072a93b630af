// file: internals/features/school/report_cards/route/report_card_routes.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	rcCtl "schoolku_backend/internals/features/school/report_cards/controller"
	"schoolku_backend/internals/features/school/report_cards/service"
	"schoolku_backend/internals/middlewares"
	authMw "schoolku_backend/internals/middlewares/auth"
)

// Handlers: controller rapor yang dipakai bersama oleh semua group
type Handlers struct {
	ReportCards *rcCtl.ReportCardController
	Grades      *rcCtl.GradeEntryController
	Weights     *rcCtl.WeightConfigController
}

func NewHandlers(engine *service.Engine, v *validator.Validate, renderer service.Renderer) *Handlers {
	return &Handlers{
		ReportCards: rcCtl.NewReportCardController(engine, v, renderer),
		Grades:      rcCtl.NewGradeEntryController(engine, v),
		Weights:     rcCtl.NewWeightConfigController(engine, v),
	}
}

var can = authMw.RequireCapability

// =========================
// ADMIN  /api/a
// =========================
func AdminReportCardRoutes(r fiber.Router, h *Handlers) {
	rc := r.Group("/report-cards")
	rc.Post("/validate", can(constants.ActionValidate), h.ReportCards.Validate)
	rc.Post("/generate", can(constants.ActionGenerate), middlewares.BulkRateLimiter(), h.ReportCards.Generate)
	rc.Post("/submit-all", can(constants.ActionSubmit), middlewares.BulkRateLimiter(), h.ReportCards.SubmitAll)
	rc.Post("/:id/unlock", can(constants.ActionUnlock), h.ReportCards.Unlock)
	rc.Patch("/:id/document", can(constants.ActionAttachDocument), h.ReportCards.AttachDocument)

	wc := r.Group("/weight-configs", can(constants.ActionManageWeights))
	wc.Get("/", h.Weights.List)
	wc.Get("/resolve", h.Weights.Resolve)
	wc.Put("/", h.Weights.Upsert)
}

// =========================
// TEACHER  /api/t
// =========================
func TeacherReportCardRoutes(r fiber.Router, h *Handlers) {
	sc := r.Group("/scores", can(constants.ActionRecordScore))
	sc.Post("/", h.Grades.CreateScore)
	sc.Patch("/:id", h.Grades.PatchScore)
	sc.Delete("/:id", h.Grades.DeleteScore)

	r.Put("/attitudes", can(constants.ActionRecordAttitude), h.Grades.UpsertAttitude)

	rc := r.Group("/report-cards")
	rc.Post("/validate", can(constants.ActionValidate), h.ReportCards.Validate)
	rc.Post("/:id/submit", can(constants.ActionSubmit), h.ReportCards.Submit)
}

// =========================
// PRINCIPAL  /api/p
// =========================
func PrincipalReportCardRoutes(r fiber.Router, h *Handlers) {
	rc := r.Group("/report-cards")
	rc.Post("/bulk-approve", can(constants.ActionApprove), middlewares.BulkRateLimiter(), h.ReportCards.BulkApprove)
	rc.Post("/:id/approve", can(constants.ActionApprove), h.ReportCards.Approve)
	rc.Post("/:id/reject", can(constants.ActionReject), h.ReportCards.Reject)
}

// =========================
// USER (read)  /api/u
// =========================
func UserReportCardRoutes(r fiber.Router, h *Handlers) {
	rc := r.Group("/report-cards")

	// level kelas
	rc.Get("/", can(constants.ActionViewClassReport), h.ReportCards.List)
	rc.Get("/ranking", can(constants.ActionViewClassReport), h.ReportCards.Ranking)
	rc.Get("/statistic", can(constants.ActionViewClassReport), h.ReportCards.Statistic)

	// level siswa (siswa hanya miliknya sendiri)
	rc.Get("/students/:student_id/summary", can(constants.ActionViewReportCard), h.ReportCards.StudentSummary)
	rc.Get("/students/:student_id/subjects/:subject_id/final", can(constants.ActionViewReportCard), h.ReportCards.SubjectFinal)
	rc.Get("/:id", can(constants.ActionViewReportCard), h.ReportCards.Detail)
	rc.Get("/:id/document", can(constants.ActionViewReportCard), h.ReportCards.Document)
	rc.Get("/:id/print", can(constants.ActionViewReportCard), h.ReportCards.Print)
}
