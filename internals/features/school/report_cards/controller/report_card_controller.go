// file: internals/features/school/report_cards/controller/report_card_controller.go
package controller

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/report_cards/dto"
	"schoolku_backend/internals/features/school/report_cards/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/dbtime"
	authMw "schoolku_backend/internals/middlewares/auth"
)

type ReportCardController struct {
	Engine    *service.Engine
	Validator *validator.Validate
	Renderer  service.Renderer
}

func NewReportCardController(engine *service.Engine, v *validator.Validate, renderer service.Renderer) *ReportCardController {
	return &ReportCardController{Engine: engine, Validator: v, Renderer: renderer}
}

// bind: body JSON → req + validasi. ok=false berarti response sudah ditulis.
func (ctl *ReportCardController) bind(c *fiber.Ctx, req any) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, helper.JsonError(c, http.StatusBadRequest, "Body tidak valid: "+err.Error())
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return false, writeValidationError(c, err)
	}
	return true, nil
}

func (ctl *ReportCardController) bindQuery(c *fiber.Ctx, q any) (bool, error) {
	if err := c.QueryParser(q); err != nil {
		return false, helper.JsonError(c, http.StatusBadRequest, "Query tidak valid: "+err.Error())
	}
	if err := ctl.Validator.Struct(q); err != nil {
		return false, writeValidationError(c, err)
	}
	return true, nil
}

// siswa hanya boleh melihat rapornya sendiri
func ownsStudent(c *fiber.Ctx, studentID uuid.UUID) bool {
	role, _ := c.Locals("userRole").(string)
	if constants.Role(role) != constants.RoleStudent {
		return true
	}
	return authMw.UserIDFromLocals(c) == studentID
}

/* =========================================================
   Workflow (admin / guru / kepala sekolah)
========================================================= */

// POST /api/a/report-cards/validate
func (ctl *ReportCardController) Validate(c *fiber.Ctx) error {
	var req dto.ClassBatchRequest
	if ok, err := ctl.bind(c, &req); !ok {
		return err
	}
	res, err := ctl.Engine.ValidateCompleteness(c.UserContext(), req.ClassIDs, req.Period())
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "Validasi kelengkapan nilai", res)
}

// POST /api/a/report-cards/generate
func (ctl *ReportCardController) Generate(c *fiber.Ctx) error {
	var req dto.ClassBatchRequest
	if ok, err := ctl.bind(c, &req); !ok {
		return err
	}
	res, err := ctl.Engine.GenerateReportCards(c.UserContext(), req.ClassIDs, req.Period())
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "Generate rapor selesai", res)
}

// POST /api/a/report-cards/submit-all
func (ctl *ReportCardController) SubmitAll(c *fiber.Ctx) error {
	var req dto.ClassActionRequest
	if ok, err := ctl.bind(c, &req); !ok {
		return err
	}
	res, err := ctl.Engine.SubmitAllForApproval(c.UserContext(), req.ClassID, req.Period())
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "Pengajuan rapor kelas selesai", res)
}

// POST /api/t/report-cards/:id/submit
func (ctl *ReportCardController) Submit(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	card, err := ctl.Engine.SubmitForApproval(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "Rapor diajukan", dto.FromReportCardModel(card))
}

// POST /api/p/report-cards/:id/approve
func (ctl *ReportCardController) Approve(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	card, err := ctl.Engine.Approve(c.UserContext(), id, authMw.UserIDFromLocals(c))
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "Rapor disahkan", dto.FromReportCardModel(card))
}

// POST /api/p/report-cards/:id/reject
func (ctl *ReportCardController) Reject(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	var req dto.RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Body tidak valid: "+err.Error())
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonErrorCode(c, http.StatusUnprocessableEntity, service.ReasonRejectionNotesRequired, "catatan penolakan wajib diisi")
	}
	card, err := ctl.Engine.Reject(c.UserContext(), id, req.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "Rapor dikembalikan ke draft", dto.FromReportCardModel(card))
}

// POST /api/p/report-cards/bulk-approve
func (ctl *ReportCardController) BulkApprove(c *fiber.Ctx) error {
	var req dto.ClassActionRequest
	if ok, err := ctl.bind(c, &req); !ok {
		return err
	}
	res, err := ctl.Engine.BulkApprove(c.UserContext(), req.ClassID, req.Period(), authMw.UserIDFromLocals(c))
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "Pengesahan rapor kelas selesai", res)
}

// POST /api/a/report-cards/:id/unlock
func (ctl *ReportCardController) Unlock(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	card, err := ctl.Engine.Unlock(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "Rapor dibuka kembali", dto.FromReportCardModel(card))
}

// PATCH /api/a/report-cards/:id/document
func (ctl *ReportCardController) AttachDocument(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	var req dto.AttachDocumentRequest
	if ok, err := ctl.bind(c, &req); !ok {
		return err
	}
	card, err := ctl.Engine.AttachDocument(c.UserContext(), id, req.PDFURL)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "Dokumen rapor tersimpan", dto.FromReportCardModel(card))
}

/* =========================================================
   Read
========================================================= */

// GET /report-cards?class_id=&academic_year=&semester=&status=
func (ctl *ReportCardController) List(c *fiber.Ctx) error {
	var q dto.ClassPeriodQuery
	if ok, err := ctl.bindQuery(c, &q); !ok {
		return err
	}
	rows, err := ctl.Engine.ListReportCards(c.UserContext(), q.ClassUUID(), q.Period(), q.StatusFilter())
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromReportCardModels(rows), fiber.Map{
		"class_id": q.ClassUUID(),
		"period":   q.Period(),
		"count":    len(rows),
	})
}

// GET /report-cards/:id
func (ctl *ReportCardController) Detail(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	card, err := ctl.Engine.GetReportCard(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !ownsStudent(c, card.ReportCardStudentID) {
		return helper.JsonError(c, http.StatusForbidden, "Rapor ini bukan milik Anda")
	}
	return helper.JsonOK(c, "ok", dto.FromReportCardModel(card))
}

// Tanggal di dokumen rapor ditampilkan dalam timezone sekolah
func localizeDocument(c *fiber.Ctx, doc *service.ReportCardDocument) {
	doc.GeneratedAt = dbtime.ToSchoolTime(c, doc.GeneratedAt)
	doc.ApprovedAt = dbtime.ToSchoolTimePtr(c, doc.ApprovedAt)
	doc.ReleasedAt = dbtime.ToSchoolTimePtr(c, doc.ReleasedAt)
}

// GET /report-cards/:id/document
func (ctl *ReportCardController) Document(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	doc, err := ctl.Engine.ReportCardDocument(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !ownsStudent(c, doc.Student.StudentID) {
		return helper.JsonError(c, http.StatusForbidden, "Rapor ini bukan milik Anda")
	}
	localizeDocument(c, &doc)
	return helper.JsonOK(c, "ok", doc)
}

// GET /report-cards/:id/print (HTML siap cetak)
func (ctl *ReportCardController) Print(c *fiber.Ctx) error {
	if ctl.Renderer == nil {
		return helper.JsonError(c, http.StatusNotImplemented, "Renderer rapor belum dikonfigurasi")
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	doc, err := ctl.Engine.ReportCardDocument(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !ownsStudent(c, doc.Student.StudentID) {
		return helper.JsonError(c, http.StatusForbidden, "Rapor ini bukan milik Anda")
	}
	localizeDocument(c, &doc)
	out, err := ctl.Renderer.Render(c.UserContext(), doc)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(http.StatusOK).Send(out)
}

// GET /report-cards/ranking?class_id=&academic_year=&semester=
func (ctl *ReportCardController) Ranking(c *fiber.Ctx) error {
	var q dto.ClassPeriodQuery
	if ok, err := ctl.bindQuery(c, &q); !ok {
		return err
	}
	rows, err := ctl.Engine.ClassRanking(c.UserContext(), q.ClassUUID(), q.Period())
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonList(c, "ok", rows, fiber.Map{"class_id": q.ClassUUID(), "period": q.Period()})
}

// GET /report-cards/statistic?class_id=&subject_id=&academic_year=&semester=
func (ctl *ReportCardController) Statistic(c *fiber.Ctx) error {
	var q dto.ClassPeriodQuery
	if ok, err := ctl.bindQuery(c, &q); !ok {
		return err
	}
	stat, err := ctl.Engine.ClassStatistic(c.UserContext(), q.ClassUUID(), q.SubjectUUID(), q.Period())
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", stat)
}

// GET /report-cards/students/:student_id/summary?academic_year=&semester=
func (ctl *ReportCardController) StudentSummary(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "student_id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if !ownsStudent(c, studentID) {
		return helper.JsonError(c, http.StatusForbidden, "Ringkasan ini bukan milik Anda")
	}
	var q dto.PeriodQuery
	if ok, err := ctl.bindQuery(c, &q); !ok {
		return err
	}
	sum, err := ctl.Engine.GetStudentSummary(c.UserContext(), studentID, q.Period())
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", sum)
}

// GET /report-cards/students/:student_id/subjects/:subject_id/final?academic_year=&semester=
func (ctl *ReportCardController) SubjectFinal(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "student_id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	subjectID, err := parseUUIDParam(c, "subject_id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if !ownsStudent(c, studentID) {
		return helper.JsonError(c, http.StatusForbidden, "Nilai ini bukan milik Anda")
	}
	var q dto.PeriodQuery
	if ok, err := ctl.bindQuery(c, &q); !ok {
		return err
	}
	fg, err := ctl.Engine.CalculateFinal(c.UserContext(), studentID, subjectID, q.Period())
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", fg)
}
