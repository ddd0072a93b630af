// file: internals/features/school/report_cards/controller/grade_entry_controller.go
package controller

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/features/school/report_cards/dto"
	"schoolku_backend/internals/features/school/report_cards/service"
	helper "schoolku_backend/internals/helpers"
	authMw "schoolku_backend/internals/middlewares/auth"
)

/*
Input nilai oleh guru & nilai sikap oleh wali kelas.
Nilai yang sudah dikunci rapor ditolak engine (409 SCORE_LOCKED).
*/
type GradeEntryController struct {
	Engine    *service.Engine
	Validator *validator.Validate
}

func NewGradeEntryController(engine *service.Engine, v *validator.Validate) *GradeEntryController {
	return &GradeEntryController{Engine: engine, Validator: v}
}

// POST /api/t/scores
func (ctl *GradeEntryController) CreateScore(c *fiber.Ctx) error {
	var req dto.CreateScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Body tidak valid: "+err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return writeValidationError(c, err)
	}
	row, err := ctl.Engine.RecordScore(c.UserContext(), req.ToInput(authMw.UserIDFromLocals(c)))
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonCreated(c, "Nilai tersimpan", dto.FromScoreModel(row))
}

// PATCH /api/t/scores/:id
func (ctl *GradeEntryController) PatchScore(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	var req dto.PatchScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Body tidak valid: "+err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return writeValidationError(c, err)
	}
	row, err := ctl.Engine.UpdateScore(c.UserContext(), id, req.ToPatch())
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "Nilai diperbarui", dto.FromScoreModel(row))
}

// DELETE /api/t/scores/:id
func (ctl *GradeEntryController) DeleteScore(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := ctl.Engine.DeleteScore(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return helper.JsonDeleted(c, "Nilai dihapus", fiber.Map{"assessment_score_id": id})
}

// PUT /api/t/attitudes
func (ctl *GradeEntryController) UpsertAttitude(c *fiber.Ctx) error {
	var req dto.UpsertAttitudeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Body tidak valid: "+err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return writeValidationError(c, err)
	}
	row, err := ctl.Engine.UpsertAttitude(c.UserContext(), req.ToInput(authMw.UserIDFromLocals(c)))
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "Nilai sikap tersimpan", row)
}
