// file: internals/features/school/report_cards/controller/weight_config_controller.go
package controller

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"schoolku_backend/internals/features/school/report_cards/dto"
	"schoolku_backend/internals/features/school/report_cards/service"
	helper "schoolku_backend/internals/helpers"
)

type WeightConfigController struct {
	Engine    *service.Engine
	Validator *validator.Validate
}

func NewWeightConfigController(engine *service.Engine, v *validator.Validate) *WeightConfigController {
	return &WeightConfigController{Engine: engine, Validator: v}
}

// PUT /api/a/weight-configs
func (ctl *WeightConfigController) Upsert(c *fiber.Ctx) error {
	var req dto.UpsertWeightConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Body tidak valid: "+err.Error())
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return writeValidationError(c, err)
	}
	row, err := ctl.Engine.UpsertWeightConfig(c.UserContext(), req.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "Bobot tersimpan", dto.FromWeightConfigModel(row))
}

// GET /api/a/weight-configs?academic_year=&semester=
func (ctl *WeightConfigController) List(c *fiber.Ctx) error {
	var q dto.PeriodQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Query tidak valid: "+err.Error())
	}
	if err := ctl.Validator.Struct(&q); err != nil {
		return writeValidationError(c, err)
	}
	rows, err := ctl.Engine.ListWeightConfigs(c.UserContext(), q.Period())
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromWeightConfigModels(rows), fiber.Map{"period": q.Period()})
}

// GET /api/a/weight-configs/resolve?subject_id=&academic_year=&semester=
func (ctl *WeightConfigController) Resolve(c *fiber.Ctx) error {
	var q dto.PeriodQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Query tidak valid: "+err.Error())
	}
	if err := ctl.Validator.Struct(&q); err != nil {
		return writeValidationError(c, err)
	}
	subjectID := uuid.Nil
	if raw := strings.TrimSpace(c.Query("subject_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, http.StatusBadRequest, "subject_id tidak valid")
		}
		subjectID = id
	}
	w, err := ctl.Engine.ResolveWeights(c.UserContext(), q.Period(), subjectID)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", w)
}
