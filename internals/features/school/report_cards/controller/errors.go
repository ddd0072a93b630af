// file: internals/features/school/report_cards/controller/errors.go
package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"schoolku_backend/internals/features/school/report_cards/dto"
	"schoolku_backend/internals/features/school/report_cards/service"
	helper "schoolku_backend/internals/helpers"
)

// --- PG error mapping (pgx/libpq) ---
func mapPGError(err error) (int, string) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		switch pgxErr.Code {
		case "23503":
			return http.StatusBadRequest, "Referensi tidak ditemukan (FK violation)."
		case "23505":
			return http.StatusConflict, "Data duplikat (unique violation)."
		case "23514":
			return http.StatusUnprocessableEntity, "Data melanggar aturan (check constraint)."
		default:
			return http.StatusInternalServerError, pgxErr.Message
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case "23503":
			return http.StatusBadRequest, "Referensi tidak ditemukan (FK violation)."
		case "23505":
			return http.StatusConflict, "Data duplikat (unique violation)."
		case "23514":
			return http.StatusUnprocessableEntity, "Data melanggar aturan (check constraint)."
		default:
			return http.StatusInternalServerError, pqErr.Message
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

// writeError: error engine → envelope JsonError (reason sebagai error_code)
func writeError(c *fiber.Ctx, err error) error {
	if e, ok := service.AsError(err); ok {
		status := http.StatusInternalServerError
		switch e.Kind {
		case service.KindValidation:
			status = http.StatusUnprocessableEntity
		case service.KindNotFound:
			status = http.StatusNotFound
		case service.KindConflict:
			status = http.StatusConflict
		}
		return helper.JsonErrorCode(c, status, e.Reason, e.Message)
	}

	log.Printf("[ReportCardController] %s %s: %v", c.Method(), c.OriginalURL(), err)
	code, msg := mapPGError(err)
	return helper.JsonError(c, code, msg)
}

func writeValidationError(c *fiber.Ctx, err error) error {
	if dto.IsWeightSumError(err) {
		return helper.JsonErrorCode(c, http.StatusUnprocessableEntity, service.ReasonWeightsNot100, "total bobot UH+UTS+UAS+PRAKTIK harus tepat 100")
	}
	return helper.JsonValidationError(c, dto.FieldErrors(err))
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s tidak valid", name)
	}
	return id, nil
}
