package route

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/features/school/report_cards/dto"
	"schoolku_backend/internals/features/school/report_cards/model"
	"schoolku_backend/internals/features/school/report_cards/render"
	"schoolku_backend/internals/features/school/report_cards/repository/inmem"
	"schoolku_backend/internals/features/school/report_cards/service"
	helper "schoolku_backend/internals/helpers"
	authMw "schoolku_backend/internals/middlewares/auth"
)

const testSecret = "rapor-test-secret"

var testPeriod = model.Period{AcademicYear: "2025/2026", Semester: model.SemesterGanjil}

type harness struct {
	app     *fiber.App
	store   *inmem.Store
	engine  *service.Engine
	classID uuid.UUID
	subject uuid.UUID
	ani     uuid.UUID
	bayu    uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := inmem.New()
	engine := service.NewEngine(store)
	renderer, err := render.NewHTMLRenderer(render.NewEngine())
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: helper.FromFiberError,
	})
	h := NewHandlers(engine, dto.NewValidator(), renderer)
	AdminReportCardRoutes(app.Group("/api/a", authMw.AuthMiddleware(testSecret)), h)
	TeacherReportCardRoutes(app.Group("/api/t", authMw.AuthMiddleware(testSecret)), h)
	PrincipalReportCardRoutes(app.Group("/api/p", authMw.AuthMiddleware(testSecret)), h)
	UserReportCardRoutes(app.Group("/api/u", authMw.AuthMiddleware(testSecret)), h)

	hs := &harness{app: app, store: store, engine: engine, classID: uuid.New()}
	hs.subject = store.AddSubject(model.ClassSubjectModel{
		ClassSubjectClassID: hs.classID, ClassSubjectAcademicYear: testPeriod.AcademicYear,
		ClassSubjectSemester: testPeriod.Semester, ClassSubjectName: "Matematika",
	}).ClassSubjectSubjectID
	hs.ani = hs.addStudent("Ani")
	hs.bayu = hs.addStudent("Bayu")
	return hs
}

func (h *harness) addStudent(name string) uuid.UUID {
	return h.store.AddStudent(model.ClassStudentModel{
		ClassStudentClassID: h.classID, ClassStudentAcademicYear: testPeriod.AcademicYear,
		ClassStudentSemester: testPeriod.Semester, ClassStudentIsActive: true, ClassStudentName: name,
		ClassStudentClassName: "VII A",
	}).ClassStudentStudentID
}

func token(t *testing.T, role string, userID uuid.UUID) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   userID.String(),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

type apiResponse struct {
	status int
	body   map[string]any
	raw    []byte
	header http.Header
}

func (h *harness) do(t *testing.T, method, path, bearer string, body any) apiResponse {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := apiResponse{status: resp.StatusCode, raw: raw, header: resp.Header}
	_ = json.Unmarshal(raw, &out.body)
	return out
}

func (h *harness) fill(t *testing.T, teacher string, studentID uuid.UUID, value float64) {
	t.Helper()
	for _, kind := range []string{"UH", "UTS", "UAS"} {
		body := map[string]any{
			"student_id": studentID, "subject_id": h.subject, "class_id": h.classID,
			"academic_year": testPeriod.AcademicYear, "semester": "ganjil",
			"kind": kind, "value": value,
		}
		if kind == "UH" {
			body["number"] = 1
		}
		res := h.do(t, http.MethodPost, "/api/t/scores", teacher, body)
		require.Equal(t, http.StatusCreated, res.status, string(res.raw))
	}
	res := h.do(t, http.MethodPut, "/api/t/attitudes", teacher, map[string]any{
		"student_id": studentID, "class_id": h.classID,
		"academic_year": testPeriod.AcademicYear, "semester": "ganjil",
		"spiritual": "A", "social": "B",
	})
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
}

func (h *harness) classBody() map[string]any {
	return map[string]any{"class_id": h.classID, "academic_year": testPeriod.AcademicYear, "semester": "ganjil"}
}

func errorCode(res apiResponse) string {
	code, _ := res.body["error_code"].(string)
	return code
}

func TestRoutes_RequireToken(t *testing.T) {
	h := newHarness(t)

	res := h.do(t, http.MethodGet, "/api/u/report-cards/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)

	res = h.do(t, http.MethodGet, "/api/u/report-cards/"+uuid.NewString(), "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)
}

func TestRoutes_CapabilityDenied(t *testing.T) {
	h := newHarness(t)
	teacher := token(t, "teacher", uuid.New())
	student := token(t, "student", h.ani)

	res := h.do(t, http.MethodPost, "/api/p/report-cards/"+uuid.NewString()+"/approve", teacher, nil)
	assert.Equal(t, http.StatusForbidden, res.status)

	res = h.do(t, http.MethodPost, "/api/t/scores", student, map[string]any{})
	assert.Equal(t, http.StatusForbidden, res.status)

	res = h.do(t, http.MethodGet, "/api/u/report-cards/ranking?class_id="+h.classID.String()+"&academic_year=2025/2026&semester=ganjil", student, nil)
	assert.Equal(t, http.StatusForbidden, res.status)
}

func TestRoutes_FullWorkflow(t *testing.T) {
	h := newHarness(t)
	admin := token(t, "admin", uuid.New())
	teacher := token(t, "teacher", uuid.New())
	principalID := uuid.New()
	principal := token(t, "principal", principalID)

	// belum lengkap → generate gagal per siswa
	batch := map[string]any{"class_ids": []uuid.UUID{h.classID}, "academic_year": testPeriod.AcademicYear, "semester": "ganjil"}
	res := h.do(t, http.MethodPost, "/api/a/report-cards/validate", admin, batch)
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	data := res.body["data"].(map[string]any)
	assert.Equal(t, false, data["is_complete"])
	assert.EqualValues(t, 2*(3+1), data["missing_count"])

	h.fill(t, teacher, h.ani, 90)
	h.fill(t, teacher, h.bayu, 80)

	res = h.do(t, http.MethodPost, "/api/a/report-cards/generate", admin, batch)
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	assert.EqualValues(t, 2, res.body["data"].(map[string]any)["generated"])

	cards, err := h.engine.ListReportCards(context.Background(), h.classID, testPeriod, nil)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	aniCard := cards[0].ReportCardID
	require.Equal(t, h.ani, cards[0].ReportCardStudentID)

	// nilai terkunci
	rows, err := h.store.ListScores(context.Background(), h.ani, h.subject, testPeriod)
	require.NoError(t, err)
	res = h.do(t, http.MethodPatch, "/api/t/scores/"+rows[0].AssessmentScoreID.String(), teacher, map[string]any{"value": 10})
	assert.Equal(t, http.StatusConflict, res.status)
	assert.Equal(t, service.ReasonScoreLocked, errorCode(res))

	// approve sebelum submit → conflict
	res = h.do(t, http.MethodPost, "/api/p/report-cards/"+aniCard.String()+"/approve", principal, nil)
	assert.Equal(t, http.StatusConflict, res.status)
	assert.Equal(t, service.ReasonInvalidTransition, errorCode(res))

	res = h.do(t, http.MethodPost, "/api/t/report-cards/"+aniCard.String()+"/submit", teacher, nil)
	require.Equal(t, http.StatusOK, res.status, string(res.raw))

	res = h.do(t, http.MethodPost, "/api/p/report-cards/"+aniCard.String()+"/reject", principal, map[string]any{"notes": "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, service.ReasonRejectionNotesRequired, errorCode(res))

	res = h.do(t, http.MethodPost, "/api/a/report-cards/submit-all", admin, h.classBody())
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	assert.EqualValues(t, 1, res.body["data"].(map[string]any)["succeeded"])

	res = h.do(t, http.MethodPost, "/api/p/report-cards/bulk-approve", principal, h.classBody())
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	assert.EqualValues(t, 2, res.body["data"].(map[string]any)["succeeded"])

	released, err := h.engine.GetReportCard(context.Background(), aniCard)
	require.NoError(t, err)
	assert.Equal(t, model.ReportCardStatusReleased, released.ReportCardStatus)
	require.NotNil(t, released.ReportCardApprovedBy)
	assert.Equal(t, principalID, *released.ReportCardApprovedBy)

	res = h.do(t, http.MethodPost, "/api/p/report-cards/bulk-approve", principal, h.classBody())
	assert.Equal(t, http.StatusConflict, res.status)
	assert.Equal(t, service.ReasonNothingToApprove, errorCode(res))

	// siswa: hanya rapor sendiri
	aniToken := token(t, "student", h.ani)
	res = h.do(t, http.MethodGet, "/api/u/report-cards/"+aniCard.String(), aniToken, nil)
	assert.Equal(t, http.StatusOK, res.status)

	bayuToken := token(t, "student", h.bayu)
	res = h.do(t, http.MethodGet, "/api/u/report-cards/"+aniCard.String(), bayuToken, nil)
	assert.Equal(t, http.StatusForbidden, res.status)

	res = h.do(t, http.MethodGet, "/api/u/report-cards/"+aniCard.String()+"/print", aniToken, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.header.Get(fiber.HeaderContentType), "text/html")
	assert.Contains(t, string(res.raw), "Ani")

	res = h.do(t, http.MethodPatch, "/api/a/report-cards/"+aniCard.String()+"/document", admin, map[string]any{"pdf_url": "https://cdn.example.com/rapor/ani.pdf"})
	require.Equal(t, http.StatusOK, res.status, string(res.raw))

	res = h.do(t, http.MethodPost, "/api/a/report-cards/"+aniCard.String()+"/unlock", admin, nil)
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	assert.Equal(t, "DRAFT", res.body["data"].(map[string]any)["report_card_status"])

	res = h.do(t, http.MethodPatch, "/api/t/scores/"+rows[0].AssessmentScoreID.String(), teacher, map[string]any{"value": 95})
	assert.Equal(t, http.StatusOK, res.status, string(res.raw))
}

func TestRoutes_ReadEndpoints(t *testing.T) {
	h := newHarness(t)
	teacher := token(t, "teacher", uuid.New())
	h.fill(t, teacher, h.ani, 90)
	h.fill(t, teacher, h.bayu, 90)

	q := "?class_id=" + h.classID.String() + "&academic_year=2025/2026&semester=ganjil"

	res := h.do(t, http.MethodGet, "/api/u/report-cards/ranking"+q, teacher, nil)
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	ranking := res.body["data"].([]any)
	require.Len(t, ranking, 2)
	assert.EqualValues(t, 1, ranking[0].(map[string]any)["rank"])
	assert.EqualValues(t, 1, ranking[1].(map[string]any)["rank"])

	res = h.do(t, http.MethodGet, "/api/u/report-cards/statistic"+q+"&subject_id="+h.subject.String(), teacher, nil)
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	assert.EqualValues(t, 76.5, res.body["data"].(map[string]any)["average"])

	res = h.do(t, http.MethodGet, "/api/u/report-cards/ranking?academic_year=2025/2026&semester=ganjil", teacher, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)

	student := token(t, "student", h.ani)
	res = h.do(t, http.MethodGet, "/api/u/report-cards/students/"+h.ani.String()+"/summary?academic_year=2025/2026&semester=ganjil", student, nil)
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	assert.EqualValues(t, 76.5, res.body["data"].(map[string]any)["overall_average"])

	res = h.do(t, http.MethodGet, "/api/u/report-cards/students/"+h.bayu.String()+"/summary?academic_year=2025/2026&semester=ganjil", student, nil)
	assert.Equal(t, http.StatusForbidden, res.status)

	res = h.do(t, http.MethodGet, "/api/u/report-cards/students/"+h.ani.String()+"/subjects/"+h.subject.String()+"/final?academic_year=2025/2026&semester=ganjil", teacher, nil)
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	assert.EqualValues(t, 76.5, res.body["data"].(map[string]any)["final_grade"])

	res = h.do(t, http.MethodGet, "/api/u/report-cards/not-a-uuid", teacher, nil)
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = h.do(t, http.MethodGet, "/api/u/report-cards/"+uuid.NewString(), teacher, nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, service.ReasonReportCardNotFound, errorCode(res))
}

func TestRoutes_WeightConfigs(t *testing.T) {
	h := newHarness(t)
	admin := token(t, "admin", uuid.New())

	res := h.do(t, http.MethodPut, "/api/a/weight-configs", admin, map[string]any{
		"academic_year": "2025/2026", "semester": "ganjil", "uh": 30, "uts": 30, "uas": 30, "praktik": 20,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Equal(t, service.ReasonWeightsNot100, errorCode(res))

	res = h.do(t, http.MethodPut, "/api/a/weight-configs", admin, map[string]any{
		"academic_year": "2025/2026", "semester": "ganjil", "uh": 40, "uts": 30, "uas": 30, "praktik": 0,
	})
	require.Equal(t, http.StatusOK, res.status, string(res.raw))

	res = h.do(t, http.MethodGet, "/api/a/weight-configs/resolve?academic_year=2025/2026&semester=ganjil&subject_id="+h.subject.String(), admin, nil)
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	data := res.body["data"].(map[string]any)
	assert.Equal(t, "default", data["source"])
	assert.EqualValues(t, 40, data["uh"])

	res = h.do(t, http.MethodGet, "/api/a/weight-configs?academic_year=2025/2026&semester=ganjil", admin, nil)
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	assert.Len(t, res.body["data"].([]any), 1)

	teacher := token(t, "teacher", uuid.New())
	res = h.do(t, http.MethodGet, "/api/a/weight-configs?academic_year=2025/2026&semester=ganjil", teacher, nil)
	assert.Equal(t, http.StatusForbidden, res.status)
}
