// file: internals/features/school/report_cards/repository/gormrepo/repository.go
package gormrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolku_backend/internals/features/school/report_cards/model"
	"schoolku_backend/internals/features/school/report_cards/service"
)

// Repository: service.Repository di atas gorm + postgres
type Repository struct {
	DB   *gorm.DB
	inTx bool
}

var _ service.Repository = (*Repository)(nil)

func New(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) db(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx)
}

// forUpdate: FOR UPDATE hanya bermakna di dalam transaksi
func (r *Repository) forUpdate(ctx context.Context) *gorm.DB {
	q := r.db(ctx)
	if r.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func (r *Repository) Transaction(ctx context.Context, fn func(tx service.Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	return r.db(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{DB: tx, inTx: true})
	})
}

// --- PG error mapping (pgx/libpq) → sentinel service ---
func isUniqueViolation(err error) bool {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func mapErr(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return service.ErrRecordNotFound
	case isUniqueViolation(err):
		return pkgerrors.Wrap(service.ErrDuplicate, op)
	default:
		return pkgerrors.Wrap(err, op)
	}
}

/* ===================== Scores ===================== */

func (r *Repository) ListScores(ctx context.Context, studentID, subjectID uuid.UUID, period model.Period) ([]model.AssessmentScoreModel, error) {
	var rows []model.AssessmentScoreModel
	err := r.db(ctx).
		Where("assessment_score_student_id = ? AND assessment_score_subject_id = ?", studentID, subjectID).
		Where("assessment_score_academic_year = ? AND assessment_score_semester = ?", period.AcademicYear, period.Semester).
		Order("assessment_score_created_at ASC, assessment_score_id ASC").
		Find(&rows).Error
	return rows, mapErr(err, "list scores")
}

func (r *Repository) ListClassScores(ctx context.Context, classID uuid.UUID, period model.Period) ([]model.AssessmentScoreModel, error) {
	var rows []model.AssessmentScoreModel
	err := r.db(ctx).
		Where("assessment_score_class_id = ?", classID).
		Where("assessment_score_academic_year = ? AND assessment_score_semester = ?", period.AcademicYear, period.Semester).
		Order("assessment_score_created_at ASC, assessment_score_id ASC").
		Find(&rows).Error
	return rows, mapErr(err, "list class scores")
}

func (r *Repository) GetScore(ctx context.Context, id uuid.UUID) (model.AssessmentScoreModel, error) {
	var m model.AssessmentScoreModel
	err := r.forUpdate(ctx).
		Where("assessment_score_id = ?", id).
		First(&m).Error
	return m, mapErr(err, "get score")
}

func (r *Repository) CreateScore(ctx context.Context, m *model.AssessmentScoreModel) error {
	return mapErr(r.db(ctx).Create(m).Error, "create score")
}

func (r *Repository) UpdateScore(ctx context.Context, m *model.AssessmentScoreModel) error {
	return mapErr(r.db(ctx).Save(m).Error, "update score")
}

func (r *Repository) DeleteScore(ctx context.Context, id uuid.UUID) error {
	res := r.db(ctx).Where("assessment_score_id = ?", id).Delete(&model.AssessmentScoreModel{})
	if res.Error != nil {
		return mapErr(res.Error, "delete score")
	}
	if res.RowsAffected == 0 {
		return service.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) SetScoresLocked(ctx context.Context, ids []uuid.UUID, locked bool) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db(ctx).
		Model(&model.AssessmentScoreModel{}).
		Where("assessment_score_id IN ?", ids).
		Update("assessment_score_locked", locked).Error
	return mapErr(err, "set scores locked")
}

/* ===================== Attitudes ===================== */

func (r *Repository) GetAttitude(ctx context.Context, studentID, classID uuid.UUID, period model.Period) (model.AttitudeGradeModel, error) {
	var m model.AttitudeGradeModel
	err := r.db(ctx).
		Where("attitude_grade_student_id = ? AND attitude_grade_class_id = ?", studentID, classID).
		Where("attitude_grade_academic_year = ? AND attitude_grade_semester = ?", period.AcademicYear, period.Semester).
		First(&m).Error
	return m, mapErr(err, "get attitude")
}

func (r *Repository) ListClassAttitudes(ctx context.Context, classID uuid.UUID, period model.Period) ([]model.AttitudeGradeModel, error) {
	var rows []model.AttitudeGradeModel
	err := r.db(ctx).
		Where("attitude_grade_class_id = ?", classID).
		Where("attitude_grade_academic_year = ? AND attitude_grade_semester = ?", period.AcademicYear, period.Semester).
		Find(&rows).Error
	return rows, mapErr(err, "list class attitudes")
}

func (r *Repository) UpsertAttitude(ctx context.Context, m *model.AttitudeGradeModel) error {
	err := r.db(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "attitude_grade_student_id"},
			{Name: "attitude_grade_class_id"},
			{Name: "attitude_grade_academic_year"},
			{Name: "attitude_grade_semester"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"attitude_grade_spiritual",
			"attitude_grade_social",
			"attitude_grade_spiritual_description",
			"attitude_grade_social_description",
			"attitude_grade_homeroom_notes",
			"attitude_grade_homeroom_teacher_id",
			"attitude_grade_updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return mapErr(err, "upsert attitude")
	}
	// baca ulang: id & created_at milik baris lama bila konflik
	out, err := r.GetAttitude(ctx, m.AttitudeGradeStudentID, m.AttitudeGradeClassID, model.Period{
		AcademicYear: m.AttitudeGradeAcademicYear,
		Semester:     m.AttitudeGradeSemester,
	})
	if err != nil {
		return err
	}
	*m = out
	return nil
}

/* ===================== Weight configs ===================== */

func (r *Repository) FindSubjectWeightConfig(ctx context.Context, period model.Period, subjectID uuid.UUID) (model.WeightConfigModel, error) {
	var m model.WeightConfigModel
	err := r.db(ctx).
		Where("weight_config_academic_year = ? AND weight_config_semester = ?", period.AcademicYear, period.Semester).
		Where("weight_config_subject_id = ?", subjectID).
		First(&m).Error
	return m, mapErr(err, "find subject weight config")
}

func (r *Repository) FindDefaultWeightConfig(ctx context.Context, period model.Period) (model.WeightConfigModel, error) {
	var m model.WeightConfigModel
	err := r.db(ctx).
		Where("weight_config_academic_year = ? AND weight_config_semester = ?", period.AcademicYear, period.Semester).
		Where("weight_config_is_default = TRUE").
		First(&m).Error
	return m, mapErr(err, "find default weight config")
}

func (r *Repository) ListWeightConfigs(ctx context.Context, period model.Period) ([]model.WeightConfigModel, error) {
	var rows []model.WeightConfigModel
	err := r.db(ctx).
		Where("weight_config_academic_year = ? AND weight_config_semester = ?", period.AcademicYear, period.Semester).
		Order("weight_config_is_default DESC, weight_config_id ASC").
		Find(&rows).Error
	return rows, mapErr(err, "list weight configs")
}

func (r *Repository) UpsertWeightConfig(ctx context.Context, m *model.WeightConfigModel) error {
	conflict := clause.OnConflict{
		DoUpdates: clause.AssignmentColumns([]string{
			"weight_config_uh",
			"weight_config_uts",
			"weight_config_uas",
			"weight_config_praktik",
			"weight_config_updated_at",
		}),
	}
	if m.WeightConfigIsDefault {
		// partial unique index (WHERE weight_config_is_default)
		conflict.Columns = []clause.Column{{Name: "weight_config_academic_year"}, {Name: "weight_config_semester"}}
		conflict.TargetWhere = clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "weight_config_is_default"}}}
	} else {
		conflict.Columns = []clause.Column{
			{Name: "weight_config_academic_year"},
			{Name: "weight_config_semester"},
			{Name: "weight_config_subject_id"},
		}
	}
	if err := r.db(ctx).Clauses(conflict).Create(m).Error; err != nil {
		return mapErr(err, "upsert weight config")
	}

	var (
		out model.WeightConfigModel
		err error
	)
	period := m.Period()
	if m.WeightConfigIsDefault {
		out, err = r.FindDefaultWeightConfig(ctx, period)
	} else {
		out, err = r.FindSubjectWeightConfig(ctx, period, *m.WeightConfigSubjectID)
	}
	if err != nil {
		return err
	}
	*m = out
	return nil
}

/* ===================== Roster (read only) ===================== */

func (r *Repository) ListActiveStudents(ctx context.Context, classID uuid.UUID, period model.Period) ([]model.ClassStudentModel, error) {
	var rows []model.ClassStudentModel
	err := r.db(ctx).
		Where("class_student_class_id = ? AND class_student_is_active = TRUE", classID).
		Where("class_student_academic_year = ? AND class_student_semester = ?", period.AcademicYear, period.Semester).
		Order("class_student_name ASC, class_student_student_id ASC").
		Find(&rows).Error
	return rows, mapErr(err, "list active students")
}

func (r *Repository) ListClassSubjects(ctx context.Context, classID uuid.UUID, period model.Period) ([]model.ClassSubjectModel, error) {
	var rows []model.ClassSubjectModel
	err := r.db(ctx).
		Where("class_subject_class_id = ?", classID).
		Where("class_subject_academic_year = ? AND class_subject_semester = ?", period.AcademicYear, period.Semester).
		Order("class_subject_order ASC, class_subject_name ASC").
		Find(&rows).Error
	return rows, mapErr(err, "list class subjects")
}

func (r *Repository) FindStudentClass(ctx context.Context, studentID uuid.UUID, period model.Period) (model.ClassStudentModel, error) {
	var m model.ClassStudentModel
	err := r.db(ctx).
		Where("class_student_student_id = ? AND class_student_is_active = TRUE", studentID).
		Where("class_student_academic_year = ? AND class_student_semester = ?", period.AcademicYear, period.Semester).
		First(&m).Error
	return m, mapErr(err, "find student class")
}

func (r *Repository) GetAttendanceSummary(ctx context.Context, studentID, classID uuid.UUID, period model.Period) (model.AttendanceSummaryModel, error) {
	var m model.AttendanceSummaryModel
	err := r.db(ctx).
		Where("attendance_summary_student_id = ? AND attendance_summary_class_id = ?", studentID, classID).
		Where("attendance_summary_academic_year = ? AND attendance_summary_semester = ?", period.AcademicYear, period.Semester).
		First(&m).Error
	return m, mapErr(err, "get attendance summary")
}

/* ===================== Report cards ===================== */

func (r *Repository) GetReportCard(ctx context.Context, id uuid.UUID) (model.ReportCardModel, error) {
	var m model.ReportCardModel
	err := r.forUpdate(ctx).
		Where("report_card_id = ?", id).
		First(&m).Error
	return m, mapErr(err, "get report card")
}

func (r *Repository) FindReportCard(ctx context.Context, studentID, classID uuid.UUID, period model.Period) (model.ReportCardModel, error) {
	var m model.ReportCardModel
	err := r.forUpdate(ctx).
		Where("report_card_student_id = ? AND report_card_class_id = ?", studentID, classID).
		Where("report_card_academic_year = ? AND report_card_semester = ?", period.AcademicYear, period.Semester).
		First(&m).Error
	return m, mapErr(err, "find report card")
}

func (r *Repository) ListReportCards(ctx context.Context, classID uuid.UUID, period model.Period, status *model.ReportCardStatus) ([]model.ReportCardModel, error) {
	q := r.db(ctx).
		Where("report_card_class_id = ?", classID).
		Where("report_card_academic_year = ? AND report_card_semester = ?", period.AcademicYear, period.Semester)
	if status != nil {
		q = q.Where("report_card_status = ?", *status)
	}
	var rows []model.ReportCardModel
	err := q.Order("report_card_class_rank ASC, report_card_id ASC").Find(&rows).Error
	return rows, mapErr(err, "list report cards")
}

func (r *Repository) SaveReportCard(ctx context.Context, m *model.ReportCardModel) error {
	if m.ReportCardID == uuid.Nil {
		return mapErr(r.db(ctx).Create(m).Error, "create report card")
	}
	return mapErr(r.db(ctx).Save(m).Error, "update report card")
}
