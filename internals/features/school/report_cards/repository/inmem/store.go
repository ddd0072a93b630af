// file: internals/features/school/report_cards/repository/inmem/store.go
package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/report_cards/model"
	"schoolku_backend/internals/features/school/report_cards/service"
)

/*
Store: implementasi service.Repository di memori.
Dipakai untuk test dan demo lokal. Transaction = snapshot + restore saat error.
*/
type Store struct {
	mu   *sync.Mutex
	data *state
	inTx bool

	// op → error paksa (untuk uji rollback)
	failures map[string]error
	now      func() time.Time
}

type state struct {
	scores     map[uuid.UUID]model.AssessmentScoreModel
	attitudes  map[uuid.UUID]model.AttitudeGradeModel
	weights    map[uuid.UUID]model.WeightConfigModel
	cards      map[uuid.UUID]model.ReportCardModel
	students   []model.ClassStudentModel
	subjects   []model.ClassSubjectModel
	attendance []model.AttendanceSummaryModel
}

var _ service.Repository = (*Store)(nil)

func New() *Store {
	return &Store{
		mu: &sync.Mutex{},
		data: &state{
			scores:    map[uuid.UUID]model.AssessmentScoreModel{},
			attitudes: map[uuid.UUID]model.AttitudeGradeModel{},
			weights:   map[uuid.UUID]model.WeightConfigModel{},
			cards:     map[uuid.UUID]model.ReportCardModel{},
		},
		failures: map[string]error{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *state) clone() *state {
	out := &state{
		scores:     make(map[uuid.UUID]model.AssessmentScoreModel, len(s.scores)),
		attitudes:  make(map[uuid.UUID]model.AttitudeGradeModel, len(s.attitudes)),
		weights:    make(map[uuid.UUID]model.WeightConfigModel, len(s.weights)),
		cards:      make(map[uuid.UUID]model.ReportCardModel, len(s.cards)),
		students:   append([]model.ClassStudentModel(nil), s.students...),
		subjects:   append([]model.ClassSubjectModel(nil), s.subjects...),
		attendance: append([]model.AttendanceSummaryModel(nil), s.attendance...),
	}
	for k, v := range s.scores {
		out.scores[k] = v
	}
	for k, v := range s.attitudes {
		out.attitudes[k] = v
	}
	for k, v := range s.weights {
		out.weights[k] = v
	}
	for k, v := range s.cards {
		out.cards[k] = copyCard(v)
	}
	return out
}

func copyCard(c model.ReportCardModel) model.ReportCardModel {
	c.ReportCardLockedScoreIDs = append(pq.StringArray(nil), c.ReportCardLockedScoreIDs...)
	c.ReportCardSubjectsSnapshot = append([]byte(nil), c.ReportCardSubjectsSnapshot...)
	return c
}

// lock: no-op di dalam transaksi (mutex sudah dipegang Transaction)
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// FailOn: paksa operasi tulis `op` (nama method) mengembalikan err
func (s *Store) FailOn(op string, err error) {
	defer s.lock()()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) fail(op string) error { return s.failures[op] }

func (s *Store) Transaction(ctx context.Context, fn func(tx service.Repository) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.data.clone()
	tx := &Store{mu: s.mu, data: s.data, inTx: true, failures: s.failures, now: s.now}
	if err := fn(tx); err != nil {
		*s.data = *backup
		return err
	}
	return nil
}

func samePeriod(year string, sem model.Semester, p model.Period) bool {
	return year == p.AcademicYear && sem == p.Semester
}

/* ===================== Seed (test) ===================== */

// AddStudent: daftarkan siswa aktif di kelas; StudentID kosong → dibuat
func (s *Store) AddStudent(m model.ClassStudentModel) model.ClassStudentModel {
	defer s.lock()()
	if m.ClassStudentID == uuid.Nil {
		m.ClassStudentID = uuid.New()
	}
	if m.ClassStudentStudentID == uuid.Nil {
		m.ClassStudentStudentID = uuid.New()
	}
	s.data.students = append(s.data.students, m)
	return m
}

func (s *Store) AddSubject(m model.ClassSubjectModel) model.ClassSubjectModel {
	defer s.lock()()
	if m.ClassSubjectID == uuid.Nil {
		m.ClassSubjectID = uuid.New()
	}
	if m.ClassSubjectSubjectID == uuid.Nil {
		m.ClassSubjectSubjectID = uuid.New()
	}
	s.data.subjects = append(s.data.subjects, m)
	return m
}

func (s *Store) AddAttendance(m model.AttendanceSummaryModel) {
	defer s.lock()()
	if m.AttendanceSummaryID == uuid.Nil {
		m.AttendanceSummaryID = uuid.New()
	}
	s.data.attendance = append(s.data.attendance, m)
}

/* ===================== Scores ===================== */

func (s *Store) ListScores(ctx context.Context, studentID, subjectID uuid.UUID, period model.Period) ([]model.AssessmentScoreModel, error) {
	defer s.lock()()
	out := make([]model.AssessmentScoreModel, 0)
	for _, r := range s.data.scores {
		if r.AssessmentScoreDeletedAt.Valid || r.AssessmentScoreStudentID != studentID || r.AssessmentScoreSubjectID != subjectID {
			continue
		}
		if samePeriod(r.AssessmentScoreAcademicYear, r.AssessmentScoreSemester, period) {
			out = append(out, r)
		}
	}
	sortScores(out)
	return out, nil
}

func (s *Store) ListClassScores(ctx context.Context, classID uuid.UUID, period model.Period) ([]model.AssessmentScoreModel, error) {
	defer s.lock()()
	out := make([]model.AssessmentScoreModel, 0)
	for _, r := range s.data.scores {
		if r.AssessmentScoreDeletedAt.Valid || r.AssessmentScoreClassID != classID {
			continue
		}
		if samePeriod(r.AssessmentScoreAcademicYear, r.AssessmentScoreSemester, period) {
			out = append(out, r)
		}
	}
	sortScores(out)
	return out, nil
}

func sortScores(rows []model.AssessmentScoreModel) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].AssessmentScoreCreatedAt.Equal(rows[j].AssessmentScoreCreatedAt) {
			return rows[i].AssessmentScoreCreatedAt.Before(rows[j].AssessmentScoreCreatedAt)
		}
		return rows[i].AssessmentScoreID.String() < rows[j].AssessmentScoreID.String()
	})
}

func (s *Store) GetScore(ctx context.Context, id uuid.UUID) (model.AssessmentScoreModel, error) {
	defer s.lock()()
	r, ok := s.data.scores[id]
	if !ok || r.AssessmentScoreDeletedAt.Valid {
		return model.AssessmentScoreModel{}, service.ErrRecordNotFound
	}
	return r, nil
}

func (s *Store) CreateScore(ctx context.Context, m *model.AssessmentScoreModel) error {
	defer s.lock()()
	if err := s.fail("CreateScore"); err != nil {
		return err
	}
	if m.AssessmentScoreID == uuid.Nil {
		m.AssessmentScoreID = uuid.New()
	}
	now := s.now()
	m.AssessmentScoreCreatedAt = now
	m.AssessmentScoreUpdatedAt = now
	s.data.scores[m.AssessmentScoreID] = *m
	return nil
}

func (s *Store) UpdateScore(ctx context.Context, m *model.AssessmentScoreModel) error {
	defer s.lock()()
	if err := s.fail("UpdateScore"); err != nil {
		return err
	}
	if _, ok := s.data.scores[m.AssessmentScoreID]; !ok {
		return service.ErrRecordNotFound
	}
	m.AssessmentScoreUpdatedAt = s.now()
	s.data.scores[m.AssessmentScoreID] = *m
	return nil
}

func (s *Store) DeleteScore(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()
	if err := s.fail("DeleteScore"); err != nil {
		return err
	}
	r, ok := s.data.scores[id]
	if !ok || r.AssessmentScoreDeletedAt.Valid {
		return service.ErrRecordNotFound
	}
	r.AssessmentScoreDeletedAt = gorm.DeletedAt{Time: s.now(), Valid: true}
	s.data.scores[id] = r
	return nil
}

func (s *Store) SetScoresLocked(ctx context.Context, ids []uuid.UUID, locked bool) error {
	defer s.lock()()
	if err := s.fail("SetScoresLocked"); err != nil {
		return err
	}
	for _, id := range ids {
		r, ok := s.data.scores[id]
		if !ok {
			continue
		}
		r.AssessmentScoreLocked = locked
		s.data.scores[id] = r
	}
	return nil
}

/* ===================== Attitudes ===================== */

func (s *Store) GetAttitude(ctx context.Context, studentID, classID uuid.UUID, period model.Period) (model.AttitudeGradeModel, error) {
	defer s.lock()()
	for _, a := range s.data.attitudes {
		if a.AttitudeGradeStudentID == studentID && a.AttitudeGradeClassID == classID &&
			samePeriod(a.AttitudeGradeAcademicYear, a.AttitudeGradeSemester, period) {
			return a, nil
		}
	}
	return model.AttitudeGradeModel{}, service.ErrRecordNotFound
}

func (s *Store) ListClassAttitudes(ctx context.Context, classID uuid.UUID, period model.Period) ([]model.AttitudeGradeModel, error) {
	defer s.lock()()
	out := make([]model.AttitudeGradeModel, 0)
	for _, a := range s.data.attitudes {
		if a.AttitudeGradeClassID == classID && samePeriod(a.AttitudeGradeAcademicYear, a.AttitudeGradeSemester, period) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) UpsertAttitude(ctx context.Context, m *model.AttitudeGradeModel) error {
	defer s.lock()()
	if err := s.fail("UpsertAttitude"); err != nil {
		return err
	}
	now := s.now()
	for id, a := range s.data.attitudes {
		if a.AttitudeGradeStudentID == m.AttitudeGradeStudentID && a.AttitudeGradeClassID == m.AttitudeGradeClassID &&
			a.AttitudeGradeAcademicYear == m.AttitudeGradeAcademicYear && a.AttitudeGradeSemester == m.AttitudeGradeSemester {
			m.AttitudeGradeID = id
			m.AttitudeGradeCreatedAt = a.AttitudeGradeCreatedAt
			m.AttitudeGradeUpdatedAt = now
			s.data.attitudes[id] = *m
			return nil
		}
	}
	m.AttitudeGradeID = uuid.New()
	m.AttitudeGradeCreatedAt = now
	m.AttitudeGradeUpdatedAt = now
	s.data.attitudes[m.AttitudeGradeID] = *m
	return nil
}

/* ===================== Weight configs ===================== */

func (s *Store) FindSubjectWeightConfig(ctx context.Context, period model.Period, subjectID uuid.UUID) (model.WeightConfigModel, error) {
	defer s.lock()()
	for _, w := range s.data.weights {
		if w.WeightConfigSubjectID != nil && *w.WeightConfigSubjectID == subjectID &&
			samePeriod(w.WeightConfigAcademicYear, w.WeightConfigSemester, period) {
			return w, nil
		}
	}
	return model.WeightConfigModel{}, service.ErrRecordNotFound
}

func (s *Store) FindDefaultWeightConfig(ctx context.Context, period model.Period) (model.WeightConfigModel, error) {
	defer s.lock()()
	for _, w := range s.data.weights {
		if w.WeightConfigIsDefault && samePeriod(w.WeightConfigAcademicYear, w.WeightConfigSemester, period) {
			return w, nil
		}
	}
	return model.WeightConfigModel{}, service.ErrRecordNotFound
}

func (s *Store) ListWeightConfigs(ctx context.Context, period model.Period) ([]model.WeightConfigModel, error) {
	defer s.lock()()
	out := make([]model.WeightConfigModel, 0)
	for _, w := range s.data.weights {
		if samePeriod(w.WeightConfigAcademicYear, w.WeightConfigSemester, period) {
			out = append(out, w)
		}
	}
	// default dulu, lalu override
	sort.Slice(out, func(i, j int) bool {
		if out[i].WeightConfigIsDefault != out[j].WeightConfigIsDefault {
			return out[i].WeightConfigIsDefault
		}
		return out[i].WeightConfigID.String() < out[j].WeightConfigID.String()
	})
	return out, nil
}

func (s *Store) UpsertWeightConfig(ctx context.Context, m *model.WeightConfigModel) error {
	defer s.lock()()
	if err := s.fail("UpsertWeightConfig"); err != nil {
		return err
	}
	now := s.now()
	for id, w := range s.data.weights {
		if !samePeriod(w.WeightConfigAcademicYear, w.WeightConfigSemester, m.Period()) {
			continue
		}
		sameSlot := (m.WeightConfigIsDefault && w.WeightConfigIsDefault) ||
			(m.WeightConfigSubjectID != nil && w.WeightConfigSubjectID != nil && *m.WeightConfigSubjectID == *w.WeightConfigSubjectID)
		if sameSlot {
			m.WeightConfigID = id
			m.WeightConfigCreatedAt = w.WeightConfigCreatedAt
			m.WeightConfigUpdatedAt = now
			s.data.weights[id] = *m
			return nil
		}
	}
	m.WeightConfigID = uuid.New()
	m.WeightConfigCreatedAt = now
	m.WeightConfigUpdatedAt = now
	s.data.weights[m.WeightConfigID] = *m
	return nil
}

/* ===================== Roster ===================== */

func (s *Store) ListActiveStudents(ctx context.Context, classID uuid.UUID, period model.Period) ([]model.ClassStudentModel, error) {
	defer s.lock()()
	out := make([]model.ClassStudentModel, 0)
	for _, st := range s.data.students {
		if st.ClassStudentIsActive && st.ClassStudentClassID == classID &&
			samePeriod(st.ClassStudentAcademicYear, st.ClassStudentSemester, period) {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ClassStudentName < out[j].ClassStudentName })
	return out, nil
}

func (s *Store) ListClassSubjects(ctx context.Context, classID uuid.UUID, period model.Period) ([]model.ClassSubjectModel, error) {
	defer s.lock()()
	out := make([]model.ClassSubjectModel, 0)
	for _, sub := range s.data.subjects {
		if sub.ClassSubjectClassID == classID && samePeriod(sub.ClassSubjectAcademicYear, sub.ClassSubjectSemester, period) {
			out = append(out, sub)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ClassSubjectOrder != out[j].ClassSubjectOrder {
			return out[i].ClassSubjectOrder < out[j].ClassSubjectOrder
		}
		return out[i].ClassSubjectName < out[j].ClassSubjectName
	})
	return out, nil
}

func (s *Store) FindStudentClass(ctx context.Context, studentID uuid.UUID, period model.Period) (model.ClassStudentModel, error) {
	defer s.lock()()
	for _, st := range s.data.students {
		if st.ClassStudentIsActive && st.ClassStudentStudentID == studentID &&
			samePeriod(st.ClassStudentAcademicYear, st.ClassStudentSemester, period) {
			return st, nil
		}
	}
	return model.ClassStudentModel{}, service.ErrRecordNotFound
}

func (s *Store) GetAttendanceSummary(ctx context.Context, studentID, classID uuid.UUID, period model.Period) (model.AttendanceSummaryModel, error) {
	defer s.lock()()
	for _, a := range s.data.attendance {
		if a.AttendanceSummaryStudentID == studentID && a.AttendanceSummaryClassID == classID &&
			samePeriod(a.AttendanceSummaryAcademicYear, a.AttendanceSummarySemester, period) {
			return a, nil
		}
	}
	return model.AttendanceSummaryModel{}, service.ErrRecordNotFound
}

/* ===================== Report cards ===================== */

func (s *Store) GetReportCard(ctx context.Context, id uuid.UUID) (model.ReportCardModel, error) {
	defer s.lock()()
	c, ok := s.data.cards[id]
	if !ok {
		return model.ReportCardModel{}, service.ErrRecordNotFound
	}
	return copyCard(c), nil
}

func (s *Store) FindReportCard(ctx context.Context, studentID, classID uuid.UUID, period model.Period) (model.ReportCardModel, error) {
	defer s.lock()()
	for _, c := range s.data.cards {
		if c.ReportCardStudentID == studentID && c.ReportCardClassID == classID &&
			samePeriod(c.ReportCardAcademicYear, c.ReportCardSemester, period) {
			return copyCard(c), nil
		}
	}
	return model.ReportCardModel{}, service.ErrRecordNotFound
}

func (s *Store) ListReportCards(ctx context.Context, classID uuid.UUID, period model.Period, status *model.ReportCardStatus) ([]model.ReportCardModel, error) {
	defer s.lock()()
	out := make([]model.ReportCardModel, 0)
	for _, c := range s.data.cards {
		if c.ReportCardClassID != classID || !samePeriod(c.ReportCardAcademicYear, c.ReportCardSemester, period) {
			continue
		}
		if status != nil && c.ReportCardStatus != *status {
			continue
		}
		out = append(out, copyCard(c))
	}
	// urut ranking, lalu id
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReportCardClassRank != out[j].ReportCardClassRank {
			return out[i].ReportCardClassRank < out[j].ReportCardClassRank
		}
		return out[i].ReportCardID.String() < out[j].ReportCardID.String()
	})
	return out, nil
}

func (s *Store) SaveReportCard(ctx context.Context, m *model.ReportCardModel) error {
	defer s.lock()()
	if err := s.fail("SaveReportCard"); err != nil {
		return err
	}
	now := s.now()
	if m.ReportCardID == uuid.Nil {
		for _, c := range s.data.cards {
			if c.ReportCardStudentID == m.ReportCardStudentID && c.ReportCardClassID == m.ReportCardClassID &&
				c.ReportCardAcademicYear == m.ReportCardAcademicYear && c.ReportCardSemester == m.ReportCardSemester {
				return service.ErrDuplicate
			}
		}
		m.ReportCardID = uuid.New()
		m.ReportCardCreatedAt = now
	} else if _, ok := s.data.cards[m.ReportCardID]; !ok {
		return service.ErrRecordNotFound
	}
	m.ReportCardUpdatedAt = now
	s.data.cards[m.ReportCardID] = copyCard(*m)
	return nil
}
