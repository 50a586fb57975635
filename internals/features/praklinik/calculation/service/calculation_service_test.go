package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "praklinik_backend/internals/helpers"

	"praklinik_backend/internals/features/praklinik/calculation/dto"
	pcesModel "praklinik_backend/internals/features/praklinik/pces/model"
	quizModel "praklinik_backend/internals/features/praklinik/quiz/model"
	classModel "praklinik_backend/internals/features/academics/classes/model"
	userModel "praklinik_backend/internals/features/users/user/model"
)

// =============================
// Fakes
// =============================

type statusWrite struct {
	studentID uuid.UUID
	score     decimal.Decimal
	passed    bool
}

type fakeCalcRepo struct {
	submissions map[uuid.UUID][]quizModel.QuizSubmissionModel
	tests       map[uuid.UUID][]pcesModel.PcesTestModel
	students    map[uuid.UUID]*userModel.StudentModel
	classes     map[uuid.UUID]*classModel.ClassModel
	rosters     map[uuid.UUID][]userModel.StudentModel
	failFor     map[uuid.UUID]bool
	writes      []statusWrite
}

func newFakeCalcRepo() *fakeCalcRepo {
	return &fakeCalcRepo{
		submissions: map[uuid.UUID][]quizModel.QuizSubmissionModel{},
		tests:       map[uuid.UUID][]pcesModel.PcesTestModel{},
		students:    map[uuid.UUID]*userModel.StudentModel{},
		classes:     map[uuid.UUID]*classModel.ClassModel{},
		rosters:     map[uuid.UUID][]userModel.StudentModel{},
		failFor:     map[uuid.UUID]bool{},
	}
}

func (f *fakeCalcRepo) FindGradedSubmissionsByStudent(_ context.Context, studentID uuid.UUID) ([]quizModel.QuizSubmissionModel, error) {
	if f.failFor[studentID] {
		return nil, errors.New("query failed")
	}
	return f.submissions[studentID], nil
}

func (f *fakeCalcRepo) FindPcesTestsByStudent(_ context.Context, studentID uuid.UUID) ([]pcesModel.PcesTestModel, error) {
	return f.tests[studentID], nil
}

func (f *fakeCalcRepo) FindStudentByID(_ context.Context, studentID uuid.UUID) (*userModel.StudentModel, error) {
	return f.students[studentID], nil
}

func (f *fakeCalcRepo) FindClassByID(_ context.Context, classID uuid.UUID) (*classModel.ClassModel, error) {
	return f.classes[classID], nil
}

func (f *fakeCalcRepo) FindClassRoster(_ context.Context, classID uuid.UUID) ([]userModel.StudentModel, error) {
	return f.rosters[classID], nil
}

func (f *fakeCalcRepo) UpdateStudentPreClinicalStatus(_ context.Context, studentID uuid.UUID, score decimal.Decimal, passed bool) error {
	f.writes = append(f.writes, statusWrite{studentID: studentID, score: score, passed: passed})
	return nil
}

// =============================
// Helpers
// =============================

func gradedSubmission(score int64) quizModel.QuizSubmissionModel {
	return quizModel.QuizSubmissionModel{
		QuizSubmissionID:       uuid.New(),
		QuizSubmissionIsGraded: true,
		QuizSubmissionScore:    decimal.NewNullDecimal(decimal.NewFromInt(score)),
	}
}

func pcesTest(total int64) pcesModel.PcesTestModel {
	return pcesModel.PcesTestModel{
		PcesTestID:         uuid.New(),
		PcesTestTotalScore: decimal.NewNullDecimal(decimal.NewFromInt(total)),
	}
}

func addStudent(repo *fakeCalcRepo, nim string) uuid.UUID {
	id := uuid.New()
	repo.students[id] = &userModel.StudentModel{
		StudentID:   id,
		StudentNIM:  nim,
		StudentName: "Mahasiswa " + nim,
	}
	return id
}

// =============================
// CalculateScore
// =============================

func TestCalculateScore(t *testing.T) {
	tests := []struct {
		name        string
		submissions []quizModel.QuizSubmissionModel
		pces        []pcesModel.PcesTestModel
		wantQuiz    string
		wantPces    string
		wantTotal   string
	}{
		{
			name:        "kedua komponen ada",
			submissions: []quizModel.QuizSubmissionModel{gradedSubmission(80)},
			pces:        []pcesModel.PcesTestModel{pcesTest(60)},
			wantQuiz:    "80", wantPces: "60", wantTotal: "70",
		},
		{
			name:        "rata-rata beberapa quiz",
			submissions: []quizModel.QuizSubmissionModel{gradedSubmission(70), gradedSubmission(90), gradedSubmission(80)},
			pces:        []pcesModel.PcesTestModel{pcesTest(100)},
			wantQuiz:    "80", wantPces: "100", wantTotal: "90",
		},
		{
			name:      "hanya pces: quiz dihitung 0",
			pces:      []pcesModel.PcesTestModel{pcesTest(50)},
			wantQuiz:  "0", wantPces: "50", wantTotal: "25",
		},
		{
			name:        "hanya quiz: pces dihitung 0",
			submissions: []quizModel.QuizSubmissionModel{gradedSubmission(90)},
			wantQuiz:    "90", wantPces: "0", wantTotal: "45",
		},
		{
			name:      "tanpa data sama sekali",
			wantQuiz:  "0", wantPces: "0", wantTotal: "0",
		},
		{
			name: "submission belum graded diabaikan",
			submissions: []quizModel.QuizSubmissionModel{
				gradedSubmission(100),
				{QuizSubmissionID: uuid.New(), QuizSubmissionIsGraded: false},
			},
			wantQuiz: "100", wantPces: "0", wantTotal: "50",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeCalcRepo()
			studentID := addStudent(repo, "2021001")
			repo.submissions[studentID] = tc.submissions
			repo.tests[studentID] = tc.pces

			svc := NewCalculationService(repo)
			breakdown, err := svc.CalculateScore(context.Background(), studentID)
			require.NoError(t, err)

			assert.True(t, breakdown.QuizScore.Equal(decimal.RequireFromString(tc.wantQuiz)), "quiz = %s", breakdown.QuizScore)
			assert.True(t, breakdown.PcesScore.Equal(decimal.RequireFromString(tc.wantPces)), "pces = %s", breakdown.PcesScore)
			assert.True(t, breakdown.TotalScore.Equal(decimal.RequireFromString(tc.wantTotal)), "total = %s", breakdown.TotalScore)
		})
	}
}

// =============================
// CheckPassStatus
// =============================

func TestCheckPassStatus_PassAndPersist(t *testing.T) {
	repo := newFakeCalcRepo()
	studentID := addStudent(repo, "2021001")
	repo.submissions[studentID] = []quizModel.QuizSubmissionModel{gradedSubmission(80)}
	repo.tests[studentID] = []pcesModel.PcesTestModel{pcesTest(60)}

	svc := NewCalculationService(repo)
	result, err := svc.CheckPassStatus(context.Background(), studentID)
	require.NoError(t, err)

	assert.True(t, result.Passed)
	assert.True(t, result.HasAssessment)
	assert.True(t, result.TotalScore.Equal(decimal.NewFromInt(70)))

	require.Len(t, repo.writes, 1)
	assert.Equal(t, studentID, repo.writes[0].studentID)
	assert.True(t, repo.writes[0].passed)
	assert.True(t, repo.writes[0].score.Equal(decimal.NewFromInt(70)))
}

func TestCheckPassStatus_FailBelowThreshold(t *testing.T) {
	// tanpa quiz, pces 50 → total 25 → tidak lulus, tapi tetap dipersist
	// karena ada assessment
	repo := newFakeCalcRepo()
	studentID := addStudent(repo, "2021002")
	repo.tests[studentID] = []pcesModel.PcesTestModel{pcesTest(50)}

	svc := NewCalculationService(repo)
	result, err := svc.CheckPassStatus(context.Background(), studentID)
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.True(t, result.HasAssessment)
	assert.True(t, result.TotalScore.Equal(decimal.NewFromInt(25)))
	require.Len(t, repo.writes, 1)
	assert.False(t, repo.writes[0].passed)
}

func TestCheckPassStatus_ExactThresholdPasses(t *testing.T) {
	repo := newFakeCalcRepo()
	studentID := addStudent(repo, "2021003")
	repo.submissions[studentID] = []quizModel.QuizSubmissionModel{gradedSubmission(60)}
	repo.tests[studentID] = []pcesModel.PcesTestModel{pcesTest(60)}

	svc := NewCalculationService(repo)
	result, err := svc.CheckPassStatus(context.Background(), studentID)
	require.NoError(t, err)
	assert.True(t, result.Passed)
}

func TestCheckPassStatus_NoAssessmentNotPersisted(t *testing.T) {
	repo := newFakeCalcRepo()
	studentID := addStudent(repo, "2021004")

	svc := NewCalculationService(repo)
	result, err := svc.CheckPassStatus(context.Background(), studentID)
	require.NoError(t, err)

	assert.False(t, result.HasAssessment)
	assert.False(t, result.Passed)
	assert.Empty(t, repo.writes, "mahasiswa tanpa assessment tidak boleh dipersist")
}

func TestCheckPassStatus_StudentMissing(t *testing.T) {
	svc := NewCalculationService(newFakeCalcRepo())
	_, err := svc.CheckPassStatus(context.Background(), uuid.New())

	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, helper.KindNotFound, appErr.Kind)
}

func TestCheckPassStatus_Idempotent(t *testing.T) {
	repo := newFakeCalcRepo()
	studentID := addStudent(repo, "2021005")
	repo.submissions[studentID] = []quizModel.QuizSubmissionModel{gradedSubmission(80)}
	repo.tests[studentID] = []pcesModel.PcesTestModel{pcesTest(60)}

	svc := NewCalculationService(repo)
	first, err := svc.CheckPassStatus(context.Background(), studentID)
	require.NoError(t, err)
	second, err := svc.CheckPassStatus(context.Background(), studentID)
	require.NoError(t, err)

	assert.True(t, first.TotalScore.Equal(second.TotalScore))
	assert.Equal(t, first.Passed, second.Passed)
	require.Len(t, repo.writes, 2)
	assert.True(t, repo.writes[0].score.Equal(repo.writes[1].score))
}

// =============================
// GetClassStatus
// =============================

func TestGetClassStatus_SummaryCounts(t *testing.T) {
	repo := newFakeCalcRepo()
	classID := uuid.New()
	repo.classes[classID] = &classModel.ClassModel{
		ClassID:           classID,
		ClassName:         "Kelas A",
		ClassAcademicYear: "2025/2026",
	}

	passID := addStudent(repo, "2021001")
	repo.submissions[passID] = []quizModel.QuizSubmissionModel{gradedSubmission(80)}
	repo.tests[passID] = []pcesModel.PcesTestModel{pcesTest(60)}

	failID := addStudent(repo, "2021002")
	repo.tests[failID] = []pcesModel.PcesTestModel{pcesTest(50)}

	emptyID := addStudent(repo, "2021003")

	repo.rosters[classID] = []userModel.StudentModel{
		*repo.students[passID],
		*repo.students[failID],
		*repo.students[emptyID],
	}

	svc := NewCalculationService(repo)
	resp, err := svc.GetClassStatus(context.Background(), classID)
	require.NoError(t, err)

	assert.Equal(t, "Kelas A", resp.ClassName)
	require.Len(t, resp.Students, 3)

	assert.Equal(t, 3, resp.Summary.TotalStudents)
	assert.Equal(t, 1, resp.Summary.Passed)
	assert.Equal(t, 1, resp.Summary.NotPassed)
	assert.Equal(t, 1, resp.Summary.NoAssessment)
	assert.Equal(t, 0, resp.Summary.Errored)

	// urutan roster dipertahankan
	assert.Equal(t, passID, resp.Students[0].StudentID)
	require.NotNil(t, resp.Students[0].Passed)
	assert.True(t, *resp.Students[0].Passed)

	require.NotNil(t, resp.Students[1].Passed)
	assert.False(t, *resp.Students[1].Passed)

	assert.Nil(t, resp.Students[2].Passed)
	assert.Nil(t, resp.Students[2].TotalScore)
	assert.False(t, resp.Students[2].HasAssessment)
}

func TestGetClassStatus_PersistsStatusPerStudent(t *testing.T) {
	// status roster dihitung lewat CheckPassStatus, jadi cache di tabel
	// students harus ikut tertulis untuk tiap mahasiswa yang punya assessment
	repo := newFakeCalcRepo()
	classID := uuid.New()
	repo.classes[classID] = &classModel.ClassModel{ClassID: classID, ClassName: "Kelas C"}

	assessedID := addStudent(repo, "2021001")
	repo.submissions[assessedID] = []quizModel.QuizSubmissionModel{gradedSubmission(80)}
	repo.tests[assessedID] = []pcesModel.PcesTestModel{pcesTest(60)}

	emptyID := addStudent(repo, "2021002")

	repo.rosters[classID] = []userModel.StudentModel{
		*repo.students[assessedID],
		*repo.students[emptyID],
	}

	svc := NewCalculationService(repo)
	_, err := svc.GetClassStatus(context.Background(), classID)
	require.NoError(t, err)

	require.Len(t, repo.writes, 1)
	assert.Equal(t, assessedID, repo.writes[0].studentID)
	assert.True(t, repo.writes[0].score.Equal(decimal.NewFromInt(70)))
	assert.True(t, repo.writes[0].passed)
}

func TestGetClassStatus_ZeroComponentRenderedNull(t *testing.T) {
	// hanya pces: komponen quiz 0 tidak dirender sebagai angka 0
	repo := newFakeCalcRepo()
	classID := uuid.New()
	repo.classes[classID] = &classModel.ClassModel{ClassID: classID, ClassName: "Kelas D"}

	pcesOnlyID := addStudent(repo, "2021001")
	repo.tests[pcesOnlyID] = []pcesModel.PcesTestModel{pcesTest(50)}

	repo.rosters[classID] = []userModel.StudentModel{*repo.students[pcesOnlyID]}

	svc := NewCalculationService(repo)
	resp, err := svc.GetClassStatus(context.Background(), classID)
	require.NoError(t, err)

	require.Len(t, resp.Students, 1)
	row := resp.Students[0]
	assert.True(t, row.HasAssessment)
	assert.Nil(t, row.QuizScore)
	require.NotNil(t, row.PcesScore)
	assert.True(t, row.PcesScore.Equal(decimal.NewFromInt(50)))
	require.NotNil(t, row.TotalScore)
	assert.True(t, row.TotalScore.Equal(decimal.NewFromInt(25)))
}

func TestGetClassStatus_PartialFailureIsolated(t *testing.T) {
	repo := newFakeCalcRepo()
	classID := uuid.New()
	repo.classes[classID] = &classModel.ClassModel{ClassID: classID, ClassName: "Kelas B"}

	okID := addStudent(repo, "2021001")
	repo.submissions[okID] = []quizModel.QuizSubmissionModel{gradedSubmission(90)}

	brokenID := addStudent(repo, "2021002")
	repo.failFor[brokenID] = true

	repo.rosters[classID] = []userModel.StudentModel{
		*repo.students[okID],
		*repo.students[brokenID],
	}

	svc := NewCalculationService(repo)
	resp, err := svc.GetClassStatus(context.Background(), classID)
	require.NoError(t, err, "kegagalan satu mahasiswa tidak boleh menggagalkan kelas")

	require.Len(t, resp.Students, 2)
	assert.Empty(t, resp.Students[0].Error)
	assert.NotEmpty(t, resp.Students[1].Error)
	assert.Equal(t, 1, resp.Summary.Errored)
	assert.Equal(t, 1, resp.Summary.NotPassed) // 90 quiz saja → total 45
}

func TestGetClassStatus_ClassMissing(t *testing.T) {
	svc := NewCalculationService(newFakeCalcRepo())
	_, err := svc.GetClassStatus(context.Background(), uuid.New())

	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, helper.KindNotFound, appErr.Kind)
}

// =============================
// GetStudentReport
// =============================

func TestGetStudentReport(t *testing.T) {
	repo := newFakeCalcRepo()
	studentID := addStudent(repo, "2021001")

	sub := gradedSubmission(80)
	sub.Quiz = &quizModel.QuizModel{QuizTitle: "Kuis Farmakologi"}
	repo.submissions[studentID] = []quizModel.QuizSubmissionModel{sub}

	test := pcesTest(60)
	test.Template = &pcesModel.PcesTemplateModel{PcesTemplateName: "Pemasangan Infus"}
	repo.tests[studentID] = []pcesModel.PcesTestModel{test}

	svc := NewCalculationService(repo)
	report, err := svc.GetStudentReport(context.Background(), studentID)
	require.NoError(t, err)

	assert.Equal(t, "2021001", report.StudentNIM)
	assert.True(t, report.Passed)
	require.Len(t, report.Quizzes, 1)
	assert.Equal(t, "Kuis Farmakologi", report.Quizzes[0].QuizTitle)
	require.Len(t, report.PcesTests, 1)
	assert.Equal(t, "Pemasangan Infus", report.PcesTests[0].TemplateName)
}

func TestGetStudentReport_RefreshesStatusCache(t *testing.T) {
	// laporan memanggil CheckPassStatus dulu, jadi cache di tabel
	// students harus segar walau hook recalc saat grading pernah gagal
	repo := newFakeCalcRepo()
	studentID := addStudent(repo, "2021009")
	repo.submissions[studentID] = []quizModel.QuizSubmissionModel{gradedSubmission(80)}
	repo.tests[studentID] = []pcesModel.PcesTestModel{pcesTest(60)}

	svc := NewCalculationService(repo)
	report, err := svc.GetStudentReport(context.Background(), studentID)
	require.NoError(t, err)

	assert.True(t, report.Passed)
	require.Len(t, repo.writes, 1)
	assert.Equal(t, studentID, repo.writes[0].studentID)
	assert.True(t, repo.writes[0].score.Equal(decimal.NewFromInt(70)))
}

// DTO sanity: summary dihitung dari baris, bukan field terpisah.
func TestClassStatusSummaryShape(t *testing.T) {
	s := dto.ClassStatusSummary{TotalStudents: 3, Passed: 1, NotPassed: 1, NoAssessment: 1}
	assert.Equal(t, s.TotalStudents, s.Passed+s.NotPassed+s.NoAssessment+s.Errored)
}
