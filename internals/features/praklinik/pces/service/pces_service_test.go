package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	helper "praklinik_backend/internals/helpers"

	"praklinik_backend/internals/features/praklinik/pces/dto"
	"praklinik_backend/internals/features/praklinik/pces/model"
)

// =============================
// Fakes
// =============================

type replaceCall struct {
	testID     uuid.UUID
	totalScore decimal.Decimal
	scores     []model.PcesScoreModel
}

type fakePcesRepo struct {
	templates    map[uuid.UUID]*model.PcesTemplateModel
	tests        map[uuid.UUID]*model.PcesTestModel
	byPair       map[[2]uuid.UUID]*model.PcesTestModel
	createdTests []*model.PcesTestModel
	replaceCalls []replaceCall
}

func newFakePcesRepo() *fakePcesRepo {
	return &fakePcesRepo{
		templates: map[uuid.UUID]*model.PcesTemplateModel{},
		tests:     map[uuid.UUID]*model.PcesTestModel{},
		byPair:    map[[2]uuid.UUID]*model.PcesTestModel{},
	}
}

func (f *fakePcesRepo) FindTemplateByID(_ context.Context, templateID uuid.UUID) (*model.PcesTemplateModel, error) {
	return f.templates[templateID], nil
}

func (f *fakePcesRepo) FindTemplates(_ context.Context, _, _ int) ([]model.PcesTemplateModel, int64, error) {
	return nil, 0, nil
}

func (f *fakePcesRepo) FindTemplatesByCourseIDs(_ context.Context, courseIDs []uuid.UUID) ([]model.PcesTemplateModel, error) {
	allowed := make(map[uuid.UUID]bool, len(courseIDs))
	for _, id := range courseIDs {
		allowed[id] = true
	}
	var out []model.PcesTemplateModel
	for _, tpl := range f.templates {
		if allowed[tpl.PcesTemplateCourseID] {
			out = append(out, *tpl)
		}
	}
	return out, nil
}

func (f *fakePcesRepo) CreateTemplate(_ context.Context, template *model.PcesTemplateModel) error {
	template.PcesTemplateID = uuid.New()
	for i := range template.SopItems {
		template.SopItems[i].PcesSopItemID = uuid.New()
	}
	f.templates[template.PcesTemplateID] = template
	return nil
}

func (f *fakePcesRepo) FindTestByID(_ context.Context, testID uuid.UUID) (*model.PcesTestModel, error) {
	return f.tests[testID], nil
}

func (f *fakePcesRepo) FindTestByPair(_ context.Context, templateID, studentID uuid.UUID) (*model.PcesTestModel, error) {
	return f.byPair[[2]uuid.UUID{templateID, studentID}], nil
}

func (f *fakePcesRepo) FindTestsByLecturer(_ context.Context, _ uuid.UUID, _, _ int) ([]model.PcesTestModel, int64, error) {
	return nil, 0, nil
}

func (f *fakePcesRepo) FindTestsByStudent(_ context.Context, _ uuid.UUID) ([]model.PcesTestModel, error) {
	return nil, nil
}

func (f *fakePcesRepo) CreateTest(_ context.Context, test *model.PcesTestModel) error {
	test.PcesTestID = uuid.New()
	f.createdTests = append(f.createdTests, test)
	f.byPair[[2]uuid.UUID{test.PcesTestTemplateID, test.PcesTestStudentID}] = test
	return nil
}

func (f *fakePcesRepo) ReplaceTestScores(_ context.Context, testID uuid.UUID, _ datatypes.Date, totalScore decimal.Decimal, scores []model.PcesScoreModel) error {
	f.replaceCalls = append(f.replaceCalls, replaceCall{testID: testID, totalScore: totalScore, scores: scores})
	return nil
}

type fakeEnrollment struct {
	classExists  bool
	courseExists bool
	inClass      bool
	onCourse     bool
	courseIDs    []uuid.UUID
}

func (f *fakeEnrollment) ClassExists(_ context.Context, _ uuid.UUID) (bool, error) {
	return f.classExists, nil
}

func (f *fakeEnrollment) CourseExists(_ context.Context, _ uuid.UUID) (bool, error) {
	return f.courseExists, nil
}

func (f *fakeEnrollment) IsStudentInClass(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return f.inClass, nil
}

func (f *fakeEnrollment) IsLecturerOnCourse(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return f.onCourse, nil
}

func (f *fakeEnrollment) FindLecturerCourseIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return f.courseIDs, nil
}

type fakeRecalc struct {
	calls []uuid.UUID
}

func (f *fakeRecalc) Recalculate(_ context.Context, studentID uuid.UUID) error {
	f.calls = append(f.calls, studentID)
	return nil
}

// =============================
// Helpers
// =============================

func buildTemplate(itemCount int) *model.PcesTemplateModel {
	tpl := &model.PcesTemplateModel{
		PcesTemplateID:       uuid.New(),
		PcesTemplateCourseID: uuid.New(),
		PcesTemplateName:     "Pemasangan Infus",
	}
	for i := 0; i < itemCount; i++ {
		tpl.SopItems = append(tpl.SopItems, model.PcesSopItemModel{
			PcesSopItemID:          uuid.New(),
			PcesSopItemTemplateID:  tpl.PcesTemplateID,
			PcesSopItemDescription: "langkah",
			PcesSopItemOrderNumber: i + 1,
		})
	}
	return tpl
}

func fullScores(tpl *model.PcesTemplateModel, value int) []dto.ScoreItemRequest {
	scores := make([]dto.ScoreItemRequest, 0, len(tpl.SopItems))
	for _, item := range tpl.SopItems {
		scores = append(scores, dto.ScoreItemRequest{SopItemID: item.PcesSopItemID, Value: value})
	}
	return scores
}

func requireKind(t *testing.T, err error, kind helper.Kind) {
	t.Helper()
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, kind, appErr.Kind)
}

// =============================
// CreatePcesTest
// =============================

func TestCreatePcesTest_TotalIsAverageTimesTwenty(t *testing.T) {
	tpl := buildTemplate(4)
	repo := newFakePcesRepo()
	repo.templates[tpl.PcesTemplateID] = tpl
	enroll := &fakeEnrollment{classExists: true, inClass: true, onCourse: true}
	recalc := &fakeRecalc{}
	svc := NewPcesService(repo, enroll, recalc)

	lecturerID := uuid.New()
	studentID := uuid.New()

	// skor 5,4,3,4 → avg 4 → total 80
	scores := []dto.ScoreItemRequest{
		{SopItemID: tpl.SopItems[0].PcesSopItemID, Value: 5},
		{SopItemID: tpl.SopItems[1].PcesSopItemID, Value: 4},
		{SopItemID: tpl.SopItems[2].PcesSopItemID, Value: 3},
		{SopItemID: tpl.SopItems[3].PcesSopItemID, Value: 4},
	}

	resp, err := svc.CreatePcesTest(context.Background(), dto.CreatePcesTestRequest{
		TemplateID: tpl.PcesTemplateID,
		StudentID:  studentID,
		ClassID:    uuid.New(),
		TestDate:   "2026-03-15",
		Scores:     scores,
	}, lecturerID)

	require.NoError(t, err)
	require.NotNil(t, resp.TotalScore)
	assert.True(t, resp.TotalScore.Equal(decimal.NewFromInt(80)), "total = %s", resp.TotalScore)
	assert.Len(t, resp.Scores, 4)
	assert.Equal(t, []uuid.UUID{studentID}, recalc.calls)

	require.Len(t, repo.createdTests, 1)
	assert.Equal(t, tpl.PcesTemplateCourseID, repo.createdTests[0].PcesTestCourseID)
	assert.Equal(t, lecturerID, repo.createdTests[0].PcesTestLecturerID)
}

func TestCreatePcesTest_RoundsToTwoDecimals(t *testing.T) {
	tpl := buildTemplate(3)
	repo := newFakePcesRepo()
	repo.templates[tpl.PcesTemplateID] = tpl
	svc := NewPcesService(repo, &fakeEnrollment{classExists: true, inClass: true, onCourse: true}, &fakeRecalc{})

	// 5,5,4 → avg 4.666... → total 93.33
	resp, err := svc.CreatePcesTest(context.Background(), dto.CreatePcesTestRequest{
		TemplateID: tpl.PcesTemplateID,
		StudentID:  uuid.New(),
		ClassID:    uuid.New(),
		TestDate:   "2026-03-15",
		Scores: []dto.ScoreItemRequest{
			{SopItemID: tpl.SopItems[0].PcesSopItemID, Value: 5},
			{SopItemID: tpl.SopItems[1].PcesSopItemID, Value: 5},
			{SopItemID: tpl.SopItems[2].PcesSopItemID, Value: 4},
		},
	}, uuid.New())

	require.NoError(t, err)
	expected, _ := decimal.NewFromString("93.33")
	assert.True(t, resp.TotalScore.Equal(expected), "total = %s", resp.TotalScore)
}

func TestCreatePcesTest_ScoreValidation(t *testing.T) {
	lecturerID := uuid.New()

	tests := []struct {
		name    string
		scores  func(tpl *model.PcesTemplateModel) []dto.ScoreItemRequest
		wantMsg string
	}{
		{
			name: "nilai di luar 1-5",
			scores: func(tpl *model.PcesTemplateModel) []dto.ScoreItemRequest {
				s := fullScores(tpl, 3)
				s[1].Value = 6
				return s
			},
			wantMsg: "Score for item 2 must be between 1 and 5",
		},
		{
			name: "nilai nol",
			scores: func(tpl *model.PcesTemplateModel) []dto.ScoreItemRequest {
				s := fullScores(tpl, 3)
				s[0].Value = 0
				return s
			},
			wantMsg: "Score for item 1 must be between 1 and 5",
		},
		{
			name: "item asing",
			scores: func(tpl *model.PcesTemplateModel) []dto.ScoreItemRequest {
				s := fullScores(tpl, 3)
				s[0].SopItemID = uuid.New()
				return s
			},
			wantMsg: "Invalid SOP item ID",
		},
		{
			name: "item belum dinilai",
			scores: func(tpl *model.PcesTemplateModel) []dto.ScoreItemRequest {
				return fullScores(tpl, 3)[:2]
			},
			wantMsg: "item 3 is missing",
		},
		{
			name: "skor dobel untuk satu item",
			scores: func(tpl *model.PcesTemplateModel) []dto.ScoreItemRequest {
				s := fullScores(tpl, 3)
				s[2].SopItemID = s[0].SopItemID
				return s
			},
			wantMsg: "Duplicate score for SOP item 1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tpl := buildTemplate(3)
			repo := newFakePcesRepo()
			repo.templates[tpl.PcesTemplateID] = tpl
			svc := NewPcesService(repo, &fakeEnrollment{classExists: true, inClass: true, onCourse: true}, &fakeRecalc{})

			_, err := svc.CreatePcesTest(context.Background(), dto.CreatePcesTestRequest{
				TemplateID: tpl.PcesTemplateID,
				StudentID:  uuid.New(),
				ClassID:    uuid.New(),
				TestDate:   "2026-03-15",
				Scores:     tc.scores(tpl),
			}, lecturerID)

			requireKind(t, err, helper.KindValidation)
			assert.Contains(t, err.Error(), tc.wantMsg)
			assert.Empty(t, repo.createdTests)
		})
	}
}

func TestCreatePcesTest_Preconditions(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(repo *fakePcesRepo, enroll *fakeEnrollment, tpl *model.PcesTemplateModel, studentID uuid.UUID)
		wantKind helper.Kind
	}{
		{
			name: "template tidak ada",
			setup: func(repo *fakePcesRepo, _ *fakeEnrollment, tpl *model.PcesTemplateModel, _ uuid.UUID) {
				delete(repo.templates, tpl.PcesTemplateID)
			},
			wantKind: helper.KindNotFound,
		},
		{
			name: "dosen tidak mengampu mata kuliah",
			setup: func(_ *fakePcesRepo, enroll *fakeEnrollment, _ *model.PcesTemplateModel, _ uuid.UUID) {
				enroll.onCourse = false
			},
			wantKind: helper.KindForbidden,
		},
		{
			name: "mahasiswa bukan anggota kelas",
			setup: func(_ *fakePcesRepo, enroll *fakeEnrollment, _ *model.PcesTemplateModel, _ uuid.UUID) {
				enroll.inClass = false
			},
			wantKind: helper.KindForbidden,
		},
		{
			name: "sudah ada test untuk pasangan ini",
			setup: func(repo *fakePcesRepo, _ *fakeEnrollment, tpl *model.PcesTemplateModel, studentID uuid.UUID) {
				repo.byPair[[2]uuid.UUID{tpl.PcesTemplateID, studentID}] = &model.PcesTestModel{}
			},
			wantKind: helper.KindConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tpl := buildTemplate(2)
			studentID := uuid.New()
			repo := newFakePcesRepo()
			repo.templates[tpl.PcesTemplateID] = tpl
			enroll := &fakeEnrollment{classExists: true, inClass: true, onCourse: true}
			tc.setup(repo, enroll, tpl, studentID)

			svc := NewPcesService(repo, enroll, &fakeRecalc{})
			_, err := svc.CreatePcesTest(context.Background(), dto.CreatePcesTestRequest{
				TemplateID: tpl.PcesTemplateID,
				StudentID:  studentID,
				ClassID:    uuid.New(),
				TestDate:   "2026-03-15",
				Scores:     fullScores(tpl, 4),
			}, uuid.New())

			requireKind(t, err, tc.wantKind)
		})
	}
}

func TestCreatePcesTest_InvalidDate(t *testing.T) {
	tpl := buildTemplate(2)
	repo := newFakePcesRepo()
	repo.templates[tpl.PcesTemplateID] = tpl
	svc := NewPcesService(repo, &fakeEnrollment{classExists: true, inClass: true, onCourse: true}, &fakeRecalc{})

	_, err := svc.CreatePcesTest(context.Background(), dto.CreatePcesTestRequest{
		TemplateID: tpl.PcesTemplateID,
		StudentID:  uuid.New(),
		ClassID:    uuid.New(),
		TestDate:   "15-03-2026",
		Scores:     fullScores(tpl, 4),
	}, uuid.New())

	requireKind(t, err, helper.KindValidation)
}

// =============================
// UpdatePcesTest
// =============================

func TestUpdatePcesTest_ReplacesScoresAndRecomputesTotal(t *testing.T) {
	tpl := buildTemplate(2)
	lecturerID := uuid.New()
	studentID := uuid.New()
	test := &model.PcesTestModel{
		PcesTestID:         uuid.New(),
		PcesTestTemplateID: tpl.PcesTemplateID,
		PcesTestStudentID:  studentID,
		PcesTestLecturerID: lecturerID,
		PcesTestTotalScore: decimal.NewNullDecimal(decimal.NewFromInt(40)),
		Template:           tpl,
	}

	repo := newFakePcesRepo()
	repo.tests[test.PcesTestID] = test
	recalc := &fakeRecalc{}
	svc := NewPcesService(repo, &fakeEnrollment{}, recalc)

	resp, err := svc.UpdatePcesTest(context.Background(), test.PcesTestID, dto.UpdatePcesTestRequest{
		Scores: []dto.ScoreItemRequest{
			{SopItemID: tpl.SopItems[0].PcesSopItemID, Value: 5},
			{SopItemID: tpl.SopItems[1].PcesSopItemID, Value: 5},
		},
	}, lecturerID)

	require.NoError(t, err)
	require.Len(t, repo.replaceCalls, 1)
	call := repo.replaceCalls[0]
	assert.Equal(t, test.PcesTestID, call.testID)
	assert.True(t, call.totalScore.Equal(decimal.NewFromInt(100)), "total = %s", call.totalScore)
	assert.Len(t, call.scores, 2)
	for _, sc := range call.scores {
		assert.Equal(t, test.PcesTestID, sc.PcesScoreTestID)
	}

	require.NotNil(t, resp.TotalScore)
	assert.True(t, resp.TotalScore.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, []uuid.UUID{studentID}, recalc.calls)
}

func TestUpdatePcesTest_WrongLecturer(t *testing.T) {
	tpl := buildTemplate(2)
	test := &model.PcesTestModel{
		PcesTestID:         uuid.New(),
		PcesTestTemplateID: tpl.PcesTemplateID,
		PcesTestLecturerID: uuid.New(),
		Template:           tpl,
	}

	repo := newFakePcesRepo()
	repo.tests[test.PcesTestID] = test
	svc := NewPcesService(repo, &fakeEnrollment{}, &fakeRecalc{})

	_, err := svc.UpdatePcesTest(context.Background(), test.PcesTestID, dto.UpdatePcesTestRequest{
		Scores: fullScores(tpl, 3),
	}, uuid.New())

	requireKind(t, err, helper.KindForbidden)
	assert.Empty(t, repo.replaceCalls)
}

func TestUpdatePcesTest_PartialScoresRejected(t *testing.T) {
	tpl := buildTemplate(3)
	lecturerID := uuid.New()
	test := &model.PcesTestModel{
		PcesTestID:         uuid.New(),
		PcesTestTemplateID: tpl.PcesTemplateID,
		PcesTestLecturerID: lecturerID,
		Template:           tpl,
	}

	repo := newFakePcesRepo()
	repo.tests[test.PcesTestID] = test
	svc := NewPcesService(repo, &fakeEnrollment{}, &fakeRecalc{})

	_, err := svc.UpdatePcesTest(context.Background(), test.PcesTestID, dto.UpdatePcesTestRequest{
		Scores: fullScores(tpl, 3)[:1],
	}, lecturerID)

	requireKind(t, err, helper.KindValidation)
	assert.Empty(t, repo.replaceCalls)
}

// =============================
// Templates
// =============================

func TestCreateTemplate_AssignsOrderNumbers(t *testing.T) {
	repo := newFakePcesRepo()
	svc := NewPcesService(repo, &fakeEnrollment{courseExists: true}, &fakeRecalc{})

	resp, err := svc.CreateTemplate(context.Background(), dto.CreateTemplateRequest{
		CourseID: uuid.New(),
		Name:     "Pemasangan NGT",
		SopItems: []dto.CreateSopItemRequest{
			{Description: "cuci tangan"},
			{Description: "siapkan alat"},
			{Description: "jelaskan prosedur"},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.SopItems, 3)
	for i, item := range resp.SopItems {
		assert.Equal(t, i+1, item.OrderNumber)
	}
}

func TestCreateTemplate_CourseMissing(t *testing.T) {
	svc := NewPcesService(newFakePcesRepo(), &fakeEnrollment{courseExists: false}, &fakeRecalc{})

	_, err := svc.CreateTemplate(context.Background(), dto.CreateTemplateRequest{
		CourseID: uuid.New(),
		Name:     "X",
		SopItems: []dto.CreateSopItemRequest{{Description: "y"}},
	})
	requireKind(t, err, helper.KindNotFound)
}

func TestGetLecturerTemplates_FiltersByCourse(t *testing.T) {
	repo := newFakePcesRepo()
	mine := buildTemplate(1)
	other := buildTemplate(1)
	repo.templates[mine.PcesTemplateID] = mine
	repo.templates[other.PcesTemplateID] = other

	enroll := &fakeEnrollment{courseIDs: []uuid.UUID{mine.PcesTemplateCourseID}}
	svc := NewPcesService(repo, enroll, &fakeRecalc{})

	templates, err := svc.GetLecturerTemplates(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, mine.PcesTemplateID, templates[0].TemplateID)
}
