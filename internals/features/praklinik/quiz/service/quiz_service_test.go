package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	helper "praklinik_backend/internals/helpers"

	"praklinik_backend/internals/features/praklinik/quiz/dto"
	"praklinik_backend/internals/features/praklinik/quiz/model"
)

// =============================
// Fakes
// =============================

type scoreUpdate struct {
	submissionID uuid.UUID
	score        decimal.Decimal
	isGraded     bool
}

type fakeQuizRepo struct {
	quizzes       map[uuid.UUID]*model.QuizModel
	submissions   map[uuid.UUID]*model.QuizSubmissionModel
	byPair        map[[2]uuid.UUID]*model.QuizSubmissionModel
	created       []*model.QuizSubmissionModel
	createErr     error
	answerGrades  map[uuid.UUID]decimal.Decimal
	scoreUpdates  []scoreUpdate
	studentSubs   []model.QuizSubmissionModel
	quizSubs      []model.QuizSubmissionModel
	availableList []model.QuizModel
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{
		quizzes:      map[uuid.UUID]*model.QuizModel{},
		submissions:  map[uuid.UUID]*model.QuizSubmissionModel{},
		byPair:       map[[2]uuid.UUID]*model.QuizSubmissionModel{},
		answerGrades: map[uuid.UUID]decimal.Decimal{},
	}
}

func (f *fakeQuizRepo) FindQuizByID(_ context.Context, quizID uuid.UUID) (*model.QuizModel, error) {
	return f.quizzes[quizID], nil
}

func (f *fakeQuizRepo) FindSubmission(_ context.Context, quizID, studentID uuid.UUID) (*model.QuizSubmissionModel, error) {
	return f.byPair[[2]uuid.UUID{quizID, studentID}], nil
}

func (f *fakeQuizRepo) FindSubmissionByID(_ context.Context, submissionID uuid.UUID) (*model.QuizSubmissionModel, error) {
	return f.submissions[submissionID], nil
}

func (f *fakeQuizRepo) FindSubmissionsByQuiz(_ context.Context, _ uuid.UUID) ([]model.QuizSubmissionModel, error) {
	return f.quizSubs, nil
}

func (f *fakeQuizRepo) FindSubmissionsByStudent(_ context.Context, _ uuid.UUID) ([]model.QuizSubmissionModel, error) {
	return f.studentSubs, nil
}

func (f *fakeQuizRepo) FindQuizzesByLecturer(_ context.Context, _ uuid.UUID, _, _ int) ([]model.QuizModel, int64, error) {
	return nil, 0, nil
}

func (f *fakeQuizRepo) FindAvailableQuizzes(_ context.Context, _, _ uuid.UUID) ([]model.QuizModel, error) {
	return f.availableList, nil
}

func (f *fakeQuizRepo) CreateQuiz(_ context.Context, quiz *model.QuizModel) error {
	quiz.QuizID = uuid.New()
	f.quizzes[quiz.QuizID] = quiz
	return nil
}

func (f *fakeQuizRepo) CreateQuestion(_ context.Context, question *model.QuizQuestionModel) error {
	question.QuizQuestionID = uuid.New()
	return nil
}

func (f *fakeQuizRepo) CreateSubmission(_ context.Context, submission *model.QuizSubmissionModel) error {
	if f.createErr != nil {
		return f.createErr
	}
	submission.QuizSubmissionID = uuid.New()
	f.created = append(f.created, submission)
	f.byPair[[2]uuid.UUID{submission.QuizSubmissionQuizID, submission.QuizSubmissionStudentID}] = submission
	return nil
}

func (f *fakeQuizRepo) UpdateAnswerGrade(_ context.Context, answerID uuid.UUID, pointsEarned decimal.Decimal) error {
	f.answerGrades[answerID] = pointsEarned
	return nil
}

func (f *fakeQuizRepo) UpdateSubmissionScore(_ context.Context, submissionID uuid.UUID, score decimal.Decimal, isGraded bool) error {
	f.scoreUpdates = append(f.scoreUpdates, scoreUpdate{submissionID, score, isGraded})
	return nil
}

type fakeEnrollment struct {
	classExists  bool
	courseExists bool
	inClass      bool
	onCourse     bool
	classID      uuid.UUID
	hasClass     bool
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

func (f *fakeEnrollment) FindStudentClassID(_ context.Context, _ uuid.UUID) (uuid.UUID, bool, error) {
	return f.classID, f.hasClass, nil
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

func strPtr(s string) *string { return &s }

func mcQuestion(points int64, correct string) model.QuizQuestionModel {
	return model.QuizQuestionModel{
		QuizQuestionID:            uuid.New(),
		QuizQuestionText:          "soal",
		QuizQuestionOptionA:       strPtr("a"),
		QuizQuestionOptionB:       strPtr("b"),
		QuizQuestionOptionC:       strPtr("c"),
		QuizQuestionOptionD:       strPtr("d"),
		QuizQuestionCorrectAnswer: strPtr(correct),
		QuizQuestionPoints:        decimal.NewFromInt(points),
	}
}

func essayQuestion(points int64) model.QuizQuestionModel {
	return model.QuizQuestionModel{
		QuizQuestionID:     uuid.New(),
		QuizQuestionText:   "jelaskan",
		QuizQuestionPoints: decimal.NewFromInt(points),
	}
}

func requireKind(t *testing.T, err error, kind helper.Kind) {
	t.Helper()
	var appErr *helper.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, kind, appErr.Kind)
}

// =============================
// SubmitQuiz
// =============================

func TestSubmitQuiz_MultipleChoiceGradedImmediately(t *testing.T) {
	repo := newFakeQuizRepo()
	enroll := &fakeEnrollment{inClass: true}
	recalc := &fakeRecalc{}
	svc := NewQuizService(repo, enroll, recalc)

	q1 := mcQuestion(2, "B")
	q2 := mcQuestion(3, "A")
	q3 := mcQuestion(5, "D")
	quiz := &model.QuizModel{
		QuizID:    uuid.New(),
		QuizType:  model.QuizTypeMultipleChoice,
		Questions: []model.QuizQuestionModel{q1, q2, q3},
	}
	repo.quizzes[quiz.QuizID] = quiz

	studentID := uuid.New()
	resp, err := svc.SubmitQuiz(context.Background(), quiz.QuizID, dto.SubmitQuizRequest{
		Answers: []dto.SubmitAnswerRequest{
			{QuestionID: q1.QuizQuestionID, AnswerText: "B"}, // benar: 2
			{QuestionID: q2.QuizQuestionID, AnswerText: "C"}, // salah: 0
			{QuestionID: q3.QuizQuestionID, AnswerText: "d"}, // benar (case-insensitive): 5
		},
	}, studentID)

	require.NoError(t, err)
	require.True(t, resp.IsGraded)
	require.NotNil(t, resp.Score)
	// 7/10 × 100 = 70
	assert.True(t, resp.Score.Equal(decimal.NewFromInt(70)), "score = %s", resp.Score)

	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.True(t, created.QuizSubmissionIsGraded)
	assert.Len(t, created.Answers, 3)
	for _, ans := range created.Answers {
		assert.NotNil(t, ans.QuizAnswerIsCorrect)
		assert.True(t, ans.QuizAnswerPointsEarned.Valid)
	}

	assert.Equal(t, []uuid.UUID{studentID}, recalc.calls)
}

func TestSubmitQuiz_EssayStaysPending(t *testing.T) {
	repo := newFakeQuizRepo()
	enroll := &fakeEnrollment{inClass: true}
	recalc := &fakeRecalc{}
	svc := NewQuizService(repo, enroll, recalc)

	q1 := essayQuestion(10)
	q2 := essayQuestion(10)
	quiz := &model.QuizModel{
		QuizID:    uuid.New(),
		QuizType:  model.QuizTypeEssay,
		Questions: []model.QuizQuestionModel{q1, q2},
	}
	repo.quizzes[quiz.QuizID] = quiz

	resp, err := svc.SubmitQuiz(context.Background(), quiz.QuizID, dto.SubmitQuizRequest{
		Answers: []dto.SubmitAnswerRequest{
			{QuestionID: q1.QuizQuestionID, AnswerText: "jawaban satu"},
			{QuestionID: q2.QuizQuestionID, AnswerText: "jawaban dua"},
		},
	}, uuid.New())

	require.NoError(t, err)
	assert.False(t, resp.IsGraded)
	assert.Nil(t, resp.Score)
	for _, ans := range repo.created[0].Answers {
		assert.Nil(t, ans.QuizAnswerIsCorrect)
		assert.False(t, ans.QuizAnswerPointsEarned.Valid)
	}
	assert.Empty(t, recalc.calls, "essay pending tidak boleh memicu recalc")
}

func TestSubmitQuiz_Preconditions(t *testing.T) {
	quizID := uuid.New()
	studentID := uuid.New()
	q1 := mcQuestion(2, "A")
	q2 := mcQuestion(2, "B")

	buildQuiz := func() *model.QuizModel {
		return &model.QuizModel{
			QuizID:    quizID,
			QuizType:  model.QuizTypeMultipleChoice,
			Questions: []model.QuizQuestionModel{q1, q2},
		}
	}
	fullAnswers := []dto.SubmitAnswerRequest{
		{QuestionID: q1.QuizQuestionID, AnswerText: "A"},
		{QuestionID: q2.QuizQuestionID, AnswerText: "B"},
	}

	tests := []struct {
		name     string
		setup    func(*fakeQuizRepo, *fakeEnrollment)
		answers  []dto.SubmitAnswerRequest
		wantKind helper.Kind
	}{
		{
			name:     "quiz tidak ada",
			setup:    func(repo *fakeQuizRepo, enroll *fakeEnrollment) { delete(repo.quizzes, quizID) },
			answers:  fullAnswers,
			wantKind: helper.KindNotFound,
		},
		{
			name: "sudah pernah submit",
			setup: func(repo *fakeQuizRepo, enroll *fakeEnrollment) {
				repo.byPair[[2]uuid.UUID{quizID, studentID}] = &model.QuizSubmissionModel{}
			},
			answers:  fullAnswers,
			wantKind: helper.KindForbidden,
		},
		{
			name:     "bukan anggota kelas",
			setup:    func(repo *fakeQuizRepo, enroll *fakeEnrollment) { enroll.inClass = false },
			answers:  fullAnswers,
			wantKind: helper.KindForbidden,
		},
		{
			name:  "question id asing",
			setup: func(repo *fakeQuizRepo, enroll *fakeEnrollment) {},
			answers: []dto.SubmitAnswerRequest{
				{QuestionID: uuid.New(), AnswerText: "A"},
				{QuestionID: q2.QuizQuestionID, AnswerText: "B"},
			},
			wantKind: helper.KindValidation,
		},
		{
			name:  "jawaban dobel untuk satu soal",
			setup: func(repo *fakeQuizRepo, enroll *fakeEnrollment) {},
			answers: []dto.SubmitAnswerRequest{
				{QuestionID: q1.QuizQuestionID, AnswerText: "A"},
				{QuestionID: q1.QuizQuestionID, AnswerText: "B"},
			},
			wantKind: helper.KindValidation,
		},
		{
			name:  "ada soal belum terjawab",
			setup: func(repo *fakeQuizRepo, enroll *fakeEnrollment) {},
			answers: []dto.SubmitAnswerRequest{
				{QuestionID: q1.QuizQuestionID, AnswerText: "A"},
			},
			wantKind: helper.KindValidation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeQuizRepo()
			repo.quizzes[quizID] = buildQuiz()
			enroll := &fakeEnrollment{inClass: true}
			tc.setup(repo, enroll)

			svc := NewQuizService(repo, enroll, &fakeRecalc{})
			_, err := svc.SubmitQuiz(context.Background(), quizID, dto.SubmitQuizRequest{Answers: tc.answers}, studentID)
			requireKind(t, err, tc.wantKind)
			assert.Empty(t, repo.created)
		})
	}
}

func TestSubmitQuiz_DuplicateRaceBecomesConflict(t *testing.T) {
	repo := newFakeQuizRepo()
	repo.createErr = gorm.ErrDuplicatedKey

	q := mcQuestion(2, "A")
	quiz := &model.QuizModel{
		QuizID:    uuid.New(),
		QuizType:  model.QuizTypeMultipleChoice,
		Questions: []model.QuizQuestionModel{q},
	}
	repo.quizzes[quiz.QuizID] = quiz

	svc := NewQuizService(repo, &fakeEnrollment{inClass: true}, &fakeRecalc{})
	_, err := svc.SubmitQuiz(context.Background(), quiz.QuizID, dto.SubmitQuizRequest{
		Answers: []dto.SubmitAnswerRequest{{QuestionID: q.QuizQuestionID, AnswerText: "A"}},
	}, uuid.New())

	requireKind(t, err, helper.KindConflict)
}

func TestWeightedPercent_ZeroTotalPoints(t *testing.T) {
	assert.True(t, weightedPercent(decimal.Zero, decimal.Zero).IsZero())
}

// =============================
// GradeEssay
// =============================

func buildEssaySubmission(lecturerID uuid.UUID) (*model.QuizSubmissionModel, model.QuizQuestionModel, model.QuizQuestionModel) {
	q1 := essayQuestion(10)
	q2 := essayQuestion(5)
	quiz := &model.QuizModel{
		QuizID:         uuid.New(),
		QuizLecturerID: lecturerID,
		QuizType:       model.QuizTypeEssay,
		Questions:      []model.QuizQuestionModel{q1, q2},
	}
	submission := &model.QuizSubmissionModel{
		QuizSubmissionID:        uuid.New(),
		QuizSubmissionQuizID:    quiz.QuizID,
		QuizSubmissionStudentID: uuid.New(),
		Quiz:                    quiz,
		Answers: []model.QuizAnswerModel{
			{QuizAnswerID: uuid.New(), QuizAnswerQuestionID: q1.QuizQuestionID, QuizAnswerText: "a"},
			{QuizAnswerID: uuid.New(), QuizAnswerQuestionID: q2.QuizQuestionID, QuizAnswerText: "b"},
		},
	}
	return submission, q1, q2
}

func TestGradeEssay_PartialKeepsPending(t *testing.T) {
	lecturerID := uuid.New()
	submission, q1, _ := buildEssaySubmission(lecturerID)

	repo := newFakeQuizRepo()
	repo.submissions[submission.QuizSubmissionID] = submission
	recalc := &fakeRecalc{}
	svc := NewQuizService(repo, &fakeEnrollment{}, recalc)

	err := svc.GradeEssay(context.Background(), submission.QuizSubmissionID, q1.QuizQuestionID, decimal.NewFromInt(8), lecturerID)
	require.NoError(t, err)

	// nilai jawaban tersimpan, submission belum Graded
	assert.Len(t, repo.answerGrades, 1)
	assert.Empty(t, repo.scoreUpdates)
	assert.Empty(t, recalc.calls)
}

func TestGradeEssay_LastGradeFlipsToGraded(t *testing.T) {
	lecturerID := uuid.New()
	submission, q1, q2 := buildEssaySubmission(lecturerID)
	// q1 sudah dinilai 8 sebelumnya
	submission.Answers[0].QuizAnswerPointsEarned = decimal.NewNullDecimal(decimal.NewFromInt(8))

	repo := newFakeQuizRepo()
	repo.submissions[submission.QuizSubmissionID] = submission
	recalc := &fakeRecalc{}
	svc := NewQuizService(repo, &fakeEnrollment{}, recalc)

	_ = q1
	err := svc.GradeEssay(context.Background(), submission.QuizSubmissionID, q2.QuizQuestionID, decimal.NewFromInt(4), lecturerID)
	require.NoError(t, err)

	require.Len(t, repo.scoreUpdates, 1)
	update := repo.scoreUpdates[0]
	assert.True(t, update.isGraded)
	// (8+4)/15 × 100 = 80
	assert.True(t, update.score.Equal(decimal.NewFromInt(80)), "score = %s", update.score)
	assert.Equal(t, []uuid.UUID{submission.QuizSubmissionStudentID}, recalc.calls)
}

func TestGradeEssay_RegradeReevaluatesCompleteness(t *testing.T) {
	// Menilai ulang jawaban yang sudah punya nilai tidak boleh menganggap
	// submission lengkap kalau jawaban lain masih kosong.
	lecturerID := uuid.New()
	submission, q1, _ := buildEssaySubmission(lecturerID)
	submission.Answers[0].QuizAnswerPointsEarned = decimal.NewNullDecimal(decimal.NewFromInt(3))

	repo := newFakeQuizRepo()
	repo.submissions[submission.QuizSubmissionID] = submission
	svc := NewQuizService(repo, &fakeEnrollment{}, &fakeRecalc{})

	err := svc.GradeEssay(context.Background(), submission.QuizSubmissionID, q1.QuizQuestionID, decimal.NewFromInt(9), lecturerID)
	require.NoError(t, err)
	assert.Empty(t, repo.scoreUpdates)
}

func TestGradeEssay_Preconditions(t *testing.T) {
	lecturerID := uuid.New()

	tests := []struct {
		name     string
		mutate   func(*model.QuizSubmissionModel)
		grader   uuid.UUID
		question func(q1, q2 model.QuizQuestionModel) uuid.UUID
		points   decimal.Decimal
		wantKind helper.Kind
	}{
		{
			name:     "bukan dosen pemilik quiz",
			mutate:   func(s *model.QuizSubmissionModel) {},
			grader:   uuid.New(),
			question: func(q1, _ model.QuizQuestionModel) uuid.UUID { return q1.QuizQuestionID },
			points:   decimal.NewFromInt(5),
			wantKind: helper.KindForbidden,
		},
		{
			name:     "quiz bukan essay",
			mutate:   func(s *model.QuizSubmissionModel) { s.Quiz.QuizType = model.QuizTypeMultipleChoice },
			grader:   lecturerID,
			question: func(q1, _ model.QuizQuestionModel) uuid.UUID { return q1.QuizQuestionID },
			points:   decimal.NewFromInt(5),
			wantKind: helper.KindValidation,
		},
		{
			name:     "jawaban tidak ditemukan",
			mutate:   func(s *model.QuizSubmissionModel) {},
			grader:   lecturerID,
			question: func(_, _ model.QuizQuestionModel) uuid.UUID { return uuid.New() },
			points:   decimal.NewFromInt(5),
			wantKind: helper.KindNotFound,
		},
		{
			name:     "nilai melebihi bobot soal",
			mutate:   func(s *model.QuizSubmissionModel) {},
			grader:   lecturerID,
			question: func(q1, _ model.QuizQuestionModel) uuid.UUID { return q1.QuizQuestionID },
			points:   decimal.NewFromInt(11),
			wantKind: helper.KindValidation,
		},
		{
			name:     "nilai negatif",
			mutate:   func(s *model.QuizSubmissionModel) {},
			grader:   lecturerID,
			question: func(q1, _ model.QuizQuestionModel) uuid.UUID { return q1.QuizQuestionID },
			points:   decimal.NewFromInt(-1),
			wantKind: helper.KindValidation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			submission, q1, q2 := buildEssaySubmission(lecturerID)
			tc.mutate(submission)

			repo := newFakeQuizRepo()
			repo.submissions[submission.QuizSubmissionID] = submission
			svc := NewQuizService(repo, &fakeEnrollment{}, &fakeRecalc{})

			err := svc.GradeEssay(context.Background(), submission.QuizSubmissionID, tc.question(q1, q2), tc.points, tc.grader)
			requireKind(t, err, tc.wantKind)
		})
	}
}

func TestGradeEssay_MaxPointsNamedInError(t *testing.T) {
	lecturerID := uuid.New()
	submission, q1, _ := buildEssaySubmission(lecturerID)

	repo := newFakeQuizRepo()
	repo.submissions[submission.QuizSubmissionID] = submission
	svc := NewQuizService(repo, &fakeEnrollment{}, &fakeRecalc{})

	err := svc.GradeEssay(context.Background(), submission.QuizSubmissionID, q1.QuizQuestionID, decimal.NewFromInt(99), lecturerID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 0 and 10")
}

// =============================
// CreateQuiz validation
// =============================

func TestCreateQuiz_QuestionShape(t *testing.T) {
	lecturerID := uuid.New()
	base := dto.CreateQuizRequest{
		CourseID: uuid.New(),
		ClassID:  uuid.New(),
		Title:    "Kuis Anatomi",
	}

	mcQ := dto.CreateQuestionRequest{
		QuestionText:  "soal",
		OptionA:       strPtr("1"),
		OptionB:       strPtr("2"),
		OptionC:       strPtr("3"),
		OptionD:       strPtr("4"),
		CorrectAnswer: strPtr("A"),
		Points:        decimal.NewFromInt(2),
	}
	essayQ := dto.CreateQuestionRequest{
		QuestionText: "jelaskan",
		Points:       decimal.NewFromInt(10),
	}

	tests := []struct {
		name      string
		quizType  string
		questions []dto.CreateQuestionRequest
		wantErr   bool
	}{
		{"mc valid", model.QuizTypeMultipleChoice, []dto.CreateQuestionRequest{mcQ}, false},
		{"essay valid", model.QuizTypeEssay, []dto.CreateQuestionRequest{essayQ}, false},
		{"mc tanpa opsi", model.QuizTypeMultipleChoice, []dto.CreateQuestionRequest{essayQ}, true},
		{"essay bawa kunci", model.QuizTypeEssay, []dto.CreateQuestionRequest{mcQ}, true},
		{
			"mc kunci di luar A-D", model.QuizTypeMultipleChoice,
			[]dto.CreateQuestionRequest{{
				QuestionText: "soal",
				OptionA:      strPtr("1"), OptionB: strPtr("2"), OptionC: strPtr("3"), OptionD: strPtr("4"),
				CorrectAnswer: strPtr("E"),
				Points:        decimal.NewFromInt(2),
			}}, true,
		},
		{"tanpa soal", model.QuizTypeMultipleChoice, nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeQuizRepo()
			enroll := &fakeEnrollment{classExists: true, courseExists: true, onCourse: true}
			svc := NewQuizService(repo, enroll, &fakeRecalc{})

			req := base
			req.QuizType = tc.quizType
			req.Questions = tc.questions

			_, err := svc.CreateQuiz(context.Background(), req, lecturerID)
			if tc.wantErr {
				requireKind(t, err, helper.KindValidation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
