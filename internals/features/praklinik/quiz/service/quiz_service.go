package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	helper "praklinik_backend/internals/helpers"

	"praklinik_backend/internals/features/praklinik/quiz/dto"
	"praklinik_backend/internals/features/praklinik/quiz/model"
)

// Repository adalah akses data quiz yang dibutuhkan service ini.
// Find* mengembalikan (nil, nil) saat baris tidak ditemukan.
type Repository interface {
	FindQuizByID(ctx context.Context, quizID uuid.UUID) (*model.QuizModel, error)
	FindSubmission(ctx context.Context, quizID, studentID uuid.UUID) (*model.QuizSubmissionModel, error)
	FindSubmissionByID(ctx context.Context, submissionID uuid.UUID) (*model.QuizSubmissionModel, error)
	FindSubmissionsByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.QuizSubmissionModel, error)
	FindSubmissionsByStudent(ctx context.Context, studentID uuid.UUID) ([]model.QuizSubmissionModel, error)
	FindQuizzesByLecturer(ctx context.Context, lecturerID uuid.UUID, limit, offset int) ([]model.QuizModel, int64, error)
	FindAvailableQuizzes(ctx context.Context, classID, studentID uuid.UUID) ([]model.QuizModel, error)
	CreateQuiz(ctx context.Context, quiz *model.QuizModel) error
	CreateQuestion(ctx context.Context, question *model.QuizQuestionModel) error
	CreateSubmission(ctx context.Context, submission *model.QuizSubmissionModel) error
	UpdateAnswerGrade(ctx context.Context, answerID uuid.UUID, pointsEarned decimal.Decimal) error
	UpdateSubmissionScore(ctx context.Context, submissionID uuid.UUID, score decimal.Decimal, isGraded bool) error
}

// EnrollmentChecker menjawab relasi keanggotaan kelas & penugasan dosen.
type EnrollmentChecker interface {
	ClassExists(ctx context.Context, classID uuid.UUID) (bool, error)
	CourseExists(ctx context.Context, courseID uuid.UUID) (bool, error)
	IsStudentInClass(ctx context.Context, classID, studentID uuid.UUID) (bool, error)
	IsLecturerOnCourse(ctx context.Context, courseID, lecturerID uuid.UUID) (bool, error)
	FindStudentClassID(ctx context.Context, studentID uuid.UUID) (uuid.UUID, bool, error)
}

// StatusRecalculator memicu hitung ulang status Pra Klinik mahasiswa
// setelah event grading. Diimplementasikan oleh calculation service.
type StatusRecalculator interface {
	Recalculate(ctx context.Context, studentID uuid.UUID) error
}

type QuizService struct {
	repo   Repository
	enroll EnrollmentChecker
	recalc StatusRecalculator
}

func NewQuizService(repo Repository, enroll EnrollmentChecker, recalc StatusRecalculator) *QuizService {
	return &QuizService{repo: repo, enroll: enroll, recalc: recalc}
}

var validAnswerKeys = map[string]bool{"A": true, "B": true, "C": true, "D": true}

// =============================
// ➕ Create Quiz + Questions
// =============================
func (s *QuizService) CreateQuiz(ctx context.Context, req dto.CreateQuizRequest, lecturerID uuid.UUID) (dto.QuizDetailResponse, error) {
	courseOK, err := s.enroll.CourseExists(ctx, req.CourseID)
	if err != nil {
		return dto.QuizDetailResponse{}, err
	}
	if !courseOK {
		return dto.QuizDetailResponse{}, helper.NewNotFoundError("Course not found")
	}

	classOK, err := s.enroll.ClassExists(ctx, req.ClassID)
	if err != nil {
		return dto.QuizDetailResponse{}, err
	}
	if !classOK {
		return dto.QuizDetailResponse{}, helper.NewNotFoundError("Class not found")
	}

	teaches, err := s.enroll.IsLecturerOnCourse(ctx, req.CourseID, lecturerID)
	if err != nil {
		return dto.QuizDetailResponse{}, err
	}
	if !teaches {
		return dto.QuizDetailResponse{}, helper.NewForbiddenError("You don't teach this course")
	}

	if len(req.Questions) == 0 {
		return dto.QuizDetailResponse{}, helper.NewValidationError("Quiz must have at least 1 question")
	}

	for i, q := range req.Questions {
		if err := validateQuestionShape(req.QuizType, q, i+1); err != nil {
			return dto.QuizDetailResponse{}, err
		}
	}

	quiz := model.QuizModel{
		QuizCourseID:    req.CourseID,
		QuizClassID:     req.ClassID,
		QuizLecturerID:  lecturerID,
		QuizTitle:       req.Title,
		QuizDescription: req.Description,
		QuizType:        req.QuizType,
	}
	for i, q := range req.Questions {
		orderNumber := q.OrderNumber
		if orderNumber == 0 {
			orderNumber = i + 1
		}
		quiz.Questions = append(quiz.Questions, model.QuizQuestionModel{
			QuizQuestionText:          q.QuestionText,
			QuizQuestionOptionA:       q.OptionA,
			QuizQuestionOptionB:       q.OptionB,
			QuizQuestionOptionC:       q.OptionC,
			QuizQuestionOptionD:       q.OptionD,
			QuizQuestionCorrectAnswer: normalizeAnswerKey(q.CorrectAnswer),
			QuizQuestionPoints:        q.Points,
			QuizQuestionOrderNumber:   orderNumber,
		})
	}

	if err := s.repo.CreateQuiz(ctx, &quiz); err != nil {
		return dto.QuizDetailResponse{}, err
	}

	return dto.ToQuizDetailResponse(quiz, true), nil
}

func (s *QuizService) CreateQuestion(ctx context.Context, quizID uuid.UUID, req dto.CreateQuestionRequest, lecturerID uuid.UUID) (dto.QuestionResponse, error) {
	quiz, err := s.repo.FindQuizByID(ctx, quizID)
	if err != nil {
		return dto.QuestionResponse{}, err
	}
	if quiz == nil {
		return dto.QuestionResponse{}, helper.NewNotFoundError("Quiz not found")
	}
	if quiz.QuizLecturerID != lecturerID {
		return dto.QuestionResponse{}, helper.NewForbiddenError("You don't have access to this quiz")
	}

	if err := validateQuestionShape(quiz.QuizType, req, len(quiz.Questions)+1); err != nil {
		return dto.QuestionResponse{}, err
	}

	orderNumber := req.OrderNumber
	if orderNumber == 0 {
		orderNumber = len(quiz.Questions) + 1
	}

	question := model.QuizQuestionModel{
		QuizQuestionQuizID:        quizID,
		QuizQuestionText:          req.QuestionText,
		QuizQuestionOptionA:       req.OptionA,
		QuizQuestionOptionB:       req.OptionB,
		QuizQuestionOptionC:       req.OptionC,
		QuizQuestionOptionD:       req.OptionD,
		QuizQuestionCorrectAnswer: normalizeAnswerKey(req.CorrectAnswer),
		QuizQuestionPoints:        req.Points,
		QuizQuestionOrderNumber:   orderNumber,
	}

	if err := s.repo.CreateQuestion(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	return dto.ToQuestionResponse(question, true), nil
}

// validateQuestionShape menjaga invariant bentuk soal per tipe quiz.
func validateQuestionShape(quizType string, q dto.CreateQuestionRequest, number int) error {
	switch quizType {
	case model.QuizTypeMultipleChoice:
		if q.OptionA == nil || q.OptionB == nil || q.OptionC == nil || q.OptionD == nil {
			return helper.NewValidationError("Question %d: Multiple choice requires all 4 options", number)
		}
		if q.CorrectAnswer == nil || !validAnswerKeys[strings.ToUpper(*q.CorrectAnswer)] {
			return helper.NewValidationError("Question %d: Multiple choice requires a valid correct answer (A/B/C/D)", number)
		}
	case model.QuizTypeEssay:
		if q.OptionA != nil || q.OptionB != nil || q.OptionC != nil || q.OptionD != nil || q.CorrectAnswer != nil {
			return helper.NewValidationError("Question %d: Essay questions should not have options or correct answer", number)
		}
	}
	if !q.Points.IsPositive() {
		return helper.NewValidationError("Question %d: Points must be positive", number)
	}
	return nil
}

func normalizeAnswerKey(key *string) *string {
	if key == nil {
		return nil
	}
	upper := strings.ToUpper(*key)
	return &upper
}

// =============================
// 📝 Submit Quiz (state machine entry)
// =============================
// Pilihan ganda langsung dinilai; essay masuk state Pending sampai semua
// jawaban dinilai lewat GradeEssay.
func (s *QuizService) SubmitQuiz(ctx context.Context, quizID uuid.UUID, req dto.SubmitQuizRequest, studentID uuid.UUID) (dto.SubmissionResponse, error) {
	quiz, err := s.repo.FindQuizByID(ctx, quizID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if quiz == nil {
		return dto.SubmissionResponse{}, helper.NewNotFoundError("Quiz not found")
	}

	existing, err := s.repo.FindSubmission(ctx, quizID, studentID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if existing != nil {
		return dto.SubmissionResponse{}, helper.NewForbiddenError("You have already submitted this quiz")
	}

	inClass, err := s.enroll.IsStudentInClass(ctx, quiz.QuizClassID, studentID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if !inClass {
		return dto.SubmissionResponse{}, helper.NewForbiddenError("You are not enrolled in this class")
	}

	questionByID := make(map[uuid.UUID]model.QuizQuestionModel, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questionByID[q.QuizQuestionID] = q
	}

	totalPoints := decimal.Zero
	totalEarned := decimal.Zero
	isGraded := true
	answered := make(map[uuid.UUID]bool, len(req.Answers))
	answers := make([]model.QuizAnswerModel, 0, len(req.Answers))

	for _, a := range req.Answers {
		question, ok := questionByID[a.QuestionID]
		if !ok {
			return dto.SubmissionResponse{}, helper.NewValidationError("Invalid question ID: %s", a.QuestionID)
		}
		if answered[a.QuestionID] {
			return dto.SubmissionResponse{}, helper.NewValidationError("Duplicate answer for question %s", a.QuestionID)
		}
		answered[a.QuestionID] = true

		totalPoints = totalPoints.Add(question.QuizQuestionPoints)

		answer := model.QuizAnswerModel{
			QuizAnswerQuestionID: a.QuestionID,
			QuizAnswerText:       a.AnswerText,
		}

		if quiz.QuizType == model.QuizTypeMultipleChoice {
			isCorrect := question.QuizQuestionCorrectAnswer != nil &&
				strings.EqualFold(a.AnswerText, *question.QuizQuestionCorrectAnswer)
			earned := decimal.Zero
			if isCorrect {
				earned = question.QuizQuestionPoints
			}
			totalEarned = totalEarned.Add(earned)
			answer.QuizAnswerIsCorrect = &isCorrect
			answer.QuizAnswerPointsEarned = decimal.NewNullDecimal(earned)
		} else {
			// essay: nilai menunggu dosen
			isGraded = false
		}

		answers = append(answers, answer)
	}

	// setiap soal harus terjawab tepat satu kali
	for _, q := range quiz.Questions {
		if !answered[q.QuizQuestionID] {
			return dto.SubmissionResponse{}, helper.NewValidationError("All questions must be answered (question %s is missing)", q.QuizQuestionID)
		}
	}

	submission := model.QuizSubmissionModel{
		QuizSubmissionQuizID:    quizID,
		QuizSubmissionStudentID: studentID,
		QuizSubmissionIsGraded:  isGraded,
		Answers:                 answers,
	}
	if isGraded {
		submission.QuizSubmissionScore = decimal.NewNullDecimal(weightedPercent(totalEarned, totalPoints))
	}

	if err := s.repo.CreateSubmission(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, helper.TranslateDuplicate(err, "You have already submitted this quiz")
	}

	if isGraded {
		s.triggerRecalc(ctx, studentID)
	}

	return dto.ToSubmissionResponse(submission), nil
}

// =============================
// ✍️ Grade Essay (satu-satunya transisi Pending → Graded)
// =============================
// Dipanggil per jawaban; kelengkapan dievaluasi ulang setiap kali,
// bukan dihitung dari counter.
func (s *QuizService) GradeEssay(ctx context.Context, submissionID, questionID uuid.UUID, pointsEarned decimal.Decimal, lecturerID uuid.UUID) error {
	submission, err := s.repo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		return err
	}
	if submission == nil {
		return helper.NewNotFoundError("Submission not found")
	}
	if submission.Quiz == nil {
		return helper.NewNotFoundError("Quiz not found")
	}
	if submission.Quiz.QuizLecturerID != lecturerID {
		return helper.NewForbiddenError("You don't have access to grade this submission")
	}
	if submission.Quiz.QuizType != model.QuizTypeEssay {
		return helper.NewValidationError("This quiz is not an essay quiz")
	}

	var answer *model.QuizAnswerModel
	for i := range submission.Answers {
		if submission.Answers[i].QuizAnswerQuestionID == questionID {
			answer = &submission.Answers[i]
			break
		}
	}
	if answer == nil {
		return helper.NewNotFoundError("Answer not found")
	}

	questionByID := make(map[uuid.UUID]model.QuizQuestionModel, len(submission.Quiz.Questions))
	for _, q := range submission.Quiz.Questions {
		questionByID[q.QuizQuestionID] = q
	}

	question, ok := questionByID[questionID]
	if !ok {
		return helper.NewNotFoundError("Question not found")
	}

	if pointsEarned.IsNegative() || pointsEarned.GreaterThan(question.QuizQuestionPoints) {
		return helper.NewValidationError("Points must be between 0 and %s", question.QuizQuestionPoints)
	}

	if err := s.repo.UpdateAnswerGrade(ctx, answer.QuizAnswerID, pointsEarned); err != nil {
		return err
	}

	totalPoints := decimal.Zero
	totalEarned := decimal.Zero
	allGraded := true

	for _, ans := range submission.Answers {
		q, ok := questionByID[ans.QuizAnswerQuestionID]
		if !ok {
			continue
		}
		totalPoints = totalPoints.Add(q.QuizQuestionPoints)
		switch {
		case ans.QuizAnswerQuestionID == questionID:
			totalEarned = totalEarned.Add(pointsEarned)
		case ans.QuizAnswerPointsEarned.Valid:
			totalEarned = totalEarned.Add(ans.QuizAnswerPointsEarned.Decimal)
		default:
			allGraded = false
		}
	}

	if allGraded {
		finalScore := weightedPercent(totalEarned, totalPoints)
		if err := s.repo.UpdateSubmissionScore(ctx, submissionID, finalScore, true); err != nil {
			return err
		}
		s.triggerRecalc(ctx, submission.QuizSubmissionStudentID)
	}

	return nil
}

// weightedPercent = totalEarned / totalPoints × 100, dibulatkan 2 desimal.
// totalPoints nol → 0 (guard pembagian nol).
func weightedPercent(totalEarned, totalPoints decimal.Decimal) decimal.Decimal {
	if totalPoints.IsZero() {
		return decimal.Zero
	}
	return totalEarned.Div(totalPoints).Mul(decimal.NewFromInt(100)).Round(2)
}

// triggerRecalc best-effort: status cache Pra Klinik akan dihitung ulang
// lagi di reporting view, jadi kegagalan di sini cukup dicatat.
func (s *QuizService) triggerRecalc(ctx context.Context, studentID uuid.UUID) {
	if s.recalc == nil {
		return
	}
	if err := s.recalc.Recalculate(ctx, studentID); err != nil {
		log.Printf("[WARN] Gagal hitung ulang status Pra Klinik untuk %s: %v", studentID, err)
	}
}

// =============================
// 🔍 Read surfaces
// =============================

func (s *QuizService) GetQuizForLecturer(ctx context.Context, quizID, lecturerID uuid.UUID) (dto.QuizDetailResponse, error) {
	quiz, err := s.repo.FindQuizByID(ctx, quizID)
	if err != nil {
		return dto.QuizDetailResponse{}, err
	}
	if quiz == nil {
		return dto.QuizDetailResponse{}, helper.NewNotFoundError("Quiz not found")
	}
	if quiz.QuizLecturerID != lecturerID {
		return dto.QuizDetailResponse{}, helper.NewForbiddenError("You don't have access to this quiz")
	}
	return dto.ToQuizDetailResponse(*quiz, true), nil
}

// GetQuizForStudent menolak bila mahasiswa sudah pernah submit,
// supaya soal tidak bisa dibuka ulang setelah mengerjakan.
func (s *QuizService) GetQuizForStudent(ctx context.Context, quizID, studentID uuid.UUID) (dto.QuizDetailResponse, error) {
	quiz, err := s.repo.FindQuizByID(ctx, quizID)
	if err != nil {
		return dto.QuizDetailResponse{}, err
	}
	if quiz == nil {
		return dto.QuizDetailResponse{}, helper.NewNotFoundError("Quiz not found")
	}

	inClass, err := s.enroll.IsStudentInClass(ctx, quiz.QuizClassID, studentID)
	if err != nil {
		return dto.QuizDetailResponse{}, err
	}
	if !inClass {
		return dto.QuizDetailResponse{}, helper.NewForbiddenError("You are not enrolled in this class")
	}

	existing, err := s.repo.FindSubmission(ctx, quizID, studentID)
	if err != nil {
		return dto.QuizDetailResponse{}, err
	}
	if existing != nil {
		return dto.QuizDetailResponse{}, helper.NewForbiddenError("You have already submitted this quiz")
	}

	return dto.ToQuizDetailResponse(*quiz, false), nil
}

func (s *QuizService) GetLecturerQuizzes(ctx context.Context, lecturerID uuid.UUID, limit, offset int) ([]dto.QuizResponse, int64, error) {
	quizzes, total, err := s.repo.FindQuizzesByLecturer(ctx, lecturerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, dto.ToQuizResponse(quiz))
	}
	return responses, total, nil
}

func (s *QuizService) GetAvailableQuizzes(ctx context.Context, studentID uuid.UUID) ([]dto.QuizResponse, error) {
	classID, found, err := s.enroll.FindStudentClassID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !found {
		return []dto.QuizResponse{}, nil
	}

	quizzes, err := s.repo.FindAvailableQuizzes(ctx, classID, studentID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, dto.ToQuizResponse(quiz))
	}
	return responses, nil
}

func (s *QuizService) GetStudentResults(ctx context.Context, studentID uuid.UUID) ([]dto.SubmissionResponse, error) {
	submissions, err := s.repo.FindSubmissionsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, dto.ToSubmissionResponse(submission))
	}
	return responses, nil
}

func (s *QuizService) GetQuizSubmissions(ctx context.Context, quizID, lecturerID uuid.UUID) ([]dto.SubmissionResponse, error) {
	quiz, err := s.repo.FindQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, helper.NewNotFoundError("Quiz not found")
	}
	if quiz.QuizLecturerID != lecturerID {
		return nil, helper.NewForbiddenError("You don't have access to this quiz")
	}

	submissions, err := s.repo.FindSubmissionsByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, dto.ToSubmissionResponse(submission))
	}
	return responses, nil
}

func (s *QuizService) GetSubmissionDetail(ctx context.Context, submissionID, studentID uuid.UUID) (dto.SubmissionResponse, error) {
	submission, err := s.repo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if submission == nil {
		return dto.SubmissionResponse{}, helper.NewNotFoundError("Submission not found")
	}
	if submission.QuizSubmissionStudentID != studentID {
		return dto.SubmissionResponse{}, helper.NewForbiddenError("You don't have access to this submission")
	}
	return dto.ToSubmissionResponse(*submission), nil
}

func (s *QuizService) GetQuizStatistics(ctx context.Context, quizID, lecturerID uuid.UUID) (dto.QuizStatisticsResponse, error) {
	quiz, err := s.repo.FindQuizByID(ctx, quizID)
	if err != nil {
		return dto.QuizStatisticsResponse{}, err
	}
	if quiz == nil {
		return dto.QuizStatisticsResponse{}, helper.NewNotFoundError("Quiz not found")
	}
	if quiz.QuizLecturerID != lecturerID {
		return dto.QuizStatisticsResponse{}, helper.NewForbiddenError("You don't have access to this quiz")
	}

	submissions, err := s.repo.FindSubmissionsByQuiz(ctx, quizID)
	if err != nil {
		return dto.QuizStatisticsResponse{}, err
	}

	stats := dto.QuizStatisticsResponse{
		TotalSubmissions: len(submissions),
		QuizType:         quiz.QuizType,
	}

	var scores []decimal.Decimal
	for _, submission := range submissions {
		if submission.QuizSubmissionIsGraded && submission.QuizSubmissionScore.Valid {
			scores = append(scores, submission.QuizSubmissionScore.Decimal)
		}
	}
	if len(scores) == 0 {
		return stats, nil
	}

	sum := decimal.Zero
	max := scores[0]
	min := scores[0]
	for _, score := range scores {
		sum = sum.Add(score)
		if score.GreaterThan(max) {
			max = score
		}
		if score.LessThan(min) {
			min = score
		}
	}

	stats.AvgScore = sum.Div(decimal.NewFromInt(int64(len(scores)))).Round(2)
	stats.MaxScore = max
	stats.MinScore = min
	return stats, nil
}
