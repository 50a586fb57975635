package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"praklinik_backend/internals/features/praklinik/quiz/model"
)

// ============================
// Request DTO
// ============================

type CreateQuestionRequest struct {
	QuestionText  string          `json:"question_text" validate:"required"`
	OptionA       *string         `json:"option_a"`
	OptionB       *string         `json:"option_b"`
	OptionC       *string         `json:"option_c"`
	OptionD       *string         `json:"option_d"`
	CorrectAnswer *string         `json:"correct_answer"`
	Points        decimal.Decimal `json:"points" validate:"required"`
	OrderNumber   int             `json:"order_number"`
}

type CreateQuizRequest struct {
	CourseID    uuid.UUID               `json:"course_id" validate:"required"`
	ClassID     uuid.UUID               `json:"class_id" validate:"required"`
	Title       string                  `json:"title" validate:"required"`
	Description *string                 `json:"description"`
	QuizType    string                  `json:"quiz_type" validate:"required,oneof=multiple_choice essay"`
	Questions   []CreateQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

type SubmitAnswerRequest struct {
	QuestionID uuid.UUID `json:"question_id" validate:"required"`
	AnswerText string    `json:"answer_text" validate:"required"`
}

type SubmitQuizRequest struct {
	Answers []SubmitAnswerRequest `json:"answers" validate:"required,min=1,dive"`
}

type GradeEssayRequest struct {
	PointsEarned decimal.Decimal `json:"points_earned"`
}

// ============================
// Response DTO
// ============================

type QuestionResponse struct {
	QuestionID    uuid.UUID       `json:"question_id"`
	QuestionText  string          `json:"question_text"`
	OptionA       *string         `json:"option_a,omitempty"`
	OptionB       *string         `json:"option_b,omitempty"`
	OptionC       *string         `json:"option_c,omitempty"`
	OptionD       *string         `json:"option_d,omitempty"`
	CorrectAnswer *string         `json:"correct_answer,omitempty"`
	Points        decimal.Decimal `json:"points"`
	OrderNumber   int             `json:"order_number"`
}

type QuizResponse struct {
	QuizID        uuid.UUID       `json:"quiz_id"`
	Title         string          `json:"title"`
	Description   *string         `json:"description,omitempty"`
	QuizType      string          `json:"quiz_type"`
	CourseID      uuid.UUID       `json:"course_id"`
	ClassID       uuid.UUID       `json:"class_id"`
	QuestionCount int             `json:"question_count"`
	TotalPoints   decimal.Decimal `json:"total_points"`
	CreatedAt     time.Time       `json:"created_at"`
}

type QuizDetailResponse struct {
	QuizID      uuid.UUID          `json:"quiz_id"`
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	QuizType    string             `json:"quiz_type"`
	CourseID    uuid.UUID          `json:"course_id"`
	ClassID     uuid.UUID          `json:"class_id"`
	Questions   []QuestionResponse `json:"questions"`
}

type AnswerResponse struct {
	AnswerID     uuid.UUID        `json:"answer_id"`
	QuestionID   uuid.UUID        `json:"question_id"`
	AnswerText   string           `json:"answer_text"`
	IsCorrect    *bool            `json:"is_correct"`
	PointsEarned *decimal.Decimal `json:"points_earned"`
}

type SubmissionResponse struct {
	SubmissionID uuid.UUID        `json:"submission_id"`
	QuizID       uuid.UUID        `json:"quiz_id"`
	StudentID    uuid.UUID        `json:"student_id"`
	Score        *decimal.Decimal `json:"score"`
	IsGraded     bool             `json:"is_graded"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	Answers      []AnswerResponse `json:"answers,omitempty"`
}

type QuizStatisticsResponse struct {
	AvgScore         decimal.Decimal `json:"avg_score"`
	MaxScore         decimal.Decimal `json:"max_score"`
	MinScore         decimal.Decimal `json:"min_score"`
	TotalSubmissions int             `json:"total_submissions"`
	QuizType         string          `json:"quiz_type"`
}

// ============================
// Converter
// ============================

func ToQuestionResponse(m model.QuizQuestionModel, includeAnswer bool) QuestionResponse {
	resp := QuestionResponse{
		QuestionID:   m.QuizQuestionID,
		QuestionText: m.QuizQuestionText,
		OptionA:      m.QuizQuestionOptionA,
		OptionB:      m.QuizQuestionOptionB,
		OptionC:      m.QuizQuestionOptionC,
		OptionD:      m.QuizQuestionOptionD,
		Points:       m.QuizQuestionPoints,
		OrderNumber:  m.QuizQuestionOrderNumber,
	}
	if includeAnswer {
		resp.CorrectAnswer = m.QuizQuestionCorrectAnswer
	}
	return resp
}

func ToQuizResponse(m model.QuizModel) QuizResponse {
	totalPoints := decimal.Zero
	for _, q := range m.Questions {
		totalPoints = totalPoints.Add(q.QuizQuestionPoints)
	}
	return QuizResponse{
		QuizID:        m.QuizID,
		Title:         m.QuizTitle,
		Description:   m.QuizDescription,
		QuizType:      m.QuizType,
		CourseID:      m.QuizCourseID,
		ClassID:       m.QuizClassID,
		QuestionCount: len(m.Questions),
		TotalPoints:   totalPoints,
		CreatedAt:     m.QuizCreatedAt,
	}
}

// ToQuizDetailResponse: includeAnswer=false untuk tampilan mahasiswa
// (kunci jawaban tidak boleh bocor).
func ToQuizDetailResponse(m model.QuizModel, includeAnswer bool) QuizDetailResponse {
	questions := make([]QuestionResponse, 0, len(m.Questions))
	for _, q := range m.Questions {
		questions = append(questions, ToQuestionResponse(q, includeAnswer))
	}
	return QuizDetailResponse{
		QuizID:      m.QuizID,
		Title:       m.QuizTitle,
		Description: m.QuizDescription,
		QuizType:    m.QuizType,
		CourseID:    m.QuizCourseID,
		ClassID:     m.QuizClassID,
		Questions:   questions,
	}
}

func ToAnswerResponse(m model.QuizAnswerModel) AnswerResponse {
	resp := AnswerResponse{
		AnswerID:   m.QuizAnswerID,
		QuestionID: m.QuizAnswerQuestionID,
		AnswerText: m.QuizAnswerText,
		IsCorrect:  m.QuizAnswerIsCorrect,
	}
	if m.QuizAnswerPointsEarned.Valid {
		points := m.QuizAnswerPointsEarned.Decimal
		resp.PointsEarned = &points
	}
	return resp
}

func ToSubmissionResponse(m model.QuizSubmissionModel) SubmissionResponse {
	resp := SubmissionResponse{
		SubmissionID: m.QuizSubmissionID,
		QuizID:       m.QuizSubmissionQuizID,
		StudentID:    m.QuizSubmissionStudentID,
		IsGraded:     m.QuizSubmissionIsGraded,
		SubmittedAt:  m.QuizSubmissionSubmittedAt,
	}
	if m.QuizSubmissionScore.Valid {
		score := m.QuizSubmissionScore.Decimal
		resp.Score = &score
	}
	for _, a := range m.Answers {
		resp.Answers = append(resp.Answers, ToAnswerResponse(a))
	}
	return resp
}
