package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	classModel "praklinik_backend/internals/features/academics/classes/model"
	courseModel "praklinik_backend/internals/features/academics/courses/model"
	userModel "praklinik_backend/internals/features/users/user/model"
)

const (
	QuizTypeMultipleChoice = "multiple_choice"
	QuizTypeEssay          = "essay"
)

type QuizModel struct {
	QuizID          uuid.UUID `gorm:"column:quiz_id;type:uuid;default:gen_random_uuid();primaryKey" json:"quiz_id"`
	QuizCourseID    uuid.UUID `gorm:"column:quiz_course_id;type:uuid;not null" json:"quiz_course_id"`
	QuizClassID     uuid.UUID `gorm:"column:quiz_class_id;type:uuid;not null" json:"quiz_class_id"`
	QuizLecturerID  uuid.UUID `gorm:"column:quiz_lecturer_id;type:uuid;not null" json:"quiz_lecturer_id"`
	QuizTitle       string    `gorm:"column:quiz_title;size:255;not null" json:"quiz_title"`
	QuizDescription *string   `gorm:"column:quiz_description;type:text" json:"quiz_description"`
	QuizType        string    `gorm:"column:quiz_type;type:varchar(20);not null" json:"quiz_type"`
	QuizCreatedAt   time.Time `gorm:"column:quiz_created_at;autoCreateTime" json:"quiz_created_at"`

	Course    *courseModel.CourseModel `gorm:"foreignKey:QuizCourseID;references:CourseID" json:"course,omitempty"`
	Class     *classModel.ClassModel   `gorm:"foreignKey:QuizClassID;references:ClassID" json:"class,omitempty"`
	Lecturer  *userModel.LecturerModel `gorm:"foreignKey:QuizLecturerID;references:LecturerID" json:"lecturer,omitempty"`
	Questions []QuizQuestionModel      `gorm:"foreignKey:QuizQuestionQuizID;references:QuizID" json:"questions,omitempty"`
}

func (QuizModel) TableName() string {
	return "quizzes"
}

// QuizQuestionModel: soal pilihan ganda wajib punya 4 opsi + kunci A-D,
// soal essay tidak boleh punya keduanya (dijaga di service).
type QuizQuestionModel struct {
	QuizQuestionID            uuid.UUID       `gorm:"column:quiz_question_id;type:uuid;default:gen_random_uuid();primaryKey" json:"quiz_question_id"`
	QuizQuestionQuizID        uuid.UUID       `gorm:"column:quiz_question_quiz_id;type:uuid;not null;index" json:"quiz_question_quiz_id"`
	QuizQuestionText          string          `gorm:"column:quiz_question_text;type:text;not null" json:"quiz_question_text"`
	QuizQuestionOptionA       *string         `gorm:"column:quiz_question_option_a;type:text" json:"quiz_question_option_a"`
	QuizQuestionOptionB       *string         `gorm:"column:quiz_question_option_b;type:text" json:"quiz_question_option_b"`
	QuizQuestionOptionC       *string         `gorm:"column:quiz_question_option_c;type:text" json:"quiz_question_option_c"`
	QuizQuestionOptionD       *string         `gorm:"column:quiz_question_option_d;type:text" json:"quiz_question_option_d"`
	QuizQuestionCorrectAnswer *string         `gorm:"column:quiz_question_correct_answer;type:varchar(1)" json:"quiz_question_correct_answer"`
	QuizQuestionPoints        decimal.Decimal `gorm:"column:quiz_question_points;type:numeric(6,2);not null" json:"quiz_question_points"`
	QuizQuestionOrderNumber   int             `gorm:"column:quiz_question_order_number;not null" json:"quiz_question_order_number"`
}

func (QuizQuestionModel) TableName() string {
	return "quiz_questions"
}

// QuizSubmissionModel: satu submission per (quiz, student) — unique pair.
// Score & is_graded mengikuti state machine Pending → Graded.
type QuizSubmissionModel struct {
	QuizSubmissionID          uuid.UUID           `gorm:"column:quiz_submission_id;type:uuid;default:gen_random_uuid();primaryKey" json:"quiz_submission_id"`
	QuizSubmissionQuizID      uuid.UUID           `gorm:"column:quiz_submission_quiz_id;type:uuid;not null;uniqueIndex:idx_quiz_submission_pair" json:"quiz_submission_quiz_id"`
	QuizSubmissionStudentID   uuid.UUID           `gorm:"column:quiz_submission_student_id;type:uuid;not null;uniqueIndex:idx_quiz_submission_pair" json:"quiz_submission_student_id"`
	QuizSubmissionScore       decimal.NullDecimal `gorm:"column:quiz_submission_score;type:numeric(6,2)" json:"quiz_submission_score"`
	QuizSubmissionIsGraded    bool                `gorm:"column:quiz_submission_is_graded;not null;default:false" json:"quiz_submission_is_graded"`
	QuizSubmissionSubmittedAt time.Time           `gorm:"column:quiz_submission_submitted_at;autoCreateTime" json:"quiz_submission_submitted_at"`

	Quiz    *QuizModel              `gorm:"foreignKey:QuizSubmissionQuizID;references:QuizID" json:"quiz,omitempty"`
	Student *userModel.StudentModel `gorm:"foreignKey:QuizSubmissionStudentID;references:StudentID" json:"student,omitempty"`
	Answers []QuizAnswerModel       `gorm:"foreignKey:QuizAnswerSubmissionID;references:QuizSubmissionID" json:"answers,omitempty"`
}

func (QuizSubmissionModel) TableName() string {
	return "quiz_submissions"
}

// QuizAnswerModel: is_correct & points_earned null selama jawaban essay
// belum dinilai dosen.
type QuizAnswerModel struct {
	QuizAnswerID           uuid.UUID           `gorm:"column:quiz_answer_id;type:uuid;default:gen_random_uuid();primaryKey" json:"quiz_answer_id"`
	QuizAnswerSubmissionID uuid.UUID           `gorm:"column:quiz_answer_submission_id;type:uuid;not null;index" json:"quiz_answer_submission_id"`
	QuizAnswerQuestionID   uuid.UUID           `gorm:"column:quiz_answer_question_id;type:uuid;not null" json:"quiz_answer_question_id"`
	QuizAnswerText         string              `gorm:"column:quiz_answer_text;type:text;not null" json:"quiz_answer_text"`
	QuizAnswerIsCorrect    *bool               `gorm:"column:quiz_answer_is_correct" json:"quiz_answer_is_correct"`
	QuizAnswerPointsEarned decimal.NullDecimal `gorm:"column:quiz_answer_points_earned;type:numeric(6,2)" json:"quiz_answer_points_earned"`

	Question *QuizQuestionModel `gorm:"foreignKey:QuizAnswerQuestionID;references:QuizQuestionID" json:"question,omitempty"`
}

func (QuizAnswerModel) TableName() string {
	return "quiz_answers"
}
