package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"praklinik_backend/internals/features/praklinik/quiz/model"
)

// QuizRepository: implementasi GORM dari service.Repository.
type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) FindQuizByID(ctx context.Context, quizID uuid.UUID) (*model.QuizModel, error) {
	var quiz model.QuizModel
	err := r.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_question_order_number ASC")
		}).
		First(&quiz, "quiz_id = ?", quizID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindSubmission(ctx context.Context, quizID, studentID uuid.UUID) (*model.QuizSubmissionModel, error) {
	var submission model.QuizSubmissionModel
	err := r.DB.WithContext(ctx).
		First(&submission, "quiz_submission_quiz_id = ? AND quiz_submission_student_id = ?", quizID, studentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *QuizRepository) FindSubmissionByID(ctx context.Context, submissionID uuid.UUID) (*model.QuizSubmissionModel, error) {
	var submission model.QuizSubmissionModel
	err := r.DB.WithContext(ctx).
		Preload("Quiz").
		Preload("Quiz.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_question_order_number ASC")
		}).
		Preload("Answers").
		First(&submission, "quiz_submission_id = ?", submissionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *QuizRepository) FindSubmissionsByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.QuizSubmissionModel, error) {
	var submissions []model.QuizSubmissionModel
	err := r.DB.WithContext(ctx).
		Preload("Student").
		Where("quiz_submission_quiz_id = ?", quizID).
		Order("quiz_submission_submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *QuizRepository) FindSubmissionsByStudent(ctx context.Context, studentID uuid.UUID) ([]model.QuizSubmissionModel, error) {
	var submissions []model.QuizSubmissionModel
	err := r.DB.WithContext(ctx).
		Preload("Quiz").
		Where("quiz_submission_student_id = ?", studentID).
		Order("quiz_submission_submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *QuizRepository) FindQuizzesByLecturer(ctx context.Context, lecturerID uuid.UUID, limit, offset int) ([]model.QuizModel, int64, error) {
	var quizzes []model.QuizModel
	var total int64

	if err := r.DB.WithContext(ctx).Model(&model.QuizModel{}).
		Where("quiz_lecturer_id = ?", lecturerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.WithContext(ctx).
		Preload("Questions").
		Where("quiz_lecturer_id = ?", lecturerID).
		Order("quiz_created_at DESC").
		Limit(limit).Offset(offset).
		Find(&quizzes).Error
	return quizzes, total, err
}

// FindAvailableQuizzes: quiz kelas mahasiswa yang belum pernah dia submit.
func (r *QuizRepository) FindAvailableQuizzes(ctx context.Context, classID, studentID uuid.UUID) ([]model.QuizModel, error) {
	var quizzes []model.QuizModel
	err := r.DB.WithContext(ctx).
		Preload("Questions").
		Where("quiz_class_id = ?", classID).
		Where("quiz_id NOT IN (?)",
			r.DB.Model(&model.QuizSubmissionModel{}).
				Select("quiz_submission_quiz_id").
				Where("quiz_submission_student_id = ?", studentID),
		).
		Order("quiz_created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// CreateQuiz menyimpan quiz + soal dalam satu transaksi (association GORM).
func (r *QuizRepository) CreateQuiz(ctx context.Context, quiz *model.QuizModel) error {
	return r.DB.WithContext(ctx).Create(quiz).Error
}

func (r *QuizRepository) CreateQuestion(ctx context.Context, question *model.QuizQuestionModel) error {
	return r.DB.WithContext(ctx).Create(question).Error
}

// CreateSubmission menyimpan submission + semua jawaban atomik;
// gagal sebagian → rollback seluruhnya.
func (r *QuizRepository) CreateSubmission(ctx context.Context, submission *model.QuizSubmissionModel) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(submission).Error
	})
}

func (r *QuizRepository) UpdateAnswerGrade(ctx context.Context, answerID uuid.UUID, pointsEarned decimal.Decimal) error {
	return r.DB.WithContext(ctx).Model(&model.QuizAnswerModel{}).
		Where("quiz_answer_id = ?", answerID).
		Update("quiz_answer_points_earned", pointsEarned).Error
}

func (r *QuizRepository) UpdateSubmissionScore(ctx context.Context, submissionID uuid.UUID, score decimal.Decimal, isGraded bool) error {
	return r.DB.WithContext(ctx).Model(&model.QuizSubmissionModel{}).
		Where("quiz_submission_id = ?", submissionID).
		Updates(map[string]interface{}{
			"quiz_submission_score":     score,
			"quiz_submission_is_graded": isGraded,
		}).Error
}
