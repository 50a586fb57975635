package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	classModel "praklinik_backend/internals/features/academics/classes/model"
	pcesModel "praklinik_backend/internals/features/praklinik/pces/model"
	quizModel "praklinik_backend/internals/features/praklinik/quiz/model"
	userModel "praklinik_backend/internals/features/users/user/model"
)

// CalculationRepository: akses data lintas fitur untuk aggregator Pra Klinik.
type CalculationRepository struct {
	DB *gorm.DB
}

func NewCalculationRepository(db *gorm.DB) *CalculationRepository {
	return &CalculationRepository{DB: db}
}

func (r *CalculationRepository) FindGradedSubmissionsByStudent(ctx context.Context, studentID uuid.UUID) ([]quizModel.QuizSubmissionModel, error) {
	var submissions []quizModel.QuizSubmissionModel
	err := r.DB.WithContext(ctx).
		Preload("Quiz").
		Where("quiz_submission_student_id = ? AND quiz_submission_is_graded = ?", studentID, true).
		Order("quiz_submission_submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *CalculationRepository) FindPcesTestsByStudent(ctx context.Context, studentID uuid.UUID) ([]pcesModel.PcesTestModel, error) {
	var tests []pcesModel.PcesTestModel
	err := r.DB.WithContext(ctx).
		Preload("Template").
		Where("pces_test_student_id = ?", studentID).
		Order("pces_test_created_at DESC").
		Find(&tests).Error
	return tests, err
}

func (r *CalculationRepository) FindStudentByID(ctx context.Context, studentID uuid.UUID) (*userModel.StudentModel, error) {
	var student userModel.StudentModel
	err := r.DB.WithContext(ctx).
		First(&student, "student_id = ?", studentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *CalculationRepository) FindClassByID(ctx context.Context, classID uuid.UUID) (*classModel.ClassModel, error) {
	var class classModel.ClassModel
	err := r.DB.WithContext(ctx).
		First(&class, "class_id = ?", classID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *CalculationRepository) FindClassRoster(ctx context.Context, classID uuid.UUID) ([]userModel.StudentModel, error) {
	var students []userModel.StudentModel
	err := r.DB.WithContext(ctx).
		Joins("JOIN class_students ON class_students.class_student_student_id = students.student_id").
		Where("class_students.class_student_class_id = ?", classID).
		Order("students.student_nim ASC").
		Find(&students).Error
	return students, err
}

// UpdateStudentPreClinicalStatus menulis cache status di tabel students.
func (r *CalculationRepository) UpdateStudentPreClinicalStatus(ctx context.Context, studentID uuid.UUID, score decimal.Decimal, passed bool) error {
	return r.DB.WithContext(ctx).Model(&userModel.StudentModel{}).
		Where("student_id = ?", studentID).
		Updates(map[string]interface{}{
			"student_pre_clinical_score":  score,
			"student_pre_clinical_passed": passed,
		}).Error
}
