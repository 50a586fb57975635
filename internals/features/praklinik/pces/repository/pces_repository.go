package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"praklinik_backend/internals/features/praklinik/pces/model"
)

// PcesRepository: implementasi GORM dari service.Repository.
type PcesRepository struct {
	DB *gorm.DB
}

func NewPcesRepository(db *gorm.DB) *PcesRepository {
	return &PcesRepository{DB: db}
}

func (r *PcesRepository) FindTemplateByID(ctx context.Context, templateID uuid.UUID) (*model.PcesTemplateModel, error) {
	var template model.PcesTemplateModel
	err := r.DB.WithContext(ctx).
		Preload("SopItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("pces_sop_item_order_number ASC")
		}).
		Preload("Course").
		First(&template, "pces_template_id = ?", templateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *PcesRepository) FindTemplates(ctx context.Context, limit, offset int) ([]model.PcesTemplateModel, int64, error) {
	var templates []model.PcesTemplateModel
	var total int64

	if err := r.DB.WithContext(ctx).Model(&model.PcesTemplateModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.WithContext(ctx).
		Preload("SopItems").
		Preload("Course").
		Order("pces_template_created_at DESC").
		Limit(limit).Offset(offset).
		Find(&templates).Error
	return templates, total, err
}

func (r *PcesRepository) FindTemplatesByCourseIDs(ctx context.Context, courseIDs []uuid.UUID) ([]model.PcesTemplateModel, error) {
	var templates []model.PcesTemplateModel
	err := r.DB.WithContext(ctx).
		Preload("SopItems").
		Preload("Course").
		Where("pces_template_course_id IN ?", courseIDs).
		Order("pces_template_created_at DESC").
		Find(&templates).Error
	return templates, err
}

// CreateTemplate menyimpan template + SOP items lewat association GORM.
func (r *PcesRepository) CreateTemplate(ctx context.Context, template *model.PcesTemplateModel) error {
	return r.DB.WithContext(ctx).Create(template).Error
}

func (r *PcesRepository) FindTestByID(ctx context.Context, testID uuid.UUID) (*model.PcesTestModel, error) {
	var test model.PcesTestModel
	err := r.DB.WithContext(ctx).
		Preload("Template").
		Preload("Template.SopItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("pces_sop_item_order_number ASC")
		}).
		Preload("Student").
		Preload("Scores.SopItem").
		First(&test, "pces_test_id = ?", testID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *PcesRepository) FindTestByPair(ctx context.Context, templateID, studentID uuid.UUID) (*model.PcesTestModel, error) {
	var test model.PcesTestModel
	err := r.DB.WithContext(ctx).
		First(&test, "pces_test_template_id = ? AND pces_test_student_id = ?", templateID, studentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *PcesRepository) FindTestsByLecturer(ctx context.Context, lecturerID uuid.UUID, limit, offset int) ([]model.PcesTestModel, int64, error) {
	var tests []model.PcesTestModel
	var total int64

	if err := r.DB.WithContext(ctx).Model(&model.PcesTestModel{}).
		Where("pces_test_lecturer_id = ?", lecturerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.WithContext(ctx).
		Preload("Template").
		Preload("Student").
		Where("pces_test_lecturer_id = ?", lecturerID).
		Order("pces_test_created_at DESC").
		Limit(limit).Offset(offset).
		Find(&tests).Error
	return tests, total, err
}

func (r *PcesRepository) FindTestsByStudent(ctx context.Context, studentID uuid.UUID) ([]model.PcesTestModel, error) {
	var tests []model.PcesTestModel
	err := r.DB.WithContext(ctx).
		Preload("Template").
		Preload("Scores.SopItem").
		Where("pces_test_student_id = ?", studentID).
		Order("pces_test_created_at DESC").
		Find(&tests).Error
	return tests, err
}

// CreateTest menyimpan test + semua skor atomik.
func (r *PcesRepository) CreateTest(ctx context.Context, test *model.PcesTestModel) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(test).Error
	})
}

// ReplaceTestScores: retake. Hapus semua skor lama, tulis set baru,
// perbarui tanggal + total — satu transaksi.
func (r *PcesRepository) ReplaceTestScores(ctx context.Context, testID uuid.UUID, testDate datatypes.Date, totalScore decimal.Decimal, scores []model.PcesScoreModel) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pces_score_test_id = ?", testID).
			Delete(&model.PcesScoreModel{}).Error; err != nil {
			return err
		}
		if len(scores) > 0 {
			if err := tx.Create(&scores).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.PcesTestModel{}).
			Where("pces_test_id = ?", testID).
			Updates(map[string]interface{}{
				"pces_test_date":        testDate,
				"pces_test_total_score": totalScore,
			}).Error
	})
}
