// Package enrollment menjawab pertanyaan relasi lintas fitur:
// keanggotaan kelas mahasiswa dan penugasan dosen ke mata kuliah.
// Dipakai oleh service quiz, pces, dan calculation.
package enrollment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	classModel "praklinik_backend/internals/features/academics/classes/model"
	courseModel "praklinik_backend/internals/features/academics/courses/model"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) ClassExists(ctx context.Context, classID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&classModel.ClassModel{}).
		Where("class_id = ?", classID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) CourseExists(ctx context.Context, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&courseModel.CourseModel{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) IsStudentInClass(ctx context.Context, classID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&classModel.ClassStudentModel{}).
		Where("class_student_class_id = ? AND class_student_student_id = ?", classID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) IsLecturerOnCourse(ctx context.Context, courseID, lecturerID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&courseModel.LecturerCourseModel{}).
		Where("lecturer_course_course_id = ? AND lecturer_course_lecturer_id = ?", courseID, lecturerID).
		Count(&count).Error
	return count > 0, err
}

// FindStudentClassID: kelas aktif mahasiswa (satu kelas per tahun akademik).
func (r *Repository) FindStudentClassID(ctx context.Context, studentID uuid.UUID) (uuid.UUID, bool, error) {
	var cs classModel.ClassStudentModel
	err := r.DB.WithContext(ctx).
		Where("class_student_student_id = ?", studentID).
		Order("class_student_created_at DESC").
		First(&cs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return cs.ClassStudentClassID, true, nil
}

// FindLecturerCourseIDs: semua mata kuliah yang diampu dosen.
func (r *Repository) FindLecturerCourseIDs(ctx context.Context, lecturerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.WithContext(ctx).Model(&courseModel.LecturerCourseModel{}).
		Where("lecturer_course_lecturer_id = ?", lecturerID).
		Pluck("lecturer_course_course_id", &ids).Error
	return ids, err
}
