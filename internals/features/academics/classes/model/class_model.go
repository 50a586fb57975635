package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "praklinik_backend/internals/features/users/user/model"
)

const (
	ClassStatusActive   = "active"
	ClassStatusInactive = "inactive"
)

// ClassModel: kombinasi nama + tahun akademik unik (strict, tanpa melihat status).
type ClassModel struct {
	ClassID           uuid.UUID      `gorm:"column:class_id;type:uuid;default:gen_random_uuid();primaryKey" json:"class_id"`
	ClassName         string         `gorm:"column:class_name;size:100;not null;uniqueIndex:idx_class_name_year" json:"class_name"`
	ClassAcademicYear string         `gorm:"column:class_academic_year;size:9;not null;uniqueIndex:idx_class_name_year" json:"class_academic_year"`
	ClassStatus       string         `gorm:"column:class_status;type:varchar(20);not null;default:'active'" json:"class_status"`
	ClassCreatedAt    time.Time      `gorm:"column:class_created_at;autoCreateTime" json:"class_created_at"`
	ClassUpdatedAt    time.Time      `gorm:"column:class_updated_at;autoUpdateTime" json:"class_updated_at"`
	ClassDeletedAt    gorm.DeletedAt `gorm:"column:class_deleted_at;index" json:"class_deleted_at"`
}

func (ClassModel) TableName() string {
	return "classes"
}

// ClassStudentModel: roster kelas, satu mahasiswa satu kelas per tahun akademik
// (dicek di service; unique pair dijaga constraint).
type ClassStudentModel struct {
	ClassStudentID        uuid.UUID `gorm:"column:class_student_id;type:uuid;default:gen_random_uuid();primaryKey" json:"class_student_id"`
	ClassStudentClassID   uuid.UUID `gorm:"column:class_student_class_id;type:uuid;not null;uniqueIndex:idx_class_student_pair" json:"class_student_class_id"`
	ClassStudentStudentID uuid.UUID `gorm:"column:class_student_student_id;type:uuid;not null;uniqueIndex:idx_class_student_pair" json:"class_student_student_id"`
	ClassStudentCreatedAt time.Time `gorm:"column:class_student_created_at;autoCreateTime" json:"class_student_created_at"`

	Class   *ClassModel             `gorm:"foreignKey:ClassStudentClassID;references:ClassID" json:"class,omitempty"`
	Student *userModel.StudentModel `gorm:"foreignKey:ClassStudentStudentID;references:StudentID" json:"student,omitempty"`
}

func (ClassStudentModel) TableName() string {
	return "class_students"
}
