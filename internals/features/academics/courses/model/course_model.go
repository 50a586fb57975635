package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "praklinik_backend/internals/features/users/user/model"
)

const (
	CourseStatusActive   = "active"
	CourseStatusInactive = "inactive"
)

type CourseModel struct {
	CourseID        uuid.UUID      `gorm:"column:course_id;type:uuid;default:gen_random_uuid();primaryKey" json:"course_id"`
	CourseCode      string         `gorm:"column:course_code;size:20;unique;not null" json:"course_code"`
	CourseName      string         `gorm:"column:course_name;size:255;not null" json:"course_name"`
	CourseStatus    string         `gorm:"column:course_status;type:varchar(20);not null;default:'active'" json:"course_status"`
	CourseCreatedAt time.Time      `gorm:"column:course_created_at;autoCreateTime" json:"course_created_at"`
	CourseUpdatedAt time.Time      `gorm:"column:course_updated_at;autoUpdateTime" json:"course_updated_at"`
	CourseDeletedAt gorm.DeletedAt `gorm:"column:course_deleted_at;index" json:"course_deleted_at"`
}

func (CourseModel) TableName() string {
	return "courses"
}

// LecturerCourseModel: penugasan dosen ke mata kuliah (unique pair).
type LecturerCourseModel struct {
	LecturerCourseID         uuid.UUID `gorm:"column:lecturer_course_id;type:uuid;default:gen_random_uuid();primaryKey" json:"lecturer_course_id"`
	LecturerCourseLecturerID uuid.UUID `gorm:"column:lecturer_course_lecturer_id;type:uuid;not null;uniqueIndex:idx_lecturer_course_pair" json:"lecturer_course_lecturer_id"`
	LecturerCourseCourseID   uuid.UUID `gorm:"column:lecturer_course_course_id;type:uuid;not null;uniqueIndex:idx_lecturer_course_pair" json:"lecturer_course_course_id"`
	LecturerCourseCreatedAt  time.Time `gorm:"column:lecturer_course_created_at;autoCreateTime" json:"lecturer_course_created_at"`

	Lecturer *userModel.LecturerModel `gorm:"foreignKey:LecturerCourseLecturerID;references:LecturerID" json:"lecturer,omitempty"`
	Course   *CourseModel             `gorm:"foreignKey:LecturerCourseCourseID;references:CourseID" json:"course,omitempty"`
}

func (LecturerCourseModel) TableName() string {
	return "lecturer_courses"
}
