package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	classModel "praklinik_backend/internals/features/academics/classes/model"
	courseModel "praklinik_backend/internals/features/academics/courses/model"
	userModel "praklinik_backend/internals/features/users/user/model"
)

type PcesTemplateModel struct {
	PcesTemplateID          uuid.UUID `gorm:"column:pces_template_id;type:uuid;default:gen_random_uuid();primaryKey" json:"pces_template_id"`
	PcesTemplateCourseID    uuid.UUID `gorm:"column:pces_template_course_id;type:uuid;not null" json:"pces_template_course_id"`
	PcesTemplateName        string    `gorm:"column:pces_template_name;size:255;not null" json:"pces_template_name"`
	PcesTemplateDescription *string   `gorm:"column:pces_template_description;type:text" json:"pces_template_description"`
	PcesTemplateCreatedAt   time.Time `gorm:"column:pces_template_created_at;autoCreateTime" json:"pces_template_created_at"`

	Course   *courseModel.CourseModel `gorm:"foreignKey:PcesTemplateCourseID;references:CourseID" json:"course,omitempty"`
	SopItems []PcesSopItemModel       `gorm:"foreignKey:PcesSopItemTemplateID;references:PcesTemplateID" json:"sop_items,omitempty"`
}

func (PcesTemplateModel) TableName() string {
	return "pces_templates"
}

type PcesSopItemModel struct {
	PcesSopItemID          uuid.UUID `gorm:"column:pces_sop_item_id;type:uuid;default:gen_random_uuid();primaryKey" json:"pces_sop_item_id"`
	PcesSopItemTemplateID  uuid.UUID `gorm:"column:pces_sop_item_template_id;type:uuid;not null;index" json:"pces_sop_item_template_id"`
	PcesSopItemDescription string    `gorm:"column:pces_sop_item_description;type:text;not null" json:"pces_sop_item_description"`
	PcesSopItemOrderNumber int       `gorm:"column:pces_sop_item_order_number;not null" json:"pces_sop_item_order_number"`
}

func (PcesSopItemModel) TableName() string {
	return "pces_sop_items"
}

// PcesTestModel: satu test per (template, student) — unique pair; retake
// lewat jalur update, bukan create. total_score = avg(skor item) × 20.
type PcesTestModel struct {
	PcesTestID         uuid.UUID           `gorm:"column:pces_test_id;type:uuid;default:gen_random_uuid();primaryKey" json:"pces_test_id"`
	PcesTestTemplateID uuid.UUID           `gorm:"column:pces_test_template_id;type:uuid;not null;uniqueIndex:idx_pces_test_pair" json:"pces_test_template_id"`
	PcesTestStudentID  uuid.UUID           `gorm:"column:pces_test_student_id;type:uuid;not null;uniqueIndex:idx_pces_test_pair" json:"pces_test_student_id"`
	PcesTestCourseID   uuid.UUID           `gorm:"column:pces_test_course_id;type:uuid;not null" json:"pces_test_course_id"`
	PcesTestClassID    uuid.UUID           `gorm:"column:pces_test_class_id;type:uuid;not null" json:"pces_test_class_id"`
	PcesTestLecturerID uuid.UUID           `gorm:"column:pces_test_lecturer_id;type:uuid;not null" json:"pces_test_lecturer_id"`
	PcesTestDate       datatypes.Date      `gorm:"column:pces_test_date;not null" json:"pces_test_date"`
	PcesTestTotalScore decimal.NullDecimal `gorm:"column:pces_test_total_score;type:numeric(6,2)" json:"pces_test_total_score"`
	PcesTestCreatedAt  time.Time           `gorm:"column:pces_test_created_at;autoCreateTime" json:"pces_test_created_at"`

	Template *PcesTemplateModel       `gorm:"foreignKey:PcesTestTemplateID;references:PcesTemplateID" json:"template,omitempty"`
	Student  *userModel.StudentModel  `gorm:"foreignKey:PcesTestStudentID;references:StudentID" json:"student,omitempty"`
	Course   *courseModel.CourseModel `gorm:"foreignKey:PcesTestCourseID;references:CourseID" json:"course,omitempty"`
	Class    *classModel.ClassModel   `gorm:"foreignKey:PcesTestClassID;references:ClassID" json:"class,omitempty"`
	Lecturer *userModel.LecturerModel `gorm:"foreignKey:PcesTestLecturerID;references:LecturerID" json:"lecturer,omitempty"`
	Scores   []PcesScoreModel         `gorm:"foreignKey:PcesScoreTestID;references:PcesTestID" json:"scores,omitempty"`
}

func (PcesTestModel) TableName() string {
	return "pces_tests"
}

// PcesScoreModel: skor 1..5 per SOP item (range dijaga di service).
type PcesScoreModel struct {
	PcesScoreID        uuid.UUID `gorm:"column:pces_score_id;type:uuid;default:gen_random_uuid();primaryKey" json:"pces_score_id"`
	PcesScoreTestID    uuid.UUID `gorm:"column:pces_score_test_id;type:uuid;not null;uniqueIndex:idx_pces_score_pair" json:"pces_score_test_id"`
	PcesScoreSopItemID uuid.UUID `gorm:"column:pces_score_sop_item_id;type:uuid;not null;uniqueIndex:idx_pces_score_pair" json:"pces_score_sop_item_id"`
	PcesScoreValue     int       `gorm:"column:pces_score_value;not null" json:"pces_score_value"`

	SopItem *PcesSopItemModel `gorm:"foreignKey:PcesScoreSopItemID;references:PcesSopItemID" json:"sop_item,omitempty"`
}

func (PcesScoreModel) TableName() string {
	return "pces_scores"
}
