package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"praklinik_backend/internals/features/praklinik/pces/model"
)

// ============================
// Request DTO
// ============================

type CreateSopItemRequest struct {
	Description string `json:"description" validate:"required"`
	OrderNumber int    `json:"order_number"`
}

type CreateTemplateRequest struct {
	CourseID    uuid.UUID              `json:"course_id" validate:"required"`
	Name        string                 `json:"name" validate:"required"`
	Description *string                `json:"description"`
	SopItems    []CreateSopItemRequest `json:"sop_items" validate:"required,min=1,dive"`
}

type ScoreItemRequest struct {
	SopItemID uuid.UUID `json:"sop_item_id" validate:"required"`
	Value     int       `json:"value" validate:"required"`
}

type CreatePcesTestRequest struct {
	TemplateID uuid.UUID          `json:"template_id" validate:"required"`
	StudentID  uuid.UUID          `json:"student_id" validate:"required"`
	ClassID    uuid.UUID          `json:"class_id" validate:"required"`
	TestDate   string             `json:"test_date" validate:"required"` // YYYY-MM-DD
	Scores     []ScoreItemRequest `json:"scores" validate:"required,min=1,dive"`
}

type UpdatePcesTestRequest struct {
	TestDate *string            `json:"test_date"`
	Scores   []ScoreItemRequest `json:"scores" validate:"required,min=1,dive"`
}

// ============================
// Response DTO
// ============================

type SopItemResponse struct {
	SopItemID   uuid.UUID `json:"sop_item_id"`
	Description string    `json:"description"`
	OrderNumber int       `json:"order_number"`
}

type TemplateResponse struct {
	TemplateID   uuid.UUID `json:"template_id"`
	CourseID     uuid.UUID `json:"course_id"`
	CourseName   string    `json:"course_name,omitempty"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	SopItemCount int       `json:"sop_item_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type TemplateDetailResponse struct {
	TemplateID  uuid.UUID         `json:"template_id"`
	CourseID    uuid.UUID         `json:"course_id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	SopItems    []SopItemResponse `json:"sop_items"`
}

type ScoreResponse struct {
	ScoreID     uuid.UUID `json:"score_id"`
	SopItemID   uuid.UUID `json:"sop_item_id"`
	Description string    `json:"description,omitempty"`
	OrderNumber int       `json:"order_number,omitempty"`
	Value       int       `json:"value"`
}

type PcesTestResponse struct {
	TestID       uuid.UUID        `json:"test_id"`
	TemplateID   uuid.UUID        `json:"template_id"`
	TemplateName string           `json:"template_name,omitempty"`
	StudentID    uuid.UUID        `json:"student_id"`
	StudentName  string           `json:"student_name,omitempty"`
	StudentNIM   string           `json:"student_nim,omitempty"`
	CourseID     uuid.UUID        `json:"course_id"`
	ClassID      uuid.UUID        `json:"class_id"`
	TestDate     time.Time        `json:"test_date"`
	TotalScore   *decimal.Decimal `json:"total_score"`
	CreatedAt    time.Time        `json:"created_at"`
}

type PcesTestDetailResponse struct {
	PcesTestResponse
	Scores []ScoreResponse `json:"scores"`
}

// ============================
// Converter
// ============================

func ToSopItemResponse(m model.PcesSopItemModel) SopItemResponse {
	return SopItemResponse{
		SopItemID:   m.PcesSopItemID,
		Description: m.PcesSopItemDescription,
		OrderNumber: m.PcesSopItemOrderNumber,
	}
}

func ToTemplateResponse(m model.PcesTemplateModel) TemplateResponse {
	resp := TemplateResponse{
		TemplateID:   m.PcesTemplateID,
		CourseID:     m.PcesTemplateCourseID,
		Name:         m.PcesTemplateName,
		Description:  m.PcesTemplateDescription,
		SopItemCount: len(m.SopItems),
		CreatedAt:    m.PcesTemplateCreatedAt,
	}
	if m.Course != nil {
		resp.CourseName = m.Course.CourseName
	}
	return resp
}

func ToTemplateDetailResponse(m model.PcesTemplateModel) TemplateDetailResponse {
	items := make([]SopItemResponse, 0, len(m.SopItems))
	for _, item := range m.SopItems {
		items = append(items, ToSopItemResponse(item))
	}
	return TemplateDetailResponse{
		TemplateID:  m.PcesTemplateID,
		CourseID:    m.PcesTemplateCourseID,
		Name:        m.PcesTemplateName,
		Description: m.PcesTemplateDescription,
		SopItems:    items,
	}
}

func ToPcesTestResponse(m model.PcesTestModel) PcesTestResponse {
	resp := PcesTestResponse{
		TestID:     m.PcesTestID,
		TemplateID: m.PcesTestTemplateID,
		StudentID:  m.PcesTestStudentID,
		CourseID:   m.PcesTestCourseID,
		ClassID:    m.PcesTestClassID,
		TestDate:   time.Time(m.PcesTestDate),
		CreatedAt:  m.PcesTestCreatedAt,
	}
	if m.PcesTestTotalScore.Valid {
		total := m.PcesTestTotalScore.Decimal
		resp.TotalScore = &total
	}
	if m.Template != nil {
		resp.TemplateName = m.Template.PcesTemplateName
	}
	if m.Student != nil {
		resp.StudentName = m.Student.StudentName
		resp.StudentNIM = m.Student.StudentNIM
	}
	return resp
}

func ToPcesTestDetailResponse(m model.PcesTestModel) PcesTestDetailResponse {
	resp := PcesTestDetailResponse{PcesTestResponse: ToPcesTestResponse(m)}
	for _, score := range m.Scores {
		sr := ScoreResponse{
			ScoreID:   score.PcesScoreID,
			SopItemID: score.PcesScoreSopItemID,
			Value:     score.PcesScoreValue,
		}
		if score.SopItem != nil {
			sr.Description = score.SopItem.PcesSopItemDescription
			sr.OrderNumber = score.SopItem.PcesSopItemOrderNumber
		}
		resp.Scores = append(resp.Scores, sr)
	}
	return resp
}
