package dto

import (
	"time"

	"github.com/google/uuid"

	"praklinik_backend/internals/features/academics/classes/model"
)

// ============================
// Request DTO
// ============================

type CreateClassRequest struct {
	Name         string `json:"name" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required"` // format 2025/2026
}

type UpdateClassRequest struct {
	Name         *string `json:"name"`
	AcademicYear *string `json:"academic_year"`
	Status       *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type AssignStudentsRequest struct {
	StudentIDs []uuid.UUID `json:"student_ids" validate:"required,min=1"`
}

// ============================
// Response DTO
// ============================

type ClassResponse struct {
	ClassID      uuid.UUID `json:"class_id"`
	Name         string    `json:"name"`
	AcademicYear string    `json:"academic_year"`
	Status       string    `json:"status"`
	StudentCount int64     `json:"student_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToClassResponse(m model.ClassModel) ClassResponse {
	return ClassResponse{
		ClassID:      m.ClassID,
		Name:         m.ClassName,
		AcademicYear: m.ClassAcademicYear,
		Status:       m.ClassStatus,
		CreatedAt:    m.ClassCreatedAt,
	}
}
