package dto

import (
	"time"

	"github.com/google/uuid"

	"praklinik_backend/internals/features/academics/courses/model"
)

// ============================
// Request DTO
// ============================

type CreateCourseRequest struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type UpdateCourseRequest struct {
	Code   *string `json:"code"`
	Name   *string `json:"name"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type AssignLecturersRequest struct {
	LecturerIDs []uuid.UUID `json:"lecturer_ids" validate:"required,min=1"`
}

// ============================
// Response DTO
// ============================

type CourseResponse struct {
	CourseID  uuid.UUID `json:"course_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func ToCourseResponse(m model.CourseModel) CourseResponse {
	return CourseResponse{
		CourseID:  m.CourseID,
		Code:      m.CourseCode,
		Name:      m.CourseName,
		Status:    m.CourseStatus,
		CreatedAt: m.CourseCreatedAt,
	}
}
