package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"praklinik_backend/internals/features/users/user/model"
)

// ============================
// Request DTO
// ============================

type RegisterStudentRequest struct {
	NIM   string `json:"nim" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type RegisterLecturerRequest struct {
	NIK   string `json:"nik" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type RegisterAdminRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// ============================
// Response DTO
// ============================

type StudentResponse struct {
	StudentID         uuid.UUID        `json:"student_id"`
	NIM               string           `json:"nim"`
	Name              string           `json:"name"`
	Email             string           `json:"email"`
	PreClinicalPassed *bool            `json:"pre_clinical_passed"`
	PreClinicalScore  *decimal.Decimal `json:"pre_clinical_score"`
}

type LecturerResponse struct {
	LecturerID uuid.UUID `json:"lecturer_id"`
	NIK        string    `json:"nik"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
}

type AdminResponse struct {
	AdminID uuid.UUID `json:"admin_id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
}

// ============================
// Converter
// ============================

func ToStudentResponse(m model.StudentModel) StudentResponse {
	resp := StudentResponse{
		StudentID:         m.StudentID,
		NIM:               m.StudentNIM,
		Name:              m.StudentName,
		PreClinicalPassed: m.StudentPreClinicalPassed,
	}
	if m.StudentPreClinicalScore.Valid {
		score := m.StudentPreClinicalScore.Decimal
		resp.PreClinicalScore = &score
	}
	if m.User != nil {
		resp.Email = m.User.UserEmail
	}
	return resp
}

func ToLecturerResponse(m model.LecturerModel) LecturerResponse {
	resp := LecturerResponse{
		LecturerID: m.LecturerID,
		NIK:        m.LecturerCode,
		Name:       m.LecturerName,
	}
	if m.User != nil {
		resp.Email = m.User.UserEmail
	}
	return resp
}

func ToAdminResponse(m model.AdminModel) AdminResponse {
	resp := AdminResponse{
		AdminID: m.AdminID,
		Name:    m.AdminName,
	}
	if m.User != nil {
		resp.Email = m.User.UserEmail
	}
	return resp
}
