package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"praklinik_backend/internals/features/academics/masters/model"
)

// ============================
// Request DTO
// ============================

type CreateHospitalRequest struct {
	Name      string          `json:"name" validate:"required"`
	Latitude  decimal.Decimal `json:"latitude" validate:"required"`
	Longitude decimal.Decimal `json:"longitude" validate:"required"`
	Radius    int             `json:"radius"`
}

type CreateStaseRequest struct {
	Name              string     `json:"name" validate:"required"`
	DefaultHospitalID *uuid.UUID `json:"default_hospital_id"`
	HasLogbook        bool       `json:"has_logbook"`
	HasPortfolio      bool       `json:"has_portfolio"`
	HasDopExam        bool       `json:"has_dop_exam"`
	HasOslar          bool       `json:"has_oslar"`
	HasCaseReport     bool       `json:"has_case_report"`
	HasAttitude       bool       `json:"has_attitude"`
}

// ============================
// Response DTO
// ============================

type HospitalResponse struct {
	HospitalID uuid.UUID       `json:"hospital_id"`
	Name       string          `json:"name"`
	Latitude   decimal.Decimal `json:"latitude"`
	Longitude  decimal.Decimal `json:"longitude"`
	Radius     int             `json:"radius"`
}

type StaseResponse struct {
	StaseID           uuid.UUID  `json:"stase_id"`
	Name              string     `json:"name"`
	DefaultHospitalID *uuid.UUID `json:"default_hospital_id"`
	HasLogbook        bool       `json:"has_logbook"`
	HasPortfolio      bool       `json:"has_portfolio"`
	HasDopExam        bool       `json:"has_dop_exam"`
	HasOslar          bool       `json:"has_oslar"`
	HasCaseReport     bool       `json:"has_case_report"`
	HasAttitude       bool       `json:"has_attitude"`
}

func ToHospitalResponse(m model.HospitalModel) HospitalResponse {
	return HospitalResponse{
		HospitalID: m.HospitalID,
		Name:       m.HospitalName,
		Latitude:   m.HospitalLatitude,
		Longitude:  m.HospitalLongitude,
		Radius:     m.HospitalRadius,
	}
}

func ToStaseResponse(m model.StaseModel) StaseResponse {
	return StaseResponse{
		StaseID:           m.StaseID,
		Name:              m.StaseName,
		DefaultHospitalID: m.StaseDefaultHospitalID,
		HasLogbook:        m.StaseHasLogbook,
		HasPortfolio:      m.StaseHasPortfolio,
		HasDopExam:        m.StaseHasDopExam,
		HasOslar:          m.StaseHasOslar,
		HasCaseReport:     m.StaseHasCaseReport,
		HasAttitude:       m.StaseHasAttitude,
	}
}
