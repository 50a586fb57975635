package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HospitalModel: rumah sakit tempat rotasi klinik, radius untuk geofence presensi.
type HospitalModel struct {
	HospitalID        uuid.UUID       `gorm:"column:hospital_id;type:uuid;default:gen_random_uuid();primaryKey" json:"hospital_id"`
	HospitalName      string          `gorm:"column:hospital_name;size:255;not null" json:"hospital_name"`
	HospitalLatitude  decimal.Decimal `gorm:"column:hospital_latitude;type:numeric(10,7);not null" json:"hospital_latitude"`
	HospitalLongitude decimal.Decimal `gorm:"column:hospital_longitude;type:numeric(10,7);not null" json:"hospital_longitude"`
	HospitalRadius    int             `gorm:"column:hospital_radius;not null;default:100" json:"hospital_radius"`
	HospitalCreatedAt time.Time       `gorm:"column:hospital_created_at;autoCreateTime" json:"hospital_created_at"`
	HospitalUpdatedAt time.Time       `gorm:"column:hospital_updated_at;autoUpdateTime" json:"hospital_updated_at"`
	HospitalDeletedAt gorm.DeletedAt  `gorm:"column:hospital_deleted_at;index" json:"hospital_deleted_at"`
}

func (HospitalModel) TableName() string {
	return "hospitals"
}

// StaseModel: stase rotasi klinik beserta flag instrumen penilaiannya.
type StaseModel struct {
	StaseID                uuid.UUID      `gorm:"column:stase_id;type:uuid;default:gen_random_uuid();primaryKey" json:"stase_id"`
	StaseName              string         `gorm:"column:stase_name;size:255;unique;not null" json:"stase_name"`
	StaseDefaultHospitalID *uuid.UUID     `gorm:"column:stase_default_hospital_id;type:uuid" json:"stase_default_hospital_id"`
	StaseTemplateFolder    *string        `gorm:"column:stase_template_folder;size:255;unique" json:"stase_template_folder"`
	StaseHasLogbook        bool           `gorm:"column:stase_has_logbook;not null;default:false" json:"stase_has_logbook"`
	StaseHasPortfolio      bool           `gorm:"column:stase_has_portfolio;not null;default:false" json:"stase_has_portfolio"`
	StaseHasDopExam        bool           `gorm:"column:stase_has_dop_exam;not null;default:false" json:"stase_has_dop_exam"`
	StaseHasOslar          bool           `gorm:"column:stase_has_oslar;not null;default:false" json:"stase_has_oslar"`
	StaseHasCaseReport     bool           `gorm:"column:stase_has_case_report;not null;default:false" json:"stase_has_case_report"`
	StaseHasAttitude       bool           `gorm:"column:stase_has_attitude;not null;default:false" json:"stase_has_attitude"`
	StaseCreatedAt         time.Time      `gorm:"column:stase_created_at;autoCreateTime" json:"stase_created_at"`
	StaseUpdatedAt         time.Time      `gorm:"column:stase_updated_at;autoUpdateTime" json:"stase_updated_at"`
	StaseDeletedAt         gorm.DeletedAt `gorm:"column:stase_deleted_at;index" json:"stase_deleted_at"`

	DefaultHospital *HospitalModel `gorm:"foreignKey:StaseDefaultHospitalID;references:HospitalID" json:"default_hospital,omitempty"`
}

func (StaseModel) TableName() string {
	return "stases"
}
