package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// UserModel merepresentasikan tabel users di database.
// Satu user memiliki tepat satu profil sesuai role-nya.
type UserModel struct {
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey" json:"user_id"`
	UserEmail     string    `gorm:"column:user_email;size:255;unique;not null" json:"user_email"`
	UserPassword  string    `gorm:"column:user_password;not null" json:"-"`
	UserRole      string    `gorm:"column:user_role;type:varchar(20);not null" json:"user_role"`
	UserStatus    string    `gorm:"column:user_status;type:varchar(20);not null;default:'active'" json:"user_status"`
	UserCreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

type AdminModel struct {
	AdminID     uuid.UUID `gorm:"column:admin_id;type:uuid;default:gen_random_uuid();primaryKey" json:"admin_id"`
	AdminUserID uuid.UUID `gorm:"column:admin_user_id;type:uuid;unique;not null" json:"admin_user_id"`
	AdminName   string    `gorm:"column:admin_name;size:255;not null" json:"admin_name"`

	User *UserModel `gorm:"foreignKey:AdminUserID;references:UserID" json:"user,omitempty"`
}

func (AdminModel) TableName() string {
	return "admins"
}

/// LecturerModel: NIK dosen disimpan sebagai lecturer_code (login identifier).
type LecturerModel struct {
	LecturerID     uuid.UUID `gorm:"column:lecturer_id;type:uuid;default:gen_random_uuid();primaryKey" json:"lecturer_id"`
	LecturerUserID uuid.UUID `gorm:"column:lecturer_user_id;type:uuid;unique;not null" json:"lecturer_user_id"`
	LecturerCode   string    `gorm:"column:lecturer_code;size:50;unique;not null" json:"lecturer_code"`
	LecturerName   string    `gorm:"column:lecturer_name;size:255;not null" json:"lecturer_name"`

	User *UserModel `gorm:"foreignKey:LecturerUserID;references:UserID" json:"user,omitempty"`
}

func (LecturerModel) TableName() string {
	return "lecturers"
}

// StudentModel: kolom pre_clinical_* hanya ditulis oleh aggregator
// Pra Klinik (CheckPassStatus), tidak pernah di-set dari controller.
type StudentModel struct {
	StudentID                uuid.UUID           `gorm:"column:student_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_id"`
	StudentUserID            uuid.UUID           `gorm:"column:student_user_id;type:uuid;unique;not null" json:"student_user_id"`
	StudentNIM               string              `gorm:"column:student_nim;size:50;unique;not null" json:"student_nim"`
	StudentName              string              `gorm:"column:student_name;size:255;not null" json:"student_name"`
	StudentPreClinicalPassed *bool               `gorm:"column:student_pre_clinical_passed" json:"student_pre_clinical_passed"`
	StudentPreClinicalScore  decimal.NullDecimal `gorm:"column:student_pre_clinical_score;type:numeric(6,2)" json:"student_pre_clinical_score"`
	StudentCreatedAt         time.Time           `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`

	User *UserModel `gorm:"foreignKey:StudentUserID;references:UserID" json:"user,omitempty"`
}

func (StudentModel) TableName() string {
	return "students"
}

// PasswordResetModel menyimpan OTP reset yang sudah di-hash (bcrypt).
type PasswordResetModel struct {
	PasswordResetID        uuid.UUID  `gorm:"column:password_reset_id;type:uuid;default:gen_random_uuid();primaryKey" json:"password_reset_id"`
	PasswordResetUserID    uuid.UUID  `gorm:"column:password_reset_user_id;type:uuid;not null" json:"password_reset_user_id"`
	PasswordResetEmail     string     `gorm:"column:password_reset_email;size:255;not null;index" json:"password_reset_email"`
	PasswordResetTokenHash string     `gorm:"column:password_reset_token_hash;not null" json:"-"`
	PasswordResetAttempts  int        `gorm:"column:password_reset_attempts;not null;default:0" json:"password_reset_attempts"`
	PasswordResetExpiresAt time.Time  `gorm:"column:password_reset_expires_at;not null" json:"password_reset_expires_at"`
	PasswordResetUsedAt    *time.Time `gorm:"column:password_reset_used_at" json:"password_reset_used_at"`
	PasswordResetCreatedAt time.Time  `gorm:"column:password_reset_created_at;autoCreateTime" json:"password_reset_created_at"`
}

func (PasswordResetModel) TableName() string {
	return "password_resets"
}
