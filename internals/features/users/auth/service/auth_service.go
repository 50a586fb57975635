package service

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"praklinik_backend/internals/configs"
	"praklinik_backend/internals/constants"
	"praklinik_backend/internals/helpers/mailer"
	"praklinik_backend/internals/middlewares/auth"

	helper "praklinik_backend/internals/helpers"

	"praklinik_backend/internals/features/users/auth/dto"
	userModel "praklinik_backend/internals/features/users/user/model"
)

const (
	accessTokenTTL = 24 * time.Hour
	resetTokenTTL  = 15 * time.Minute
	otpExpiryMin   = 10
	maxOTPAttempts = 5
	otpDigits      = 6
)

type AuthService struct {
	DB   *gorm.DB
	Mail mailer.Mailer
}

func NewAuthService(db *gorm.DB, mail mailer.Mailer) *AuthService {
	return &AuthService{DB: db, Mail: mail}
}

// =============================
// 🔐 Login
// =============================
// Identifier diterjemahkan per jalur: NIM → mahasiswa, NIK (lecturer_code)
// → dosen, email → semua role. Pesan error sengaja seragam supaya tidak
// membocorkan akun mana yang ada.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	user, profileID, name, err := s.resolveIdentifier(ctx, req.Identifier)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	if user == nil {
		return dto.LoginResponse{}, helper.NewUnauthorizedError("Identifier atau password salah")
	}
	if user.UserStatus != userModel.UserStatusActive {
		return dto.LoginResponse{}, helper.NewUnauthorizedError("Akun tidak aktif")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.UserPassword), []byte(req.Password)); err != nil {
		return dto.LoginResponse{}, helper.NewUnauthorizedError("Identifier atau password salah")
	}

	token, err := s.issueAccessToken(user, profileID)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{
		Token: token,
		User: dto.LoginUser{
			UserID:    user.UserID,
			ProfileID: profileID,
			Name:      name,
			Email:     user.UserEmail,
			Role:      user.UserRole,
		},
	}, nil
}

// resolveIdentifier mencoba NIM, lalu NIK, lalu email.
// Mengembalikan (nil, ...) bila tidak ada yang cocok.
func (s *AuthService) resolveIdentifier(ctx context.Context, identifier string) (*userModel.UserModel, uuid.UUID, string, error) {
	var student userModel.StudentModel
	err := s.DB.WithContext(ctx).Preload("User").
		First(&student, "student_nim = ?", identifier).Error
	if err == nil && student.User != nil {
		return student.User, student.StudentID, student.StudentName, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, uuid.Nil, "", err
	}

	var lecturer userModel.LecturerModel
	err = s.DB.WithContext(ctx).Preload("User").
		First(&lecturer, "lecturer_code = ?", identifier).Error
	if err == nil && lecturer.User != nil {
		return lecturer.User, lecturer.LecturerID, lecturer.LecturerName, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, uuid.Nil, "", err
	}

	var user userModel.UserModel
	err = s.DB.WithContext(ctx).First(&user, "user_email = ?", identifier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, uuid.Nil, "", nil
	}
	if err != nil {
		return nil, uuid.Nil, "", err
	}

	profileID, name, err := s.findProfile(ctx, &user)
	if err != nil {
		return nil, uuid.Nil, "", err
	}
	return &user, profileID, name, nil
}

// findProfile mengambil id + nama profil sesuai role user.
func (s *AuthService) findProfile(ctx context.Context, user *userModel.UserModel) (uuid.UUID, string, error) {
	switch user.UserRole {
	case constants.RoleStudent:
		var student userModel.StudentModel
		if err := s.DB.WithContext(ctx).First(&student, "student_user_id = ?", user.UserID).Error; err != nil {
			return uuid.Nil, "", err
		}
		return student.StudentID, student.StudentName, nil
	case constants.RoleLecturer:
		var lecturer userModel.LecturerModel
		if err := s.DB.WithContext(ctx).First(&lecturer, "lecturer_user_id = ?", user.UserID).Error; err != nil {
			return uuid.Nil, "", err
		}
		return lecturer.LecturerID, lecturer.LecturerName, nil
	case constants.RoleAdmin:
		var admin userModel.AdminModel
		if err := s.DB.WithContext(ctx).First(&admin, "admin_user_id = ?", user.UserID).Error; err != nil {
			return uuid.Nil, "", err
		}
		return admin.AdminID, admin.AdminName, nil
	}
	return uuid.Nil, "", helper.NewUnauthorizedError("Role tidak dikenali")
}

func (s *AuthService) issueAccessToken(user *userModel.UserModel, profileID uuid.UUID) (string, error) {
	claims := auth.Claims{
		UserID:    user.UserID.String(),
		Role:      user.UserRole,
		ProfileID: profileID.String(),
		Email:     user.UserEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(configs.JWTSecret))
}

// =============================
// 👤 Profil yang sedang login
// =============================
func (s *AuthService) GetMe(ctx context.Context, userID uuid.UUID) (dto.LoginUser, error) {
	var user userModel.UserModel
	err := s.DB.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.LoginUser{}, helper.NewNotFoundError("User tidak ditemukan")
	}
	if err != nil {
		return dto.LoginUser{}, err
	}

	profileID, name, err := s.findProfile(ctx, &user)
	if err != nil {
		return dto.LoginUser{}, err
	}

	return dto.LoginUser{
		UserID:    user.UserID,
		ProfileID: profileID,
		Name:      name,
		Email:     user.UserEmail,
		Role:      user.UserRole,
	}, nil
}

// =============================
// 🔑 Ganti password (login state)
// =============================
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	var user userModel.UserModel
	err := s.DB.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.NewNotFoundError("User tidak ditemukan")
	}
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.UserPassword), []byte(req.OldPassword)); err != nil {
		return helper.NewUnauthorizedError("Password lama salah")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("user_id = ?", userID).
		Update("user_password", string(hashed)).Error
}

// =============================
// 📧 Reset password via OTP
// =============================

// RequestOTP selalu menjawab sukses ke caller (tidak membocorkan email
// mana yang terdaftar); OTP hanya dikirim kalau akunnya ada.
func (s *AuthService) RequestOTP(ctx context.Context, email string) error {
	var user userModel.UserModel
	err := s.DB.WithContext(ctx).First(&user, "user_email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[INFO] Permintaan OTP untuk email tak terdaftar: %s", email)
		return nil
	}
	if err != nil {
		return err
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// entry lama diganti, hanya OTP terakhir yang berlaku
	if err := s.DB.WithContext(ctx).
		Where("password_reset_email = ? AND password_reset_used_at IS NULL", email).
		Delete(&userModel.PasswordResetModel{}).Error; err != nil {
		return err
	}

	reset := userModel.PasswordResetModel{
		PasswordResetUserID:    user.UserID,
		PasswordResetEmail:     email,
		PasswordResetTokenHash: string(hash),
		PasswordResetExpiresAt: time.Now().Add(otpExpiryMin * time.Minute),
	}
	if err := s.DB.WithContext(ctx).Create(&reset).Error; err != nil {
		return err
	}

	_, name, err := s.findProfile(ctx, &user)
	if err != nil {
		name = email
	}
	if err := s.Mail.SendOTPEmail(email, name, otp, otpExpiryMin); err != nil {
		log.Printf("[ERROR] Gagal kirim OTP ke %s: %v", email, err)
	}
	return nil
}

// VerifyOTP memvalidasi OTP terbaru dan menukarnya dengan reset token
// berumur pendek. Percobaan salah dihitung; lewat batas → entry hangus.
func (s *AuthService) VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) (dto.VerifyOTPResponse, error) {
	var reset userModel.PasswordResetModel
	err := s.DB.WithContext(ctx).
		Where("password_reset_email = ? AND password_reset_used_at IS NULL AND password_reset_expires_at > ?", req.Email, time.Now()).
		Order("password_reset_created_at DESC").
		First(&reset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.VerifyOTPResponse{}, helper.NewUnauthorizedError("OTP tidak valid atau sudah kedaluwarsa")
	}
	if err != nil {
		return dto.VerifyOTPResponse{}, err
	}

	if reset.PasswordResetAttempts >= maxOTPAttempts {
		return dto.VerifyOTPResponse{}, helper.NewUnauthorizedError("Terlalu banyak percobaan, minta OTP baru")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(reset.PasswordResetTokenHash), []byte(req.OTP)); err != nil {
		s.DB.WithContext(ctx).Model(&userModel.PasswordResetModel{}).
			Where("password_reset_id = ?", reset.PasswordResetID).
			Update("password_reset_attempts", gorm.Expr("password_reset_attempts + 1"))
		return dto.VerifyOTPResponse{}, helper.NewUnauthorizedError("OTP tidak valid atau sudah kedaluwarsa")
	}

	now := time.Now()
	if err := s.DB.WithContext(ctx).Model(&userModel.PasswordResetModel{}).
		Where("password_reset_id = ?", reset.PasswordResetID).
		Update("password_reset_used_at", now).Error; err != nil {
		return dto.VerifyOTPResponse{}, err
	}

	claims := jwt.RegisteredClaims{
		Subject:   reset.PasswordResetUserID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(resetTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(configs.JWTResetSecret))
	if err != nil {
		return dto.VerifyOTPResponse{}, err
	}
	return dto.VerifyOTPResponse{ResetToken: token}, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(req.ResetToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(configs.JWTResetSecret), nil
	}); err != nil {
		return helper.NewUnauthorizedError("Reset token tidak valid atau sudah kedaluwarsa")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return helper.NewUnauthorizedError("Reset token tidak valid atau sudah kedaluwarsa")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	result := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("user_id = ?", userID).
		Update("user_password", string(hashed))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return helper.NewNotFoundError("User tidak ditemukan")
	}

	// bersihkan jejak reset supaya token/OTP lama tidak bisa dipakai ulang
	if err := s.DB.WithContext(ctx).
		Where("password_reset_user_id = ?", userID).
		Delete(&userModel.PasswordResetModel{}).Error; err != nil {
		log.Printf("[WARN] Gagal membersihkan entry reset password user %s: %v", userID, err)
	}
	return nil
}

func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	otp := n.String()
	for len(otp) < otpDigits {
		otp = "0" + otp
	}
	return otp, nil
}
