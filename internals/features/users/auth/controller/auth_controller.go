package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"praklinik_backend/internals/middlewares/auth"

	helper "praklinik_backend/internals/helpers"

	"praklinik_backend/internals/features/users/auth/dto"
	"praklinik_backend/internals/features/users/auth/service"
)

type AuthController struct {
	Service  *service.AuthService
	Validate *validator.Validate
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{
		Service:  svc,
		Validate: validator.New(),
	}
}

// POST /api/auth/login
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	resp, err := ctrl.Service.Login(c.Context(), req)
	if err != nil {
		return err
	}
	return helper.Success(c, "Login berhasil", resp)
}

// GET /api/auth/me
func (ctrl *AuthController) GetMe(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return err
	}

	me, err := ctrl.Service.GetMe(c.Context(), userID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Profil berhasil diambil", me)
}

// PUT /api/auth/change-password
func (ctrl *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return err
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	if err := ctrl.Service.ChangePassword(c.Context(), userID, req); err != nil {
		return err
	}
	return helper.Success(c, "Password berhasil diganti", nil)
}

// POST /api/auth/forgot-password
func (ctrl *AuthController) RequestOTP(c *fiber.Ctx) error {
	var req dto.RequestOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	if err := ctrl.Service.RequestOTP(c.Context(), req.Email); err != nil {
		return err
	}
	return helper.Success(c, "Jika email terdaftar, OTP sudah dikirim", nil)
}

// POST /api/auth/verify-otp
func (ctrl *AuthController) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	resp, err := ctrl.Service.VerifyOTP(c.Context(), req)
	if err != nil {
		return err
	}
	return helper.Success(c, "OTP valid", resp)
}

// POST /api/auth/reset-password
func (ctrl *AuthController) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	if err := ctrl.Service.ResetPassword(c.Context(), req); err != nil {
		return err
	}
	return helper.Success(c, "Password berhasil direset", nil)
}
