package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"praklinik_backend/internals/middlewares/auth"

	helper "praklinik_backend/internals/helpers"

	"praklinik_backend/internals/features/praklinik/calculation/service"
)

type CalculationController struct {
	Service *service.CalculationService
}

func NewCalculationController(svc *service.CalculationService) *CalculationController {
	return &CalculationController{Service: svc}
}

// =============================
// 👨‍🏫 Lecturer / Admin
// =============================

// GET /api/lecturer/classes/:id/pass-status
func (ctrl *CalculationController) GetClassStatus(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid class ID")
	}

	resp, err := ctrl.Service.GetClassStatus(c.Context(), classID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Status kelulusan kelas berhasil diambil", resp)
}

// GET /api/lecturer/students/:id/report
func (ctrl *CalculationController) GetStudentReport(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid student ID")
	}

	resp, err := ctrl.Service.GetStudentReport(c.Context(), studentID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Laporan Pra Klinik berhasil diambil", resp)
}

// POST /api/lecturer/students/:id/recalculate
// Pemicu manual; hasil hitung juga di-cache ke tabel students.
func (ctrl *CalculationController) RecalculateStudent(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid student ID")
	}

	resp, err := ctrl.Service.CheckPassStatus(c.Context(), studentID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Status Pra Klinik berhasil dihitung ulang", resp)
}

// =============================
// 🎓 Student: laporan sendiri
// =============================

// GET /api/student/report
func (ctrl *CalculationController) GetOwnReport(c *fiber.Ctx) error {
	studentID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	resp, err := ctrl.Service.GetStudentReport(c.Context(), studentID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Laporan Pra Klinik berhasil diambil", resp)
}
