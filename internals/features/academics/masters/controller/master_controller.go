package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "praklinik_backend/internals/helpers"

	"praklinik_backend/internals/features/academics/masters/dto"
	"praklinik_backend/internals/features/academics/masters/model"
)

// MasterController: data master rumah sakit & stase rotasi klinik.
type MasterController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewMasterController(db *gorm.DB) *MasterController {
	return &MasterController{
		DB:       db,
		Validate: validator.New(),
	}
}

// =============================
// 🏥 Hospitals
// =============================

// POST /api/admin/hospitals
func (ctrl *MasterController) CreateHospital(c *fiber.Ctx) error {
	var req dto.CreateHospitalRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	radius := req.Radius
	if radius <= 0 {
		radius = 100
	}

	hospital := model.HospitalModel{
		HospitalName:      req.Name,
		HospitalLatitude:  req.Latitude,
		HospitalLongitude: req.Longitude,
		HospitalRadius:    radius,
	}
	if err := ctrl.DB.WithContext(c.Context()).Create(&hospital).Error; err != nil {
		return err
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Rumah sakit berhasil dibuat", dto.ToHospitalResponse(hospital))
}

// GET /api/admin/hospitals
func (ctrl *MasterController) GetAllHospitals(c *fiber.Ctx) error {
	var hospitals []model.HospitalModel
	if err := ctrl.DB.WithContext(c.Context()).
		Order("hospital_name ASC").
		Find(&hospitals).Error; err != nil {
		return err
	}

	responses := make([]dto.HospitalResponse, 0, len(hospitals))
	for _, hospital := range hospitals {
		responses = append(responses, dto.ToHospitalResponse(hospital))
	}
	return helper.Success(c, "Daftar rumah sakit berhasil diambil", responses)
}

// DELETE /api/admin/hospitals/:id (soft delete)
func (ctrl *MasterController) DeleteHospital(c *fiber.Ctx) error {
	hospitalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid hospital ID")
	}

	result := ctrl.DB.WithContext(c.Context()).Delete(&model.HospitalModel{}, "hospital_id = ?", hospitalID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return helper.NewNotFoundError("Rumah sakit tidak ditemukan")
	}
	return helper.Success(c, "Rumah sakit berhasil dihapus", nil)
}

// PUT /api/admin/hospitals/:id/restore
func (ctrl *MasterController) RestoreHospital(c *fiber.Ctx) error {
	hospitalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid hospital ID")
	}

	result := ctrl.DB.WithContext(c.Context()).Unscoped().
		Model(&model.HospitalModel{}).
		Where("hospital_id = ? AND hospital_deleted_at IS NOT NULL", hospitalID).
		Update("hospital_deleted_at", nil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return helper.NewNotFoundError("Rumah sakit terhapus tidak ditemukan")
	}
	return helper.Success(c, "Rumah sakit berhasil dipulihkan", nil)
}

// =============================
// 🩺 Stases
// =============================

// POST /api/admin/stases
func (ctrl *MasterController) CreateStase(c *fiber.Ctx) error {
	var req dto.CreateStaseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	stase := model.StaseModel{
		StaseName:              req.Name,
		StaseDefaultHospitalID: req.DefaultHospitalID,
		StaseHasLogbook:        req.HasLogbook,
		StaseHasPortfolio:      req.HasPortfolio,
		StaseHasDopExam:        req.HasDopExam,
		StaseHasOslar:          req.HasOslar,
		StaseHasCaseReport:     req.HasCaseReport,
		StaseHasAttitude:       req.HasAttitude,
	}
	if err := ctrl.DB.WithContext(c.Context()).Create(&stase).Error; err != nil {
		return helper.TranslateDuplicate(err, "Nama stase sudah dipakai")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Stase berhasil dibuat", dto.ToStaseResponse(stase))
}

// GET /api/admin/stases
func (ctrl *MasterController) GetAllStases(c *fiber.Ctx) error {
	var stases []model.StaseModel
	if err := ctrl.DB.WithContext(c.Context()).
		Order("stase_name ASC").
		Find(&stases).Error; err != nil {
		return err
	}

	responses := make([]dto.StaseResponse, 0, len(stases))
	for _, stase := range stases {
		responses = append(responses, dto.ToStaseResponse(stase))
	}
	return helper.Success(c, "Daftar stase berhasil diambil", responses)
}

// DELETE /api/admin/stases/:id (soft delete)
func (ctrl *MasterController) DeleteStase(c *fiber.Ctx) error {
	staseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid stase ID")
	}

	result := ctrl.DB.WithContext(c.Context()).Delete(&model.StaseModel{}, "stase_id = ?", staseID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return helper.NewNotFoundError("Stase tidak ditemukan")
	}
	return helper.Success(c, "Stase berhasil dihapus", nil)
}

// PUT /api/admin/stases/:id/restore
func (ctrl *MasterController) RestoreStase(c *fiber.Ctx) error {
	staseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid stase ID")
	}

	result := ctrl.DB.WithContext(c.Context()).Unscoped().
		Model(&model.StaseModel{}).
		Where("stase_id = ? AND stase_deleted_at IS NOT NULL", staseID).
		Update("stase_deleted_at", nil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return helper.NewNotFoundError("Stase terhapus tidak ditemukan")
	}
	return helper.Success(c, "Stase berhasil dipulihkan", nil)
}
