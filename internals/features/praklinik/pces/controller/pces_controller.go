package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"praklinik_backend/internals/middlewares/auth"

	helper "praklinik_backend/internals/helpers"

	"praklinik_backend/internals/features/praklinik/pces/dto"
	"praklinik_backend/internals/features/praklinik/pces/service"
)

type PcesController struct {
	Service  *service.PcesService
	Validate *validator.Validate
}

func NewPcesController(svc *service.PcesService) *PcesController {
	return &PcesController{
		Service:  svc,
		Validate: validator.New(),
	}
}

// =============================
// 🛠 Admin: template + SOP items
// =============================

// POST /api/admin/pces-templates
func (ctrl *PcesController) CreateTemplate(c *fiber.Ctx) error {
	var req dto.CreateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	resp, err := ctrl.Service.CreateTemplate(c.Context(), req)
	if err != nil {
		return err
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Template PCES berhasil dibuat", resp)
}

// GET /api/admin/pces-templates
func (ctrl *PcesController) GetAllTemplates(c *fiber.Ctx) error {
	params := helper.ParseFiber(c)
	templates, total, err := ctrl.Service.GetAllTemplates(c.Context(), params.Limit, params.Offset())
	if err != nil {
		return err
	}
	return helper.Success(c, "Daftar template berhasil diambil", fiber.Map{
		"templates": templates,
		"meta":      helper.BuildMeta(total, params),
	})
}

// GET /api/admin/pces-templates/:id (juga dipakai dosen)
func (ctrl *PcesController) GetTemplateDetail(c *fiber.Ctx) error {
	templateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid template ID")
	}

	resp, err := ctrl.Service.GetTemplateDetail(c.Context(), templateID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Detail template berhasil diambil", resp)
}

// =============================
// 👨‍🏫 Lecturer: tests
// =============================

// GET /api/lecturer/pces-templates
func (ctrl *PcesController) GetLecturerTemplates(c *fiber.Ctx) error {
	lecturerID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	resp, err := ctrl.Service.GetLecturerTemplates(c.Context(), lecturerID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Daftar template berhasil diambil", resp)
}

// POST /api/lecturer/pces-tests
func (ctrl *PcesController) CreatePcesTest(c *fiber.Ctx) error {
	lecturerID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	var req dto.CreatePcesTestRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	resp, err := ctrl.Service.CreatePcesTest(c.Context(), req, lecturerID)
	if err != nil {
		return err
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Test PCES berhasil disimpan", resp)
}

// PUT /api/lecturer/pces-tests/:id
func (ctrl *PcesController) UpdatePcesTest(c *fiber.Ctx) error {
	lecturerID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	testID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid test ID")
	}

	var req dto.UpdatePcesTestRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	resp, err := ctrl.Service.UpdatePcesTest(c.Context(), testID, req, lecturerID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Test PCES berhasil diperbarui", resp)
}

// GET /api/lecturer/pces-tests
func (ctrl *PcesController) GetLecturerTests(c *fiber.Ctx) error {
	lecturerID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	params := helper.ParseFiber(c)
	tests, total, err := ctrl.Service.GetLecturerTests(c.Context(), lecturerID, params.Limit, params.Offset())
	if err != nil {
		return err
	}
	return helper.Success(c, "Daftar test berhasil diambil", fiber.Map{
		"tests": tests,
		"meta":  helper.BuildMeta(total, params),
	})
}

// GET /api/lecturer/pces-tests/:id
func (ctrl *PcesController) GetTestDetail(c *fiber.Ctx) error {
	lecturerID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	testID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid test ID")
	}

	resp, err := ctrl.Service.GetTestDetail(c.Context(), testID, lecturerID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Detail test berhasil diambil", resp)
}

// =============================
// 🎓 Student: hasil sendiri
// =============================

// GET /api/student/pces-results
func (ctrl *PcesController) GetStudentResults(c *fiber.Ctx) error {
	studentID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	resp, err := ctrl.Service.GetStudentResults(c.Context(), studentID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Hasil PCES berhasil diambil", resp)
}
