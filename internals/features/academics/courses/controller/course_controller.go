package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"praklinik_backend/internals/middlewares/auth"

	helper "praklinik_backend/internals/helpers"

	"praklinik_backend/internals/features/academics/courses/dto"
	"praklinik_backend/internals/features/academics/courses/model"
	userDto "praklinik_backend/internals/features/users/user/dto"
	userModel "praklinik_backend/internals/features/users/user/model"
)

type CourseController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewCourseController(db *gorm.DB) *CourseController {
	return &CourseController{
		DB:       db,
		Validate: validator.New(),
	}
}

// =============================
// ➕ CRUD mata kuliah
// =============================

// POST /api/admin/courses
func (ctrl *CourseController) CreateCourse(c *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	course := model.CourseModel{
		CourseCode:   req.Code,
		CourseName:   req.Name,
		CourseStatus: model.CourseStatusActive,
	}
	if err := ctrl.DB.WithContext(c.Context()).Create(&course).Error; err != nil {
		return helper.TranslateDuplicate(err, "Kode mata kuliah sudah dipakai")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Mata kuliah berhasil dibuat", dto.ToCourseResponse(course))
}

// GET /api/admin/courses
func (ctrl *CourseController) GetAllCourses(c *fiber.Ctx) error {
	params := helper.ParseFiber(c)

	var total int64
	if err := ctrl.DB.WithContext(c.Context()).Model(&model.CourseModel{}).Count(&total).Error; err != nil {
		return err
	}

	var courses []model.CourseModel
	if err := ctrl.DB.WithContext(c.Context()).
		Order("course_code ASC").
		Limit(params.Limit).Offset(params.Offset()).
		Find(&courses).Error; err != nil {
		return err
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, dto.ToCourseResponse(course))
	}
	return helper.Success(c, "Daftar mata kuliah berhasil diambil", fiber.Map{
		"courses": responses,
		"meta":    helper.BuildMeta(total, params),
	})
}

// GET /api/admin/courses/:id
func (ctrl *CourseController) GetCourseDetail(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid course ID")
	}

	var course model.CourseModel
	if err := ctrl.DB.WithContext(c.Context()).First(&course, "course_id = ?", courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.NewNotFoundError("Mata kuliah tidak ditemukan")
		}
		return err
	}

	var assignments []model.LecturerCourseModel
	if err := ctrl.DB.WithContext(c.Context()).
		Preload("Lecturer").
		Preload("Lecturer.User").
		Where("lecturer_course_course_id = ?", courseID).
		Find(&assignments).Error; err != nil {
		return err
	}

	lecturers := make([]userDto.LecturerResponse, 0, len(assignments))
	for _, a := range assignments {
		if a.Lecturer != nil {
			lecturers = append(lecturers, userDto.ToLecturerResponse(*a.Lecturer))
		}
	}

	return helper.Success(c, "Detail mata kuliah berhasil diambil", fiber.Map{
		"course":    dto.ToCourseResponse(course),
		"lecturers": lecturers,
	})
}

// PUT /api/admin/courses/:id
func (ctrl *CourseController) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid course ID")
	}

	var req dto.UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Code != nil {
		updates["course_code"] = *req.Code
	}
	if req.Name != nil {
		updates["course_name"] = *req.Name
	}
	if req.Status != nil {
		updates["course_status"] = *req.Status
	}
	if len(updates) == 0 {
		return helper.NewValidationError("Tidak ada field yang diubah")
	}

	result := ctrl.DB.WithContext(c.Context()).Model(&model.CourseModel{}).
		Where("course_id = ?", courseID).
		Updates(updates)
	if result.Error != nil {
		return helper.TranslateDuplicate(result.Error, "Kode mata kuliah sudah dipakai")
	}
	if result.RowsAffected == 0 {
		return helper.NewNotFoundError("Mata kuliah tidak ditemukan")
	}
	return helper.Success(c, "Mata kuliah berhasil diperbarui", nil)
}

// DELETE /api/admin/courses/:id (soft delete)
func (ctrl *CourseController) DeleteCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid course ID")
	}

	result := ctrl.DB.WithContext(c.Context()).Delete(&model.CourseModel{}, "course_id = ?", courseID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return helper.NewNotFoundError("Mata kuliah tidak ditemukan")
	}
	return helper.Success(c, "Mata kuliah berhasil dihapus", nil)
}

// =============================
// 👥 Penugasan dosen
// =============================

// POST /api/admin/courses/:id/lecturers
func (ctrl *CourseController) AssignLecturers(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid course ID")
	}

	var req dto.AssignLecturersRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	var count int64
	if err := ctrl.DB.WithContext(c.Context()).Model(&model.CourseModel{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return helper.NewNotFoundError("Mata kuliah tidak ditemukan")
	}

	err = ctrl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		for _, lecturerID := range req.LecturerIDs {
			var exists int64
			if err := tx.Model(&userModel.LecturerModel{}).
				Where("lecturer_id = ?", lecturerID).
				Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return helper.NewNotFoundError("Dosen tidak ditemukan: " + lecturerID.String())
			}

			if err := tx.Create(&model.LecturerCourseModel{
				LecturerCourseCourseID:   courseID,
				LecturerCourseLecturerID: lecturerID,
			}).Error; err != nil {
				return helper.TranslateDuplicate(err, "Dosen sudah ditugaskan ke mata kuliah ini")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Dosen berhasil ditugaskan", nil)
}

// DELETE /api/admin/courses/:id/lecturers/:lecturerId
func (ctrl *CourseController) RemoveLecturer(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid course ID")
	}
	lecturerID, err := uuid.Parse(c.Params("lecturerId"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid lecturer ID")
	}

	result := ctrl.DB.WithContext(c.Context()).
		Where("lecturer_course_course_id = ? AND lecturer_course_lecturer_id = ?", courseID, lecturerID).
		Delete(&model.LecturerCourseModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return helper.NewNotFoundError("Dosen tidak ditugaskan ke mata kuliah ini")
	}
	return helper.Success(c, "Penugasan dosen berhasil dihapus", nil)
}

// GET /api/admin/courses/:id/available-lecturers — dosen yang belum ditugaskan
func (ctrl *CourseController) GetAvailableLecturers(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid course ID")
	}

	var count int64
	if err := ctrl.DB.WithContext(c.Context()).Model(&model.CourseModel{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return helper.NewNotFoundError("Mata kuliah tidak ditemukan")
	}

	assigned := ctrl.DB.Model(&model.LecturerCourseModel{}).
		Select("lecturer_course_lecturer_id").
		Where("lecturer_course_course_id = ?", courseID)

	var lecturers []userModel.LecturerModel
	if err := ctrl.DB.WithContext(c.Context()).
		Preload("User").
		Where("lecturer_id NOT IN (?)", assigned).
		Order("lecturer_code ASC").
		Find(&lecturers).Error; err != nil {
		return err
	}

	responses := make([]userDto.LecturerResponse, 0, len(lecturers))
	for _, lecturer := range lecturers {
		responses = append(responses, userDto.ToLecturerResponse(lecturer))
	}
	return helper.Success(c, "Daftar dosen tersedia berhasil diambil", responses)
}

// GET /api/lecturer/courses — mata kuliah yang diampu dosen yang login
func (ctrl *CourseController) GetMyCourses(c *fiber.Ctx) error {
	lecturerID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	var assignments []model.LecturerCourseModel
	if err := ctrl.DB.WithContext(c.Context()).
		Preload("Course").
		Where("lecturer_course_lecturer_id = ?", lecturerID).
		Find(&assignments).Error; err != nil {
		return err
	}

	responses := make([]dto.CourseResponse, 0, len(assignments))
	for _, a := range assignments {
		if a.Course != nil {
			responses = append(responses, dto.ToCourseResponse(*a.Course))
		}
	}
	return helper.Success(c, "Daftar mata kuliah berhasil diambil", responses)
}
