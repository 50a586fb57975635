package controller

import (
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "praklinik_backend/internals/helpers"

	"praklinik_backend/internals/features/academics/classes/dto"
	"praklinik_backend/internals/features/academics/classes/model"
	userDto "praklinik_backend/internals/features/users/user/dto"
	userModel "praklinik_backend/internals/features/users/user/model"
)

type ClassController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{
		DB:       db,
		Validate: validator.New(),
	}
}

var academicYearPattern = regexp.MustCompile(`^(\d{4})/(\d{4})$`)

// validateAcademicYear: format 2025/2026, tahun kedua = tahun pertama + 1.
func validateAcademicYear(year string) error {
	m := academicYearPattern.FindStringSubmatch(year)
	if m == nil {
		return helper.NewValidationError("Tahun akademik harus berformat YYYY/YYYY, contoh 2025/2026")
	}
	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	if second != first+1 {
		return helper.NewValidationError("Tahun akademik tidak berurutan: %s", year)
	}
	return nil
}

// =============================
// ➕ CRUD kelas
// =============================

// POST /api/admin/classes
func (ctrl *ClassController) CreateClass(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}
	if err := validateAcademicYear(req.AcademicYear); err != nil {
		return err
	}

	class := model.ClassModel{
		ClassName:         req.Name,
		ClassAcademicYear: req.AcademicYear,
		ClassStatus:       model.ClassStatusActive,
	}
	if err := ctrl.DB.WithContext(c.Context()).Create(&class).Error; err != nil {
		return helper.TranslateDuplicate(err, "Kelas dengan nama dan tahun akademik ini sudah ada")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Kelas berhasil dibuat", dto.ToClassResponse(class))
}

// GET /api/admin/classes
func (ctrl *ClassController) GetAllClasses(c *fiber.Ctx) error {
	params := helper.ParseFiber(c)

	var total int64
	if err := ctrl.DB.WithContext(c.Context()).Model(&model.ClassModel{}).Count(&total).Error; err != nil {
		return err
	}

	var classes []model.ClassModel
	if err := ctrl.DB.WithContext(c.Context()).
		Order("class_academic_year DESC, class_name ASC").
		Limit(params.Limit).Offset(params.Offset()).
		Find(&classes).Error; err != nil {
		return err
	}

	responses := make([]dto.ClassResponse, 0, len(classes))
	for _, class := range classes {
		resp := dto.ToClassResponse(class)
		ctrl.DB.WithContext(c.Context()).Model(&model.ClassStudentModel{}).
			Where("class_student_class_id = ?", class.ClassID).
			Count(&resp.StudentCount)
		responses = append(responses, resp)
	}
	return helper.Success(c, "Daftar kelas berhasil diambil", fiber.Map{
		"classes": responses,
		"meta":    helper.BuildMeta(total, params),
	})
}

// GET /api/admin/classes/:id
func (ctrl *ClassController) GetClassDetail(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid class ID")
	}

	var class model.ClassModel
	if err := ctrl.DB.WithContext(c.Context()).First(&class, "class_id = ?", classID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.NewNotFoundError("Kelas tidak ditemukan")
		}
		return err
	}

	var roster []model.ClassStudentModel
	if err := ctrl.DB.WithContext(c.Context()).
		Preload("Student").
		Preload("Student.User").
		Where("class_student_class_id = ?", classID).
		Find(&roster).Error; err != nil {
		return err
	}

	students := make([]userDto.StudentResponse, 0, len(roster))
	for _, cs := range roster {
		if cs.Student != nil {
			students = append(students, userDto.ToStudentResponse(*cs.Student))
		}
	}

	return helper.Success(c, "Detail kelas berhasil diambil", fiber.Map{
		"class":    dto.ToClassResponse(class),
		"students": students,
	})
}

// PUT /api/admin/classes/:id
func (ctrl *ClassController) UpdateClass(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid class ID")
	}

	var req dto.UpdateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["class_name"] = *req.Name
	}
	if req.AcademicYear != nil {
		if err := validateAcademicYear(*req.AcademicYear); err != nil {
			return err
		}
		updates["class_academic_year"] = *req.AcademicYear
	}
	if req.Status != nil {
		updates["class_status"] = *req.Status
	}
	if len(updates) == 0 {
		return helper.NewValidationError("Tidak ada field yang diubah")
	}

	result := ctrl.DB.WithContext(c.Context()).Model(&model.ClassModel{}).
		Where("class_id = ?", classID).
		Updates(updates)
	if result.Error != nil {
		return helper.TranslateDuplicate(result.Error, "Kelas dengan nama dan tahun akademik ini sudah ada")
	}
	if result.RowsAffected == 0 {
		return helper.NewNotFoundError("Kelas tidak ditemukan")
	}
	return helper.Success(c, "Kelas berhasil diperbarui", nil)
}

// DELETE /api/admin/classes/:id (soft delete)
func (ctrl *ClassController) DeleteClass(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid class ID")
	}

	result := ctrl.DB.WithContext(c.Context()).Delete(&model.ClassModel{}, "class_id = ?", classID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return helper.NewNotFoundError("Kelas tidak ditemukan")
	}
	return helper.Success(c, "Kelas berhasil dihapus", nil)
}

// =============================
// 👥 Roster kelas
// =============================

// POST /api/admin/classes/:id/students
// Satu mahasiswa satu kelas per tahun akademik.
func (ctrl *ClassController) AssignStudents(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid class ID")
	}

	var req dto.AssignStudentsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	var class model.ClassModel
	if err := ctrl.DB.WithContext(c.Context()).First(&class, "class_id = ?", classID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.NewNotFoundError("Kelas tidak ditemukan")
		}
		return err
	}

	err = ctrl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		for _, studentID := range req.StudentIDs {
			var count int64
			if err := tx.Model(&userModel.StudentModel{}).
				Where("student_id = ?", studentID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return helper.NewNotFoundError("Mahasiswa tidak ditemukan: " + studentID.String())
			}

			// cek keanggotaan kelas lain di tahun akademik yang sama
			var existing int64
			if err := tx.Model(&model.ClassStudentModel{}).
				Joins("JOIN classes ON classes.class_id = class_students.class_student_class_id").
				Where("class_students.class_student_student_id = ? AND classes.class_academic_year = ?",
					studentID, class.ClassAcademicYear).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return helper.NewConflictError("Mahasiswa " + studentID.String() + " sudah terdaftar di kelas lain pada tahun akademik ini")
			}

			if err := tx.Create(&model.ClassStudentModel{
				ClassStudentClassID:   classID,
				ClassStudentStudentID: studentID,
			}).Error; err != nil {
				return helper.TranslateDuplicate(err, "Mahasiswa sudah terdaftar di kelas ini")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Mahasiswa berhasil didaftarkan ke kelas", nil)
}

// DELETE /api/admin/classes/:id/students/:studentId
func (ctrl *ClassController) RemoveStudent(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid class ID")
	}
	studentID, err := uuid.Parse(c.Params("studentId"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid student ID")
	}

	result := ctrl.DB.WithContext(c.Context()).
		Where("class_student_class_id = ? AND class_student_student_id = ?", classID, studentID).
		Delete(&model.ClassStudentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return helper.NewNotFoundError("Mahasiswa tidak terdaftar di kelas ini")
	}
	return helper.Success(c, "Mahasiswa berhasil dikeluarkan dari kelas", nil)
}

// GET /api/admin/classes/:id/available-students
// Mahasiswa yang belum punya kelas di tahun akademik kelas ini.
func (ctrl *ClassController) GetAvailableStudents(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid class ID")
	}

	var class model.ClassModel
	if err := ctrl.DB.WithContext(c.Context()).First(&class, "class_id = ?", classID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.NewNotFoundError("Kelas tidak ditemukan")
		}
		return err
	}

	var students []userModel.StudentModel
	subquery := ctrl.DB.Model(&model.ClassStudentModel{}).
		Select("class_student_student_id").
		Joins("JOIN classes ON classes.class_id = class_students.class_student_class_id").
		Where("classes.class_academic_year = ?", class.ClassAcademicYear)

	if err := ctrl.DB.WithContext(c.Context()).
		Preload("User").
		Where("student_id NOT IN (?)", subquery).
		Order("student_nim ASC").
		Find(&students).Error; err != nil {
		return err
	}

	responses := make([]userDto.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, userDto.ToStudentResponse(student))
	}
	return helper.Success(c, "Daftar mahasiswa tersedia berhasil diambil", responses)
}
