package controller

import (
	"crypto/rand"
	"log"
	"math/big"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"praklinik_backend/internals/constants"
	"praklinik_backend/internals/helpers/mailer"

	helper "praklinik_backend/internals/helpers"

	"praklinik_backend/internals/features/users/user/dto"
	"praklinik_backend/internals/features/users/user/model"
)

// UserAdminController: manajemen akun oleh admin. Password awal
// digenerate dan dikirim lewat email, tidak pernah dikembalikan di API.
type UserAdminController struct {
	DB       *gorm.DB
	Mail     mailer.Mailer
	Validate *validator.Validate
}

func NewUserAdminController(db *gorm.DB, mail mailer.Mailer) *UserAdminController {
	return &UserAdminController{
		DB:       db,
		Mail:     mail,
		Validate: validator.New(),
	}
}

const generatedPasswordLen = 12

// =============================
// ➕ Registrasi akun
// =============================

// POST /api/admin/students
func (ctrl *UserAdminController) RegisterStudent(c *fiber.Ctx) error {
	var req dto.RegisterStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	password, hashed, err := generatePassword()
	if err != nil {
		return err
	}

	student := model.StudentModel{
		StudentNIM:  req.NIM,
		StudentName: req.Name,
	}

	err = ctrl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		user := model.UserModel{
			UserEmail:    req.Email,
			UserPassword: hashed,
			UserRole:     constants.RoleStudent,
			UserStatus:   model.UserStatusActive,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		student.StudentUserID = user.UserID
		student.User = &user
		return tx.Create(&student).Error
	})
	if err != nil {
		return helper.TranslateDuplicate(err, "Email atau NIM sudah terdaftar")
	}

	ctrl.sendCredentials(req.Email, req.Name, req.NIM, password, "mahasiswa")
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Mahasiswa berhasil didaftarkan", dto.ToStudentResponse(student))
}

// POST /api/admin/lecturers
func (ctrl *UserAdminController) RegisterLecturer(c *fiber.Ctx) error {
	var req dto.RegisterLecturerRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	password, hashed, err := generatePassword()
	if err != nil {
		return err
	}

	lecturer := model.LecturerModel{
		LecturerCode: req.NIK,
		LecturerName: req.Name,
	}

	err = ctrl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		user := model.UserModel{
			UserEmail:    req.Email,
			UserPassword: hashed,
			UserRole:     constants.RoleLecturer,
			UserStatus:   model.UserStatusActive,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		lecturer.LecturerUserID = user.UserID
		lecturer.User = &user
		return tx.Create(&lecturer).Error
	})
	if err != nil {
		return helper.TranslateDuplicate(err, "Email atau NIK sudah terdaftar")
	}

	ctrl.sendCredentials(req.Email, req.Name, req.NIK, password, "dosen")
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Dosen berhasil didaftarkan", dto.ToLecturerResponse(lecturer))
}

// POST /api/admin/admins
func (ctrl *UserAdminController) RegisterAdmin(c *fiber.Ctx) error {
	var req dto.RegisterAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	password, hashed, err := generatePassword()
	if err != nil {
		return err
	}

	admin := model.AdminModel{AdminName: req.Name}

	err = ctrl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		user := model.UserModel{
			UserEmail:    req.Email,
			UserPassword: hashed,
			UserRole:     constants.RoleAdmin,
			UserStatus:   model.UserStatusActive,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		admin.AdminUserID = user.UserID
		admin.User = &user
		return tx.Create(&admin).Error
	})
	if err != nil {
		return helper.TranslateDuplicate(err, "Email sudah terdaftar")
	}

	ctrl.sendCredentials(req.Email, req.Name, req.Email, password, "admin")
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Admin berhasil didaftarkan", dto.ToAdminResponse(admin))
}

// =============================
// 🔍 Daftar akun (paginated)
// =============================

// GET /api/admin/students
func (ctrl *UserAdminController) GetAllStudents(c *fiber.Ctx) error {
	params := helper.ParseFiber(c)

	var total int64
	if err := ctrl.DB.WithContext(c.Context()).Model(&model.StudentModel{}).Count(&total).Error; err != nil {
		return err
	}

	var students []model.StudentModel
	if err := ctrl.DB.WithContext(c.Context()).
		Preload("User").
		Order("student_nim ASC").
		Limit(params.Limit).Offset(params.Offset()).
		Find(&students).Error; err != nil {
		return err
	}

	responses := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, dto.ToStudentResponse(student))
	}
	return helper.Success(c, "Daftar mahasiswa berhasil diambil", fiber.Map{
		"students": responses,
		"meta":     helper.BuildMeta(total, params),
	})
}

// GET /api/admin/lecturers
func (ctrl *UserAdminController) GetAllLecturers(c *fiber.Ctx) error {
	params := helper.ParseFiber(c)

	var total int64
	if err := ctrl.DB.WithContext(c.Context()).Model(&model.LecturerModel{}).Count(&total).Error; err != nil {
		return err
	}

	var lecturers []model.LecturerModel
	if err := ctrl.DB.WithContext(c.Context()).
		Preload("User").
		Order("lecturer_name ASC").
		Limit(params.Limit).Offset(params.Offset()).
		Find(&lecturers).Error; err != nil {
		return err
	}

	responses := make([]dto.LecturerResponse, 0, len(lecturers))
	for _, lecturer := range lecturers {
		responses = append(responses, dto.ToLecturerResponse(lecturer))
	}
	return helper.Success(c, "Daftar dosen berhasil diambil", fiber.Map{
		"lecturers": responses,
		"meta":      helper.BuildMeta(total, params),
	})
}

// GET /api/admin/admins
func (ctrl *UserAdminController) GetAllAdmins(c *fiber.Ctx) error {
	params := helper.ParseFiber(c)

	var total int64
	if err := ctrl.DB.WithContext(c.Context()).Model(&model.AdminModel{}).Count(&total).Error; err != nil {
		return err
	}

	var admins []model.AdminModel
	if err := ctrl.DB.WithContext(c.Context()).
		Preload("User").
		Order("admin_name ASC").
		Limit(params.Limit).Offset(params.Offset()).
		Find(&admins).Error; err != nil {
		return err
	}

	responses := make([]dto.AdminResponse, 0, len(admins))
	for _, admin := range admins {
		responses = append(responses, dto.ToAdminResponse(admin))
	}
	return helper.Success(c, "Daftar admin berhasil diambil", fiber.Map{
		"admins": responses,
		"meta":   helper.BuildMeta(total, params),
	})
}

// PUT /api/admin/users/:id/deactivate
func (ctrl *UserAdminController) DeactivateUser(c *fiber.Ctx) error {
	result := ctrl.DB.WithContext(c.Context()).Model(&model.UserModel{}).
		Where("user_id = ?", c.Params("id")).
		Update("user_status", model.UserStatusInactive)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return helper.NewNotFoundError("User tidak ditemukan")
	}
	return helper.Success(c, "User berhasil dinonaktifkan", nil)
}

// =============================
// Internal
// =============================

func (ctrl *UserAdminController) sendCredentials(email, name, identifier, password, role string) {
	if err := ctrl.Mail.SendAccountCredentialsEmail(email, name, identifier, password, role); err != nil {
		log.Printf("[ERROR] Gagal kirim kredensial ke %s: %v", email, err)
	}
}

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generatePassword() (plain string, hashed string, err error) {
	buf := make([]byte, generatedPasswordLen)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", "", err
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	plain = string(buf)

	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return plain, string(h), nil
}
