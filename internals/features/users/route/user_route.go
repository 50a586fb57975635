package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"praklinik_backend/internals/constants"
	"praklinik_backend/internals/helpers/mailer"
	"praklinik_backend/internals/middlewares/auth"

	authController "praklinik_backend/internals/features/users/auth/controller"
	authService "praklinik_backend/internals/features/users/auth/service"
	userController "praklinik_backend/internals/features/users/user/controller"
)

// UserRoutes: autentikasi publik + manajemen akun oleh admin.
func UserRoutes(api fiber.Router, db *gorm.DB, mail mailer.Mailer) {
	authCtrl := authController.NewAuthController(authService.NewAuthService(db, mail))
	adminCtrl := userController.NewUserAdminController(db, mail)

	// =============================
	// 🔓 Publik
	// =============================
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authCtrl.Login)
	authGroup.Post("/forgot-password", authCtrl.RequestOTP)
	authGroup.Post("/verify-otp", authCtrl.VerifyOTP)
	authGroup.Post("/reset-password", authCtrl.ResetPassword)

	// =============================
	// 🔒 Semua role (login state)
	// =============================
	authGroup.Get("/me", auth.AuthMiddleware(), authCtrl.GetMe)
	authGroup.Put("/change-password", auth.AuthMiddleware(), authCtrl.ChangePassword)

	// =============================
	// 🛡 Admin
	// =============================
	admin := api.Group("/admin",
		auth.AuthMiddleware(),
		auth.OnlyRoles(constants.RoleErrorAdmin("manajemen akun"), constants.RoleAdmin),
	)

	admin.Post("/students", adminCtrl.RegisterStudent)
	admin.Get("/students", adminCtrl.GetAllStudents)
	admin.Post("/lecturers", adminCtrl.RegisterLecturer)
	admin.Get("/lecturers", adminCtrl.GetAllLecturers)
	admin.Post("/admins", adminCtrl.RegisterAdmin)
	admin.Get("/admins", adminCtrl.GetAllAdmins)
	admin.Put("/users/:id/deactivate", adminCtrl.DeactivateUser)
}
