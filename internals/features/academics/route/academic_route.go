package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"praklinik_backend/internals/constants"
	"praklinik_backend/internals/middlewares/auth"

	classController "praklinik_backend/internals/features/academics/classes/controller"
	courseController "praklinik_backend/internals/features/academics/courses/controller"
	masterController "praklinik_backend/internals/features/academics/masters/controller"
)

// AcademicRoutes: kelas, mata kuliah, dan data master (RS & stase).
func AcademicRoutes(api fiber.Router, db *gorm.DB) {
	classCtrl := classController.NewClassController(db)
	courseCtrl := courseController.NewCourseController(db)
	masterCtrl := masterController.NewMasterController(db)

	// =============================
	// 🛡 Admin
	// =============================
	admin := api.Group("/admin",
		auth.AuthMiddleware(),
		auth.OnlyRoles(constants.RoleErrorAdmin("akademik"), constants.RoleAdmin),
	)

	admin.Post("/classes", classCtrl.CreateClass)
	admin.Get("/classes", classCtrl.GetAllClasses)
	admin.Get("/classes/:id", classCtrl.GetClassDetail)
	admin.Put("/classes/:id", classCtrl.UpdateClass)
	admin.Delete("/classes/:id", classCtrl.DeleteClass)
	admin.Post("/classes/:id/students", classCtrl.AssignStudents)
	admin.Delete("/classes/:id/students/:studentId", classCtrl.RemoveStudent)
	admin.Get("/classes/:id/available-students", classCtrl.GetAvailableStudents)

	admin.Post("/courses", courseCtrl.CreateCourse)
	admin.Get("/courses", courseCtrl.GetAllCourses)
	admin.Get("/courses/:id", courseCtrl.GetCourseDetail)
	admin.Put("/courses/:id", courseCtrl.UpdateCourse)
	admin.Delete("/courses/:id", courseCtrl.DeleteCourse)
	admin.Post("/courses/:id/lecturers", courseCtrl.AssignLecturers)
	admin.Delete("/courses/:id/lecturers/:lecturerId", courseCtrl.RemoveLecturer)
	admin.Get("/courses/:id/available-lecturers", courseCtrl.GetAvailableLecturers)

	admin.Post("/hospitals", masterCtrl.CreateHospital)
	admin.Get("/hospitals", masterCtrl.GetAllHospitals)
	admin.Delete("/hospitals/:id", masterCtrl.DeleteHospital)
	admin.Put("/hospitals/:id/restore", masterCtrl.RestoreHospital)
	admin.Post("/stases", masterCtrl.CreateStase)
	admin.Get("/stases", masterCtrl.GetAllStases)
	admin.Delete("/stases/:id", masterCtrl.DeleteStase)
	admin.Put("/stases/:id/restore", masterCtrl.RestoreStase)

	// =============================
	// 👨‍🏫 Lecturer
	// =============================
	lecturer := api.Group("/lecturer",
		auth.AuthMiddleware(),
		auth.OnlyRoles(constants.RoleErrorLecturer("akademik"), constants.RoleLecturer),
	)

	lecturer.Get("/courses", courseCtrl.GetMyCourses)
	lecturer.Get("/classes", classCtrl.GetAllClasses)
	lecturer.Get("/classes/:id", classCtrl.GetClassDetail)
}
