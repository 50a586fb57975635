package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"praklinik_backend/internals/constants"
	"praklinik_backend/internals/features/academics/enrollment"
	"praklinik_backend/internals/middlewares/auth"

	calcController "praklinik_backend/internals/features/praklinik/calculation/controller"
	calcRepository "praklinik_backend/internals/features/praklinik/calculation/repository"
	calcService "praklinik_backend/internals/features/praklinik/calculation/service"
	pcesController "praklinik_backend/internals/features/praklinik/pces/controller"
	pcesRepository "praklinik_backend/internals/features/praklinik/pces/repository"
	pcesService "praklinik_backend/internals/features/praklinik/pces/service"
	quizController "praklinik_backend/internals/features/praklinik/quiz/controller"
	quizRepository "praklinik_backend/internals/features/praklinik/quiz/repository"
	quizService "praklinik_backend/internals/features/praklinik/quiz/service"
)

// PraklinikRoutes merangkai seluruh vertikal Pra Klinik: quiz, PCES,
// dan aggregator nilai. Calculation service jadi StatusRecalculator
// untuk quiz & pces supaya cache status selalu segar setelah grading.
func PraklinikRoutes(api fiber.Router, db *gorm.DB) {
	enrollRepo := enrollment.NewRepository(db)

	calcSvc := calcService.NewCalculationService(calcRepository.NewCalculationRepository(db))
	quizSvc := quizService.NewQuizService(quizRepository.NewQuizRepository(db), enrollRepo, calcSvc)
	pcesSvc := pcesService.NewPcesService(pcesRepository.NewPcesRepository(db), enrollRepo, calcSvc)

	quizCtrl := quizController.NewQuizController(quizSvc)
	pcesCtrl := pcesController.NewPcesController(pcesSvc)
	calcCtrl := calcController.NewCalculationController(calcSvc)

	// =============================
	// 👨‍🏫 Lecturer
	// =============================
	lecturer := api.Group("/lecturer",
		auth.AuthMiddleware(),
		auth.OnlyRoles(constants.RoleErrorLecturer("Pra Klinik"), constants.RoleLecturer),
	)

	lecturer.Post("/quizzes", quizCtrl.CreateQuiz)
	lecturer.Get("/quizzes", quizCtrl.GetLecturerQuizzes)
	lecturer.Get("/quizzes/:id", quizCtrl.GetQuizDetail)
	lecturer.Post("/quizzes/:id/questions", quizCtrl.CreateQuestion)
	lecturer.Get("/quizzes/:id/submissions", quizCtrl.GetQuizSubmissions)
	lecturer.Get("/quizzes/:id/statistics", quizCtrl.GetQuizStatistics)
	lecturer.Put("/submissions/:id/questions/:questionId/grade", quizCtrl.GradeEssay)

	lecturer.Get("/pces-templates", pcesCtrl.GetLecturerTemplates)
	lecturer.Get("/pces-templates/:id", pcesCtrl.GetTemplateDetail)
	lecturer.Post("/pces-tests", pcesCtrl.CreatePcesTest)
	lecturer.Get("/pces-tests", pcesCtrl.GetLecturerTests)
	lecturer.Get("/pces-tests/:id", pcesCtrl.GetTestDetail)
	lecturer.Put("/pces-tests/:id", pcesCtrl.UpdatePcesTest)

	lecturer.Get("/classes/:id/pass-status", calcCtrl.GetClassStatus)
	lecturer.Get("/students/:id/report", calcCtrl.GetStudentReport)
	lecturer.Post("/students/:id/recalculate", calcCtrl.RecalculateStudent)

	// =============================
	// 🎓 Student
	// =============================
	student := api.Group("/student",
		auth.AuthMiddleware(),
		auth.OnlyRoles(constants.RoleErrorStudent("Pra Klinik"), constants.RoleStudent),
	)

	student.Get("/quizzes", quizCtrl.GetAvailableQuizzes)
	student.Get("/quizzes/:id", quizCtrl.GetQuizForStudent)
	student.Post("/quizzes/:id/submit", quizCtrl.SubmitQuiz)
	student.Get("/quiz-results", quizCtrl.GetStudentResults)
	student.Get("/submissions/:id", quizCtrl.GetSubmissionDetail)
	student.Get("/pces-results", pcesCtrl.GetStudentResults)
	student.Get("/report", calcCtrl.GetOwnReport)

	// =============================
	// 🛡 Admin
	// =============================
	admin := api.Group("/admin",
		auth.AuthMiddleware(),
		auth.OnlyRoles(constants.RoleErrorAdmin("PCES"), constants.RoleAdmin),
	)

	admin.Post("/pces-templates", pcesCtrl.CreateTemplate)
	admin.Get("/pces-templates", pcesCtrl.GetAllTemplates)
	admin.Get("/pces-templates/:id", pcesCtrl.GetTemplateDetail)
	admin.Get("/classes/:id/pass-status", calcCtrl.GetClassStatus)
	admin.Get("/students/:id/report", calcCtrl.GetStudentReport)
	admin.Post("/students/:id/recalculate", calcCtrl.RecalculateStudent)
}
