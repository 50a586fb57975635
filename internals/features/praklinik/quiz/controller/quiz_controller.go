package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"praklinik_backend/internals/middlewares/auth"

	helper "praklinik_backend/internals/helpers"

	"praklinik_backend/internals/features/praklinik/quiz/dto"
	"praklinik_backend/internals/features/praklinik/quiz/service"
)

type QuizController struct {
	Service  *service.QuizService
	Validate *validator.Validate
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{
		Service:  svc,
		Validate: validator.New(),
	}
}

// =============================
// 👨‍🏫 Lecturer endpoints
// =============================

// POST /api/lecturer/quizzes
func (ctrl *QuizController) CreateQuiz(c *fiber.Ctx) error {
	lecturerID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	resp, err := ctrl.Service.CreateQuiz(c.Context(), req, lecturerID)
	if err != nil {
		return err
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Quiz berhasil dibuat", resp)
}

// POST /api/lecturer/quizzes/:id/questions
func (ctrl *QuizController) CreateQuestion(c *fiber.Ctx) error {
	lecturerID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	quizID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid quiz ID")
	}

	var req dto.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	resp, err := ctrl.Service.CreateQuestion(c.Context(), quizID, req, lecturerID)
	if err != nil {
		return err
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Soal berhasil ditambahkan", resp)
}

// GET /api/lecturer/quizzes
func (ctrl *QuizController) GetLecturerQuizzes(c *fiber.Ctx) error {
	lecturerID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	params := helper.ParseFiber(c)
	quizzes, total, err := ctrl.Service.GetLecturerQuizzes(c.Context(), lecturerID, params.Limit, params.Offset())
	if err != nil {
		return err
	}

	return helper.Success(c, "Daftar quiz berhasil diambil", fiber.Map{
		"quizzes": quizzes,
		"meta":    helper.BuildMeta(total, params),
	})
}

// GET /api/lecturer/quizzes/:id
func (ctrl *QuizController) GetQuizDetail(c *fiber.Ctx) error {
	lecturerID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	quizID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid quiz ID")
	}

	resp, err := ctrl.Service.GetQuizForLecturer(c.Context(), quizID, lecturerID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Detail quiz berhasil diambil", resp)
}

// GET /api/lecturer/quizzes/:id/submissions
func (ctrl *QuizController) GetQuizSubmissions(c *fiber.Ctx) error {
	lecturerID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	quizID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid quiz ID")
	}

	resp, err := ctrl.Service.GetQuizSubmissions(c.Context(), quizID, lecturerID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Daftar submission berhasil diambil", resp)
}

// GET /api/lecturer/quizzes/:id/statistics
func (ctrl *QuizController) GetQuizStatistics(c *fiber.Ctx) error {
	lecturerID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	quizID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid quiz ID")
	}

	resp, err := ctrl.Service.GetQuizStatistics(c.Context(), quizID, lecturerID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Statistik quiz berhasil diambil", resp)
}

// PUT /api/lecturer/submissions/:id/questions/:questionId/grade
func (ctrl *QuizController) GradeEssay(c *fiber.Ctx) error {
	lecturerID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	submissionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid submission ID")
	}
	questionID, err := uuid.Parse(c.Params("questionId"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid question ID")
	}

	var req dto.GradeEssayRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := ctrl.Service.GradeEssay(c.Context(), submissionID, questionID, req.PointsEarned, lecturerID); err != nil {
		return err
	}
	return helper.Success(c, "Jawaban essay berhasil dinilai", nil)
}

// =============================
// 🎓 Student endpoints
// =============================

// GET /api/student/quizzes
func (ctrl *QuizController) GetAvailableQuizzes(c *fiber.Ctx) error {
	studentID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	resp, err := ctrl.Service.GetAvailableQuizzes(c.Context(), studentID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Daftar quiz tersedia berhasil diambil", resp)
}

// GET /api/student/quizzes/:id
func (ctrl *QuizController) GetQuizForStudent(c *fiber.Ctx) error {
	studentID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	quizID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid quiz ID")
	}

	resp, err := ctrl.Service.GetQuizForStudent(c.Context(), quizID, studentID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Detail quiz berhasil diambil", resp)
}

// POST /api/student/quizzes/:id/submit
func (ctrl *QuizController) SubmitQuiz(c *fiber.Ctx) error {
	studentID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	quizID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid quiz ID")
	}

	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidatorError(c, err)
	}

	resp, err := ctrl.Service.SubmitQuiz(c.Context(), quizID, req, studentID)
	if err != nil {
		return err
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Quiz berhasil dikumpulkan", resp)
}

// GET /api/student/quiz-results
func (ctrl *QuizController) GetStudentResults(c *fiber.Ctx) error {
	studentID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	resp, err := ctrl.Service.GetStudentResults(c.Context(), studentID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Hasil quiz berhasil diambil", resp)
}

// GET /api/student/submissions/:id
func (ctrl *QuizController) GetSubmissionDetail(c *fiber.Ctx) error {
	studentID, err := auth.GetProfileID(c)
	if err != nil {
		return err
	}

	submissionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid submission ID")
	}

	resp, err := ctrl.Service.GetSubmissionDetail(c.Context(), submissionID, studentID)
	if err != nil {
		return err
	}
	return helper.Success(c, "Detail submission berhasil diambil", resp)
}
