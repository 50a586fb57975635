package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	helper "praklinik_backend/internals/helpers"

	"praklinik_backend/internals/features/praklinik/pces/dto"
	"praklinik_backend/internals/features/praklinik/pces/model"
)

// Repository adalah akses data PCES yang dibutuhkan service ini.
// Find* mengembalikan (nil, nil) saat baris tidak ditemukan.
type Repository interface {
	FindTemplateByID(ctx context.Context, templateID uuid.UUID) (*model.PcesTemplateModel, error)
	FindTemplates(ctx context.Context, limit, offset int) ([]model.PcesTemplateModel, int64, error)
	FindTemplatesByCourseIDs(ctx context.Context, courseIDs []uuid.UUID) ([]model.PcesTemplateModel, error)
	CreateTemplate(ctx context.Context, template *model.PcesTemplateModel) error
	FindTestByID(ctx context.Context, testID uuid.UUID) (*model.PcesTestModel, error)
	FindTestByPair(ctx context.Context, templateID, studentID uuid.UUID) (*model.PcesTestModel, error)
	FindTestsByLecturer(ctx context.Context, lecturerID uuid.UUID, limit, offset int) ([]model.PcesTestModel, int64, error)
	FindTestsByStudent(ctx context.Context, studentID uuid.UUID) ([]model.PcesTestModel, error)
	CreateTest(ctx context.Context, test *model.PcesTestModel) error
	ReplaceTestScores(ctx context.Context, testID uuid.UUID, testDate datatypes.Date, totalScore decimal.Decimal, scores []model.PcesScoreModel) error
}

// EnrollmentChecker: subset relasi akademik yang dipakai PCES.
type EnrollmentChecker interface {
	ClassExists(ctx context.Context, classID uuid.UUID) (bool, error)
	CourseExists(ctx context.Context, courseID uuid.UUID) (bool, error)
	IsStudentInClass(ctx context.Context, classID, studentID uuid.UUID) (bool, error)
	IsLecturerOnCourse(ctx context.Context, courseID, lecturerID uuid.UUID) (bool, error)
	FindLecturerCourseIDs(ctx context.Context, lecturerID uuid.UUID) ([]uuid.UUID, error)
}

// StatusRecalculator memicu hitung ulang status Pra Klinik mahasiswa
// setelah test PCES dibuat atau diubah.
type StatusRecalculator interface {
	Recalculate(ctx context.Context, studentID uuid.UUID) error
}

type PcesService struct {
	repo   Repository
	enroll EnrollmentChecker
	recalc StatusRecalculator
}

func NewPcesService(repo Repository, enroll EnrollmentChecker, recalc StatusRecalculator) *PcesService {
	return &PcesService{repo: repo, enroll: enroll, recalc: recalc}
}

const (
	minItemScore = 1
	maxItemScore = 5
	scoreScale   = 20 // total = avg(1..5) × 20 → skala 0–100
)

// =============================
// ➕ Template + SOP Items
// =============================
func (s *PcesService) CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest) (dto.TemplateDetailResponse, error) {
	courseOK, err := s.enroll.CourseExists(ctx, req.CourseID)
	if err != nil {
		return dto.TemplateDetailResponse{}, err
	}
	if !courseOK {
		return dto.TemplateDetailResponse{}, helper.NewNotFoundError("Course not found")
	}

	if len(req.SopItems) == 0 {
		return dto.TemplateDetailResponse{}, helper.NewValidationError("Template must have at least 1 SOP item")
	}

	template := model.PcesTemplateModel{
		PcesTemplateCourseID:    req.CourseID,
		PcesTemplateName:        req.Name,
		PcesTemplateDescription: req.Description,
	}
	for i, item := range req.SopItems {
		orderNumber := item.OrderNumber
		if orderNumber == 0 {
			orderNumber = i + 1
		}
		template.SopItems = append(template.SopItems, model.PcesSopItemModel{
			PcesSopItemDescription: item.Description,
			PcesSopItemOrderNumber: orderNumber,
		})
	}

	if err := s.repo.CreateTemplate(ctx, &template); err != nil {
		return dto.TemplateDetailResponse{}, err
	}
	return dto.ToTemplateDetailResponse(template), nil
}

func (s *PcesService) GetAllTemplates(ctx context.Context, limit, offset int) ([]dto.TemplateResponse, int64, error) {
	templates, total, err := s.repo.FindTemplates(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]dto.TemplateResponse, 0, len(templates))
	for _, template := range templates {
		responses = append(responses, dto.ToTemplateResponse(template))
	}
	return responses, total, nil
}

// GetLecturerTemplates: hanya template pada mata kuliah yang diampu dosen.
func (s *PcesService) GetLecturerTemplates(ctx context.Context, lecturerID uuid.UUID) ([]dto.TemplateResponse, error) {
	courseIDs, err := s.enroll.FindLecturerCourseIDs(ctx, lecturerID)
	if err != nil {
		return nil, err
	}
	if len(courseIDs) == 0 {
		return []dto.TemplateResponse{}, nil
	}

	templates, err := s.repo.FindTemplatesByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.TemplateResponse, 0, len(templates))
	for _, template := range templates {
		responses = append(responses, dto.ToTemplateResponse(template))
	}
	return responses, nil
}

func (s *PcesService) GetTemplateDetail(ctx context.Context, templateID uuid.UUID) (dto.TemplateDetailResponse, error) {
	template, err := s.repo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return dto.TemplateDetailResponse{}, err
	}
	if template == nil {
		return dto.TemplateDetailResponse{}, helper.NewNotFoundError("Template not found")
	}
	return dto.ToTemplateDetailResponse(*template), nil
}

// =============================
// 📋 PCES Test (checklist penilaian)
// =============================
// Satu test per (template, mahasiswa). Skor harus menutup setiap SOP item
// tepat satu kali; total = rata-rata × 20.
func (s *PcesService) CreatePcesTest(ctx context.Context, req dto.CreatePcesTestRequest, lecturerID uuid.UUID) (dto.PcesTestDetailResponse, error) {
	template, err := s.repo.FindTemplateByID(ctx, req.TemplateID)
	if err != nil {
		return dto.PcesTestDetailResponse{}, err
	}
	if template == nil {
		return dto.PcesTestDetailResponse{}, helper.NewNotFoundError("Template not found")
	}

	teaches, err := s.enroll.IsLecturerOnCourse(ctx, template.PcesTemplateCourseID, lecturerID)
	if err != nil {
		return dto.PcesTestDetailResponse{}, err
	}
	if !teaches {
		return dto.PcesTestDetailResponse{}, helper.NewForbiddenError("You don't teach this course")
	}

	classOK, err := s.enroll.ClassExists(ctx, req.ClassID)
	if err != nil {
		return dto.PcesTestDetailResponse{}, err
	}
	if !classOK {
		return dto.PcesTestDetailResponse{}, helper.NewNotFoundError("Class not found")
	}

	inClass, err := s.enroll.IsStudentInClass(ctx, req.ClassID, req.StudentID)
	if err != nil {
		return dto.PcesTestDetailResponse{}, err
	}
	if !inClass {
		return dto.PcesTestDetailResponse{}, helper.NewForbiddenError("Student is not enrolled in this class")
	}

	existing, err := s.repo.FindTestByPair(ctx, req.TemplateID, req.StudentID)
	if err != nil {
		return dto.PcesTestDetailResponse{}, err
	}
	if existing != nil {
		return dto.PcesTestDetailResponse{}, helper.NewConflictError("Student already has a test for this template, update it instead")
	}

	testDate, err := parseTestDate(req.TestDate)
	if err != nil {
		return dto.PcesTestDetailResponse{}, err
	}

	scores, totalScore, err := buildScores(template.SopItems, req.Scores)
	if err != nil {
		return dto.PcesTestDetailResponse{}, err
	}

	test := model.PcesTestModel{
		PcesTestTemplateID: req.TemplateID,
		PcesTestStudentID:  req.StudentID,
		PcesTestCourseID:   template.PcesTemplateCourseID,
		PcesTestClassID:    req.ClassID,
		PcesTestLecturerID: lecturerID,
		PcesTestDate:       testDate,
		PcesTestTotalScore: decimal.NewNullDecimal(totalScore),
		Scores:             scores,
	}

	if err := s.repo.CreateTest(ctx, &test); err != nil {
		return dto.PcesTestDetailResponse{}, helper.TranslateDuplicate(err, "Student already has a test for this template, update it instead")
	}

	s.triggerRecalc(ctx, req.StudentID)
	test.Template = template
	return dto.ToPcesTestDetailResponse(test), nil
}

// UpdatePcesTest: jalur retake. Skor lama dibuang dan diganti seluruhnya
// dalam satu transaksi, total dihitung ulang dari set baru.
func (s *PcesService) UpdatePcesTest(ctx context.Context, testID uuid.UUID, req dto.UpdatePcesTestRequest, lecturerID uuid.UUID) (dto.PcesTestDetailResponse, error) {
	test, err := s.repo.FindTestByID(ctx, testID)
	if err != nil {
		return dto.PcesTestDetailResponse{}, err
	}
	if test == nil {
		return dto.PcesTestDetailResponse{}, helper.NewNotFoundError("Test not found")
	}
	if test.PcesTestLecturerID != lecturerID {
		return dto.PcesTestDetailResponse{}, helper.NewForbiddenError("You don't have access to this test")
	}
	if test.Template == nil {
		return dto.PcesTestDetailResponse{}, helper.NewNotFoundError("Template not found")
	}

	testDate := test.PcesTestDate
	if req.TestDate != nil {
		testDate, err = parseTestDate(*req.TestDate)
		if err != nil {
			return dto.PcesTestDetailResponse{}, err
		}
	}

	scores, totalScore, err := buildScores(test.Template.SopItems, req.Scores)
	if err != nil {
		return dto.PcesTestDetailResponse{}, err
	}
	for i := range scores {
		scores[i].PcesScoreTestID = testID
	}

	if err := s.repo.ReplaceTestScores(ctx, testID, testDate, totalScore, scores); err != nil {
		return dto.PcesTestDetailResponse{}, err
	}

	s.triggerRecalc(ctx, test.PcesTestStudentID)

	test.PcesTestDate = testDate
	test.PcesTestTotalScore = decimal.NewNullDecimal(totalScore)
	test.Scores = scores
	return dto.ToPcesTestDetailResponse(*test), nil
}

// buildScores memvalidasi skor terhadap SOP item template: setiap item
// dinilai tepat satu kali, tidak ada item asing, nilai 1..5.
func buildScores(sopItems []model.PcesSopItemModel, reqScores []dto.ScoreItemRequest) ([]model.PcesScoreModel, decimal.Decimal, error) {
	if len(sopItems) == 0 {
		return nil, decimal.Zero, helper.NewValidationError("Template has no SOP items")
	}

	itemByID := make(map[uuid.UUID]model.PcesSopItemModel, len(sopItems))
	for _, item := range sopItems {
		itemByID[item.PcesSopItemID] = item
	}

	scored := make(map[uuid.UUID]bool, len(reqScores))
	scores := make([]model.PcesScoreModel, 0, len(reqScores))
	sum := 0

	for _, sc := range reqScores {
		item, ok := itemByID[sc.SopItemID]
		if !ok {
			return nil, decimal.Zero, helper.NewValidationError("Invalid SOP item ID: %s", sc.SopItemID)
		}
		if scored[sc.SopItemID] {
			return nil, decimal.Zero, helper.NewValidationError("Duplicate score for SOP item %d", item.PcesSopItemOrderNumber)
		}
		scored[sc.SopItemID] = true

		if sc.Value < minItemScore || sc.Value > maxItemScore {
			return nil, decimal.Zero, helper.NewValidationError("Score for item %d must be between 1 and 5", item.PcesSopItemOrderNumber)
		}

		sum += sc.Value
		scores = append(scores, model.PcesScoreModel{
			PcesScoreSopItemID: sc.SopItemID,
			PcesScoreValue:     sc.Value,
		})
	}

	// symmetric difference: item yang belum dinilai juga ditolak
	for _, item := range sopItems {
		if !scored[item.PcesSopItemID] {
			return nil, decimal.Zero, helper.NewValidationError("All SOP items must be scored (item %d is missing)", item.PcesSopItemOrderNumber)
		}
	}

	total := decimal.NewFromInt(int64(sum)).
		Div(decimal.NewFromInt(int64(len(sopItems)))).
		Mul(decimal.NewFromInt(scoreScale)).
		Round(2)
	return scores, total, nil
}

func parseTestDate(raw string) (datatypes.Date, error) {
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return datatypes.Date{}, helper.NewValidationError("Invalid test date, expected YYYY-MM-DD")
	}
	return datatypes.Date(parsed), nil
}

func (s *PcesService) triggerRecalc(ctx context.Context, studentID uuid.UUID) {
	if s.recalc == nil {
		return
	}
	if err := s.recalc.Recalculate(ctx, studentID); err != nil {
		log.Printf("[WARN] Gagal hitung ulang status Pra Klinik untuk %s: %v", studentID, err)
	}
}

// =============================
// 🔍 Read surfaces
// =============================

func (s *PcesService) GetLecturerTests(ctx context.Context, lecturerID uuid.UUID, limit, offset int) ([]dto.PcesTestResponse, int64, error) {
	tests, total, err := s.repo.FindTestsByLecturer(ctx, lecturerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]dto.PcesTestResponse, 0, len(tests))
	for _, test := range tests {
		responses = append(responses, dto.ToPcesTestResponse(test))
	}
	return responses, total, nil
}

func (s *PcesService) GetTestDetail(ctx context.Context, testID, lecturerID uuid.UUID) (dto.PcesTestDetailResponse, error) {
	test, err := s.repo.FindTestByID(ctx, testID)
	if err != nil {
		return dto.PcesTestDetailResponse{}, err
	}
	if test == nil {
		return dto.PcesTestDetailResponse{}, helper.NewNotFoundError("Test not found")
	}
	if test.PcesTestLecturerID != lecturerID {
		return dto.PcesTestDetailResponse{}, helper.NewForbiddenError("You don't have access to this test")
	}
	return dto.ToPcesTestDetailResponse(*test), nil
}

// GetStudentResults: hasil PCES milik mahasiswa sendiri.
func (s *PcesService) GetStudentResults(ctx context.Context, studentID uuid.UUID) ([]dto.PcesTestDetailResponse, error) {
	tests, err := s.repo.FindTestsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.PcesTestDetailResponse, 0, len(tests))
	for _, test := range tests {
		responses = append(responses, dto.ToPcesTestDetailResponse(test))
	}
	return responses, nil
}
