package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	helper "praklinik_backend/internals/helpers"

	"praklinik_backend/internals/features/praklinik/calculation/dto"
	pcesModel "praklinik_backend/internals/features/praklinik/pces/model"
	quizModel "praklinik_backend/internals/features/praklinik/quiz/model"
	classModel "praklinik_backend/internals/features/academics/classes/model"
	userModel "praklinik_backend/internals/features/users/user/model"
)

// Ambang kelulusan Pra Klinik pada skala 0–100.
const PassingThreshold = 60

// Bobot komponen nilai. Disengaja sama rata; ubah di sini kalau
// kurikulum menggeser bobot quiz vs PCES.
var (
	quizWeight = decimal.NewFromFloat(0.5)
	pcesWeight = decimal.NewFromFloat(0.5)
)

// rosterWorkers membatasi fan-out saat menghitung status satu kelas.
const rosterWorkers = 8

// Repository adalah akses data lintas fitur yang dibutuhkan aggregator.
// Find* mengembalikan (nil, nil) saat baris tidak ditemukan.
type Repository interface {
	FindGradedSubmissionsByStudent(ctx context.Context, studentID uuid.UUID) ([]quizModel.QuizSubmissionModel, error)
	FindPcesTestsByStudent(ctx context.Context, studentID uuid.UUID) ([]pcesModel.PcesTestModel, error)
	FindStudentByID(ctx context.Context, studentID uuid.UUID) (*userModel.StudentModel, error)
	FindClassByID(ctx context.Context, classID uuid.UUID) (*classModel.ClassModel, error)
	FindClassRoster(ctx context.Context, classID uuid.UUID) ([]userModel.StudentModel, error)
	UpdateStudentPreClinicalStatus(ctx context.Context, studentID uuid.UUID, score decimal.Decimal, passed bool) error
}

type CalculationService struct {
	repo Repository
}

func NewCalculationService(repo Repository) *CalculationService {
	return &CalculationService{repo: repo}
}

// =============================
// 🧮 Nilai gabungan
// =============================

// CalculateScore menghitung komponen nilai dari data mentah:
// quiz = rata-rata submission yang sudah dinilai (0 bila belum ada),
// pces = rata-rata total test (0 bila belum ada),
// total = 0.5×quiz + 0.5×pces.
func (s *CalculationService) CalculateScore(ctx context.Context, studentID uuid.UUID) (dto.ScoreBreakdown, error) {
	submissions, err := s.repo.FindGradedSubmissionsByStudent(ctx, studentID)
	if err != nil {
		return dto.ScoreBreakdown{}, err
	}

	tests, err := s.repo.FindPcesTestsByStudent(ctx, studentID)
	if err != nil {
		return dto.ScoreBreakdown{}, err
	}

	return buildBreakdown(submissions, tests), nil
}

func buildBreakdown(submissions []quizModel.QuizSubmissionModel, tests []pcesModel.PcesTestModel) dto.ScoreBreakdown {
	quizSum := decimal.Zero
	quizCount := 0
	for _, sub := range submissions {
		if !sub.QuizSubmissionIsGraded || !sub.QuizSubmissionScore.Valid {
			continue
		}
		quizSum = quizSum.Add(sub.QuizSubmissionScore.Decimal)
		quizCount++
	}

	pcesSum := decimal.Zero
	pcesCount := 0
	for _, test := range tests {
		if !test.PcesTestTotalScore.Valid {
			continue
		}
		pcesSum = pcesSum.Add(test.PcesTestTotalScore.Decimal)
		pcesCount++
	}

	breakdown := dto.ScoreBreakdown{
		QuizScore: decimal.Zero,
		QuizCount: quizCount,
		PcesScore: decimal.Zero,
		PcesCount: pcesCount,
	}
	if quizCount > 0 {
		breakdown.QuizScore = quizSum.Div(decimal.NewFromInt(int64(quizCount))).Round(2)
	}
	if pcesCount > 0 {
		breakdown.PcesScore = pcesSum.Div(decimal.NewFromInt(int64(pcesCount))).Round(2)
	}

	breakdown.TotalScore = breakdown.QuizScore.Mul(quizWeight).
		Add(breakdown.PcesScore.Mul(pcesWeight)).
		Round(2)
	return breakdown
}

// =============================
// ✅ Status lulus + cache di students
// =============================

// CheckPassStatus menghitung ulang nilai dan status lulus, lalu menyimpan
// cache-nya di tabel students. Mahasiswa tanpa assessment sama sekali
// tidak dipersist: kolom cache dibiarkan apa adanya supaya "belum dinilai"
// bisa dibedakan dari "tidak lulus dengan nilai 0".
func (s *CalculationService) CheckPassStatus(ctx context.Context, studentID uuid.UUID) (dto.PassStatusResult, error) {
	student, err := s.repo.FindStudentByID(ctx, studentID)
	if err != nil {
		return dto.PassStatusResult{}, err
	}
	if student == nil {
		return dto.PassStatusResult{}, helper.NewNotFoundError("Student not found")
	}

	breakdown, err := s.CalculateScore(ctx, studentID)
	if err != nil {
		return dto.PassStatusResult{}, err
	}

	result := dto.PassStatusResult{
		StudentID:      studentID,
		ScoreBreakdown: breakdown,
		Passed:         breakdown.TotalScore.GreaterThanOrEqual(decimal.NewFromInt(PassingThreshold)),
		HasAssessment:  breakdown.QuizCount > 0 || breakdown.PcesCount > 0,
	}

	if result.HasAssessment {
		if err := s.repo.UpdateStudentPreClinicalStatus(ctx, studentID, breakdown.TotalScore, result.Passed); err != nil {
			return dto.PassStatusResult{}, err
		}
	}
	return result, nil
}

// Recalculate adalah adapter StatusRecalculator untuk service quiz/pces.
func (s *CalculationService) Recalculate(ctx context.Context, studentID uuid.UUID) error {
	_, err := s.CheckPassStatus(ctx, studentID)
	return err
}

// =============================
// 📊 Laporan per mahasiswa
// =============================

// GetStudentReport menghitung ulang status via CheckPassStatus dulu
// (sekalian menyegarkan cache di tabel students), baru menyusun rincian
// per quiz dan per test.
func (s *CalculationService) GetStudentReport(ctx context.Context, studentID uuid.UUID) (dto.StudentReport, error) {
	status, err := s.CheckPassStatus(ctx, studentID)
	if err != nil {
		return dto.StudentReport{}, err
	}

	student, err := s.repo.FindStudentByID(ctx, studentID)
	if err != nil {
		return dto.StudentReport{}, err
	}
	if student == nil {
		return dto.StudentReport{}, helper.NewNotFoundError("Student not found")
	}

	submissions, err := s.repo.FindGradedSubmissionsByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentReport{}, err
	}
	tests, err := s.repo.FindPcesTestsByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentReport{}, err
	}

	report := dto.StudentReport{
		StudentID:      studentID,
		StudentNIM:     student.StudentNIM,
		StudentName:    student.StudentName,
		ScoreBreakdown: status.ScoreBreakdown,
		Passed:         status.Passed,
		HasAssessment:  status.HasAssessment,
	}

	for _, sub := range submissions {
		if !sub.QuizSubmissionIsGraded || !sub.QuizSubmissionScore.Valid {
			continue
		}
		entry := dto.ReportQuizEntry{
			QuizID:      sub.QuizSubmissionQuizID,
			Score:       sub.QuizSubmissionScore.Decimal,
			SubmittedAt: sub.QuizSubmissionSubmittedAt,
		}
		if sub.Quiz != nil {
			entry.QuizTitle = sub.Quiz.QuizTitle
		}
		report.Quizzes = append(report.Quizzes, entry)
	}

	for _, test := range tests {
		if !test.PcesTestTotalScore.Valid {
			continue
		}
		entry := dto.ReportPcesEntry{
			TestID:     test.PcesTestID,
			TotalScore: test.PcesTestTotalScore.Decimal,
			TestDate:   time.Time(test.PcesTestDate),
		}
		if test.Template != nil {
			entry.TemplateName = test.Template.PcesTemplateName
		}
		report.PcesTests = append(report.PcesTests, entry)
	}

	return report, nil
}

// =============================
// 📊 Status satu kelas (fan-out terbatas)
// =============================

// GetClassStatus menghitung status seluruh roster lewat CheckPassStatus,
// jadi cache di tabel students ikut diperbarui per mahasiswa. Kegagalan
// satu mahasiswa tidak menggagalkan kelas: barisnya diberi tanda error
// dan sisanya tetap dihitung.
func (s *CalculationService) GetClassStatus(ctx context.Context, classID uuid.UUID) (dto.ClassStatusResponse, error) {
	class, err := s.repo.FindClassByID(ctx, classID)
	if err != nil {
		return dto.ClassStatusResponse{}, err
	}
	if class == nil {
		return dto.ClassStatusResponse{}, helper.NewNotFoundError("Class not found")
	}

	roster, err := s.repo.FindClassRoster(ctx, classID)
	if err != nil {
		return dto.ClassStatusResponse{}, err
	}

	statuses := make([]dto.ClassStudentStatus, len(roster))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rosterWorkers)
	for i, student := range roster {
		i, student := i, student
		g.Go(func() error {
			status := dto.ClassStudentStatus{
				StudentID:   student.StudentID,
				StudentNIM:  student.StudentNIM,
				StudentName: student.StudentName,
			}

			result, err := s.CheckPassStatus(gctx, student.StudentID)
			if err != nil {
				status.Error = "Failed to calculate score"
				statuses[i] = status
				return nil
			}

			status.HasAssessment = result.HasAssessment
			if result.HasAssessment {
				// komponen bernilai 0 dirender null di laporan
				if result.QuizScore.GreaterThan(decimal.Zero) {
					quizScore := result.QuizScore
					status.QuizScore = &quizScore
				}
				if result.PcesScore.GreaterThan(decimal.Zero) {
					pcesScore := result.PcesScore
					status.PcesScore = &pcesScore
				}
				if result.TotalScore.GreaterThan(decimal.Zero) {
					totalScore := result.TotalScore
					status.TotalScore = &totalScore
				}
				passed := result.Passed
				status.Passed = &passed
			}
			statuses[i] = status
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dto.ClassStatusResponse{}, err
	}

	// summary dihitung ulang dari baris, bukan diakumulasi di goroutine
	summary := dto.ClassStatusSummary{TotalStudents: len(statuses)}
	for _, status := range statuses {
		switch {
		case status.Error != "":
			summary.Errored++
		case !status.HasAssessment:
			summary.NoAssessment++
		case status.Passed != nil && *status.Passed:
			summary.Passed++
		default:
			summary.NotPassed++
		}
	}

	return dto.ClassStatusResponse{
		ClassID:      class.ClassID,
		ClassName:    class.ClassName,
		AcademicYear: class.ClassAcademicYear,
		Students:     statuses,
		Summary:      summary,
	}, nil
}
