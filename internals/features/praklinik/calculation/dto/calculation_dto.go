package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ScoreBreakdown: komponen nilai Pra Klinik seorang mahasiswa.
// QuizScore/PcesScore bernilai 0 saat komponennya belum punya data;
// bedakan lewat QuizCount/PcesCount.
type ScoreBreakdown struct {
	QuizScore  decimal.Decimal `json:"quiz_score"`
	QuizCount  int             `json:"quiz_count"`
	PcesScore  decimal.Decimal `json:"pces_score"`
	PcesCount  int             `json:"pces_count"`
	TotalScore decimal.Decimal `json:"total_score"`
}

type PassStatusResult struct {
	StudentID uuid.UUID `json:"student_id"`
	ScoreBreakdown
	Passed        bool `json:"passed"`
	HasAssessment bool `json:"has_assessment"`
}

// =============================
// Laporan per mahasiswa
// =============================

type ReportQuizEntry struct {
	QuizID      uuid.UUID       `json:"quiz_id"`
	QuizTitle   string          `json:"quiz_title"`
	Score       decimal.Decimal `json:"score"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

type ReportPcesEntry struct {
	TestID       uuid.UUID       `json:"test_id"`
	TemplateName string          `json:"template_name"`
	TotalScore   decimal.Decimal `json:"total_score"`
	TestDate     time.Time       `json:"test_date"`
}

type StudentReport struct {
	StudentID   uuid.UUID `json:"student_id"`
	StudentNIM  string    `json:"student_nim"`
	StudentName string    `json:"student_name"`
	ScoreBreakdown
	Passed        bool              `json:"passed"`
	HasAssessment bool              `json:"has_assessment"`
	Quizzes       []ReportQuizEntry `json:"quizzes"`
	PcesTests     []ReportPcesEntry `json:"pces_tests"`
}

// =============================
// Status satu kelas
// =============================

type ClassStudentStatus struct {
	StudentID     uuid.UUID        `json:"student_id"`
	StudentNIM    string           `json:"student_nim"`
	StudentName   string           `json:"student_name"`
	QuizScore     *decimal.Decimal `json:"quiz_score"`
	PcesScore     *decimal.Decimal `json:"pces_score"`
	TotalScore    *decimal.Decimal `json:"total_score"`
	Passed        *bool            `json:"passed"`
	HasAssessment bool             `json:"has_assessment"`
	Error         string           `json:"error,omitempty"`
}

// ClassStatusSummary dihitung independen dari baris per-mahasiswa:
// passed + not_passed + no_assessment + errored = total.
type ClassStatusSummary struct {
	TotalStudents int `json:"total_students"`
	Passed        int `json:"passed"`
	NotPassed     int `json:"not_passed"`
	NoAssessment  int `json:"no_assessment"`
	Errored       int `json:"errored,omitempty"`
}

type ClassStatusResponse struct {
	ClassID      uuid.UUID            `json:"class_id"`
	ClassName    string               `json:"class_name"`
	AcademicYear string               `json:"academic_year"`
	Students     []ClassStudentStatus `json:"students"`
	Summary      ClassStatusSummary   `json:"summary"`
}
