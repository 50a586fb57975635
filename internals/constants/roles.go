package constants

import "fmt"

const (
	RoleAdmin    = "admin"
	RoleLecturer = "lecturer"
	RoleStudent  = "student"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess    = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyLecturersCanAccess = "❌ Hanya dosen yang boleh mengakses fitur %s."
	ErrOnlyStudentsCanAccess  = "❌ Hanya mahasiswa yang boleh mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorLecturer(feature string) string {
	return fmt.Sprintf(ErrOnlyLecturersCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleLecturer,
		RoleStudent,
	}

	AdminOnly = []string{
		RoleAdmin,
	}

	LecturerOnly = []string{
		RoleLecturer,
	}

	StudentOnly = []string{
		RoleStudent,
	}

	LecturerAndAdmin = []string{
		RoleLecturer,
		RoleAdmin,
	}
)
