package helper

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Kind mengelompokkan error bisnis supaya boundary HTTP bisa
// menerjemahkannya tanpa melihat isi pesan.
type Kind int

const (
	KindValidation Kind = iota // input tidak memenuhi invariant struktur
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict // pelanggaran unique constraint (double submit / double test)
)

type AppError struct {
	Kind    Kind
	Message string
}

func (e *AppError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) error {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewUnauthorizedError(message string) error {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func NewForbiddenError(message string) error {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NewNotFoundError(message string) error {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewConflictError(message string) error {
	return &AppError{Kind: KindConflict, Message: message}
}

// TranslateDuplicate memetakan gorm.ErrDuplicatedKey (race yang lolos
// pre-check) menjadi Conflict dengan pesan user-facing.
func TranslateDuplicate(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return NewConflictError(message)
	}
	return err
}

func statusOf(kind Kind) int {
	switch kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler dipasang di fiber.Config sebagai global error handler.
// AppError dan *fiber.Error diteruskan apa adanya; sisanya jadi 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return Error(c, statusOf(appErr.Kind), appErr.Message)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return Error(c, fiberErr.Code, fiberErr.Message)
	}

	log.Println("[ERROR] unhandled:", err)
	return Error(c, fiber.StatusInternalServerError, "Internal server error")
}
