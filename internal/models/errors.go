package models

import (
	"errors"
	"fmt"
)

// Ошибки слоя контента. Проверяются через errors.Is.
var (
	// ErrValidation — данные не прошли проверку; до хранилища запрос не доходит.
	ErrValidation = errors.New("validation error")
	// ErrStoreUnavailable — чтение из хранилища не удалось.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrWriteFailed — запись в хранилище не удалась.
	ErrWriteFailed = errors.New("write failed")
	// ErrNotFound — документа нет; это штатный исход, а не авария.
	ErrNotFound = errors.New("not found")
)

// Validationf оборачивает ErrValidation с пояснением.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
