package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// ErrBadToken возвращается при нечитаемом токене продолжения
var ErrBadToken = errors.New("invalid pagination token")

// Page страница результатов. After == nil означает последнюю страницу.
type Page[T any] struct {
	Data  []T     `json:"data"`
	After *string `json:"after"`
}

// EncodeToken упаковывает позицию курсора в непрозрачную строку.
// Клиент обязан возвращать токен как есть, не разбирая его.
func EncodeToken(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeToken разбирает токен, выданный EncodeToken
func DecodeToken(token string, v any) error {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return ErrBadToken
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return ErrBadToken
	}
	return nil
}

// ClampPageSize применяет значение по умолчанию и верхнюю границу
func ClampPageSize(size, def, max int) int {
	if size <= 0 {
		size = def
	}
	if max > 0 && size > max {
		size = max
	}
	if size <= 0 {
		size = 1
	}
	return size
}
