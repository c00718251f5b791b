package services

import (
	"errors"
	"fmt"

	"tech-blog/repositories"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	// ErrSlugConflict 는 슬러그 재계산을 여러 번 해도 동시 작성자와 충돌할 때 반환된다. 재시도 가능하다.
	ErrSlugConflict = errors.New("slug conflict, please retry")
	ErrUnauthorized = errors.New("unauthorized")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// storeError maps repository errors onto service errors.
func storeError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
