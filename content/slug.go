package content

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// MinSlugLength 보다 짧은 슬러그는 API 경계에서 거부한다.
const MinSlugLength = 2

var (
	reSlugInvalid    = regexp.MustCompile(`[^a-z0-9 -]`)
	reSlugWhitespace = regexp.MustCompile(`\s+`)
	reSlugHyphens    = regexp.MustCompile(`-+`)
)

// GenerateSlug normalizes an arbitrary title into a URL-safe slug.
// The result only contains [a-z0-9-] and never starts or ends with a hyphen.
func GenerateSlug(title string) string {
	s := strings.ToLower(title)
	// 탭/개행도 단어 경계로 남도록 공백으로 먼저 바꾼다.
	s = reSlugWhitespace.ReplaceAllString(s, " ")
	s = reSlugInvalid.ReplaceAllString(s, "")
	s = reSlugWhitespace.ReplaceAllString(s, "-")
	s = reSlugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ValidSlug reports whether slug is long enough to be used as an identifier.
func ValidSlug(slug string) bool {
	return len(slug) >= MinSlugLength
}

// SlugExistsFunc reports whether a slug is already taken.
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// UniqueSlug returns base if free, otherwise base-1, base-2, ... whichever is free first.
// 동시 작성자 사이의 원자성은 보장하지 않는다. 삽입 시점의 중복 키 오류는 호출자가 처리한다.
func UniqueSlug(ctx context.Context, base string, exists SlugExistsFunc) (string, error) {
	slug := base
	for counter := 1; ; counter++ {
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
