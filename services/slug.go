package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparate = regexp.MustCompile(`[\s-]+`)
)

// Slugify turns a gig title into a URL-safe slug and suffixes it with the
// first group of the creator's profile ID, e.g. "Reels & Shorts!" for
// 3f2a9c1e-... becomes "reels-shorts-3f2a9c1e".
func Slugify(title string, creatorID uuid.UUID) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugSeparate.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	suffix := strings.SplitN(creatorID.String(), "-", 2)[0]
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}

// uniqueSlug returns base, or base-1, base-2, ... for the first value exists
// reports as free.
func uniqueSlug(ctx context.Context, base string, exists func(context.Context, string) (bool, error)) (string, error) {
	slug := base
	for n := 1; ; n++ {
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}
