package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const maxSlugAttempts = 50

// uniqueSlug slugifies title and appends -2, -3, ... until exists reports false.
func uniqueSlug(ctx context.Context, title, fallback string, exists func(context.Context, string) (bool, error)) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = fallback
	}

	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}
