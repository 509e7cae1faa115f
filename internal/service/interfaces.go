package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"marketbrief/internal/domain"
)

// Source yields raw entries from one configured origin (a feed URL or
// the social API).
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.RawEntry, error)
}

// Renderer produces the final document from the assembled newsletter.
type Renderer interface {
	Render(n domain.Newsletter) (string, error)
}

// Writer persists the rendered document.
type Writer interface {
	Write(doc string) error
}

// Mailer delivers the rendered document by email.
type Mailer interface {
	Send(ctx context.Context, subject, doc string) error
}
