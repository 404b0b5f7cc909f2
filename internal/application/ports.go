package application

import (
	"context"
	"io"
)

// PasswordEncoder is a one-way password transform.
type PasswordEncoder interface {
	Encode(plain string) (string, error)
	Matches(hash, plain string) bool
}

// EventPublisher ships account events to the notification pipeline.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserIndex keeps the search index in sync with the user table.
type UserIndex interface {
	Index(ctx context.Context, doc UserDocument) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, size int) ([]UserDocument, error)
}

// ObjectUploader stores an object and returns its public URL.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}
