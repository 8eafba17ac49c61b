package core

import "context"

// Storage is the persisted key-value store the history is written to.
// Adhering to this interface keeps the store independent of the
// underlying mechanism (Filesystem, SQLite, Redis, memory).
type Storage interface {
	// Initialize ensures the underlying storage is ready (directories, schema, connection).
	Initialize(ctx context.Context) error

	// Load returns the blob stored under key, or ErrNotFound if it is absent.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the blob stored under key wholesale.
	Save(ctx context.Context, key string, data []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Watchable is implemented by storages that can report external changes to a key.
type Watchable interface {
	Watch(ctx context.Context, key string) (<-chan Event, error)
}

// Codec converts the whole history to and from its persisted blob.
type Codec interface {
	Name() string
	Encode(notes []Note) ([]byte, error)
	Decode(data []byte) ([]Note, error)
}

// Renderer is the presentation collaborator. It receives the full history,
// most recent first, after every mutation.
type Renderer interface {
	Render(notes []Note) error
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(notes []Note) error

func (f RenderFunc) Render(notes []Note) error { return f(notes) }

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// Prompter asks the user for a line of text. ok is false when the user cancels.
type Prompter interface {
	Prompt(ctx context.Context, message, initial string) (text string, ok bool, err error)
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(ctx context.Context, message, initial string) (string, bool, error)

func (f PromptFunc) Prompt(ctx context.Context, message, initial string) (string, bool, error) {
	return f(ctx, message, initial)
}
