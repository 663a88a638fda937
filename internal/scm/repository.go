package scm

// Repository is a configured handle to one source location. Handles are built
// per operation and are never shared between phases.
type Repository struct {
	ProviderType string
	ProviderURL  string
	SourceURL    string
	Credentials  Credentials
	pushChanges  bool
}

// SetPushChanges controls whether mutating operations publish their result to the remote.
func (repository *Repository) SetPushChanges(pushChanges bool) {
	repository.pushChanges = pushChanges
}

// PushChanges reports whether mutating operations publish their result.
func (repository *Repository) PushChanges() bool {
	return repository.pushChanges
}
