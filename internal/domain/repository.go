package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRepository is returned when an owner or repository name is missing or malformed.
var ErrInvalidRepository = errors.New("invalid repository")

// RepositoryRef points at a single GitHub repository.
// Token is optional; when empty, requests are sent unauthenticated.
type RepositoryRef struct {
	Owner string
	Name  string
	Token string
}

// NewRepositoryRef validates owner and name and builds a RepositoryRef.
func NewRepositoryRef(owner, name, token string) (RepositoryRef, error) {
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)
	if owner == "" {
		return RepositoryRef{}, fmt.Errorf("%w: owner is required", ErrInvalidRepository)
	}
	if name == "" {
		return RepositoryRef{}, fmt.Errorf("%w: repository name is required", ErrInvalidRepository)
	}
	if strings.Contains(owner, "/") || strings.Contains(name, "/") {
		return RepositoryRef{}, fmt.Errorf("%w: %q/%q must not contain '/'", ErrInvalidRepository, owner, name)
	}
	return RepositoryRef{Owner: owner, Name: name, Token: strings.TrimSpace(token)}, nil
}

// ParseRepositoryRef accepts the "owner/name" form.
func ParseRepositoryRef(fullName, token string) (RepositoryRef, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok {
		return RepositoryRef{}, fmt.Errorf("%w: %q, expected 'owner/name'", ErrInvalidRepository, fullName)
	}
	return NewRepositoryRef(owner, name, token)
}

// HasToken reports whether requests for this repository are authenticated.
func (r RepositoryRef) HasToken() bool {
	return r.Token != ""
}

func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

// MarshalJSON never includes the token.
func (r RepositoryRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Owner string `json:"owner"`
		Name  string `json:"name"`
	}{r.Owner, r.Name})
}
