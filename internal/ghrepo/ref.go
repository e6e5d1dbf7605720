// Package ghrepo identifies GitHub repositories.
package ghrepo

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/simplesurance/pinbump/internal/logfields"
)

var ErrInvalidRef = errors.New("invalid repository reference")

// Ref identifies a GitHub repository uniquely.
type Ref struct {
	Owner string
	Name  string
}

// ParseRef parses a repository name in the "owner/name" format.
// The string must contain exactly one slash and both sides must be non-empty.
func ParseRef(fullName string) (Ref, error) {
	owner, name, found := strings.Cut(fullName, "/")
	if !found {
		return Ref{}, fmt.Errorf("%w: %q does not contain a '/'", ErrInvalidRef, fullName)
	}

	if strings.Contains(name, "/") {
		return Ref{}, fmt.Errorf("%w: %q contains more than one '/'", ErrInvalidRef, fullName)
	}

	return NewRef(owner, name)
}

// NewRef returns a Ref, owner and name must not be empty.
func NewRef(owner, name string) (Ref, error) {
	if owner == "" {
		return Ref{}, fmt.Errorf("%w: owner is empty", ErrInvalidRef)
	}

	if name == "" {
		return Ref{}, fmt.Errorf("%w: repository name is empty", ErrInvalidRef)
	}

	return Ref{Owner: owner, Name: name}, nil
}

func (r Ref) String() string {
	return r.Owner + "/" + r.Name
}

// IsZero returns true if owner and name are empty.
func (r Ref) IsZero() bool {
	return r.Owner == "" && r.Name == ""
}

func (r Ref) LogFields() []zap.Field {
	return []zap.Field{
		logfields.RepositoryOwner(r.Owner),
		logfields.Repository(r.Name),
	}
}
