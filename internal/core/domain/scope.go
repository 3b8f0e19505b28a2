package domain

import "fmt"

type ScopeType string

const (
	ScopeFolder ScopeType = "folder"
	ScopeFiles  ScopeType = "files"
)

// Scope selects documents either by folder name (primary tag) or by an
// explicit id list. Request payloads are loosely typed at the boundary,
// so Validate must run before any store access even though the variant
// tag makes mixed scopes structurally senseless.
type Scope struct {
	Type ScopeType `json:"type"`
	Name string    `json:"name,omitempty"`
	IDs  []string  `json:"ids,omitempty"`
}

func (s Scope) Validate() error {
	switch s.Type {
	case ScopeFolder:
		if len(s.IDs) > 0 {
			return WrapError(ErrInvalidInput, "validate scope", fmt.Errorf("cannot use both folder scope and file IDs"))
		}
		if s.Name == "" {
			return WrapError(ErrInvalidInput, "validate scope", fmt.Errorf("folder scope requires name"))
		}
	case ScopeFiles:
		if len(s.IDs) == 0 {
			return WrapError(ErrInvalidInput, "validate scope", fmt.Errorf("file scope requires IDs"))
		}
	default:
		return WrapError(ErrInvalidInput, "validate scope", fmt.Errorf("unknown scope type %q", s.Type))
	}
	return nil
}
