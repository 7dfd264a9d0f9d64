package domain

import "sort"

// PermissionSet is the effective permission set computed for one
// authorization decision. The zero value is the empty set.
//
// The all-permissions sentinel models the super admin escape hatch: it
// satisfies every check without enumerating codes.
type PermissionSet struct {
	all   bool
	codes map[string]struct{}
}

// NewPermissionSet builds a set from the given codes.
func NewPermissionSet(codes ...string) PermissionSet {
	s := PermissionSet{}
	s.Add(codes...)
	return s
}

// AllPermissions returns the sentinel set that contains every code.
func AllPermissions() PermissionSet {
	return PermissionSet{all: true}
}

// Add inserts codes into the set. Adding to the sentinel is a no-op.
func (s *PermissionSet) Add(codes ...string) {
	if s.all {
		return
	}
	if s.codes == nil {
		s.codes = make(map[string]struct{}, len(codes))
	}
	for _, code := range codes {
		if code == "" {
			continue
		}
		s.codes[code] = struct{}{}
	}
}

// IsAll reports whether the set is the all-permissions sentinel.
func (s PermissionSet) IsAll() bool {
	return s.all
}

// IsEmpty reports whether the set contains no codes and is not the sentinel.
func (s PermissionSet) IsEmpty() bool {
	return !s.all && len(s.codes) == 0
}

// Has reports whether the set contains the given code.
func (s PermissionSet) Has(code string) bool {
	if s.all {
		return true
	}
	_, ok := s.codes[code]
	return ok
}

// HasAny reports whether the set contains at least one of the given codes.
func (s PermissionSet) HasAny(codes ...string) bool {
	if s.all {
		return len(codes) > 0
	}
	for _, code := range codes {
		if _, ok := s.codes[code]; ok {
			return true
		}
	}
	return false
}

// Len returns the number of codes in the set. The sentinel reports zero.
func (s PermissionSet) Len() int {
	return len(s.codes)
}

// Codes returns the contained codes in sorted order. The sentinel returns nil.
func (s PermissionSet) Codes() []string {
	if s.all || len(s.codes) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.codes))
	for code := range s.codes {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
