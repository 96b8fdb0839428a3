package ldap

import (
	"strings"
)

// ExistenceSet answers "does this entity already exist remotely" in
// O(1), by identity key or by DN, so bulk syncs avoid one directory
// search per entity.
type ExistenceSet struct {
	dns map[string]bool
	ids map[string]bool
}

func NewExistenceSet() *ExistenceSet {
	return &ExistenceSet{
		dns: map[string]bool{},
		ids: map[string]bool{},
	}
}

func (s *ExistenceSet) Add(id, dn string) {
	if id != "" {
		s.ids[id] = true
	}
	if dn != "" {
		s.dns[strings.ToLower(dn)] = true
	}
}

// Contains reports whether either the identity key or the DN is known.
func (s *ExistenceSet) Contains(id, dn string) bool {
	if id != "" && s.ids[id] {
		return true
	}
	return dn != "" && s.dns[strings.ToLower(dn)]
}

func (s *ExistenceSet) Len() int {
	return len(s.ids)
}
