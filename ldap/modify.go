package ldap

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// nonBlank drops empty values so that "" in one store and an absent
// attribute in the other compare as equal.
func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func sameValues(lhs, rhs []string) bool {
	if len(lhs) != len(rhs) {
		return false
	}
	for i, v := range lhs {
		if v != rhs[i] {
			return false
		}
	}
	return true
}

// buildModifications diffs the desired attribute values against the
// stored ones and returns a modify request, or nil when nothing
// changed. An attribute whose desired values are all blank is set to
// absent with an empty replace, never to an empty string.
func buildModifications(dn string, desired, stored []AttributeValue) *ldap.ModifyRequest {
	storedByName := make(map[string][]string, len(stored))
	for _, av := range stored {
		storedByName[av.Name] = nonBlank(av.Values)
	}

	req := ldap.NewModifyRequest(dn, nil)
	for _, av := range desired {
		values := nonBlank(av.Values)
		if sameValues(values, storedByName[av.Name]) {
			continue
		}
		if len(values) == 0 {
			req.Replace(av.Name, nil)
			continue
		}
		req.Replace(av.Name, values[:1])
		for _, v := range values[1:] {
			req.Add(av.Name, []string{v})
		}
	}
	if len(req.Changes) == 0 {
		return nil
	}
	return req
}

// missingClasses returns the classes in wanted that the stored entry
// does not carry yet. Extra stored classes are never removed.
func missingClasses(wanted, stored []string) []string {
	have := make(map[string]bool, len(stored))
	for _, class := range stored {
		have[strings.ToLower(class)] = true
	}
	var missing []string
	for _, class := range wanted {
		if !have[strings.ToLower(class)] {
			missing = append(missing, class)
		}
	}
	return missing
}
