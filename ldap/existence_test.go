package ldap

import (
	"testing"
)

func TestExistenceSet(t *testing.T) {
	set := NewExistenceSet()
	set.Add("ID-1", "uid=alice,ou=users,dc=example,dc=com")

	if !set.Contains("ID-1", "") {
		t.Fatalf("identity key lookup failed")
	}
	if !set.Contains("", "UID=Alice,OU=Users,DC=Example,DC=Com") {
		t.Fatalf("dn lookup should ignore case")
	}
	if set.Contains("ID-2", "uid=bob,ou=users,dc=example,dc=com") {
		t.Fatalf("unknown entity reported as existing")
	}
	if set.Len() != 1 {
		t.Fatalf("unexpected size %d", set.Len())
	}

	set.Add("", "uid=legacy,ou=users,dc=example,dc=com")
	if !set.Contains("", "uid=legacy,ou=users,dc=example,dc=com") {
		t.Fatalf("dn-only entry not tracked")
	}
	if set.Len() != 1 {
		t.Fatalf("dn-only entry should not count an identity key")
	}
}
