package ldap

import (
	"testing"

	"github.com/go-ldap/ldap/v3"
)

func TestBuildModificationsUnchanged(t *testing.T) {
	desired := []AttributeValue{
		{Name: "mail", Values: []string{"alice@example.com"}},
		{Name: "description", Values: []string{""}},
	}
	stored := []AttributeValue{
		{Name: "mail", Values: []string{"alice@example.com"}},
	}
	if req := buildModifications("uid=alice", desired, stored); req != nil {
		t.Fatalf("blank desired and absent stored should not modify: %+v", req.Changes)
	}
}

func TestBuildModificationsBlankClearsAttribute(t *testing.T) {
	desired := []AttributeValue{
		{Name: "mail", Values: []string{""}},
	}
	stored := []AttributeValue{
		{Name: "mail", Values: []string{"alice@example.com"}},
	}
	req := buildModifications("uid=alice", desired, stored)
	if req == nil || len(req.Changes) != 1 {
		t.Fatalf("clearing a stored attribute should yield one change")
	}
	change := req.Changes[0]
	if change.Operation != ldap.ReplaceAttribute || len(change.Modification.Vals) != 0 {
		t.Fatalf("blank value should replace with absent, got %+v", change)
	}
}

func TestBuildModificationsMultiValued(t *testing.T) {
	desired := []AttributeValue{
		{Name: "uniqueMember", Values: []string{"uid=a", "uid=b", "uid=c"}},
	}
	stored := []AttributeValue{
		{Name: "uniqueMember", Values: []string{"uid=a"}},
	}
	req := buildModifications("cn=devs", desired, stored)
	if req == nil || len(req.Changes) != 3 {
		t.Fatalf("expected replace plus two adds, got %+v", req)
	}
	if req.Changes[0].Operation != ldap.ReplaceAttribute {
		t.Fatalf("first change should replace")
	}
	if req.Changes[1].Operation != ldap.AddAttribute || req.Changes[2].Operation != ldap.AddAttribute {
		t.Fatalf("remaining values should be added")
	}
}

func TestBuildModificationsKeepsExtraStored(t *testing.T) {
	desired := []AttributeValue{
		{Name: "mail", Values: []string{"alice@example.com"}},
	}
	stored := []AttributeValue{
		{Name: "mail", Values: []string{"alice@example.com"}},
		{Name: "uidNumber", Values: []string{"1000"}},
	}
	if req := buildModifications("uid=alice", desired, stored); req != nil {
		t.Fatalf("stored-only attributes must stay untouched: %+v", req.Changes)
	}
}

func TestMissingClasses(t *testing.T) {
	wanted := []string{"top", "inetOrgPerson", "posixAccount"}
	stored := []string{"TOP", "inetorgperson", "extensibleObject"}
	missing := missingClasses(wanted, stored)
	if len(missing) != 1 || missing[0] != "posixAccount" {
		t.Fatalf("class comparison should ignore case and keep extras: %v", missing)
	}
}
