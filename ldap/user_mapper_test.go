package ldap

import (
	"testing"

	"github.com/go-ldap/ldap/v3"
)

func userFixtureEntry(dn string) *ldap.Entry {
	return ldap.NewEntry(dn, map[string][]string{
		attrUID:            {"alice"},
		attrCN:             {"Alice Wonder"},
		attrSN:             {"Wonder"},
		attrGivenName:      {"Alice"},
		attrMail:           {"alice@example.com"},
		attrEmployeeNumber: {"ID-7"},
		attrUserPassword:   {"{SSHA}secret"},
		attrSambaSID:       {"S-1-5-21-1-2-3-2014"},
	})
}

func TestUserMapperFromEntry(t *testing.T) {
	m := NewUserMapper(Config{})
	u := m.FromEntry(userFixtureEntry("uid=alice,ou=users,dc=example,dc=com"))

	if u.UID != "alice" || u.EmployeeNumber != "ID-7" {
		t.Fatalf("identity fields mismatch: %+v", u)
	}
	if !u.PasswordGiven {
		t.Fatalf("userPassword presence not detected")
	}
	if u.Deactivated || u.Restricted {
		t.Fatalf("plain dn should map to an active account")
	}
	if u.SambaSIDNumber != 2014 {
		t.Fatalf("sid number not parsed: %d", u.SambaSIDNumber)
	}
}

func TestUserMapperStateFromDN(t *testing.T) {
	m := NewUserMapper(Config{})

	u := m.FromEntry(userFixtureEntry("uid=alice,OU=Deactivated,ou=users,dc=example,dc=com"))
	if !u.Deactivated || u.Restricted {
		t.Fatalf("deactivated subtree not detected: %+v", u)
	}

	u = m.FromEntry(userFixtureEntry("uid=alice,ou=restricted,ou=users,dc=example,dc=com"))
	if !u.Restricted || u.Deactivated {
		t.Fatalf("restricted subtree not detected: %+v", u)
	}
}

func TestUserMapperSambaValuesNeedConfig(t *testing.T) {
	u := &UserEntry{SambaSIDNumber: 2014}
	u.UID = "alice"
	u.EmployeeNumber = "ID-7"

	m := NewUserMapper(Config{})
	for _, av := range m.AttributeValues(u) {
		if av.Name == attrSambaSID {
			t.Fatalf("samba attributes rendered without configuration")
		}
	}

	m = NewUserMapper(Config{Samba: &SambaConfig{SIDPrefix: "S-1-5-21-1-2-3"}})
	found := false
	for _, av := range m.AttributeValues(u) {
		if av.Name == attrSambaSID {
			found = true
			if av.Values[0] != "S-1-5-21-1-2-3-2014" {
				t.Fatalf("sid not composed from prefix: %v", av.Values)
			}
		}
	}
	if !found {
		t.Fatalf("sambaSID attribute missing")
	}
}
