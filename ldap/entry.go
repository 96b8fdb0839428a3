package ldap

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Entry is implemented by every directory entry variant. The DN and
// the organizational unit are derived state owned by the DAO, callers
// never set them directly.
type Entry interface {
	GetDN() string
	SetDN(dn string)
	GetOrganizationalUnit() string
	SetOrganizationalUnit(ou string)
	GetObjectClasses() []string
	SetObjectClasses(classes []string)
	GetCommonName() string
}

type EntryBase struct {
	DN                 string
	OrganizationalUnit string
	ObjectClasses      []string
	CommonName         string
}

func (e *EntryBase) GetDN() string { return e.DN }

func (e *EntryBase) SetDN(dn string) { e.DN = dn }

func (e *EntryBase) GetOrganizationalUnit() string { return e.OrganizationalUnit }

func (e *EntryBase) SetOrganizationalUnit(ou string) { e.OrganizationalUnit = ou }

func (e *EntryBase) GetObjectClasses() []string { return e.ObjectClasses }

func (e *EntryBase) SetObjectClasses(classes []string) { e.ObjectClasses = classes }

func (e *EntryBase) GetCommonName() string { return e.CommonName }

// PersonEntry models an inetOrgPerson.
type PersonEntry struct {
	EntryBase
	UID          string
	GivenName    string
	Surname      string
	Mail         string
	Organization string
	Description  string
}

// GetCommonName derives the common name from the person's names and
// falls back to the login id. An explicitly set CommonName wins.
func (p *PersonEntry) GetCommonName() string {
	if p.CommonName != "" {
		return p.CommonName
	}
	name := strings.TrimSpace(strings.TrimSpace(p.GivenName) + " " + strings.TrimSpace(p.Surname))
	if name != "" {
		return name
	}
	return p.UID
}

// UserEntry is a person with an identity key and the optional posix
// and samba extensions.
type UserEntry struct {
	PersonEntry
	// EmployeeNumber encodes the relational primary key and never
	// changes once assigned.
	EmployeeNumber string

	Deleted       bool
	Deactivated   bool
	Restricted    bool
	PasswordGiven bool // a password attribute was observed on read

	UIDNumber     int
	GIDNumber     int
	HomeDirectory string
	LoginShell    string

	SambaSIDNumber             int
	SambaPrimaryGroupSIDNumber int
	SambaNTPassword            string
	SambaPwdLastSet            time.Time
}

func (u *UserEntry) HasPosixValues() bool {
	return u.UIDNumber > 0 || u.GIDNumber > 0 || u.HomeDirectory != "" || u.LoginShell != ""
}

func (u *UserEntry) HasSambaValues() bool {
	return u.SambaSIDNumber > 0 || u.SambaPrimaryGroupSIDNumber > 0 || u.SambaNTPassword != ""
}

// GroupEntry models a groupOfUniqueNames. Members holds member DNs;
// the schema forbids empty groups, so an empty set is written as the
// single sentinel member.
type GroupEntry struct {
	EntryBase
	// BusinessCategory encodes the relational primary key.
	BusinessCategory string
	Description      string
	Organization     string
	Members          []string
	GIDNumber        int
}

// OrgUnitEntry models an organizationalUnit container.
type OrgUnitEntry struct {
	EntryBase
	Name        string
	Description string
}

// EncodeID builds the externally visible identity key value for a
// relational primary key, e.g. "ID-42".
func EncodeID(prefix string, id uint) string {
	return fmt.Sprintf("%s-%d", prefix, id)
}

// ParseID recovers the relational primary key from an identity key
// value. The second return is false for foreign or malformed values.
func ParseID(prefix, value string) (uint, bool) {
	rest, found := strings.CutPrefix(value, prefix+"-")
	if !found {
		return 0, false
	}
	id, err := strconv.ParseUint(rest, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
