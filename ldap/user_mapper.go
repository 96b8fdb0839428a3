package ldap

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// UserMapper maps UserEntry to and from inetOrgPerson entries with the
// optional posixAccount and sambaSamAccount extensions.
type UserMapper struct {
	cfg      Config
	resolver *ExtensionResolver
}

func NewUserMapper(cfg Config) *UserMapper {
	return &UserMapper{cfg: cfg, resolver: NewExtensionResolver(cfg)}
}

func (m *UserMapper) Type() string {
	return "user"
}

func (m *UserMapper) ObjectClass() string {
	return objectClassInetOrgPerson
}

func (m *UserMapper) ObjectClasses(u *UserEntry) []string {
	return m.resolver.UserClasses(u)
}

func (m *UserMapper) IDAttr() string {
	return attrEmployeeNumber
}

func (m *UserMapper) ID(u *UserEntry) string {
	return u.EmployeeNumber
}

func (m *UserMapper) DNAttr() string {
	return attrUID
}

func (m *UserMapper) RDNValue(u *UserEntry) string {
	return u.UID
}

func (m *UserMapper) surname(u *UserEntry) string {
	if u.Surname != "" {
		return u.Surname
	}
	// sn is mandatory on person
	return u.GetCommonName()
}

func (m *UserMapper) sambaSID(number int) string {
	if number <= 0 || m.cfg.Samba == nil {
		return ""
	}
	return m.cfg.Samba.SIDPrefix + "-" + strconv.Itoa(number)
}

func positiveNumber(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func (m *UserMapper) AttributeValues(u *UserEntry) []AttributeValue {
	avs := []AttributeValue{
		{Name: attrEmployeeNumber, Values: []string{u.EmployeeNumber}},
		{Name: attrCN, Values: []string{u.GetCommonName()}},
		{Name: attrSN, Values: []string{m.surname(u)}},
		{Name: attrGivenName, Values: []string{u.GivenName}},
		{Name: attrMail, Values: []string{u.Mail}},
		{Name: attrO, Values: []string{u.Organization}},
		{Name: attrDescription, Values: []string{u.Description}},
	}
	if m.resolver.PosixApplies(u) {
		avs = append(avs,
			AttributeValue{Name: attrUIDNumber, Values: []string{positiveNumber(u.UIDNumber)}},
			AttributeValue{Name: attrGIDNumber, Values: []string{positiveNumber(u.GIDNumber)}},
			AttributeValue{Name: attrHomeDirectory, Values: []string{u.HomeDirectory}},
			AttributeValue{Name: attrLoginShell, Values: []string{u.LoginShell}},
		)
	}
	if m.resolver.SambaApplies(u) {
		lastSet := ""
		if !u.SambaPwdLastSet.IsZero() {
			lastSet = strconv.FormatInt(u.SambaPwdLastSet.Unix(), 10)
		}
		avs = append(avs,
			AttributeValue{Name: attrSambaSID, Values: []string{m.sambaSID(u.SambaSIDNumber)}},
			AttributeValue{Name: attrSambaPGSID, Values: []string{m.sambaSID(u.SambaPrimaryGroupSIDNumber)}},
			AttributeValue{Name: attrSambaNTPassword, Values: []string{u.SambaNTPassword}},
			AttributeValue{Name: attrSambaPwdLastSet, Values: []string{lastSet}},
		)
	}
	return avs
}

func (m *UserMapper) SearchAttributes() []string {
	return []string{
		attrObjectClass, attrUID, attrCN, attrSN, attrGivenName, attrMail,
		attrO, attrDescription, attrEmployeeNumber, attrUserPassword,
		attrUIDNumber, attrGIDNumber, attrHomeDirectory, attrLoginShell,
		attrSambaSID, attrSambaPGSID, attrSambaNTPassword, attrSambaPwdLastSet,
	}
}

func (m *UserMapper) sidNumber(value string) int {
	idx := strings.LastIndex(value, "-")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(value[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

func (m *UserMapper) FromEntry(entry *ldap.Entry) *UserEntry {
	u := &UserEntry{
		PersonEntry: PersonEntry{
			EntryBase: EntryBase{
				CommonName: entry.GetAttributeValue(attrCN),
			},
			UID:          entry.GetAttributeValue(attrUID),
			GivenName:    entry.GetAttributeValue(attrGivenName),
			Surname:      entry.GetAttributeValue(attrSN),
			Mail:         entry.GetAttributeValue(attrMail),
			Organization: entry.GetAttributeValue(attrO),
			Description:  entry.GetAttributeValue(attrDescription),
		},
		EmployeeNumber: entry.GetAttributeValue(attrEmployeeNumber),
		PasswordGiven:  entry.GetAttributeValue(attrUserPassword) != "",
	}

	// Account state is encoded in the DN, not in an attribute.
	lowerDN := strings.ToLower(entry.DN)
	u.Deactivated = strings.Contains(lowerDN, attrOU+"="+DeactivatedSubOU+",")
	u.Restricted = strings.Contains(lowerDN, attrOU+"="+RestrictedSubOU+",")

	u.UIDNumber, _ = strconv.Atoi(entry.GetAttributeValue(attrUIDNumber))
	u.GIDNumber, _ = strconv.Atoi(entry.GetAttributeValue(attrGIDNumber))
	u.HomeDirectory = entry.GetAttributeValue(attrHomeDirectory)
	u.LoginShell = entry.GetAttributeValue(attrLoginShell)

	u.SambaSIDNumber = m.sidNumber(entry.GetAttributeValue(attrSambaSID))
	u.SambaPrimaryGroupSIDNumber = m.sidNumber(entry.GetAttributeValue(attrSambaPGSID))
	u.SambaNTPassword = entry.GetAttributeValue(attrSambaNTPassword)
	if raw := entry.GetAttributeValue(attrSambaPwdLastSet); raw != "" {
		if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
			u.SambaPwdLastSet = time.Unix(secs, 0)
		}
	}
	return u
}
