package ldap

import (
	"github.com/go-ldap/ldap/v3"
)

// OrgUnitMapper maps OrgUnitEntry to and from organizationalUnit
// container entries. The unit name is both identifier and identity.
type OrgUnitMapper struct{}

func NewOrgUnitMapper() *OrgUnitMapper {
	return &OrgUnitMapper{}
}

func (m *OrgUnitMapper) Type() string {
	return "orgunit"
}

func (m *OrgUnitMapper) ObjectClass() string {
	return objectClassOrgUnit
}

func (m *OrgUnitMapper) ObjectClasses(o *OrgUnitEntry) []string {
	return append([]string(nil), orgUnitClasses...)
}

func (m *OrgUnitMapper) IDAttr() string {
	return attrOU
}

func (m *OrgUnitMapper) ID(o *OrgUnitEntry) string {
	return o.Name
}

func (m *OrgUnitMapper) DNAttr() string {
	return attrOU
}

func (m *OrgUnitMapper) RDNValue(o *OrgUnitEntry) string {
	return o.Name
}

func (m *OrgUnitMapper) AttributeValues(o *OrgUnitEntry) []AttributeValue {
	return []AttributeValue{
		{Name: attrDescription, Values: []string{o.Description}},
	}
}

func (m *OrgUnitMapper) SearchAttributes() []string {
	return []string{attrObjectClass, attrOU, attrDescription}
}

func (m *OrgUnitMapper) FromEntry(entry *ldap.Entry) *OrgUnitEntry {
	return &OrgUnitEntry{
		Name:        entry.GetAttributeValue(attrOU),
		Description: entry.GetAttributeValue(attrDescription),
	}
}
