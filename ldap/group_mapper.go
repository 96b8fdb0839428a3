package ldap

import (
	"sort"
	"strconv"

	"github.com/go-ldap/ldap/v3"
)

// GroupMapper maps GroupEntry to and from groupOfUniqueNames entries
// with the optional posixGroup extension.
type GroupMapper struct {
	cfg      Config
	resolver *ExtensionResolver
}

func NewGroupMapper(cfg Config) *GroupMapper {
	return &GroupMapper{cfg: cfg, resolver: NewExtensionResolver(cfg)}
}

func (m *GroupMapper) Type() string {
	return "group"
}

func (m *GroupMapper) ObjectClass() string {
	return objectClassGroup
}

func (m *GroupMapper) ObjectClasses(g *GroupEntry) []string {
	return m.resolver.GroupClasses(g)
}

func (m *GroupMapper) IDAttr() string {
	return attrBusinessCategory
}

func (m *GroupMapper) ID(g *GroupEntry) string {
	return g.BusinessCategory
}

func (m *GroupMapper) DNAttr() string {
	return attrCN
}

func (m *GroupMapper) RDNValue(g *GroupEntry) string {
	return g.GetCommonName()
}

// members returns the sorted member DNs, falling back to the sentinel
// so the diff stays stable and the schema's one-member minimum holds.
func (m *GroupMapper) members(g *GroupEntry) []string {
	values := nonBlank(g.Members)
	if len(values) == 0 {
		return []string{NoneUniqueMember}
	}
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return sorted
}

func (m *GroupMapper) AttributeValues(g *GroupEntry) []AttributeValue {
	avs := []AttributeValue{
		{Name: attrBusinessCategory, Values: []string{g.BusinessCategory}},
		{Name: attrDescription, Values: []string{g.Description}},
		{Name: attrO, Values: []string{g.Organization}},
		{Name: attrUniqueMember, Values: m.members(g)},
	}
	if m.cfg.Posix != nil && g.GIDNumber > 0 {
		avs = append(avs, AttributeValue{Name: attrGIDNumber, Values: []string{strconv.Itoa(g.GIDNumber)}})
	}
	return avs
}

func (m *GroupMapper) SearchAttributes() []string {
	return []string{
		attrObjectClass, attrCN, attrBusinessCategory, attrDescription,
		attrO, attrUniqueMember, attrGIDNumber,
	}
}

func (m *GroupMapper) FromEntry(entry *ldap.Entry) *GroupEntry {
	g := &GroupEntry{
		EntryBase: EntryBase{
			CommonName: entry.GetAttributeValue(attrCN),
		},
		BusinessCategory: entry.GetAttributeValue(attrBusinessCategory),
		Description:      entry.GetAttributeValue(attrDescription),
		Organization:     entry.GetAttributeValue(attrO),
		Members:          entry.GetAttributeValues(attrUniqueMember),
	}
	g.GIDNumber, _ = strconv.Atoi(entry.GetAttributeValue(attrGIDNumber))
	return g
}
