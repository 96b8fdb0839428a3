package ldap

import (
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"github.com/goodbye-jack/ldap-sync/log"
)

// Mapper is the per-variant capability set the generic DAO works
// against: filter class, identity key, DN-forming identifier, and the
// attribute mapping in both directions.
//
// AttributeValues must not contain the DN-forming attribute; renaming
// is a separate operation and the identifier never takes part in
// ordinary updates.
type Mapper[E Entry] interface {
	Type() string
	ObjectClass() string
	ObjectClasses(e E) []string
	IDAttr() string
	ID(e E) string
	DNAttr() string
	RDNValue(e E) string
	AttributeValues(e E) []AttributeValue
	SearchAttributes() []string
	FromEntry(entry *ldap.Entry) E
}

// Dao is the generic typed access layer over one entry variant. All
// operations run on a caller-supplied session; callers obtain one
// through Template.Execute and may hold it across many operations.
type Dao[E Entry] struct {
	mapper Mapper[E]
	base   string
}

func NewDao[E Entry](mapper Mapper[E], base string) *Dao[E] {
	return &Dao[E]{mapper: mapper, base: base}
}

func (d *Dao[E]) Base() string {
	return d.base
}

func (d *Dao[E]) searchBase(base ...string) string {
	if len(base) > 0 && base[0] != "" {
		return base[0]
	}
	return d.base
}

// BuildDN computes and stores the entry's DN from its identifier and
// organizational unit, inheriting the caller-supplied base when the
// entry carries no unit yet.
func (d *Dao[E]) BuildDN(e E, base ...string) string {
	ou := e.GetOrganizationalUnit()
	if ou == "" {
		ou = d.searchBase(base...)
		e.SetOrganizationalUnit(ou)
	}
	dn := fmt.Sprintf("%s=%s,%s", d.mapper.DNAttr(), ldap.EscapeDN(d.mapper.RDNValue(e)), ou)
	e.SetDN(dn)
	return dn
}

func (d *Dao[E]) fromEntry(entry *ldap.Entry) E {
	e := d.mapper.FromEntry(entry)
	e.SetDN(entry.DN)
	e.SetOrganizationalUnit(parentDN(entry.DN))
	e.SetObjectClasses(entry.GetAttributeValues(attrObjectClass))
	return e
}

// FindAll lists every entry of the variant beneath the scope.
func (d *Dao[E]) FindAll(conn Conn, base ...string) ([]E, error) {
	scope := d.searchBase(base...)
	req := ldap.NewSearchRequest(
		scope,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		fmt.Sprintf("(%s=%s)", attrObjectClass, d.mapper.ObjectClass()),
		d.mapper.SearchAttributes(),
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			log.Infof("search base %s does not exist, treating as empty", scope)
			return nil, nil
		}
		return nil, OperationError{Op: "search", Type: d.mapper.Type(), ID: scope, Err: err}
	}
	out := make([]E, 0, len(res.Entries))
	for _, entry := range res.Entries {
		out = append(out, d.fromEntry(entry))
	}
	return out, nil
}

// FindByID locates one entry by its identity key. The second return is
// false when no entry matches. Multiple matches are tolerated: the
// first one wins and the ambiguity is logged.
func (d *Dao[E]) FindByID(conn Conn, id string, base ...string) (E, bool, error) {
	return d.findOne(conn, d.mapper.IDAttr(), id, base...)
}

// FindByIdentifier locates one entry by its DN-forming identifier,
// e.g. a user by login id.
func (d *Dao[E]) FindByIdentifier(conn Conn, value string, base ...string) (E, bool, error) {
	return d.findOne(conn, d.mapper.DNAttr(), value, base...)
}

// resolve locates the stored counterpart of e by identity key, falling
// back to the DN-forming identifier for entries that sit at the
// computed DN but do not carry the key yet. The following update then
// writes the key, so such entries heal instead of erroring every pass.
func (d *Dao[E]) resolve(conn Conn, e E) (E, bool, error) {
	stored, found, err := d.FindByID(conn, d.mapper.ID(e))
	if err != nil || found {
		return stored, found, err
	}
	return d.FindByIdentifier(conn, d.mapper.RDNValue(e))
}

func (d *Dao[E]) findOne(conn Conn, attr, value string, base ...string) (E, bool, error) {
	var zero E
	scope := d.searchBase(base...)
	filter := fmt.Sprintf("(&(%s=%s)(%s=%s))",
		attrObjectClass, d.mapper.ObjectClass(),
		attr, ldap.EscapeFilter(value))
	req := ldap.NewSearchRequest(
		scope,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		filter,
		d.mapper.SearchAttributes(),
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return zero, false, nil
		}
		return zero, false, OperationError{Op: "search", Type: d.mapper.Type(), ID: value, Err: err}
	}
	if len(res.Entries) == 0 {
		return zero, false, nil
	}
	if len(res.Entries) > 1 {
		log.Warnf("%v", ConsistencyError{
			Type:   d.mapper.Type(),
			ID:     value,
			Reason: fmt.Sprintf("%d entries match %s=%s, using %s", len(res.Entries), attr, value, res.Entries[0].DN),
		})
	}
	return d.fromEntry(res.Entries[0]), true, nil
}

// Create binds a new entry beneath its organizational unit, carrying
// every mapped attribute plus the applicable object classes.
func (d *Dao[E]) Create(conn Conn, e E, base ...string) error {
	dn := d.BuildDN(e, base...)
	req := ldap.NewAddRequest(dn, nil)
	req.Attribute(attrObjectClass, d.mapper.ObjectClasses(e))
	req.Attribute(d.mapper.DNAttr(), []string{d.mapper.RDNValue(e)})
	for _, av := range d.mapper.AttributeValues(e) {
		if values := nonBlank(av.Values); len(values) > 0 {
			req.Attribute(av.Name, values)
		}
	}
	if err := ldapErr(conn.Add(req), "create", d.mapper.Type(), dn); err != nil {
		return err
	}
	log.Infof("created %s %s", d.mapper.Type(), dn)
	return nil
}

// Update re-resolves the entry's current DN, diffs the attributes and
// applies the resulting modification batch. It returns
// false when the stored entry already matched.
func (d *Dao[E]) Update(conn Conn, e E) (bool, error) {
	id := d.mapper.ID(e)
	stored, found, err := d.resolve(conn, e)
	if err != nil {
		return false, err
	}
	if !found {
		return false, ConsistencyError{Type: d.mapper.Type(), ID: id, Reason: "update requested but entry not found"}
	}
	dn := stored.GetDN()
	e.SetDN(dn)
	e.SetOrganizationalUnit(stored.GetOrganizationalUnit())

	req := buildModifications(dn, d.mapper.AttributeValues(e), d.mapper.AttributeValues(stored))
	if missing := missingClasses(d.mapper.ObjectClasses(e), stored.GetObjectClasses()); len(missing) > 0 {
		if req == nil {
			req = ldap.NewModifyRequest(dn, nil)
		}
		req.Add(attrObjectClass, missing)
	}
	if req == nil {
		return false, nil
	}
	if err := ldapErr(conn.Modify(req), "update", d.mapper.Type(), dn); err != nil {
		return false, err
	}
	log.Infof("updated %s %s (%d changes)", d.mapper.Type(), dn, len(req.Changes))
	return true, nil
}

// Delete removes the entry at its computed DN.
func (d *Dao[E]) Delete(conn Conn, e E) error {
	dn := e.GetDN()
	if dn == "" {
		dn = d.BuildDN(e)
	}
	req := ldap.NewDelRequest(dn, nil)
	if err := ldapErr(conn.Del(req), "delete", d.mapper.Type(), dn); err != nil {
		return err
	}
	log.Infof("deleted %s %s", d.mapper.Type(), dn)
	return nil
}

// Move relocates the entry into another organizational unit. The
// current DN is re-resolved first; moving to the unit the entry
// already lives in is a no-op.
func (d *Dao[E]) Move(conn Conn, e E, newOU string) (bool, error) {
	id := d.mapper.ID(e)
	stored, found, err := d.resolve(conn, e)
	if err != nil {
		return false, err
	}
	if !found {
		return false, ConsistencyError{Type: d.mapper.Type(), ID: id, Reason: "move requested but entry not found"}
	}
	currentOU := stored.GetOrganizationalUnit()
	rdn := fmt.Sprintf("%s=%s", d.mapper.DNAttr(), ldap.EscapeDN(d.mapper.RDNValue(e)))
	if strings.EqualFold(currentOU, newOU) {
		e.SetOrganizationalUnit(currentOU)
		e.SetDN(stored.GetDN())
		return false, nil
	}
	req := ldap.NewModifyDNRequest(stored.GetDN(), rdn, true, newOU)
	if err := ldapErr(conn.ModifyDN(req), "move", d.mapper.Type(), stored.GetDN()); err != nil {
		return false, err
	}
	e.SetOrganizationalUnit(newOU)
	e.SetDN(rdn + "," + newOU)
	log.Infof("moved %s %s to %s", d.mapper.Type(), stored.GetDN(), newOU)
	return true, nil
}

// Rename changes the DN-forming identifier within the same
// organizational unit. The identity key stays untouched.
func (d *Dao[E]) Rename(conn Conn, e E, previous E) (bool, error) {
	if d.mapper.RDNValue(e) == d.mapper.RDNValue(previous) {
		return false, nil
	}
	id := d.mapper.ID(e)
	stored, found, err := d.resolve(conn, e)
	if err != nil {
		return false, err
	}
	if !found {
		return false, ConsistencyError{Type: d.mapper.Type(), ID: id, Reason: "rename requested but entry not found"}
	}
	newRDN := fmt.Sprintf("%s=%s", d.mapper.DNAttr(), ldap.EscapeDN(d.mapper.RDNValue(e)))
	req := ldap.NewModifyDNRequest(stored.GetDN(), newRDN, true, "")
	if err := ldapErr(conn.ModifyDN(req), "rename", d.mapper.Type(), stored.GetDN()); err != nil {
		return false, err
	}
	ou := stored.GetOrganizationalUnit()
	e.SetOrganizationalUnit(ou)
	e.SetDN(newRDN + "," + ou)
	log.Infof("renamed %s %s to %s", d.mapper.Type(), stored.GetDN(), newRDN)
	return true, nil
}

// CreateOrUpdate dispatches on the existence set instead of a live
// search. It returns what happened: (created, modified).
func (d *Dao[E]) CreateOrUpdate(conn Conn, set *ExistenceSet, e E, base ...string) (bool, bool, error) {
	dn := d.BuildDN(e, base...)
	if set.Contains(d.mapper.ID(e), dn) {
		modified, err := d.Update(conn, e)
		return false, modified, err
	}
	return true, false, d.Create(conn, e, base...)
}

// parentDN strips the first RDN, turning an entry DN into the DN of
// its container.
func parentDN(dn string) string {
	if _, rest, found := strings.Cut(dn, ","); found {
		return rest
	}
	return ""
}
