// Package ldaptest provides an in-memory directory implementing the
// ldap.Conn interface, so DAO and sync tests run without a server.
package ldaptest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	goldap "github.com/go-ldap/ldap/v3"
)

type entry struct {
	dn    string
	attrs map[string][]string
}

// Directory is a stateful fake: adds, modifies, deletes and renames
// are applied to an in-memory entry table that later searches see.
type Directory struct {
	mu      sync.Mutex
	entries map[string]*entry // key = lowercase DN
	Binds   []string          // DNs passed to Bind, in order
	Closed  bool

	// FailDN makes every write operation on that DN return FailErr,
	// for error-path tests.
	FailDN  string
	FailErr error
}

func NewDirectory() *Directory {
	return &Directory{entries: map[string]*entry{}}
}

// Put seeds one entry, overwriting any previous state at that DN.
func (d *Directory) Put(dn string, attrs map[string][]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	copied := make(map[string][]string, len(attrs))
	for name, values := range attrs {
		copied[name] = append([]string(nil), values...)
	}
	d.entries[strings.ToLower(dn)] = &entry{dn: dn, attrs: copied}
}

// Get returns the attributes stored at dn, or nil.
func (d *Directory) Get(dn string) map[string][]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.entries[strings.ToLower(dn)]; ok {
		return e.attrs
	}
	return nil
}

// DNs lists every stored DN, sorted.
func (d *Directory) DNs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e.dn)
	}
	sort.Strings(out)
	return out
}

func (d *Directory) Bind(username, password string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Binds = append(d.Binds, username)
	return nil
}

func (d *Directory) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	return nil
}

var filterCondition = regexp.MustCompile(`\(([A-Za-z0-9]+)=([^()]*)\)`)

func attrValues(e *entry, name string) []string {
	for attr, values := range e.attrs {
		if strings.EqualFold(attr, name) {
			return values
		}
	}
	return nil
}

func matches(e *entry, filter string) bool {
	for _, cond := range filterCondition.FindAllStringSubmatch(filter, -1) {
		name, wanted := cond[1], cond[2]
		found := false
		for _, v := range attrValues(e, name) {
			if strings.EqualFold(v, wanted) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func inScope(dn, base string) bool {
	dn = strings.ToLower(dn)
	base = strings.ToLower(base)
	return dn == base || strings.HasSuffix(dn, ","+base)
}

// Search supports the subtree searches the DAO issues: a conjunction
// of attribute equality conditions. A base that holds no entries
// at all yields a no-such-object error like a real server.
func (d *Directory) Search(req *goldap.SearchRequest) (*goldap.SearchResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	baseSeen := false
	res := &goldap.SearchResult{}
	dns := make([]string, 0, len(d.entries))
	for key := range d.entries {
		dns = append(dns, key)
	}
	sort.Strings(dns)
	for _, key := range dns {
		e := d.entries[key]
		if !inScope(e.dn, req.BaseDN) {
			continue
		}
		baseSeen = true
		if matches(e, req.Filter) {
			res.Entries = append(res.Entries, goldap.NewEntry(e.dn, e.attrs))
		}
	}
	if !baseSeen {
		return nil, &goldap.Error{ResultCode: goldap.LDAPResultNoSuchObject, Err: fmt.Errorf("no such object: %s", req.BaseDN)}
	}
	return res, nil
}

func (d *Directory) failure(dn string) error {
	if d.FailErr != nil && strings.EqualFold(dn, d.FailDN) {
		return d.FailErr
	}
	return nil
}

func (d *Directory) Add(req *goldap.AddRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.failure(req.DN); err != nil {
		return err
	}
	key := strings.ToLower(req.DN)
	if _, exists := d.entries[key]; exists {
		return &goldap.Error{ResultCode: goldap.LDAPResultEntryAlreadyExists, Err: fmt.Errorf("entry already exists: %s", req.DN)}
	}
	attrs := map[string][]string{}
	for _, attr := range req.Attributes {
		attrs[attr.Type] = append(attrs[attr.Type], attr.Vals...)
	}
	d.entries[key] = &entry{dn: req.DN, attrs: attrs}
	return nil
}

func (d *Directory) Modify(req *goldap.ModifyRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.failure(req.DN); err != nil {
		return err
	}
	e, ok := d.entries[strings.ToLower(req.DN)]
	if !ok {
		return &goldap.Error{ResultCode: goldap.LDAPResultNoSuchObject, Err: fmt.Errorf("no such object: %s", req.DN)}
	}
	for _, change := range req.Changes {
		name := change.Modification.Type
		values := change.Modification.Vals
		key := name
		for attr := range e.attrs {
			if strings.EqualFold(attr, name) {
				key = attr
				break
			}
		}
		switch change.Operation {
		case goldap.AddAttribute:
			e.attrs[key] = append(e.attrs[key], values...)
		case goldap.DeleteAttribute:
			delete(e.attrs, key)
		case goldap.ReplaceAttribute:
			if len(values) == 0 {
				delete(e.attrs, key)
			} else {
				e.attrs[key] = append([]string(nil), values...)
			}
		}
	}
	return nil
}

func (d *Directory) Del(req *goldap.DelRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.failure(req.DN); err != nil {
		return err
	}
	key := strings.ToLower(req.DN)
	if _, ok := d.entries[key]; !ok {
		return &goldap.Error{ResultCode: goldap.LDAPResultNoSuchObject, Err: fmt.Errorf("no such object: %s", req.DN)}
	}
	delete(d.entries, key)
	return nil
}

func (d *Directory) ModifyDN(req *goldap.ModifyDNRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	oldKey := strings.ToLower(req.DN)
	e, ok := d.entries[oldKey]
	if !ok {
		return &goldap.Error{ResultCode: goldap.LDAPResultNoSuchObject, Err: fmt.Errorf("no such object: %s", req.DN)}
	}
	parent := req.NewSuperior
	if parent == "" {
		if _, rest, found := strings.Cut(e.dn, ","); found {
			parent = rest
		}
	}
	newDN := req.NewRDN + "," + parent
	if name, value, found := strings.Cut(req.NewRDN, "="); found {
		key := name
		for attr := range e.attrs {
			if strings.EqualFold(attr, name) {
				key = attr
				break
			}
		}
		e.attrs[key] = []string{value}
	}
	delete(d.entries, oldKey)
	e.dn = newDN
	d.entries[strings.ToLower(newDN)] = e
	return nil
}
