package syncer

import (
	"context"
	"strings"

	"github.com/goodbye-jack/ldap-sync/ldap"
	"github.com/goodbye-jack/ldap-sync/log"
	"github.com/goodbye-jack/ldap-sync/model"
	"github.com/pkg/errors"
)

// UserStore is the narrow relational surface the engines consume.
type UserStore interface {
	ListAll(ctx context.Context) ([]*model.UserDO, error)
	FindByUsername(ctx context.Context, username string) (*model.UserDO, error)
	Create(ctx context.Context, u *model.UserDO) error
	Save(ctx context.Context, u *model.UserDO) error
}

type GroupStore interface {
	ListAll(ctx context.Context) ([]*model.GroupDO, error)
}

// Master pushes the database through to the directory: the database is
// authoritative, the directory is overwritten to match.
type Master struct {
	cfg      ldap.Config
	tpl      *ldap.Template
	sup      *Supervisor
	users    UserStore
	groups   GroupStore
	userDao  *ldap.Dao[*ldap.UserEntry]
	groupDao *ldap.Dao[*ldap.GroupEntry]
	ouDao    *ldap.Dao[*ldap.OrgUnitEntry]
}

func NewMaster(cfg ldap.Config, tpl *ldap.Template, sup *Supervisor, users UserStore, groups GroupStore) *Master {
	return &Master{
		cfg:      cfg,
		tpl:      tpl,
		sup:      sup,
		users:    users,
		groups:   groups,
		userDao:  ldap.NewDao[*ldap.UserEntry](ldap.NewUserMapper(cfg), cfg.UserBase),
		groupDao: ldap.NewDao[*ldap.GroupEntry](ldap.NewGroupMapper(cfg), cfg.GroupBase),
		ouDao:    ldap.NewDao[*ldap.OrgUnitEntry](ldap.NewOrgUnitMapper(), cfg.BaseDN),
	}
}

// Sync runs one full master pass under the run guard. A pass requested
// while another run is active returns ErrAlreadyRunning.
func (m *Master) Sync(ctx context.Context) (Stats, error) {
	var stats Stats
	err := m.sup.Run("master sync", func() error {
		var runErr error
		stats, runErr = m.run(ctx)
		return runErr
	})
	return stats, err
}

// TriggerAsync starts one master pass on a background goroutine.
func (m *Master) TriggerAsync(ctx context.Context) error {
	return m.sup.Trigger("master sync", func() error {
		_, err := m.run(ctx)
		return err
	})
}

// run holds one directory session for the whole pass: users first,
// then groups, because group member lists are translated through the
// DNs established by the user pass.
func (m *Master) run(ctx context.Context) (Stats, error) {
	var stats Stats
	err := m.tpl.Execute(func(conn ldap.Conn) error {
		if err := m.ensureStructure(conn); err != nil {
			return err
		}
		dnByID, userStats, err := m.syncUsers(ctx, conn)
		stats.add(userStats)
		if err != nil {
			return err
		}
		groupStats, err := m.syncGroups(ctx, conn, dnByID)
		stats.add(groupStats)
		return err
	})
	log.Infof("master sync finished: %s", stats)
	return stats, err
}

// ensureStructure creates the user/group bases and the account-state
// sub-organizational-units when they are missing.
func (m *Master) ensureStructure(conn ldap.Conn) error {
	for _, dn := range []string{
		m.cfg.UserBase,
		m.cfg.GroupBase,
		ldap.DeactivatedBase(m.cfg.UserBase),
		ldap.RestrictedBase(m.cfg.UserBase),
	} {
		if err := m.ensureOrgUnit(conn, dn); err != nil {
			return err
		}
	}
	return nil
}

func (m *Master) ensureOrgUnit(conn ldap.Conn, dn string) error {
	name, parent, ok := splitOrgUnitDN(dn)
	if !ok {
		return nil
	}
	err := m.ouDao.Create(conn, &ldap.OrgUnitEntry{Name: name}, parent)
	if err != nil && !ldap.IsAlreadyExists(err) {
		return err
	}
	return nil
}

// splitOrgUnitDN splits "ou=users,dc=example,dc=org" into the unit
// name and the parent DN. The bool is false when the first RDN is not
// an organizational unit.
func splitOrgUnitDN(dn string) (string, string, bool) {
	first, parent, found := strings.Cut(dn, ",")
	if !found {
		return "", "", false
	}
	name, ok := strings.CutPrefix(strings.ToLower(first), "ou=")
	if !ok {
		return "", "", false
	}
	return name, parent, true
}

func (m *Master) targetBase(entry *ldap.UserEntry) string {
	switch {
	case entry.Deactivated:
		// deactivation wins over restriction
		return ldap.DeactivatedBase(m.cfg.UserBase)
	case entry.Restricted:
		return ldap.RestrictedBase(m.cfg.UserBase)
	default:
		return m.cfg.UserBase
	}
}

func (m *Master) syncUsers(ctx context.Context, conn ldap.Conn) (map[uint]string, Stats, error) {
	var stats Stats
	users, err := m.users.ListAll(ctx)
	if err != nil {
		return nil, stats, errors.Wrap(err, "listing database users")
	}
	remote, err := m.userDao.FindAll(conn)
	if err != nil {
		return nil, stats, err
	}
	set := ldap.NewExistenceSet()
	remoteByID := make(map[string]*ldap.UserEntry, len(remote))
	for _, r := range remote {
		set.Add(r.EmployeeNumber, r.GetDN())
		if r.EmployeeNumber != "" {
			remoteByID[r.EmployeeNumber] = r
		}
	}

	dnByID := make(map[uint]string, len(users))
	for _, u := range users {
		entry := directoryUser(m.cfg, u)
		if err := m.syncUser(conn, set, remoteByID, u, entry, dnByID, &stats); err != nil {
			stats.Errors++
			log.Errorf("syncing user %s failed, %v", u.Username, err)
		}
	}
	log.Infof("master user pass: %s", stats)
	return dnByID, stats, nil
}

func (m *Master) syncUser(conn ldap.Conn, set *ldap.ExistenceSet, remoteByID map[string]*ldap.UserEntry,
	u *model.UserDO, entry *ldap.UserEntry, dnByID map[uint]string, stats *Stats) error {

	id := entry.EmployeeNumber
	dn := m.userDao.BuildDN(entry)
	exists := set.Contains(id, dn)

	if u.Deleted || u.LocalUser {
		if !exists {
			return nil
		}
		stored, found, err := m.userDao.FindByID(conn, id)
		if err != nil {
			return err
		}
		if !found {
			// the set matched on the DN, the entry carries no key
			stored, found, err = m.userDao.FindByIdentifier(conn, entry.UID)
			if err != nil {
				return err
			}
		}
		if !found {
			return nil
		}
		if err := m.userDao.Delete(conn, stored); err != nil {
			return err
		}
		stats.Deleted++
		return nil
	}

	if !exists {
		if err := m.userDao.Create(conn, entry); err != nil {
			return err
		}
		stats.Created++
		if target := m.targetBase(entry); target != m.cfg.UserBase {
			if _, err := m.userDao.Move(conn, entry, target); err != nil {
				return err
			}
		}
		dnByID[u.ID] = entry.GetDN()
		return nil
	}

	stored := remoteByID[id]
	renamed := false
	if stored != nil {
		var err error
		renamed, err = m.userDao.Rename(conn, entry, stored)
		if err != nil {
			return err
		}
	}
	moved, err := m.userDao.Move(conn, entry, m.targetBase(entry))
	if err != nil {
		return err
	}
	modified, err := m.userDao.Update(conn, entry)
	if err != nil {
		return err
	}
	cleared := false
	if entry.Deactivated && stored != nil && stored.PasswordGiven {
		// deactivation is push-only: the remote account loses its
		// password, it is never inferred back from remote state
		if err := ldap.ClearPassword(conn, entry.GetDN()); err != nil {
			return err
		}
		cleared = true
	}

	switch {
	case renamed:
		stats.Renamed++
	case moved:
		stats.Moved++
	case modified || cleared:
		stats.Updated++
	default:
		stats.Unmodified++
	}
	dnByID[u.ID] = entry.GetDN()
	return nil
}

// memberDNs translates a group's assigned users into directory DNs,
// keeping only active, system-accessible, directory-managed accounts.
func memberDNs(g *model.GroupDO, dnByID map[uint]string) []string {
	out := make([]string, 0, len(g.AssignedUsers))
	for _, u := range g.AssignedUsers {
		if u.LocalUser || !u.HasSystemAccess() {
			continue
		}
		if dn, ok := dnByID[u.ID]; ok {
			out = append(out, dn)
		}
	}
	return out
}

func (m *Master) syncGroups(ctx context.Context, conn ldap.Conn, dnByID map[uint]string) (Stats, error) {
	var stats Stats
	groups, err := m.groups.ListAll(ctx)
	if err != nil {
		return stats, errors.Wrap(err, "listing database groups")
	}
	remote, err := m.groupDao.FindAll(conn)
	if err != nil {
		return stats, err
	}
	set := ldap.NewExistenceSet()
	remoteByID := make(map[string]*ldap.GroupEntry, len(remote))
	for _, r := range remote {
		set.Add(r.BusinessCategory, r.GetDN())
		if r.BusinessCategory != "" {
			remoteByID[r.BusinessCategory] = r
		}
	}

	for _, g := range groups {
		entry := directoryGroup(m.cfg, g, memberDNs(g, dnByID))
		if err := m.syncGroup(conn, set, remoteByID, g, entry, &stats); err != nil {
			stats.Errors++
			log.Errorf("syncing group %s failed, %v", g.Name, err)
		}
	}
	log.Infof("master group pass: %s", stats)
	return stats, nil
}

func (m *Master) syncGroup(conn ldap.Conn, set *ldap.ExistenceSet, remoteByID map[string]*ldap.GroupEntry,
	g *model.GroupDO, entry *ldap.GroupEntry, stats *Stats) error {

	id := entry.BusinessCategory
	dn := m.groupDao.BuildDN(entry)
	exists := set.Contains(id, dn)

	if g.Deleted || g.LocalGroup {
		if !exists {
			return nil
		}
		stored, found, err := m.groupDao.FindByID(conn, id)
		if err != nil {
			return err
		}
		if !found {
			stored, found, err = m.groupDao.FindByIdentifier(conn, entry.GetCommonName())
			if err != nil {
				return err
			}
		}
		if !found {
			return nil
		}
		if err := m.groupDao.Delete(conn, stored); err != nil {
			return err
		}
		stats.Deleted++
		return nil
	}

	if !exists {
		if err := m.groupDao.Create(conn, entry); err != nil {
			return err
		}
		stats.Created++
		return nil
	}

	renamed := false
	if stored := remoteByID[id]; stored != nil {
		var err error
		renamed, err = m.groupDao.Rename(conn, entry, stored)
		if err != nil {
			return err
		}
	}
	modified, err := m.groupDao.Update(conn, entry)
	if err != nil {
		return err
	}
	switch {
	case renamed:
		stats.Renamed++
	case modified:
		stats.Updated++
	default:
		stats.Unmodified++
	}
	return nil
}

// OnSuccessfulLogin is the side channel feeding verified cleartext
// passwords into the directory. The periodic pass never touches
// passwords; this is the only place one is pushed, and only when the
// remote entry has none yet.
func (m *Master) OnSuccessfulLogin(ctx context.Context, u *model.UserDO, password string) error {
	if u.LocalUser || u.Deleted || u.Deactivated {
		return nil
	}
	return m.tpl.Execute(func(conn ldap.Conn) error {
		entry := directoryUser(m.cfg, u)
		stored, found, err := m.userDao.FindByID(conn, entry.EmployeeNumber)
		if err != nil {
			return err
		}
		if !found {
			if err := m.userDao.Create(conn, entry); err != nil {
				return err
			}
			return ldap.SetPassword(conn, entry.GetDN(), password)
		}
		if stored.PasswordGiven {
			return nil
		}
		return ldap.SetPassword(conn, stored.GetDN(), password)
	})
}
