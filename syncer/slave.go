package syncer

import (
	"context"
	"strings"

	"github.com/goodbye-jack/ldap-sync/ldap"
	"github.com/goodbye-jack/ldap-sync/log"
	"github.com/goodbye-jack/ldap-sync/model"
	"github.com/pkg/errors"
)

// Slave mode decides how much of the directory is mirrored into the
// database, fixed at startup from configuration.
const (
	// SlaveModeSimple only authenticates against the directory, no
	// field sync.
	SlaveModeSimple = "simple"
	// SlaveModeUsers also mirrors field values and deletion state.
	SlaveModeUsers = "users"
	// SlaveModeUserGroups is reserved; group membership mirroring is
	// not implemented.
	SlaveModeUserGroups = "user-groups"
)

// Slave mirrors directory users into the database: the directory is
// authoritative, except for locally managed accounts which are never
// overwritten.
type Slave struct {
	cfg     ldap.Config
	mode    string
	tpl     *ldap.Template
	sup     *Supervisor
	users   UserStore
	userDao *ldap.Dao[*ldap.UserEntry]
}

func NewSlave(cfg ldap.Config, mode string, tpl *ldap.Template, sup *Supervisor, users UserStore) *Slave {
	switch mode {
	case SlaveModeSimple, SlaveModeUsers:
	case SlaveModeUserGroups:
		log.Warnf("slave mode %s is not implemented, falling back to %s", mode, SlaveModeUsers)
		mode = SlaveModeUsers
	default:
		log.Warnf("unknown slave mode %q, falling back to %s", mode, SlaveModeUsers)
		mode = SlaveModeUsers
	}
	return &Slave{
		cfg:     cfg,
		mode:    mode,
		tpl:     tpl,
		sup:     sup,
		users:   users,
		userDao: ldap.NewDao[*ldap.UserEntry](ldap.NewUserMapper(cfg), cfg.UserBase),
	}
}

func (s *Slave) Mode() string {
	return s.mode
}

// Sync runs one full slave pass under the run guard. A second trigger
// while a pass is running is ignored.
func (s *Slave) Sync(ctx context.Context) (Stats, error) {
	var stats Stats
	if s.mode == SlaveModeSimple {
		log.Debug("slave mode simple, no field sync")
		return stats, nil
	}
	err := s.sup.Run("slave sync", func() error {
		var runErr error
		stats, runErr = s.run(ctx)
		return runErr
	})
	if errors.Is(err, ErrAlreadyRunning) {
		return stats, nil
	}
	return stats, err
}

// TriggerAsync starts one slave pass on a background goroutine.
func (s *Slave) TriggerAsync(ctx context.Context) error {
	if s.mode == SlaveModeSimple {
		return nil
	}
	return s.sup.Trigger("slave sync", func() error {
		_, err := s.run(ctx)
		return err
	})
}

func (s *Slave) run(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.tpl.Execute(func(conn ldap.Conn) error {
		remote, err := s.userDao.FindAll(conn)
		if err != nil {
			return err
		}
		dbUsers, err := s.users.ListAll(ctx)
		if err != nil {
			return errors.Wrap(err, "listing database users")
		}
		byUsername := make(map[string]*model.UserDO, len(dbUsers))
		for _, u := range dbUsers {
			byUsername[strings.ToLower(u.Username)] = u
		}

		seen := make(map[string]bool, len(remote))
		for _, entry := range remote {
			if entry.UID == "" {
				log.Warnf("directory entry %s has no uid, skipped", entry.GetDN())
				continue
			}
			seen[strings.ToLower(entry.UID)] = true
			if err := s.mirrorUser(ctx, entry, byUsername[strings.ToLower(entry.UID)], &stats); err != nil {
				stats.Errors++
				log.Errorf("mirroring user %s failed, %v", entry.UID, err)
			}
		}

		// rows without a remote counterpart are soft-deleted, local
		// accounts stay untouched
		for _, u := range dbUsers {
			if u.LocalUser || u.Deleted || seen[strings.ToLower(u.Username)] {
				continue
			}
			u.Deleted = true
			if err := s.users.Save(ctx, u); err != nil {
				stats.Errors++
				log.Errorf("marking user %s deleted failed, %v", u.Username, err)
				continue
			}
			stats.Deleted++
		}
		return nil
	})
	log.Infof("slave sync finished: %s", stats)
	return stats, err
}

func (s *Slave) mirrorUser(ctx context.Context, entry *ldap.UserEntry, u *model.UserDO, stats *Stats) error {
	if u == nil {
		if err := s.users.Create(ctx, databaseUser(entry)); err != nil {
			return err
		}
		stats.Created++
		return nil
	}
	if u.LocalUser {
		// locally managed, never overwritten from the directory
		return nil
	}
	if !copyDirectoryUser(entry, u) {
		stats.Unmodified++
		return nil
	}
	if err := s.users.Save(ctx, u); err != nil {
		return err
	}
	stats.Updated++
	return nil
}

// Login verifies a credential by binding as the located user's own DN
// and, in users mode, refreshes that user's database row right away.
func (s *Slave) Login(ctx context.Context, username, password string) (*ldap.UserEntry, error) {
	var entry *ldap.UserEntry
	err := s.tpl.Execute(func(conn ldap.Conn) error {
		found, ok, err := s.userDao.FindByIdentifier(conn, username)
		if err != nil {
			return err
		}
		if !ok {
			return ldap.NotFoundError{Type: "user", ID: username}
		}
		entry = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ldap.NotFoundError{Type: "user", ID: username}
	}
	if err := s.tpl.Connector().Authenticate(entry.GetDN(), password); err != nil {
		return nil, err
	}
	if s.mode == SlaveModeUsers {
		var stats Stats
		u, err := s.users.FindByUsername(ctx, entry.UID)
		if err != nil {
			return nil, err
		}
		if err := s.mirrorUser(ctx, entry, u, &stats); err != nil {
			return nil, err
		}
	}
	return entry, nil
}
