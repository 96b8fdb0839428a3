package syncer

import (
	"context"
	"strings"

	"github.com/goodbye-jack/ldap-sync/ldap"
	"github.com/goodbye-jack/ldap-sync/ldap/ldaptest"
	"github.com/goodbye-jack/ldap-sync/model"
)

const (
	testBaseDN    = "dc=example,dc=com"
	testUserBase  = "ou=users,dc=example,dc=com"
	testGroupBase = "ou=groups,dc=example,dc=com"
)

func testConfig() ldap.Config {
	return ldap.Config{
		Server:    "localhost",
		BaseDN:    testBaseDN,
		Auth:      ldap.AuthNone,
		UserBase:  testUserBase,
		GroupBase: testGroupBase,
		IDPrefix:  "ID",
	}
}

type fakeUserStore struct {
	users  []*model.UserDO
	nextID uint
}

func (s *fakeUserStore) ListAll(ctx context.Context) ([]*model.UserDO, error) {
	return append([]*model.UserDO(nil), s.users...), nil
}

func (s *fakeUserStore) FindByUsername(ctx context.Context, username string) (*model.UserDO, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) Create(ctx context.Context, u *model.UserDO) error {
	s.nextID++
	u.ID = s.nextID
	s.users = append(s.users, u)
	return nil
}

func (s *fakeUserStore) Save(ctx context.Context, u *model.UserDO) error {
	for _, existing := range s.users {
		if existing.ID == u.ID {
			return nil
		}
	}
	s.users = append(s.users, u)
	return nil
}

// add seeds a row with a fixed id, bypassing Create.
func (s *fakeUserStore) add(u *model.UserDO) *model.UserDO {
	if u.ID == 0 {
		s.nextID++
		u.ID = s.nextID
	} else if u.ID > s.nextID {
		s.nextID = u.ID
	}
	s.users = append(s.users, u)
	return u
}

type fakeGroupStore struct {
	groups []*model.GroupDO
}

func (s *fakeGroupStore) ListAll(ctx context.Context) ([]*model.GroupDO, error) {
	return append([]*model.GroupDO(nil), s.groups...), nil
}

func newMasterHarness(users *fakeUserStore, groups *fakeGroupStore) (*Master, *ldaptest.Directory) {
	return newMasterHarnessWithConfig(testConfig(), users, groups)
}

func newMasterHarnessWithConfig(cfg ldap.Config, users *fakeUserStore, groups *fakeGroupStore) (*Master, *ldaptest.Directory) {
	dir := ldaptest.NewDirectory()
	tpl := ldaptest.NewTemplate(cfg, dir)
	return NewMaster(cfg, tpl, NewSupervisor(), users, groups), dir
}

func newSlaveHarness(mode string, users *fakeUserStore) (*Slave, *ldaptest.Directory) {
	cfg := testConfig()
	dir := ldaptest.NewDirectory()
	tpl := ldaptest.NewTemplate(cfg, dir)
	return NewSlave(cfg, mode, tpl, NewSupervisor(), users), dir
}
