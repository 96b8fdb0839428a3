package syncer

import (
	"context"
	"testing"

	goldap "github.com/go-ldap/ldap/v3"
	"github.com/goodbye-jack/ldap-sync/ldap"
	"github.com/goodbye-jack/ldap-sync/ldap/ldaptest"
	"github.com/goodbye-jack/ldap-sync/model"
)

func seedSlaveDirectory(dir *ldaptest.Directory) {
	dir.Put(testUserBase, map[string][]string{
		"objectClass": {"top", "organizationalUnit"},
		"ou":          {"users"},
	})
	dir.Put("uid=alice,"+testUserBase, map[string][]string{
		"objectClass":    {"top", "person", "organizationalPerson", "inetOrgPerson"},
		"uid":            {"alice"},
		"cn":             {"Alice Wonder"},
		"sn":             {"Wonder"},
		"givenName":      {"Alice"},
		"mail":           {"alice@example.com"},
		"employeeNumber": {"ID-1"},
		"userPassword":   {"secret"},
	})
	dir.Put("uid=bob,"+testUserBase, map[string][]string{
		"objectClass": {"top", "person", "organizationalPerson", "inetOrgPerson"},
		"uid":         {"bob"},
		"cn":          {"Bob Builder"},
		"sn":          {"Builder"},
		"givenName":   {"Bob"},
	})
}

func TestSlaveSyncMirrorsUsers(t *testing.T) {
	users := &fakeUserStore{}
	s, dir := newSlaveHarness(SlaveModeUsers, users)
	seedSlaveDirectory(dir)

	stats, err := s.Sync(context.Background())
	if err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	if stats.Created != 2 || stats.Errors != 0 {
		t.Fatalf("both directory users should be inserted: %s", stats)
	}
	alice, err := users.FindByUsername(context.Background(), "alice")
	if err != nil || alice == nil {
		t.Fatalf("mirrored row missing: %v", err)
	}
	if alice.FirstName != "Alice" || alice.LastName != "Wonder" || alice.Email != "alice@example.com" {
		t.Fatalf("mirrored fields mismatch: %+v", alice)
	}

	stats, err = s.Sync(context.Background())
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
	if stats.Created != 0 || stats.Updated != 0 || stats.Unmodified != 2 {
		t.Fatalf("second pass should change nothing: %s", stats)
	}
}

func TestSlaveSyncMarksRemovedUsersDeleted(t *testing.T) {
	users := &fakeUserStore{}
	s, dir := newSlaveHarness(SlaveModeUsers, users)
	seedSlaveDirectory(dir)

	if _, err := s.Sync(context.Background()); err != nil {
		t.Fatalf("first pass failed: %v", err)
	}

	dir.Del(goldap.NewDelRequest("uid=bob,"+testUserBase, nil))
	stats, err := s.Sync(context.Background())
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
	if stats.Deleted != 1 {
		t.Fatalf("vanished remote user should be soft-deleted: %s", stats)
	}
	bob, _ := users.FindByUsername(context.Background(), "bob")
	if bob == nil || !bob.Deleted {
		t.Fatalf("row not marked deleted: %+v", bob)
	}

	// the entry comes back, the row is undeleted
	seedSlaveDirectory(dir)
	stats, err = s.Sync(context.Background())
	if err != nil {
		t.Fatalf("third pass failed: %v", err)
	}
	if stats.Updated != 1 {
		t.Fatalf("returning remote user should undelete the row: %s", stats)
	}
	bob, _ = users.FindByUsername(context.Background(), "bob")
	if bob.Deleted {
		t.Fatalf("row still deleted after the entry returned")
	}
}

func TestSlaveSyncKeepsLocalUsers(t *testing.T) {
	users := &fakeUserStore{}
	users.add(&model.UserDO{Username: "svc", FirstName: "Service", LocalUser: true})
	s, dir := newSlaveHarness(SlaveModeUsers, users)
	seedSlaveDirectory(dir)

	stats, err := s.Sync(context.Background())
	if err != nil {
		t.Fatalf("pass failed: %v", err)
	}
	if stats.Deleted != 0 {
		t.Fatalf("local row must never be soft-deleted: %s", stats)
	}
	svc, _ := users.FindByUsername(context.Background(), "svc")
	if svc.Deleted || svc.FirstName != "Service" {
		t.Fatalf("local row was touched: %+v", svc)
	}
}

func TestSlaveSimpleModeSkipsFieldSync(t *testing.T) {
	users := &fakeUserStore{}
	s, dir := newSlaveHarness(SlaveModeSimple, users)
	seedSlaveDirectory(dir)

	stats, err := s.Sync(context.Background())
	if err != nil {
		t.Fatalf("pass failed: %v", err)
	}
	if stats != (Stats{}) {
		t.Fatalf("simple mode should sync nothing: %s", stats)
	}
	if len(users.users) != 0 {
		t.Fatalf("simple mode inserted rows")
	}
}

func TestSlaveModeFallback(t *testing.T) {
	users := &fakeUserStore{}
	s, _ := newSlaveHarness(SlaveModeUserGroups, users)
	if s.Mode() != SlaveModeUsers {
		t.Fatalf("reserved mode should fall back to users: %s", s.Mode())
	}
	s, _ = newSlaveHarness("bogus", users)
	if s.Mode() != SlaveModeUsers {
		t.Fatalf("unknown mode should fall back to users: %s", s.Mode())
	}
}

func TestSlaveLogin(t *testing.T) {
	users := &fakeUserStore{}
	s, dir := newSlaveHarness(SlaveModeUsers, users)
	seedSlaveDirectory(dir)

	entry, err := s.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if entry.UID != "alice" {
		t.Fatalf("wrong entry returned: %+v", entry)
	}
	if len(dir.Binds) == 0 || dir.Binds[len(dir.Binds)-1] != "uid=alice,"+testUserBase {
		t.Fatalf("login should bind as the user's own dn: %v", dir.Binds)
	}
	// users mode refreshes the row immediately
	alice, _ := users.FindByUsername(context.Background(), "alice")
	if alice == nil || alice.LastName != "Wonder" {
		t.Fatalf("login did not mirror the row: %+v", alice)
	}

	if _, err := s.Login(context.Background(), "nobody", "secret"); !ldap.IsNotFound(err) {
		t.Fatalf("unknown user should yield not-found: %v", err)
	}
	if _, err := s.Login(context.Background(), "alice", ""); err == nil {
		t.Fatalf("blank password must be rejected")
	}
}
