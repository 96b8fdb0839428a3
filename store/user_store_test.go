package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/goodbye-jack/ldap-sync/model"
	"github.com/goodbye-jack/ldap-sync/orm"
	"gorm.io/driver/sqlite"
)

func newTestOrm(t *testing.T) *orm.Orm {
	t.Helper()
	o, err := orm.NewOrmWithDialector(sqlite.Open(filepath.Join(t.TempDir(), "sync.db")))
	if err != nil {
		t.Fatalf("opening sqlite failed: %v", err)
	}
	if err := o.AutoMigrate(&model.UserDO{}, &model.GroupDO{}); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	return o
}

func TestUserStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(newTestOrm(t))

	alice := &model.UserDO{Username: "alice", FirstName: "Alice", LastName: "Wonder"}
	if err := users.Create(ctx, alice); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if alice.ID == 0 {
		t.Fatalf("id not assigned")
	}

	found, err := users.FindByUsername(ctx, "alice")
	if err != nil || found == nil {
		t.Fatalf("find by username failed: %v", err)
	}
	if found.ID != alice.ID || found.FirstName != "Alice" {
		t.Fatalf("row mismatch: %+v", found)
	}

	byID, err := users.FindByID(ctx, alice.ID)
	if err != nil || byID == nil || byID.Username != "alice" {
		t.Fatalf("find by id failed: %+v %v", byID, err)
	}

	if missing, err := users.FindByUsername(ctx, "nobody"); err != nil || missing != nil {
		t.Fatalf("absent row should return nil without error: %+v %v", missing, err)
	}
}

func TestUserStoreListIncludesDeleted(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(newTestOrm(t))

	alice := &model.UserDO{Username: "alice"}
	if err := users.Create(ctx, alice); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := users.MarkDeleted(ctx, alice); err != nil {
		t.Fatalf("mark deleted failed: %v", err)
	}

	all, err := users.ListAll(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 1 || !all[0].Deleted {
		t.Fatalf("deleted rows must stay visible: %+v", all)
	}
}
