package store

import (
	"context"
	"testing"

	"github.com/goodbye-jack/ldap-sync/model"
)

func TestGroupStoreListPreloadsMembers(t *testing.T) {
	ctx := context.Background()
	o := newTestOrm(t)
	users := NewUserStore(o)
	groups := NewGroupStore(o)

	alice := &model.UserDO{Username: "alice"}
	bob := &model.UserDO{Username: "bob"}
	if err := users.Create(ctx, alice); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := users.Create(ctx, bob); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	devs := &model.GroupDO{Name: "devs", AssignedUsers: []*model.UserDO{alice, bob}}
	if err := groups.Save(ctx, devs); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	all, err := groups.ListAll(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 1 || len(all[0].AssignedUsers) != 2 {
		t.Fatalf("assigned users not preloaded: %+v", all)
	}
}
