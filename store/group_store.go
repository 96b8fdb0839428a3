package store

import (
	"context"

	"github.com/goodbye-jack/ldap-sync/model"
	"github.com/goodbye-jack/ldap-sync/orm"
)

type GroupStore struct {
	orm *orm.Orm
}

func NewGroupStore(o *orm.Orm) *GroupStore {
	return &GroupStore{orm: o}
}

// ListAll returns every group row with its assigned users preloaded.
func (s *GroupStore) ListAll(ctx context.Context) ([]*model.GroupDO, error) {
	var groups []*model.GroupDO
	if err := s.orm.Preload("AssignedUsers", ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *GroupStore) Save(ctx context.Context, group *model.GroupDO) error {
	return s.orm.Save(ctx, group)
}
