package store

import (
	"context"
	"errors"

	"github.com/goodbye-jack/ldap-sync/model"
	"github.com/goodbye-jack/ldap-sync/orm"
	"gorm.io/gorm"
)

// UserStore is the narrow relational surface the sync engines consume.
type UserStore struct {
	orm *orm.Orm
}

func NewUserStore(o *orm.Orm) *UserStore {
	return &UserStore{orm: o}
}

// ListAll returns every user row, deleted ones included. The master
// engine needs deleted rows to push directory deletes, the slave
// engine needs them to undelete.
func (s *UserStore) ListAll(ctx context.Context) ([]*model.UserDO, error) {
	var users []*model.UserDO
	if err := s.orm.FindAll(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (*model.UserDO, error) {
	var user model.UserDO
	err := s.orm.First(ctx, &user, "id = ?", id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*model.UserDO, error) {
	var user model.UserDO
	err := s.orm.First(ctx, &user, "username = ?", username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Create(ctx context.Context, user *model.UserDO) error {
	return s.orm.Create(ctx, user)
}

func (s *UserStore) Save(ctx context.Context, user *model.UserDO) error {
	return s.orm.Save(ctx, user)
}

func (s *UserStore) MarkDeleted(ctx context.Context, user *model.UserDO) error {
	user.Deleted = true
	return s.orm.Save(ctx, user)
}
