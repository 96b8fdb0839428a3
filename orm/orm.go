package orm

import (
	"context"
	"time"

	"github.com/goodbye-jack/ldap-sync/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Orm struct {
	db *gorm.DB
}

func NewOrm(dsn string) *Orm {
	queryLogger := log.SlowQueryLogger{Threshold: 1000 * time.Millisecond}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: queryLogger.LogMode(logger.Info)})
	if err != nil {
		log.Fatalf("mysql connect failed, %v", err)
	}
	return &Orm{
		db: db,
	}
}

// NewOrmWithDialector opens any gorm dialector, used by tests with the
// in-memory sqlite driver.
func NewOrmWithDialector(dialector gorm.Dialector) (*Orm, error) {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return &Orm{db: db}, nil
}

func (o *Orm) AutoMigrate(ptrs ...interface{}) error {
	return o.db.AutoMigrate(ptrs...)
}

func (o *Orm) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db := o.db.WithContext(ctx)
	return db.Transaction(fn)
}

func (o *Orm) Create(ctx context.Context, ptr interface{}) error {
	db := o.db.WithContext(ctx)
	return db.Create(ptr).Error
}

func (o *Orm) First(ctx context.Context, res interface{}, filters ...interface{}) error {
	db := o.db.WithContext(ctx)
	return db.First(res, filters...).Error
}

func (o *Orm) FindAll(ctx context.Context, res interface{}, filters ...interface{}) error {
	db := o.db.WithContext(ctx)
	if len(filters) > 0 {
		return db.Where(filters[0], filters[1:]...).Find(res).Error
	}
	return db.Find(res).Error
}

func (o *Orm) Preload(key string, ctx context.Context, res interface{}, filters ...interface{}) error {
	db := o.db.WithContext(ctx)
	if len(filters) > 0 {
		return db.Where(filters[0], filters[1:]...).Preload(key).Find(res).Error
	}
	return db.Preload(key).Find(res).Error
}

func (o *Orm) Save(ctx context.Context, ptr interface{}) error {
	db := o.db.WithContext(ctx)
	return db.Save(ptr).Error
}

func (o *Orm) Updates(ctx context.Context, ptr interface{}, values interface{}) error {
	db := o.db.WithContext(ctx)
	return db.Model(ptr).Updates(values).Error
}

func (o *Orm) DB() *gorm.DB {
	return o.db
}
