package main

import (
	"context"
	"time"

	"github.com/goodbye-jack/ldap-sync/config"
	"github.com/goodbye-jack/ldap-sync/ldap"
	"github.com/goodbye-jack/ldap-sync/log"
	"github.com/goodbye-jack/ldap-sync/model"
	"github.com/goodbye-jack/ldap-sync/orm"
	"github.com/goodbye-jack/ldap-sync/store"
	"github.com/goodbye-jack/ldap-sync/syncer"
	"github.com/goodbye-jack/ldap-sync/web"
)

func main() {
	serviceName := config.GetConfigString("service_name")
	log.LoadPrintProjectName(serviceName)

	cfg, err := ldap.LoadConfig()
	if err != nil {
		log.Fatalf("ldap configuration invalid, %v", err)
	}

	db := orm.NewOrm(config.GetConfigString("mysql_dsn"))
	if err := db.AutoMigrate(&model.UserDO{}, &model.GroupDO{}); err != nil {
		log.Fatalf("migration failed, %v", err)
	}
	users := store.NewUserStore(db)
	groups := store.NewGroupStore(db)

	tpl := ldap.NewTemplate(ldap.NewConnector(cfg))
	sup := syncer.NewSupervisor()

	var master *syncer.Master
	var slave *syncer.Slave
	mode := config.GetConfigString("sync_mode")
	switch mode {
	case "slave":
		slave = syncer.NewSlave(cfg, config.GetConfigString("slave_mode"), tpl, sup, users)
	default:
		master = syncer.NewMaster(cfg, tpl, sup, users, groups)
	}

	interval := time.Duration(config.GetConfigInt("sync_interval_seconds")) * time.Second
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			ctx := context.Background()
			if master != nil {
				if _, err := master.Sync(ctx); err != nil {
					log.Errorf("master sync failed, %v", err)
				}
			}
			if slave != nil {
				if _, err := slave.Sync(ctx); err != nil {
					log.Errorf("slave sync failed, %v", err)
				}
			}
		}
	}()

	addr := config.GetConfigString("addr")
	if addr == "" {
		addr = ":8080"
	}
	router := web.NewRouter(master, slave, sup)
	if err := router.Run(addr); err != nil {
		log.Fatalf("http server failed, %v", err)
	}
}
