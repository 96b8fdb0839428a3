package config

import (
	"os"

	"github.com/goodbye-jack/ldap-sync/log"
	"github.com/spf13/viper"
)

var configPaths = []string{".", "./config", "/opt"} // lookup order

func init() {
	globalViper := viper.New()
	baseViper := viper.New()
	baseViper.SetConfigName("config")
	baseViper.SetConfigType("yaml")
	for _, path := range configPaths {
		baseViper.AddConfigPath(path)
	}
	if err := baseViper.ReadInConfig(); err == nil {
		for _, key := range baseViper.AllKeys() {
			globalViper.Set(key, baseViper.Get(key))
		}
		log.Infof("loaded base config: %s", baseViper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		log.Warnf("reading base config failed: %v", err)
	}
	env := os.Getenv("CONFIG_ENV") // environment overlay, overrides base keys
	if env != "" {
		envViper := viper.New()
		envViper.SetConfigName("config." + env)
		envViper.SetConfigType("yaml")
		for _, path := range configPaths {
			envViper.AddConfigPath(path)
		}
		if err := envViper.ReadInConfig(); err == nil {
			for _, key := range envViper.AllKeys() {
				globalViper.Set(key, envViper.Get(key))
			}
			log.Infof("loaded config overlay: %s", envViper.ConfigFileUsed())
		} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warnf("reading config overlay failed: %v", err)
		}
	}
	for _, key := range globalViper.AllKeys() {
		viper.Set(key, globalViper.Get(key))
	}
	if globalViper.IsSet("service_name") {
		log.Init(globalViper.GetString("service_name"))
	}
}

func GetConfigString(name string) string { return viper.GetString(name) }

func GetConfigInt(name string) int { return viper.GetInt(name) }

func GetConfigBool(name string) bool { return viper.GetBool(name) }
