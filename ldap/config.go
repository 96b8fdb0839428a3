package ldap

import (
	"strings"

	"github.com/goodbye-jack/ldap-sync/config"
)

const (
	ldapServerKey          = "ldap_server"
	ldapPortKey            = "ldap_port"
	ldapUseTLSKey          = "ldap_use_tls"
	ldapCertFileKey        = "ldap_cert_file"
	ldapBaseDNKey          = "ldap_base_dn"
	ldapManagerUserKey     = "ldap_manager_user"
	ldapManagerPasswordKey = "ldap_manager_password"
	ldapAuthKey            = "ldap_auth"
	ldapUserBaseKey        = "ldap_user_base"
	ldapGroupBaseKey       = "ldap_group_base"
	ldapIDPrefixKey        = "ldap_id_prefix"

	ldapPosixEnabledKey     = "ldap_posix_enabled"
	ldapPosixHomeDirKey     = "ldap_posix_home_dir"
	ldapPosixDefaultGIDKey  = "ldap_posix_default_gid"
	ldapPosixLoginShellKey  = "ldap_posix_login_shell"
	ldapSambaSIDPrefixKey   = "ldap_samba_sid_prefix"
	ldapSambaDefaultPGSKey  = "ldap_samba_default_primary_group_sid"

	defaultUserOU   = "ou=users"
	defaultGroupOU  = "ou=groups"
	defaultIDPrefix = "ID"
	defaultPort     = 389
)

// PosixConfig holds the defaults applied when posixAccount entries are
// created. Its presence enables the posix extension at all.
type PosixConfig struct {
	HomeDirPrefix string
	DefaultGID    int
	LoginShell    string
}

// SambaConfig enables the samba extension when SIDPrefix is non-blank.
type SambaConfig struct {
	SIDPrefix              string
	DefaultPrimaryGroupSID int
}

type Config struct {
	Server          string
	Port            int
	UseTLS          bool
	CertFile        string
	BaseDN          string
	ManagerUser     string
	ManagerPassword string
	// Auth is "none", "simple", or a space-separated SASL mechanism
	// list such as "DIGEST-MD5".
	Auth      string
	UserBase  string
	GroupBase string
	IDPrefix  string
	Posix     *PosixConfig
	Samba     *SambaConfig
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Server:          strings.TrimSpace(config.GetConfigString(ldapServerKey)),
		Port:            config.GetConfigInt(ldapPortKey),
		UseTLS:          config.GetConfigBool(ldapUseTLSKey),
		CertFile:        strings.TrimSpace(config.GetConfigString(ldapCertFileKey)),
		BaseDN:          strings.TrimSpace(config.GetConfigString(ldapBaseDNKey)),
		ManagerUser:     strings.TrimSpace(config.GetConfigString(ldapManagerUserKey)),
		ManagerPassword: config.GetConfigString(ldapManagerPasswordKey),
		Auth:            strings.TrimSpace(config.GetConfigString(ldapAuthKey)),
		UserBase:        strings.TrimSpace(config.GetConfigString(ldapUserBaseKey)),
		GroupBase:       strings.TrimSpace(config.GetConfigString(ldapGroupBaseKey)),
		IDPrefix:        strings.TrimSpace(config.GetConfigString(ldapIDPrefixKey)),
	}
	if config.GetConfigBool(ldapPosixEnabledKey) {
		cfg.Posix = &PosixConfig{
			HomeDirPrefix: strings.TrimSpace(config.GetConfigString(ldapPosixHomeDirKey)),
			DefaultGID:    config.GetConfigInt(ldapPosixDefaultGIDKey),
			LoginShell:    strings.TrimSpace(config.GetConfigString(ldapPosixLoginShellKey)),
		}
	}
	if sidPrefix := strings.TrimSpace(config.GetConfigString(ldapSambaSIDPrefixKey)); sidPrefix != "" {
		cfg.Samba = &SambaConfig{
			SIDPrefix:              sidPrefix,
			DefaultPrimaryGroupSID: config.GetConfigInt(ldapSambaDefaultPGSKey),
		}
	}
	return cfg.withDefaults(), cfg.validate()
}

func (cfg Config) withDefaults() Config {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Auth == "" {
		cfg.Auth = AuthSimple
	}
	if cfg.UserBase == "" {
		cfg.UserBase = normalizeDN(cfg.BaseDN, defaultUserOU)
	} else {
		cfg.UserBase = normalizeDN(cfg.BaseDN, cfg.UserBase)
	}
	if cfg.GroupBase == "" {
		cfg.GroupBase = normalizeDN(cfg.BaseDN, defaultGroupOU)
	} else {
		cfg.GroupBase = normalizeDN(cfg.BaseDN, cfg.GroupBase)
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = defaultIDPrefix
	}
	return cfg
}

func (cfg Config) validate() error {
	missing := []string{}
	if cfg.Server == "" {
		missing = append(missing, ldapServerKey)
	}
	if cfg.BaseDN == "" {
		missing = append(missing, ldapBaseDNKey)
	}
	if len(missing) > 0 {
		return ParamsError{Params: missing}
	}
	return nil
}

func normalizeDN(baseDN, ou string) string {
	if ou == "" {
		return baseDN
	}
	if strings.Contains(ou, ",") {
		return ou
	}
	return ou + "," + baseDN
}
