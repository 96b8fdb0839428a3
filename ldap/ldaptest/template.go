package ldaptest

import (
	"crypto/tls"

	ldapx "github.com/goodbye-jack/ldap-sync/ldap"
)

// NewTemplate wires an execution template to the in-memory directory.
func NewTemplate(cfg ldapx.Config, dir *Directory) *ldapx.Template {
	connector := ldapx.NewConnectorWithDialer(cfg, func(string, *tls.Config) (ldapx.Conn, error) {
		return dir, nil
	})
	return ldapx.NewTemplate(connector)
}
