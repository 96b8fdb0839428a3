package ldap

import (
	"github.com/go-ldap/ldap/v3"
)

// SetPassword replaces the entry's userPassword attribute. Passwords
// never travel through the ordinary attribute mapping.
func SetPassword(conn Conn, dn, password string) error {
	req := ldap.NewModifyRequest(dn, nil)
	req.Replace(attrUserPassword, []string{password})
	return ldapErr(conn.Modify(req), "set password", "user", dn)
}

// ClearPassword removes the entry's userPassword attribute, used when
// an account is deactivated.
func ClearPassword(conn Conn, dn string) error {
	req := ldap.NewModifyRequest(dn, nil)
	req.Replace(attrUserPassword, nil)
	return ldapErr(conn.Modify(req), "clear password", "user", dn)
}
