package syncer

import (
	"github.com/goodbye-jack/ldap-sync/ldap"
	"github.com/goodbye-jack/ldap-sync/model"
)

// directoryUser renders a database row as the directory entry the
// master engine wants to see remotely. Deactivated accounts get the
// sentinel mail address so the rendered state is already the pushed
// state and repeated runs stay idempotent.
func directoryUser(cfg ldap.Config, u *model.UserDO) *ldap.UserEntry {
	entry := &ldap.UserEntry{
		PersonEntry: ldap.PersonEntry{
			UID:          u.Username,
			GivenName:    u.FirstName,
			Surname:      u.LastName,
			Mail:         u.Email,
			Organization: u.Organization,
			Description:  u.Description,
		},
		EmployeeNumber: ldap.EncodeID(cfg.IDPrefix, u.ID),
		Deleted:        u.Deleted,
		Deactivated:    u.Deactivated,
		Restricted:     u.Restricted,
		UIDNumber:      u.UIDNumber,
		GIDNumber:      u.GIDNumber,
		HomeDirectory:  u.HomeDirectory,
		LoginShell:     u.LoginShell,

		SambaSIDNumber:             u.SambaSIDNumber,
		SambaPrimaryGroupSIDNumber: u.SambaPrimaryGroupSIDNumber,
		SambaNTPassword:            u.SambaNTPassword,
	}
	if u.SambaPwdLastSet != nil {
		entry.SambaPwdLastSet = *u.SambaPwdLastSet
	}
	if u.Deactivated {
		entry.Mail = ldap.DeactivatedMail
	}
	ldap.NewExtensionResolver(cfg).ApplyDefaults(entry)
	return entry
}

// directoryGroup renders a database group. Member DNs come from the
// id translation map built during the user pass.
func directoryGroup(cfg ldap.Config, g *model.GroupDO, memberDNs []string) *ldap.GroupEntry {
	entry := &ldap.GroupEntry{
		BusinessCategory: ldap.EncodeID(cfg.IDPrefix, g.ID),
		Description:      g.Description,
		Organization:     g.Organization,
		Members:          memberDNs,
		GIDNumber:        g.GIDNumber,
	}
	entry.CommonName = g.Name
	return entry
}

// databaseUser builds a fresh database row from a directory entry, for
// remote users the slave engine has not seen before.
func databaseUser(entry *ldap.UserEntry) *model.UserDO {
	u := &model.UserDO{}
	copyDirectoryUser(entry, u)
	u.Username = entry.UID
	return u
}

// copyDirectoryUser copies the mapped fields of a directory entry onto
// a database row and reports whether anything actually changed. A row
// previously marked deleted is undeleted.
func copyDirectoryUser(entry *ldap.UserEntry, u *model.UserDO) bool {
	changed := false

	setString := func(dst *string, v string) {
		if *dst != v {
			*dst = v
			changed = true
		}
	}
	setInt := func(dst *int, v int) {
		if *dst != v {
			*dst = v
			changed = true
		}
	}
	setBool := func(dst *bool, v bool) {
		if *dst != v {
			*dst = v
			changed = true
		}
	}

	setString(&u.FirstName, entry.GivenName)
	setString(&u.LastName, entry.Surname)
	setString(&u.Email, entry.Mail)
	setString(&u.Organization, entry.Organization)
	setString(&u.Description, entry.Description)
	setBool(&u.Deactivated, entry.Deactivated)
	setBool(&u.Restricted, entry.Restricted)
	setInt(&u.UIDNumber, entry.UIDNumber)
	setInt(&u.GIDNumber, entry.GIDNumber)
	setString(&u.HomeDirectory, entry.HomeDirectory)
	setString(&u.LoginShell, entry.LoginShell)
	setInt(&u.SambaSIDNumber, entry.SambaSIDNumber)
	setInt(&u.SambaPrimaryGroupSIDNumber, entry.SambaPrimaryGroupSIDNumber)
	setString(&u.SambaNTPassword, entry.SambaNTPassword)
	if !entry.SambaPwdLastSet.IsZero() {
		if u.SambaPwdLastSet == nil || !u.SambaPwdLastSet.Equal(entry.SambaPwdLastSet) {
			lastSet := entry.SambaPwdLastSet
			u.SambaPwdLastSet = &lastSet
			changed = true
		}
	}

	if u.Deleted {
		u.Deleted = false
		changed = true
	}
	return changed
}
