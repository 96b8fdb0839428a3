package ldap

const (
	attrObjectClass      = "objectClass"
	attrUID              = "uid"
	attrCN               = "cn"
	attrOU               = "ou"
	attrSN               = "sn"
	attrGivenName        = "givenName"
	attrMail             = "mail"
	attrO                = "o"
	attrDescription      = "description"
	attrEmployeeNumber   = "employeeNumber"
	attrBusinessCategory = "businessCategory"
	attrUserPassword     = "userPassword"
	attrUniqueMember     = "uniqueMember"
	attrUIDNumber        = "uidNumber"
	attrGIDNumber        = "gidNumber"
	attrHomeDirectory    = "homeDirectory"
	attrLoginShell       = "loginShell"
	attrSambaSID         = "sambaSID"
	attrSambaPGSID       = "sambaPrimaryGroupSID"
	attrSambaNTPassword  = "sambaNTPassword"
	attrSambaPwdLastSet  = "sambaPwdLastSet"

	objectClassTop           = "top"
	objectClassPerson        = "person"
	objectClassOrgPerson     = "organizationalPerson"
	objectClassInetOrgPerson = "inetOrgPerson"
	objectClassGroup         = "groupOfUniqueNames"
	objectClassOrgUnit       = "organizationalUnit"
	objectClassPosixAccount  = "posixAccount"
	objectClassPosixGroup    = "posixGroup"
	objectClassSambaAccount  = "sambaSamAccount"

	// Directory schemas forbid zero-member groups; an empty member
	// set is written as this one sentinel DN.
	NoneUniqueMember = "cn=none"

	// Sub-organizational-units beneath the user base encoding account
	// state. Account state is recovered from DN inspection on read.
	DeactivatedSubOU = "deactivated"
	RestrictedSubOU  = "restricted"

	// Mail written to a deactivated account so no real address keeps
	// receiving mail for it.
	DeactivatedMail = "deactivated@localhost"
)

// AttributeValue is one logical attribute with its values, the unit the
// modification diffing works on.
type AttributeValue struct {
	Name   string
	Values []string
}

// DeactivatedBase returns the sub-organizational-unit holding the
// deactivated accounts beneath the user base.
func DeactivatedBase(userBase string) string {
	return attrOU + "=" + DeactivatedSubOU + "," + userBase
}

// RestrictedBase returns the sub-organizational-unit holding the
// restricted accounts beneath the user base.
func RestrictedBase(userBase string) string {
	return attrOU + "=" + RestrictedSubOU + "," + userBase
}
