package ldap

var (
	userBaseClasses = []string{
		objectClassTop,
		objectClassPerson,
		objectClassOrgPerson,
		objectClassInetOrgPerson,
	}
	groupBaseClasses = []string{
		objectClassTop,
		objectClassGroup,
	}
	orgUnitClasses = []string{
		objectClassTop,
		objectClassOrgUnit,
	}
)

// ExtensionResolver decides which optional object classes apply to an
// account, based on the configured extensions and the populated
// fields. Classes are only ever added, never removed.
type ExtensionResolver struct {
	posix *PosixConfig
	samba *SambaConfig
}

func NewExtensionResolver(cfg Config) *ExtensionResolver {
	return &ExtensionResolver{posix: cfg.Posix, samba: cfg.Samba}
}

func (r *ExtensionResolver) PosixApplies(u *UserEntry) bool {
	return r.posix != nil && u.HasPosixValues()
}

func (r *ExtensionResolver) SambaApplies(u *UserEntry) bool {
	return r.samba != nil && r.samba.SIDPrefix != "" && u.HasSambaValues()
}

// ApplyDefaults fills the configured posix and samba defaults for
// fields the user left empty. Rendered state is pushed state: the
// defaults live on the entry itself, so create and update both see
// them and repeated passes stay idempotent.
func (r *ExtensionResolver) ApplyDefaults(u *UserEntry) {
	if r.PosixApplies(u) {
		if u.HomeDirectory == "" && r.posix.HomeDirPrefix != "" {
			u.HomeDirectory = r.posix.HomeDirPrefix + u.UID
		}
		if u.GIDNumber <= 0 && r.posix.DefaultGID > 0 {
			u.GIDNumber = r.posix.DefaultGID
		}
		if u.LoginShell == "" && r.posix.LoginShell != "" {
			u.LoginShell = r.posix.LoginShell
		}
	}
	if r.SambaApplies(u) {
		if u.SambaPrimaryGroupSIDNumber <= 0 && r.samba.DefaultPrimaryGroupSID > 0 {
			u.SambaPrimaryGroupSIDNumber = r.samba.DefaultPrimaryGroupSID
		}
	}
}

// UserClasses returns the minimal object class set for a user entry.
func (r *ExtensionResolver) UserClasses(u *UserEntry) []string {
	classes := append([]string(nil), userBaseClasses...)
	if r.PosixApplies(u) {
		classes = append(classes, objectClassPosixAccount)
	}
	if r.SambaApplies(u) {
		classes = append(classes, objectClassSambaAccount)
	}
	return classes
}

// GroupClasses returns the minimal object class set for a group entry.
func (r *ExtensionResolver) GroupClasses(g *GroupEntry) []string {
	classes := append([]string(nil), groupBaseClasses...)
	if r.posix != nil && g.GIDNumber > 0 {
		classes = append(classes, objectClassPosixGroup)
	}
	return classes
}
