package model

import (
	"time"
)

// UserDO is the relational side of a synchronized account.
type UserDO struct {
	ModelBase
	Username     string `gorm:"uniqueIndex;size:128" json:"username"`
	FirstName    string `gorm:"size:128" json:"firstName"`
	LastName     string `gorm:"size:128" json:"lastName"`
	Email        string `gorm:"size:256" json:"email"`
	Organization string `gorm:"size:256" json:"organization"`
	Description  string `gorm:"size:512" json:"description"`

	// LocalUser rows are managed in the database only and are never
	// pushed to or overwritten from the directory.
	LocalUser   bool `json:"localUser"`
	Deactivated bool `json:"deactivated"`
	Restricted  bool `json:"restricted"`

	// Optional posixAccount values. Zero means unset.
	UIDNumber     int    `json:"uidNumber"`
	GIDNumber     int    `json:"gidNumber"`
	HomeDirectory string `gorm:"size:256" json:"homeDirectory"`
	LoginShell    string `gorm:"size:128" json:"loginShell"`

	// Optional sambaSamAccount values. Zero means unset.
	SambaSIDNumber             int        `json:"sambaSidNumber"`
	SambaPrimaryGroupSIDNumber int        `json:"sambaPrimaryGroupSidNumber"`
	SambaNTPassword            string     `gorm:"size:64" json:"-"`
	SambaPwdLastSet            *time.Time `json:"sambaPwdLastSet"`
}

func (UserDO) TableName() string {
	return "t_sync_user"
}

// HasSystemAccess reports whether the account may appear in group
// member lists and log in to attached systems.
func (u *UserDO) HasSystemAccess() bool {
	return !u.Deleted && !u.Deactivated
}

func (u *UserDO) HasPosixValues() bool {
	return u.UIDNumber > 0 || u.GIDNumber > 0 || u.HomeDirectory != "" || u.LoginShell != ""
}

func (u *UserDO) HasSambaValues() bool {
	return u.SambaSIDNumber > 0 || u.SambaPrimaryGroupSIDNumber > 0 || u.SambaNTPassword != ""
}
