package model

// GroupDO is the relational side of a synchronized group.
type GroupDO struct {
	ModelBase
	Name         string `gorm:"uniqueIndex;size:128" json:"name"`
	Organization string `gorm:"size:256" json:"organization"`
	Description  string `gorm:"size:512" json:"description"`

	// LocalGroup rows stay in the database and are never pushed to
	// the directory.
	LocalGroup bool `json:"localGroup"`

	// Optional posixGroup value. Zero means unset.
	GIDNumber int `json:"gidNumber"`

	AssignedUsers []*UserDO `gorm:"many2many:t_sync_group_user" json:"assignedUsers"`
}

func (GroupDO) TableName() string {
	return "t_sync_group"
}
