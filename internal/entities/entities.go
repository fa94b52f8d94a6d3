package entities

import (
	"time"
)

type Role string

const (
	RoleAdministration Role = "administration"
	RolePolitician     Role = "politician"
)

// Entity is implemented by every persistable record.
type Entity interface {
	GetID() uint
}

// TenantScoped entities carry the municipality they belong to. The
// municipality is stamped at creation time and never changed afterwards.
type TenantScoped interface {
	SetMunicipalityID(id uint)
}

// Authored entities track who created and who last edited them. Both are
// weak references to a User, never ownership.
type Authored interface {
	SetCreatedBy(id uint)
	SetLastEditedBy(id uint)
}

// Municipality is the tenant boundary. Every tenant-scoped entity carries
// a MunicipalityID pointing here.
type Municipality struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:256" json:"name"`
	Users     []User    `gorm:"foreignKey:MunicipalityID" json:"users,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Username       string       `gorm:"uniqueIndex;size:100" json:"username"`
	Email          string       `gorm:"uniqueIndex;size:255" json:"email"`
	Token          string       `gorm:"uniqueIndex;size:64" json:"-"` // API token, hidden from JSON
	Role           Role         `gorm:"size:32" json:"role"`
	MunicipalityID uint         `gorm:"index" json:"municipality_id"`
	Municipality   Municipality `gorm:"foreignKey:MunicipalityID" json:"-"`
	IsSuperuser    bool         `gorm:"default:false" json:"is_superuser"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type Tag struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Label          string       `gorm:"index;size:100" json:"label"`
	MunicipalityID uint         `gorm:"index" json:"municipality_id"`
	Municipality   Municipality `gorm:"foreignKey:MunicipalityID" json:"-"`
	CreatedAt      time.Time    `json:"created_at"`
}

// MainObjective is the top level of the mobility objective taxonomy. It owns
// its SubObjectives; deleting it deletes them.
type MainObjective struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	No             int            `gorm:"index" json:"no"`
	Label          string         `gorm:"size:512" json:"label"`
	SubObjectives  []SubObjective `gorm:"foreignKey:MainObjectiveID;constraint:OnDelete:CASCADE" json:"sub_objectives"`
	MunicipalityID uint           `gorm:"index" json:"municipality_id"`
	Municipality   Municipality   `gorm:"foreignKey:MunicipalityID" json:"-"`
	CreatedBy      *uint          `json:"created_by,omitempty"`
	Author         *User          `gorm:"foreignKey:CreatedBy" json:"author,omitempty"`
	LastEditedBy   *uint          `json:"last_edited_by,omitempty"`
	LastEditor     *User          `gorm:"foreignKey:LastEditedBy" json:"last_editor,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// SubObjective carries a `no` ordinal that is unique within its parent
// MainObjective. Uniqueness is a caller invariant, not enforced here.
type SubObjective struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	No              int          `gorm:"index" json:"no"`
	Label           string       `gorm:"size:512" json:"label"`
	MainObjectiveID uint         `gorm:"index" json:"main_objective_id"`
	MunicipalityID  uint         `gorm:"index" json:"municipality_id"`
	Municipality    Municipality `gorm:"foreignKey:MunicipalityID" json:"-"`
	CreatedBy       *uint        `json:"created_by,omitempty"`
	Author          *User        `gorm:"foreignKey:CreatedBy" json:"author,omitempty"`
	LastEditedBy    *uint        `json:"last_edited_by,omitempty"`
	LastEditor      *User        `gorm:"foreignKey:LastEditedBy" json:"last_editor,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Indicator is a measurable metric attached to submission sub-results.
// Tags are an association: membership only, neither side owns the other.
type Indicator struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Label          string       `gorm:"size:512" json:"label"`
	SourceURL      string       `gorm:"size:2048" json:"source_url,omitempty"`
	Tags           []Tag        `gorm:"many2many:indicator_tags;" json:"tags"`
	MunicipalityID uint         `gorm:"index" json:"municipality_id"`
	Municipality   Municipality `gorm:"foreignKey:MunicipalityID" json:"-"`
	CreatedBy      *uint        `json:"created_by,omitempty"`
	Author         *User        `gorm:"foreignKey:CreatedBy" json:"author,omitempty"`
	LastEditedBy   *uint        `json:"last_edited_by,omitempty"`
	LastEditor     *User        `gorm:"foreignKey:LastEditedBy" json:"last_editor,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// TextBlock is a reusable snippet administrators maintain for report texts.
type TextBlock struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Label          string       `gorm:"size:512" json:"label"`
	Tags           []Tag        `gorm:"many2many:text_block_tags;" json:"tags"`
	MunicipalityID uint         `gorm:"index" json:"municipality_id"`
	Municipality   Municipality `gorm:"foreignKey:MunicipalityID" json:"-"`
	CreatedBy      *uint        `json:"created_by,omitempty"`
	Author         *User        `gorm:"foreignKey:CreatedBy" json:"author,omitempty"`
	LastEditedBy   *uint        `json:"last_edited_by,omitempty"`
	LastEditor     *User        `gorm:"foreignKey:LastEditedBy" json:"last_editor,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (Municipality) TableName() string { return "municipalities" }

func (User) TableName() string { return "users" }

func (Tag) TableName() string { return "tags" }

func (MainObjective) TableName() string { return "main_objectives" }

func (SubObjective) TableName() string { return "sub_objectives" }

func (Indicator) TableName() string { return "indicators" }

func (TextBlock) TableName() string { return "text_blocks" }

func (m *Municipality) GetID() uint  { return m.ID }
func (u *User) GetID() uint          { return u.ID }
func (t *Tag) GetID() uint           { return t.ID }
func (m *MainObjective) GetID() uint { return m.ID }
func (s *SubObjective) GetID() uint  { return s.ID }
func (i *Indicator) GetID() uint     { return i.ID }
func (t *TextBlock) GetID() uint     { return t.ID }

func (t *Tag) SetMunicipalityID(id uint)           { t.MunicipalityID = id }
func (m *MainObjective) SetMunicipalityID(id uint) { m.MunicipalityID = id }
func (s *SubObjective) SetMunicipalityID(id uint)  { s.MunicipalityID = id }
func (i *Indicator) SetMunicipalityID(id uint)     { i.MunicipalityID = id }
func (t *TextBlock) SetMunicipalityID(id uint)     { t.MunicipalityID = id }

func (m *MainObjective) SetCreatedBy(id uint)    { m.CreatedBy = &id }
func (m *MainObjective) SetLastEditedBy(id uint) { m.LastEditedBy = &id }
func (s *SubObjective) SetCreatedBy(id uint)     { s.CreatedBy = &id }
func (s *SubObjective) SetLastEditedBy(id uint)  { s.LastEditedBy = &id }
func (i *Indicator) SetCreatedBy(id uint)        { i.CreatedBy = &id }
func (i *Indicator) SetLastEditedBy(id uint)     { i.LastEditedBy = &id }
func (t *TextBlock) SetCreatedBy(id uint)        { t.CreatedBy = &id }
func (t *TextBlock) SetLastEditedBy(id uint)     { t.LastEditedBy = &id }
