package entities

import (
	"time"
)

type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNoEffect Impact = "no_effect"
)

type ImpactDuration string

const (
	ImpactDurationShort  ImpactDuration = "short"
	ImpactDurationMedium ImpactDuration = "medium"
	ImpactDurationLong   ImpactDuration = "long"
)

type SpatialImpact string

const (
	SpatialImpactLocally      SpatialImpact = "locally"
	SpatialImpactDistrictwide SpatialImpact = "districtwide"
	SpatialImpactCitywide     SpatialImpact = "citywide"
)

// MobilitySubmission is the root aggregate of a mobility impact assessment.
// It owns its Objectives tree; deleting the submission deletes the tree.
type MobilitySubmission struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	AdministrationNo   string           `gorm:"size:100" json:"administration_no"`
	AdministrationDate time.Time        `json:"administration_date"`
	Label              string           `gorm:"size:512" json:"label"`
	Desc               string           `gorm:"type:text" json:"desc"`
	Objectives         []MobilityResult `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"objectives"`
	IsPublished        bool             `gorm:"default:false" json:"is_published"`
	MunicipalityID     uint             `gorm:"index" json:"municipality_id"`
	Municipality       Municipality     `gorm:"foreignKey:MunicipalityID" json:"-"`
	CreatedBy          *uint            `json:"created_by,omitempty"`
	Author             *User            `gorm:"foreignKey:CreatedBy" json:"author,omitempty"`
	LastEditedBy       *uint            `json:"last_edited_by,omitempty"`
	LastEditor         *User            `gorm:"foreignKey:LastEditedBy" json:"last_editor,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// MobilityResult scores one main objective within a submission. It owns its
// SubObjectives (the per-sub-objective scores).
type MobilityResult struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	SubmissionID    uint                `gorm:"index" json:"submission_id"`
	MainObjectiveID uint                `gorm:"index" json:"main_objective_id"`
	MainObjective   MainObjective       `gorm:"foreignKey:MainObjectiveID" json:"main_objective,omitempty"`
	Target          bool                `gorm:"default:false" json:"target"`
	SubObjectives   []MobilitySubresult `gorm:"foreignKey:MobilityResultID;constraint:OnDelete:CASCADE" json:"sub_objectives"`
}

// MobilitySubresult scores one sub-objective. Indicators are an association,
// not ownership: detaching never deletes the indicator.
type MobilitySubresult struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	MobilityResultID uint           `gorm:"index" json:"mobility_result_id"`
	SubObjectiveID   uint           `gorm:"index" json:"sub_objective_id"`
	SubObjective     SubObjective   `gorm:"foreignKey:SubObjectiveID" json:"sub_objective,omitempty"`
	Target           bool           `gorm:"default:false" json:"target"`
	Impact           *int           `json:"impact,omitempty"`
	SpatialImpact    *SpatialImpact `gorm:"size:32" json:"spatial_impact,omitempty"`
	Annotation       string         `gorm:"type:text" json:"annotation,omitempty"`
	Indicators       []Indicator    `gorm:"many2many:subresult_indicators;" json:"indicators"`
}

// ClimateSubmission is a flat climate impact assessment form.
type ClimateSubmission struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	AdministrationNo   string          `gorm:"size:100" json:"administration_no"`
	AdministrationDate time.Time       `json:"administration_date"`
	Label              string          `gorm:"size:512" json:"label"`
	Impact             Impact          `gorm:"size:32" json:"impact"`
	ImpactGHG          *int            `gorm:"check:impact_ghg BETWEEN -3 AND 3" json:"impact_ghg,omitempty"`
	ImpactDuration     *ImpactDuration `gorm:"size:32" json:"impact_duration,omitempty"`
	ImpactDesc         string          `gorm:"type:text" json:"impact_desc,omitempty"`
	Adaptation         string          `gorm:"type:text" json:"adaptation,omitempty"`
	Alternative        string          `gorm:"type:text" json:"alternative,omitempty"`
	IsPublished        bool            `gorm:"default:false" json:"is_published"`
	MunicipalityID     uint            `gorm:"index" json:"municipality_id"`
	Municipality       Municipality    `gorm:"foreignKey:MunicipalityID" json:"-"`
	CreatedBy          *uint           `json:"created_by,omitempty"`
	Author             *User           `gorm:"foreignKey:CreatedBy" json:"author,omitempty"`
	LastEditedBy       *uint           `json:"last_edited_by,omitempty"`
	LastEditor         *User           `gorm:"foreignKey:LastEditedBy" json:"last_editor,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (MobilitySubmission) TableName() string { return "mobility_submissions" }

func (MobilityResult) TableName() string { return "mobility_results" }

func (MobilitySubresult) TableName() string { return "mobility_subresults" }

func (ClimateSubmission) TableName() string { return "climate_submissions" }

func (m *MobilitySubmission) GetID() uint { return m.ID }
func (m *MobilityResult) GetID() uint     { return m.ID }
func (m *MobilitySubresult) GetID() uint  { return m.ID }
func (c *ClimateSubmission) GetID() uint  { return c.ID }

func (m *MobilitySubmission) SetMunicipalityID(id uint) { m.MunicipalityID = id }
func (c *ClimateSubmission) SetMunicipalityID(id uint)  { c.MunicipalityID = id }

func (m *MobilitySubmission) SetCreatedBy(id uint)    { m.CreatedBy = &id }
func (m *MobilitySubmission) SetLastEditedBy(id uint) { m.LastEditedBy = &id }
func (c *ClimateSubmission) SetCreatedBy(id uint)     { c.CreatedBy = &id }
func (c *ClimateSubmission) SetLastEditedBy(id uint)  { c.LastEditedBy = &id }
