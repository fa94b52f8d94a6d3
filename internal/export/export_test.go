package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koopstadt/impactcheck/internal/entities"
)

func TestTextExporter_MobilityReport(t *testing.T) {
	impact := -2
	spatial := entities.SpatialImpactDistrictwide
	submission := &entities.MobilitySubmission{
		AdministrationNo:   "V-2026-042",
		AdministrationDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Label:              "Radschnellweg Nord",
		Desc:               "Neubau eines Radschnellwegs",
		Objectives: []entities.MobilityResult{
			{
				MainObjective: entities.MainObjective{No: 2, Label: "Stadt der kurzen Wege"},
				Target:        true,
				SubObjectives: []entities.MobilitySubresult{
					{
						SubObjective:  entities.SubObjective{No: 3, Label: "Nahversorgung"},
						Impact:        &impact,
						SpatialImpact: &spatial,
						Annotation:    "Verdraengungseffekte",
						Indicators:    []entities.Indicator{{Label: "Einzelhandelsdichte"}},
					},
				},
			},
		},
	}

	report, err := NewTextExporter().MobilityReport(submission)
	require.NoError(t, err)

	text := string(report)
	assert.Contains(t, text, "Mobility impact assessment: Radschnellweg Nord")
	assert.Contains(t, text, "V-2026-042 (2026-03-14)")
	assert.Contains(t, text, "2. Stadt der kurzen Wege [target]")
	assert.Contains(t, text, "2.3 Nahversorgung")
	assert.Contains(t, text, "impact: -2")
	assert.Contains(t, text, "spatial impact: districtwide")
	assert.Contains(t, text, "indicator: Einzelhandelsdichte")
}

func TestTextExporter_MobilityReport_Nil(t *testing.T) {
	_, err := NewTextExporter().MobilityReport(nil)
	assert.Error(t, err)
}

func TestTextExporter_ClimateReport(t *testing.T) {
	ghg := 3
	duration := entities.ImpactDurationMedium
	submission := &entities.ClimateSubmission{
		AdministrationNo:   "K-2026-007",
		AdministrationDate: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
		Label:              "Fernwaermeausbau",
		Impact:             entities.ImpactPositive,
		ImpactGHG:          &ghg,
		ImpactDuration:     &duration,
		Adaptation:         "Hitzeresiliente Trassen",
	}

	report, err := NewTextExporter().ClimateReport(submission)
	require.NoError(t, err)

	text := string(report)
	assert.Contains(t, text, "Climate impact assessment: Fernwaermeausbau")
	assert.Contains(t, text, "Impact: positive")
	assert.Contains(t, text, "GHG impact: +3")
	assert.Contains(t, text, "Duration: medium")
	assert.Contains(t, text, "Adaptation: Hitzeresiliente Trassen")
}
