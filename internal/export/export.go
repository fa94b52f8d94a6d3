// Package export renders submissions into downloadable reports.
package export

import (
	"fmt"
	"strings"

	"github.com/koopstadt/impactcheck/internal/entities"
)

// Exporter turns a submission aggregate into a report document.
type Exporter interface {
	MobilityReport(s *entities.MobilitySubmission) ([]byte, error)
	ClimateReport(s *entities.ClimateSubmission) ([]byte, error)
}

// TextExporter renders plain text reports.
type TextExporter struct{}

func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

func (e *TextExporter) MobilityReport(s *entities.MobilitySubmission) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("no submission to export")
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Mobility impact assessment: %s\n", s.Label))
	sb.WriteString(fmt.Sprintf("Administration no: %s (%s)\n", s.AdministrationNo, s.AdministrationDate.Format("2006-01-02")))
	if s.Desc != "" {
		sb.WriteString("\n" + s.Desc + "\n")
	}
	for _, obj := range s.Objectives {
		sb.WriteString(fmt.Sprintf("\n%d. %s", obj.MainObjective.No, obj.MainObjective.Label))
		if obj.Target {
			sb.WriteString(" [target]")
		}
		sb.WriteString("\n")
		for _, sub := range obj.SubObjectives {
			sb.WriteString(fmt.Sprintf("  %d.%d %s", obj.MainObjective.No, sub.SubObjective.No, sub.SubObjective.Label))
			if sub.Target {
				sb.WriteString(" [target]")
			}
			sb.WriteString("\n")
			if sub.Impact != nil {
				sb.WriteString(fmt.Sprintf("    impact: %+d\n", *sub.Impact))
			}
			if sub.SpatialImpact != nil {
				sb.WriteString(fmt.Sprintf("    spatial impact: %s\n", *sub.SpatialImpact))
			}
			if sub.Annotation != "" {
				sb.WriteString(fmt.Sprintf("    annotation: %s\n", sub.Annotation))
			}
			for _, ind := range sub.Indicators {
				sb.WriteString(fmt.Sprintf("    indicator: %s\n", ind.Label))
			}
		}
	}
	return []byte(sb.String()), nil
}

func (e *TextExporter) ClimateReport(s *entities.ClimateSubmission) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("no submission to export")
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Climate impact assessment: %s\n", s.Label))
	sb.WriteString(fmt.Sprintf("Administration no: %s (%s)\n", s.AdministrationNo, s.AdministrationDate.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("\nImpact: %s\n", s.Impact))
	if s.ImpactGHG != nil {
		sb.WriteString(fmt.Sprintf("GHG impact: %+d\n", *s.ImpactGHG))
	}
	if s.ImpactDuration != nil {
		sb.WriteString(fmt.Sprintf("Duration: %s\n", *s.ImpactDuration))
	}
	if s.ImpactDesc != "" {
		sb.WriteString("\n" + s.ImpactDesc + "\n")
	}
	if s.Adaptation != "" {
		sb.WriteString(fmt.Sprintf("\nAdaptation: %s\n", s.Adaptation))
	}
	if s.Alternative != "" {
		sb.WriteString(fmt.Sprintf("\nAlternative: %s\n", s.Alternative))
	}
	return []byte(sb.String()), nil
}
