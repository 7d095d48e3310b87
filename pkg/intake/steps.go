// Package intake defines the project intake wizard: the step sequence,
// which depends on whether the AI consultation feature is enabled, and
// the per-step validation the frontend mirrors for its "continue"
// button. Submissions are re-validated here server-side.
package intake

import (
	"fmt"
	"net/mail"
	"strings"

	"devkraft_backend/pkg/packages"
)

// Step labels as shown in the wizard progress bar.
const (
	StepProjectType  = "project_type"
	StepPackage      = "package"
	StepDescription  = "description"
	StepTimeline     = "timeline"
	StepAIReview     = "ai_review"
	StepContactInfo  = "contact_info"
	StepConfirmation = "confirmation"
)

// MinDescriptionLen is the exclusive lower bound on the project
// description; a description must be longer than this to proceed.
const MinDescriptionLen = 10

// Timelines offered on step 4.
var Timelines = map[string]bool{
	"asap":       true,
	"1-3_months": true,
	"3-6_months": true,
	"flexible":   true,
}

// Steps returns the ordered step labels. The AI review step only exists
// when the consultation feature is enabled, which shifts contact info
// and confirmation up by one.
func Steps(aiEnabled bool) []string {
	steps := []string{StepProjectType, StepPackage, StepDescription, StepTimeline}
	if aiEnabled {
		steps = append(steps, StepAIReview)
	}
	return append(steps, StepContactInfo, StepConfirmation)
}

// StepCount is 7 with AI review, 6 without.
func StepCount(aiEnabled bool) int {
	return len(Steps(aiEnabled))
}

// StepLabel maps a 1-based display step to its label. Out-of-range
// steps return "".
func StepLabel(aiEnabled bool, step int) string {
	steps := Steps(aiEnabled)
	if step < 1 || step > len(steps) {
		return ""
	}
	return steps[step-1]
}

// Form is the accumulated wizard state submitted at the end.
type Form struct {
	ProjectName     string   `json:"project_name"`
	ProjectType     string   `json:"project_type"`
	PackageType     string   `json:"package_type"`
	Description     string   `json:"description"`
	Timeline        string   `json:"timeline"`
	Integrations    []string `json:"integrations"`
	AICapabilities  []string `json:"ai_capabilities"`
	TeamSize        string   `json:"team_size"`
	AIAnalysis      string   `json:"ai_analysis"`
	AdditionalNotes string   `json:"additional_notes"`

	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
}

// CanProceed reports whether the wizard may advance past the given
// 1-based step with the current form state.
func CanProceed(aiEnabled bool, step int, f Form) bool {
	switch StepLabel(aiEnabled, step) {
	case StepProjectType:
		return strings.TrimSpace(f.ProjectType) != ""
	case StepPackage:
		return packages.ValidType(f.PackageType)
	case StepDescription:
		return len(strings.TrimSpace(f.Description)) > MinDescriptionLen
	case StepTimeline:
		return Timelines[f.Timeline]
	case StepAIReview:
		// Reviewing the AI summary is optional; the step never blocks.
		return true
	case StepContactInfo:
		if strings.TrimSpace(f.ContactName) == "" {
			return false
		}
		_, err := mail.ParseAddress(f.Email)
		return err == nil
	case StepConfirmation:
		return true
	}
	return false
}

// Validate re-runs every step predicate against a submitted form and
// names the first step that fails.
func Validate(aiEnabled bool, f Form) error {
	for step := 1; step <= StepCount(aiEnabled); step++ {
		if !CanProceed(aiEnabled, step, f) {
			return fmt.Errorf("step %d (%s) is incomplete", step, StepLabel(aiEnabled, step))
		}
	}
	return nil
}

// ComposeDescription builds the stored project description: the free
// text, an AI analysis block (or placeholder), and any extra notes.
func ComposeDescription(f Form) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(f.Description))

	b.WriteString("\n\n--- AI Analysis ---\n")
	if analysis := strings.TrimSpace(f.AIAnalysis); analysis != "" {
		b.WriteString(analysis)
	} else {
		b.WriteString("No AI analysis was generated for this submission.")
	}

	if notes := strings.TrimSpace(f.AdditionalNotes); notes != "" {
		b.WriteString("\n\nAdditional notes:\n")
		b.WriteString(notes)
	}

	return b.String()
}
