// Package consult relays intake-wizard chat turns to an external chat
// completion API. The provider is best effort: callers fall back to
// FallbackSummary so the wizard never blocks on it.
package consult

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"devkraft_backend/pkg/packages"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ProjectContext is the structured wizard state sent alongside the chat
// history so the model can ground its advice.
type ProjectContext struct {
	ProjectType    string   `json:"project_type"`
	Description    string   `json:"description"`
	Integrations   []string `json:"integrations"`
	AICapabilities []string `json:"ai_capabilities"`
	TeamSize       string   `json:"team_size"`
	PackageSize    string   `json:"package_size"`
}

type Service struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
}

var GlobalConsultService *Service

func InitConsultService(apiURL, apiKey, model string) {
	GlobalConsultService = NewService(apiURL, apiKey, model)
}

func NewService(apiURL, apiKey, model string) *Service {
	return &Service{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends the conversation plus project context to the provider
// and returns the reply text verbatim.
func (s *Service) Complete(messages []Message, ctx ProjectContext) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("consultation API key is not configured")
	}

	payload := chatRequest{
		Model:    s.model,
		Messages: append([]Message{{Role: "system", Content: systemPrompt(ctx)}}, messages...),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshaling consultation request: %v", err)
	}

	req, err := http.NewRequest("POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error calling consultation API: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("consultation API error: status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("error parsing consultation response: %v", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("consultation API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("consultation API returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// systemPrompt embeds the package pricing table and the intake context
// so replies stay grounded in what we actually sell.
func systemPrompt(ctx ProjectContext) string {
	var b strings.Builder

	b.WriteString("You are a project consultant for DevKraft, a software development agency billing in DKK.\n")
	b.WriteString("Help the prospect refine their project description. Be concrete and brief.\n\n")

	b.WriteString("Packages:\n")
	for _, t := range []packages.PackageType{packages.SmallPackage, packages.MediumPackage, packages.LargePackage} {
		tier := packages.Tiers[t]
		b.WriteString(fmt.Sprintf("- %s: %d features, %d integrations, %.0f DKK setup, %.0f DKK/month. %s\n",
			tier.Name, tier.Features, tier.Integrations, tier.OneTimeFee, tier.MonthlyFee, tier.Description))
	}

	b.WriteString("\nA \"feature\" is a discrete screen, workflow, or automation. An \"integration\" is a connection to an external system (payments, CRM, ERP, auth provider, messaging).\n")

	b.WriteString("\nProspect context:\n")
	b.WriteString(fmt.Sprintf("- Project type: %s\n", ctx.ProjectType))
	b.WriteString(fmt.Sprintf("- Description: %s\n", ctx.Description))
	if len(ctx.Integrations) > 0 {
		b.WriteString(fmt.Sprintf("- Integrations: %s\n", strings.Join(ctx.Integrations, ", ")))
	}
	if len(ctx.AICapabilities) > 0 {
		b.WriteString(fmt.Sprintf("- AI capabilities: %s\n", strings.Join(ctx.AICapabilities, ", ")))
	}
	if ctx.TeamSize != "" {
		b.WriteString(fmt.Sprintf("- Team size: %s\n", ctx.TeamSize))
	}
	if ctx.PackageSize != "" {
		b.WriteString(fmt.Sprintf("- Selected package: %s\n", ctx.PackageSize))
	}

	return b.String()
}

// FallbackSummary builds a deterministic local summary from the project
// context. It is served when the provider fails, so the wizard's AI
// review step always has something to show.
func FallbackSummary(ctx ProjectContext) string {
	var b strings.Builder

	b.WriteString("## Project Summary\n\n")

	projectType := ctx.ProjectType
	if projectType == "" {
		projectType = "software project"
	}
	b.WriteString(fmt.Sprintf("You are planning a %s.", projectType))
	if ctx.TeamSize != "" {
		b.WriteString(fmt.Sprintf(" Team size: %s.", ctx.TeamSize))
	}
	b.WriteString("\n\n")

	if desc := strings.TrimSpace(ctx.Description); desc != "" {
		b.WriteString(fmt.Sprintf("Described scope: %s\n\n", desc))
	}

	if len(ctx.Integrations) > 0 {
		b.WriteString(fmt.Sprintf("Planned integrations: %s.\n", strings.Join(ctx.Integrations, ", ")))
	}
	if len(ctx.AICapabilities) > 0 {
		b.WriteString(fmt.Sprintf("Requested AI capabilities: %s.\n", strings.Join(ctx.AICapabilities, ", ")))
	}

	if tier, ok := packages.GetTier(packages.PackageType(ctx.PackageSize)); ok {
		b.WriteString(fmt.Sprintf("\nThe %s package covers %d features and %d integrations at %.0f DKK setup plus %.0f DKK/month.\n",
			tier.Name, tier.Features, tier.Integrations, tier.OneTimeFee, tier.MonthlyFee))
	}

	b.WriteString("\nOur team will review the details and follow up with a tailored proposal.")
	return b.String()
}
