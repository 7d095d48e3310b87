// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type WelcomeEmailData struct {
	Name string
	PIN  string
}

type ProposalSentData struct {
	Name        string
	ProjectName string
	PackageName string
	OneTimeFee  float64
	MonthlyFee  float64
	Currency    string
}

type ProposalAcceptedData struct {
	Name            string
	ProjectName     string
	PackageName     string
	BillingCycle    string
	NextBillingDate time.Time
}

type InvoiceIssuedData struct {
	Name          string
	InvoiceNumber string
	Amount        float64
	Currency      string
	DueAt         time.Time
}

type PaymentReceivedData struct {
	Name          string
	InvoiceNumber string
	Amount        float64
	Currency      string
}

func NewEmailService(apiKey, from string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      from,
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	log.Printf("Resend API response for %s: Status: %d", to, resp.StatusCode)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	return nil
}

// Email sending methods
func (s *EmailService) SendWelcomeEmail(email, name, pin string) error {
	data := WelcomeEmailData{
		Name: name,
		PIN:  pin,
	}
	return s.sendTemplateEmail(email, "Welcome to DevKraft - Your Portal Access", "welcome.html", data)
}

func (s *EmailService) SendProposalSentEmail(email, name, projectName, packageName string, oneTimeFee, monthlyFee float64) error {
	data := ProposalSentData{
		Name:        name,
		ProjectName: projectName,
		PackageName: packageName,
		OneTimeFee:  oneTimeFee,
		MonthlyFee:  monthlyFee,
		Currency:    "DKK",
	}
	return s.sendTemplateEmail(email, "Your DevKraft Proposal Is Ready", "proposal_sent.html", data)
}

func (s *EmailService) SendProposalAcceptedEmail(email, name, projectName, packageName, billingCycle string, nextBillingDate time.Time) error {
	data := ProposalAcceptedData{
		Name:            name,
		ProjectName:     projectName,
		PackageName:     packageName,
		BillingCycle:    billingCycle,
		NextBillingDate: nextBillingDate,
	}
	return s.sendTemplateEmail(email, "Your DevKraft Subscription Is Active", "proposal_accepted.html", data)
}

func (s *EmailService) SendInvoiceIssuedEmail(email, name, invoiceNumber string, amount float64, dueAt time.Time) error {
	data := InvoiceIssuedData{
		Name:          name,
		InvoiceNumber: invoiceNumber,
		Amount:        amount,
		Currency:      "DKK",
		DueAt:         dueAt,
	}
	return s.sendTemplateEmail(email, fmt.Sprintf("Invoice %s from DevKraft", invoiceNumber), "invoice_issued.html", data)
}

func (s *EmailService) SendPaymentReceivedEmail(email, name, invoiceNumber string, amount float64) error {
	data := PaymentReceivedData{
		Name:          name,
		InvoiceNumber: invoiceNumber,
		Amount:        amount,
		Currency:      "DKK",
	}
	return s.sendTemplateEmail(email, fmt.Sprintf("Payment received for %s", invoiceNumber), "payment_received.html", data)
}
