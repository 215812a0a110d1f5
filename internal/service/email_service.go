package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	// If fromEmail is empty, create a disabled service
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		if debug {
			log.Println("[DEBUG] Email service will skip sending all emails")
		}
		return &EmailService{
			appBaseURL: appBaseURL,
			enabled:    false,
			debug:      debug,
		}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service with AWS SES")
		log.Printf("[DEBUG] AWS Region: %s", awsRegion)
		log.Printf("[DEBUG] From Email: %s", fromEmail)
		log.Printf("[DEBUG] App Base URL: %s", appBaseURL)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendAssignmentPublished tells each recipient that a new assignment is
// ready to solve. Every recipient is attempted; the failures are joined.
func (s *EmailService) SendAssignmentPublished(ctx context.Context, recipients []string, title, problemType, difficulty string) error {
	if s.debug {
		log.Printf("[DEBUG] SendAssignmentPublished called: recipients=%d, title=%s", len(recipients), title)
	}

	if !s.enabled {
		log.Printf("Skipping email send (service disabled): assignment %q published", title)
		return nil
	}
	if len(recipients) == 0 {
		return nil
	}

	subject, htmlBody, textBody := assignmentPublishedEmail(s.appBaseURL, title, problemType, difficulty)

	var errs []error
	for _, to := range recipients {
		if err := s.sendEmail(ctx, to, subject, htmlBody, textBody); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// assignmentPublishedEmail renders the subject and bodies of the
// assignment notification
func assignmentPublishedEmail(appBaseURL, title, problemType, difficulty string) (subject, htmlBody, textBody string) {
	link := appBaseURL + "/employee"
	subject = fmt.Sprintf("New assignment: %s", title)

	htmlBody = fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #2d6cdf; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #2d6cdf; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>New Assignment</h1>
		</div>
		<div class="content">
			<p>A new %s assignment has been published: <strong>%s</strong> (%s).</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Open Dashboard</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from the assessment platform. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(problemType), html.EscapeString(title), html.EscapeString(difficulty), link)

	textBody = fmt.Sprintf(`A new %s assignment has been published: %s (%s).

Open your dashboard: %s

---
This is an automated email from the assessment platform. Please do not reply.
`, problemType, title, difficulty, link)

	return subject, htmlBody, textBody
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] From address: %s", fromAddress)
		log.Printf("[DEBUG] To address: %s", toEmail)
		log.Printf("[DEBUG] Subject: %s", subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		if s.debug {
			log.Printf("[DEBUG] SES SendEmail failed: %v", err)
		}
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] Message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
