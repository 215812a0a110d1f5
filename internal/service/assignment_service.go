package service

import (
	"context"
	"fmt"
	"log"

	"codeassess/internal/api"
	"codeassess/internal/models"
	"codeassess/internal/validation"

	"golang.org/x/sync/errgroup"
)

// AssignmentService backs the admin and employee pages. Every call takes
// the client of the signed-in user so the backend sees their token.
type AssignmentService struct {
	email            *EmailService
	notifyEmails     []string
	statsConcurrency int
}

// AssignmentCard is one assignment on a dashboard. Stats is nil when it
// was not requested or could not be fetched.
type AssignmentCard struct {
	Assignment models.Assignment
	Stats      *models.Stats
}

// Overview is the data of the submissions overview page
type Overview struct {
	Cards      []AssignmentCard
	Completion []models.CompletionStat
}

// NewAssignmentService creates a new assignment service. email may be nil.
func NewAssignmentService(email *EmailService, notifyEmails []string, statsConcurrency int) *AssignmentService {
	if statsConcurrency < 1 {
		statsConcurrency = 1
	}
	return &AssignmentService{
		email:            email,
		notifyEmails:     notifyEmails,
		statsConcurrency: statsConcurrency,
	}
}

// ListAssignments returns every assignment
func (s *AssignmentService) ListAssignments(ctx context.Context, client *api.Client) ([]models.Assignment, error) {
	assignments, err := client.ListAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// Dashboard lists assignments and attaches stats to the ones in statsIDs.
// A failed stats fetch leaves that card without stats.
func (s *AssignmentService) Dashboard(ctx context.Context, client *api.Client, statsIDs []int64) ([]AssignmentCard, error) {
	assignments, err := s.ListAssignments(ctx, client)
	if err != nil {
		return nil, err
	}

	wanted := make(map[int64]bool, len(statsIDs))
	for _, id := range statsIDs {
		wanted[id] = true
	}

	cards := make([]AssignmentCard, len(assignments))
	var g errgroup.Group
	g.SetLimit(s.statsConcurrency)
	for i, assignment := range assignments {
		cards[i].Assignment = assignment
		if !wanted[assignment.ID] {
			continue
		}
		g.Go(func() error {
			stats, err := client.GetAssignmentStats(ctx, assignment.ID)
			if err != nil {
				log.Printf("Error fetching stats for assignment %d: %v", assignment.ID, err)
				return nil
			}
			cards[i].Stats = stats
			return nil
		})
	}
	_ = g.Wait()

	return cards, nil
}

// Overview lists assignments with stats for every one of them plus the
// completion breakdown. Individual stats failures become zero stats and a
// completion failure becomes an empty breakdown.
func (s *AssignmentService) Overview(ctx context.Context, client *api.Client) (*Overview, error) {
	assignments, err := s.ListAssignments(ctx, client)
	if err != nil {
		return nil, err
	}

	overview := &Overview{Cards: make([]AssignmentCard, len(assignments))}

	var g errgroup.Group
	g.SetLimit(s.statsConcurrency)
	for i, assignment := range assignments {
		g.Go(func() error {
			stats, err := client.GetAssignmentStats(ctx, assignment.ID)
			if err != nil {
				log.Printf("Error fetching stats for assignment %d: %v", assignment.ID, err)
				stats = &models.Stats{}
			}
			overview.Cards[i] = AssignmentCard{Assignment: assignment, Stats: stats}
			return nil
		})
	}
	g.Go(func() error {
		completion, err := client.GetCompletionStats(ctx)
		if err != nil {
			log.Printf("Error fetching completion stats: %v", err)
			return nil
		}
		overview.Completion = completion
		return nil
	})
	_ = g.Wait()

	return overview, nil
}

// GetAssignment returns one assignment with its test cases
func (s *AssignmentService) GetAssignment(ctx context.Context, client *api.Client, id int64) (*models.Assignment, error) {
	assignment, err := client.GetAssignment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment %d: %w", id, err)
	}
	return assignment, nil
}

// ListSubmissions returns the submissions made for one assignment
func (s *AssignmentService) ListSubmissions(ctx context.Context, client *api.Client, id int64) ([]models.Submission, error) {
	submissions, err := client.ListSubmissions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for assignment %d: %w", id, err)
	}
	return submissions, nil
}

// CreateAssignment validates the draft, posts it, and notifies the
// configured recipients. Notification failures are logged only.
func (s *AssignmentService) CreateAssignment(ctx context.Context, client *api.Client, draft *models.AssignmentDraft) error {
	if err := validation.Struct(draft); err != nil {
		return err
	}

	payload := draft.Payload()
	if _, err := client.CreateAssignment(ctx, payload); err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	log.Printf("Assignment created: %q (%s)", payload.Title, payload.ProblemType)

	if s.email != nil {
		if err := s.email.SendAssignmentPublished(ctx, s.notifyEmails, payload.Title, payload.ProblemType, payload.Difficulty); err != nil {
			log.Printf("Failed to send assignment notification: %v", err)
		}
	}
	return nil
}

// Submit sends buffer for grading, as a query for SQL assignments and as
// source code otherwise
func (s *AssignmentService) Submit(ctx context.Context, client *api.Client, assignment *models.Assignment, buffer string) (*models.SubmissionResult, error) {
	if assignment.IsSQL() {
		return client.SubmitSQL(ctx, api.SQLSubmission{
			AssignmentID: assignment.ID,
			SQLQuery:     buffer,
		})
	}
	return client.SubmitCode(ctx, api.CodeSubmission{
		AssignmentID: assignment.ID,
		Code:         buffer,
	})
}
