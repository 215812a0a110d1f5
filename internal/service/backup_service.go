package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"codeassess/internal/api"
	"codeassess/internal/models"
	"codeassess/internal/validation"

	"github.com/gosimple/slug"
)

const backupVersion = "1.0"

// BackupData is the export file layout
type BackupData struct {
	Version     string              `json:"version"`
	ExportedAt  time.Time           `json:"exported_at"`
	Source      string              `json:"source,omitempty"`
	Assignments []models.Assignment `json:"assignments"`
}

// BackupService copies assignments out of and into a backend through its
// HTTP API
type BackupService struct {
	client *api.Client
	source string
}

// NewBackupService creates a new backup service. source is recorded in
// exports to tell where they came from.
func NewBackupService(client *api.Client, source string) *BackupService {
	return &BackupService{client: client, source: source}
}

// Collect fetches every assignment with its test cases
func (s *BackupService) Collect(ctx context.Context) (*BackupData, error) {
	summaries, err := s.client.ListAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	backup := &BackupData{
		Version:     backupVersion,
		ExportedAt:  time.Now().UTC(),
		Source:      s.source,
		Assignments: make([]models.Assignment, 0, len(summaries)),
	}
	for _, summary := range summaries {
		full, err := s.client.GetAssignment(ctx, summary.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to export assignment %d: %w", summary.ID, err)
		}
		backup.Assignments = append(backup.Assignments, *full)
	}
	return backup, nil
}

// ExportToWriter writes every assignment to w as one JSON document
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) (int, error) {
	backup, err := s.Collect(ctx)
	if err != nil {
		return 0, err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return 0, fmt.Errorf("failed to encode backup: %w", err)
	}
	return len(backup.Assignments), nil
}

// Export writes every assignment to outputPath
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	log.Println("Starting assignment export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	count, err := s.ExportToWriter(ctx, file)
	if err != nil {
		return err
	}

	log.Printf("Exported %d assignments to %s", count, outputPath)
	return nil
}

// ExportSplit writes one file per assignment into dir, named after the
// assignment's ID and title, and returns the written paths
func (s *BackupService) ExportSplit(ctx context.Context, dir string) ([]string, error) {
	backup, err := s.Collect(ctx)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(backup.Assignments))
	for _, assignment := range backup.Assignments {
		path := filepath.Join(dir, SplitFileName(assignment))
		single := BackupData{
			Version:     backup.Version,
			ExportedAt:  backup.ExportedAt,
			Source:      backup.Source,
			Assignments: []models.Assignment{assignment},
		}
		if err := writeJSON(path, single); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	log.Printf("Exported %d assignments to %s", len(paths), dir)
	return paths, nil
}

// SplitFileName names the per-assignment export file, e.g. 7-two-sum.json
func SplitFileName(a models.Assignment) string {
	name := slug.Make(a.Title)
	if name == "" {
		return fmt.Sprintf("%d.json", a.ID)
	}
	return fmt.Sprintf("%d-%s.json", a.ID, name)
}

// Import recreates every assignment from the backup file at inputPath
func (s *BackupService) Import(ctx context.Context, inputPath string) (int, error) {
	log.Printf("Starting assignment import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader recreates every assignment in the backup read from r.
// New IDs are assigned by the backend.
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader) (int, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return 0, fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	for i := range backup.Assignments {
		assignment := &backup.Assignments[i]
		draft := models.DraftFromAssignment(assignment)
		if err := validation.Struct(draft); err != nil {
			return i, fmt.Errorf("assignment %d (%q) is invalid: %w", assignment.ID, assignment.Title, err)
		}
		if _, err := s.client.CreateAssignment(ctx, draft.Payload()); err != nil {
			return i, fmt.Errorf("failed to import assignment %d (%q): %w", assignment.ID, assignment.Title, err)
		}
	}

	log.Printf("Imported %d assignments", len(backup.Assignments))
	return len(backup.Assignments), nil
}

func writeJSON(path string, v interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
