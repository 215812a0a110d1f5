package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"codeassess/internal/api"
	"codeassess/internal/config"
	"codeassess/internal/service"
	"codeassess/internal/validation"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	// Export flags
	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	exportSplit := exportCmd.String("split", "", "Write one file per assignment into this directory")
	exportEmail := exportCmd.String("email", "", "Admin email used to log in to the backend")
	exportPassword := exportCmd.String("password", "", "Admin password used to log in to the backend")

	// Import flags
	importInput := importCmd.String("input", "", "Input file path (required)")
	importEmail := importCmd.String("email", "", "Admin email used to log in to the backend")
	importPassword := importCmd.String("password", "", "Admin password used to log in to the backend")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		client := authenticate(ctx, cfg, *exportEmail, *exportPassword)
		backupService := service.NewBackupService(client, cfg.APIBaseURL)
		handleExport(ctx, backupService, *exportOutput, *exportSplit)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		client := authenticate(ctx, cfg, *importEmail, *importPassword)
		backupService := service.NewBackupService(client, cfg.APIBaseURL)
		handleImport(ctx, backupService, *importInput)

	default:
		printUsage()
		os.Exit(1)
	}
}

// authenticate returns a backend client carrying an admin token, taken
// from CODEASSESS_TOKEN or obtained by logging in with email and password
func authenticate(ctx context.Context, cfg *config.Config, email, password string) *api.Client {
	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout)

	if token := os.Getenv("CODEASSESS_TOKEN"); token != "" {
		return client.WithToken(token)
	}

	if email == "" || password == "" {
		log.Fatal("Either CODEASSESS_TOKEN or -email and -password are required")
	}
	if err := validation.ValidateEmail(email); err != nil {
		log.Fatalf("Invalid -email: %v", err)
	}

	resp, err := client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		log.Fatalf("Login failed: %s", api.ErrorDetail(err, err.Error()))
	}
	if resp.AccessToken == "" {
		log.Fatal("Login failed: backend returned no access token")
	}
	log.Printf("Logged in to %s as %s (role: %s)", cfg.APIBaseURL, email, resp.Role)

	return client.WithToken(resp.AccessToken)
}

func handleExport(ctx context.Context, backupService *service.BackupService, outputPath, splitDir string) {
	if splitDir != "" {
		log.Printf("Exporting assignments to directory: %s", splitDir)
		paths, err := backupService.ExportSplit(ctx, splitDir)
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		for _, path := range paths {
			log.Printf("  %s", path)
		}
		log.Println("Export complete!")
		return
	}

	// Generate default filename if not provided
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("backup_%s.json", timestamp)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	log.Printf("Exporting assignments to: %s", outputPath)
	if err := backupService.Export(ctx, outputPath); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	// Get file size
	if fileInfo, err := os.Stat(outputPath); err == nil {
		log.Printf("Export complete! File size: %.2f KB", float64(fileInfo.Size())/1024)
	}
}

func handleImport(ctx context.Context, backupService *service.BackupService, inputPath string) {
	// Check if file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatalf("Input file does not exist: %s", inputPath)
	}

	count, err := backupService.Import(ctx, inputPath)
	if err != nil {
		log.Fatalf("Import failed after %d assignments: %v", count, err)
	}

	log.Println("Import complete!")
}

func printUsage() {
	fmt.Println("Coding Assessments Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export assignments to JSON")
	fmt.Println("  backup import [options]    Recreate assignments from a JSON export")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	fmt.Println("  -split <dir>      Write one <id>-<title>.json file per assignment")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println()
	fmt.Println("Authentication (both commands):")
	fmt.Println("  -email <email>    Admin account email")
	fmt.Println("  -password <pw>    Admin account password")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  backup export -email admin@example.com -password secret")
	fmt.Println("  backup export -split ./assignments")
	fmt.Println("  backup import -input backup.json")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  API_BASE_URL       Grading backend URL (default: http://127.0.0.1:8000)")
	fmt.Println("  CODEASSESS_TOKEN   Bearer token used instead of -email/-password")
}
