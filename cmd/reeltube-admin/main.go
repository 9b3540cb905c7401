// Package main is the entry point for the ReelTube admin CLI.
// It manages users and generates server secrets without going through
// the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/reeltube/reeltube/internal/bootstrap"
	"github.com/reeltube/reeltube/internal/config"
	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/pkg/crypto"
	"github.com/reeltube/reeltube/internal/repository"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "version":
		fmt.Printf("ReelTube Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "user":
		err = runUser(os.Args[2:])

	case "secret":
		err = runSecret()

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runUser(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: reeltube-admin user <create|list> [flags]")
	}

	switch args[0] {
	case "create":
		return runUserCreate(args[1:])
	case "list":
		return runUserList(args[1:])
	default:
		return fmt.Errorf("unknown user subcommand: %s", args[0])
	}
}

func runUserCreate(args []string) error {
	fs := flag.NewFlagSet("user create", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (optional)")
	username := fs.String("username", "", "username (required)")
	email := fs.String("email", "", "email address (required)")
	password := fs.String("password", "", "password (required)")
	avatar := fs.String("avatar", "", "avatar URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" || *password == "" {
		return fmt.Errorf("--username, --email and --password are required")
	}

	ctx := context.Background()
	repos, db, err := openRepositories(ctx, *configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.NewUser(*username, *email, string(hash), *avatar)
	if err := repos.User.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Created user %q (id %d)\n", user.Username, user.ID)
	return nil
}

func runUserList(args []string) error {
	fs := flag.NewFlagSet("user list", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (optional)")
	offset := fs.Int("offset", 0, "records to skip")
	limit := fs.Int("limit", 50, "maximum records to return")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	repos, db, err := openRepositories(ctx, *configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := repos.User.List(ctx, repository.ListOptions{Offset: *offset, Limit: *limit})
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tCREATED")
	for _, u := range result.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.CreatedAt.Format("2006-01-02 15:04"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d of %d users\n", len(result.Items), result.Total)
	return nil
}

func runSecret() error {
	secret, err := crypto.GenerateJWTSecret()
	if err != nil {
		return err
	}
	fmt.Println(secret)
	return nil
}

func openRepositories(ctx context.Context, configPath string) (*repository.Repositories, repository.DatabaseHealth, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return bootstrap.OpenDatabase(ctx, cfg, zerolog.Nop())
}

func printUsage() {
	fmt.Println(`ReelTube Admin CLI

Usage:
  reeltube-admin <command> [arguments]

Commands:
  user        Manage users (create, list)
  secret      Generate a JWT signing secret
  version     Print version information
  help        Show this help message

Examples:
  reeltube-admin user create --username admin --email admin@example.com --password changeme
  reeltube-admin user list --limit 20
  reeltube-admin secret

Use "reeltube-admin <command> --help" for more information about a command.`)
}
