package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/evindahl/punchcard/internal/config"
	"github.com/evindahl/punchcard/internal/project"
	"github.com/evindahl/punchcard/internal/team"
	"github.com/evindahl/punchcard/internal/ticket"
	"github.com/evindahl/punchcard/internal/user"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a demo user, team, project, and tickets",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

const (
	demoEmail    = "demo@punchcard.local"
	demoPassword = "punchcard-demo"
)

var demoTickets = []struct {
	title       string
	description string
	priority    string
}{
	{"Set up local development environment", "Clone the repo, copy the sample config, run migrations.", "high"},
	{"Review onboarding documentation", "Read through the getting-started guide and note anything stale.", "medium"},
	{"Fix flaky login redirect", "Intermittent redirect loop after login when the session cookie is missing.", "critical"},
	{"Polish empty states", "Projects and tickets pages show a bare table when there is no data yet.", "low"},
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	userStore := user.NewStore(pool)
	teamStore := team.NewStore(pool)
	projectStore := project.NewStore(pool)
	ticketStore := ticket.NewStore(pool)

	// Check if seed has already run.
	if _, err := userStore.GetByEmail(ctx, demoEmail); err == nil {
		slog.Info("demo data already exists, skipping seed")
		return nil
	}

	u, err := userStore.Create(ctx, user.CreateUserInput{
		Email:    demoEmail,
		Password: demoPassword,
		Name:     "Demo User",
	})
	if err != nil {
		return fmt.Errorf("creating demo user: %w", err)
	}
	slog.Info("created demo user", "id", u.ID, "email", u.Email)

	t, err := teamStore.Create(ctx, "Demo Team", u.ID)
	if err != nil {
		return fmt.Errorf("creating demo team: %w", err)
	}
	slog.Info("created demo team", "id", t.ID, "invite_code", t.InviteCode)

	desc := "Sample project seeded for trying out the timer workflow."
	p, err := projectStore.Create(ctx, t.ID, "Onboarding", &desc, u.ID)
	if err != nil {
		return fmt.Errorf("creating demo project: %w", err)
	}
	slog.Info("created demo project", "id", p.ID, "name", p.Name)

	for _, dt := range demoTickets {
		description := dt.description
		in := ticket.CreateInput{
			ProjectID:        p.ID,
			Title:            dt.title,
			Description:      &description,
			Priority:         dt.priority,
			AssignedToUserID: u.ID,
		}
		if err := ticket.ValidateCreate(&in); err != nil {
			return fmt.Errorf("validating demo ticket %q: %w", dt.title, err)
		}
		created, err := ticketStore.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("creating demo ticket %q: %w", dt.title, err)
		}
		slog.Info("created demo ticket", "id", created.ID, "title", created.Title)
	}

	fmt.Printf("\n=== Demo Data Seeded ===\n")
	fmt.Printf("User:        %s / %s\n", demoEmail, demoPassword)
	fmt.Printf("Team:        %s (invite code %s)\n", t.Name, t.InviteCode)
	fmt.Printf("Project:     %s with %d tickets\n", p.Name, len(demoTickets))
	fmt.Printf("\nTry it:\n")
	fmt.Printf("  curl -X POST http://localhost:8080/api/v1/auth/login -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", demoEmail, demoPassword)
	fmt.Printf("  curl -H 'Authorization: Bearer <token>' -X POST http://localhost:8080/api/v1/work-sessions/clock-in\n")

	return nil
}
