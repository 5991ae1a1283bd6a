// Command migrate applies the schema and seeds organization defaults.
//
//	migrate up | down | reset | status
//	migrate seed <organization_id>
//	migrate org create <name> <slug> [email]
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/hrmlabs/hrm-backend-go/internal/config"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/organization"
	"github.com/hrmlabs/hrm-backend-go/internal/fixtures"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/logger"
	"github.com/hrmlabs/hrm-backend-go/internal/repository/postgresql"
	"github.com/hrmlabs/hrm-backend-go/migrations"
	"github.com/pressly/goose/v3"
)

const usage = "usage: migrate up|down|reset|status | seed <organization_id> | org create <name> <slug> [email]"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	log := logger.New(os.Stdout, logger.Options{
		App:     "hrm-migrate",
		Version: "dev",
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Args[1:]); err != nil {
		log.Error("migrate failed", slog.String("command", os.Args[1]), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, args []string) error {
	switch args[0] {
	case "seed":
		if len(args) != 2 {
			return errors.New(usage)
		}
		return seed(ctx, cfg, log, args[1])
	case "org":
		req, err := parseOrgCreate(args[1:])
		if err != nil {
			return err
		}
		return onboard(ctx, cfg, log, req)
	}

	m, err := database.NewMigrator(cfg.DatabaseURL(), migrations.FS)
	if err != nil {
		return err
	}
	defer m.Close()

	switch args[0] {
	case "up":
		results, err := m.Up(ctx)
		logResults(log, results...)
		return err
	case "down":
		result, err := m.Down(ctx)
		if result != nil {
			logResults(log, result)
		}
		return err
	case "reset":
		results, err := m.Reset(ctx)
		logResults(log, results...)
		return err
	case "status":
		statuses, err := m.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			log.Info("migration",
				slog.Int64("version", s.Source.Version),
				slog.String("file", s.Source.Path),
				slog.String("state", string(s.State)),
				slog.Time("applied_at", s.AppliedAt),
			)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q; %s", args[0], usage)
	}
}

func logResults(log *slog.Logger, results ...*goose.MigrationResult) {
	if len(results) == 0 {
		log.Info("no migrations to apply")
		return
	}
	for _, r := range results {
		attrs := []any{
			slog.Int64("version", r.Source.Version),
			slog.String("direction", r.Direction),
			slog.Duration("duration", r.Duration),
		}
		if r.Error != nil {
			log.Error("migration failed", append(attrs, slog.Any("error", r.Error))...)
			continue
		}
		log.Info("migration applied", attrs...)
	}
}

// parseOrgCreate reads "create <name> <slug> [email]".
func parseOrgCreate(args []string) (organization.CreateOrganizationRequest, error) {
	if len(args) < 3 || len(args) > 4 || args[0] != "create" {
		return organization.CreateOrganizationRequest{}, errors.New(usage)
	}
	req := organization.CreateOrganizationRequest{Name: args[1], Slug: args[2]}
	if len(args) == 4 {
		req.Email = &args[3]
	}
	if err := req.Validate(); err != nil {
		return organization.CreateOrganizationRequest{}, fmt.Errorf("invalid organization: %w", err)
	}
	return req, nil
}

func openSeeder(cfg *config.Config, log *slog.Logger) (*fixtures.Seeder, func(), error) {
	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolConfig{MaxConns: 2, MinConns: 1})
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	seeder := fixtures.NewSeeder(
		postgresql.NewTransactor(db),
		postgresql.NewOrganizationRepository(db),
		postgresql.NewDepartmentRepository(db),
		postgresql.NewDesignationRepository(db),
		postgresql.NewLeaveTypeRepository(db),
		postgresql.NewSalaryStructureRepository(db),
		log,
	)
	return seeder, db.Close, nil
}

func seed(ctx context.Context, cfg *config.Config, log *slog.Logger, organizationID string) error {
	if _, err := uuid.Parse(organizationID); err != nil {
		return fmt.Errorf("invalid organization id %q: %w", organizationID, err)
	}

	seeder, closeDB, err := openSeeder(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	ids, err := seeder.Seed(ctx, organizationID)
	if err != nil {
		return err
	}

	log.Info("organization seeded",
		slog.String("organization_id", organizationID),
		slog.Int("departments", len(ids.DepartmentIDs)),
		slog.Int("designations", len(ids.DesignationIDs)),
		slog.Int("leave_types", len(ids.LeaveTypeIDs)),
		slog.Any("skipped", ids.Skipped),
	)
	return nil
}

func onboard(ctx context.Context, cfg *config.Config, log *slog.Logger, req organization.CreateOrganizationRequest) error {
	seeder, closeDB, err := openSeeder(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	org, ids, err := seeder.Onboard(ctx, req)
	if err != nil {
		return err
	}

	// The id is what operators pass to later commands, so it goes to stdout on its own.
	fmt.Println(org.ID)
	log.Info("organization created",
		slog.String("organization_id", org.ID),
		slog.String("slug", org.Slug),
		slog.Int("departments", len(ids.DepartmentIDs)),
		slog.Int("leave_types", len(ids.LeaveTypeIDs)),
	)
	return nil
}
