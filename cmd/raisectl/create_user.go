package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hotelcapital/raise-engine/internal/database"
	"github.com/hotelcapital/raise-engine/internal/logger"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/hotelcapital/raise-engine/internal/services"
	"github.com/hotelcapital/raise-engine/pkg/config"
	"github.com/spf13/cobra"
)

type createUserOptions struct {
	email       string
	password    string
	role        string
	databaseURL string
}

func newCreateUserCmd() *cobra.Command {
	opts := &createUserOptions{}

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a CRM user directly in the database",
		Long:  "Create a CRM user. Registration over the API is admin-only, so this is how the first admin is bootstrapped.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreateUser(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "User email")
	cmd.Flags().StringVar(&opts.password, "password", "", "User password (min 8 characters)")
	cmd.Flags().StringVar(&opts.role, "role", string(models.RoleAdmin), "Role (admin, manager, analyst, viewer)")
	cmd.Flags().StringVar(&opts.databaseURL, "db-url", "", "Database URL (default: DATABASE_URL)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runCreateUser(cmd *cobra.Command, opts *createUserOptions) error {
	if len(opts.password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	switch models.UserRole(opts.role) {
	case models.RoleAdmin, models.RoleManager, models.RoleAnalyst, models.RoleViewer:
	default:
		return fmt.Errorf("unknown role %q", opts.role)
	}

	cfg := config.New()
	if opts.databaseURL != "" {
		cfg.DatabaseURL = opts.databaseURL
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	svc := services.NewServices(db.DB, cfg, logger.NewNopLogger())
	user, err := svc.Auth.Register(ctx, &models.RegisterRequest{
		Email:    opts.email,
		Password: opts.password,
		Role:     opts.role,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}
