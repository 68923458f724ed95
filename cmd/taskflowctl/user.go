package main

import (
	"context"
	"fmt"
	"strings"

	"taskflow/internal/auth"
	"taskflow/internal/config"
	"taskflow/internal/db"
	"taskflow/internal/logger"
	"taskflow/internal/model"
	"taskflow/internal/repository"
	"taskflow/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts as the system administrator",
	}

	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserPromoteCmd())
	cmd.AddCommand(newUserActivationCmd("activate", true))
	cmd.AddCommand(newUserActivationCmd("deactivate", false))
	return cmd
}

// openUsers builds a UserService on the configured database. The returned
// context carries the system actor.
func openUsers(cmd *cobra.Command) (context.Context, service.UserService, error) {
	cfg := config.Load()
	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DBDriver == db.DriverSQLite {
		if err := db.AutoMigrate(gdb); err != nil {
			return nil, nil, err
		}
	}

	users := service.NewUserService(repository.NewStore(gdb), auth.NewBcryptHasher(bcrypt.DefaultCost), zl.Named("taskflowctl"))
	return service.WithSystemActor(cmd.Context()), users, nil
}

func newUserCreateCmd() *cobra.Command {
	var in service.RegisterInput
	var role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, users, err := openUsers(cmd)
			if err != nil {
				return err
			}
			in.Role = model.Role(strings.ToUpper(role))

			u, err := users.Register(ctx, in)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s) as %s\n", u.Username, u.ID, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", "", "username")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&role, "role", string(model.RoleDeveloper), "ADMIN, PROJECT_MANAGER, DEVELOPER or TESTER")
	for _, f := range []string{"username", "email", "password", "first-name", "last-name"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newUserPromoteCmd() *cobra.Command {
	var username, role string

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Change a user's role",
		Long:  "Changes a user's role. Use --role ADMIN to bootstrap the first administrator.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, users, err := openUsers(cmd)
			if err != nil {
				return err
			}
			u, err := users.FindByUsername(ctx, username)
			if err != nil {
				return err
			}
			u, err = users.SetRole(ctx, uuid.Nil, u.ID, model.Role(strings.ToUpper(role)))
			if err != nil {
				return fmt.Errorf("promote %s: %w", username, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Username, u.Role.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "user to change")
	cmd.Flags().StringVar(&role, "role", string(model.RoleAdmin), "new role")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newUserActivationCmd(use string, active bool) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   use,
		Short: strings.ToUpper(use[:1]) + use[1:] + " a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, users, err := openUsers(cmd)
			if err != nil {
				return err
			}
			u, err := users.FindByUsername(ctx, username)
			if err != nil {
				return err
			}
			if _, err := users.SetActive(ctx, uuid.Nil, u.ID, active); err != nil {
				return fmt.Errorf("%s %s: %w", use, username, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %sd\n", u.Username, use)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "user to change")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
