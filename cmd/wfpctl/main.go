// wfpctl is the operator CLI: schema migrations, admin bootstrap and
// password hashing for seed data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"workforce/internal/config"
	"workforce/internal/infra"
	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:          "wfpctl",
	Short:        "Workforce backend administration",
	SilenceUsage: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if err := infra.Migrate(db); err != nil {
			return err
		}
		fmt.Println("schema is up to date")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if err := infra.MigrateDown(db); err != nil {
			return err
		}
		fmt.Println("rolled back one migration")
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied migration version",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		version, dirty, err := infra.MigrationVersion(db)
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return nil
	},
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the admin user, or reset its password if it exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")
		if password == "" {
			return errors.New("--password is required")
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		created, err := seedAdmin(cmd.Context(), repository.NewUserRepository(db), username, password, name)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("admin %q created\n", service.NormalizeUsername(username))
		} else {
			fmt.Printf("admin %q updated\n", service.NormalizeUsername(username))
		}
		return nil
	},
}

var hashCmd = &cobra.Command{
	Use:   "hash <password>",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := service.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(h)
		return nil
	},
}

// seedAdmin upserts an admin account and reports whether it was created.
func seedAdmin(ctx context.Context, users repository.UserRepository, username, password, name string) (bool, error) {
	username = service.NormalizeUsername(username)
	hash, err := service.HashPassword(password)
	if err != nil {
		return false, err
	}
	u, err := users.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return true, users.Create(ctx, &model.User{
			Username:     username,
			PasswordHash: hash,
			Name:         name,
			Role:         model.RoleAdmin,
			IDType:       "id",
		})
	case err != nil:
		return false, err
	}
	u.PasswordHash = hash
	u.Role = model.RoleAdmin
	if name != "" {
		u.Name = name
	}
	return false, users.Update(ctx, u)
}

func openDB() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return infra.NewDatabase(cfg.DatabaseURL)
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)

	seedAdminCmd.Flags().String("username", "admin", "Admin username")
	seedAdminCmd.Flags().String("password", "", "Admin password")
	seedAdminCmd.Flags().String("name", "Administrator", "Display name")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedAdminCmd)
	rootCmd.AddCommand(hashCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
