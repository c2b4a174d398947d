// Command storectl runs one-off maintenance tasks against the configured store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"storefront/config"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/auth"
	logs "storefront/internal/infra/log"
	"storefront/internal/infra/persistence"
	"storefront/internal/usecase"
	"storefront/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Supported subcommands:
// - migrate:      Create or update the schema (tables, indexes)
// - create-admin: Create an administrator, or promote an existing account

const commandTimeout = time.Minute

type adminFlags struct {
	cmd      *flag.FlagSet
	name     *string
	email    *string
	password *string
}

func main() {
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	adminCmd := flag.NewFlagSet("create-admin", flag.ExitOnError)

	admin := adminFlags{
		cmd:      adminCmd,
		name:     adminCmd.String("name", "Administrator", "Display name of the admin"),
		email:    adminCmd.String("email", "", "Login email of the admin (required)"),
		password: adminCmd.String("password", "", "Password of the admin (required)"),
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "migrate":
		if err = migrateCmd.Parse(os.Args[2:]); err == nil {
			err = runMigrate(ctx)
		}
	case "create-admin":
		if err = adminCmd.Parse(os.Args[2:]); err == nil {
			err = runCreateAdmin(ctx, &admin)
		}
	case "help", "-h", "--help":
		printUsage()

		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

// withStore starts the persistence graph, runs fn and closes the connections again.
func withStore(ctx context.Context, fn func(migrator repository.SchemaMigrator, authUC usecase.AuthUsecase) error) error {
	var (
		migrator repository.SchemaMigrator
		authUC   usecase.AuthUsecase
	)

	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			logs.New,
			persistence.New,
			auth.NewBcryptHasher,
			auth.NewJWTService,
			impl.NewAuthService,
		),
		fx.Populate(&migrator, &authUC),
	)
	if err := app.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start store")
	}
	defer func() {
		_ = app.Stop(context.Background())
	}()

	return fn(migrator, authUC)
}

func runMigrate(ctx context.Context) error {
	return withStore(ctx, func(migrator repository.SchemaMigrator, _ usecase.AuthUsecase) error {
		if err := migrator.Migrate(ctx); err != nil {
			return errors.Wrap(err, "failed to migrate schema")
		}
		fmt.Println("Schema is up to date")

		return nil
	})
}

func runCreateAdmin(ctx context.Context, flags *adminFlags) error {
	if *flags.email == "" || *flags.password == "" {
		flags.cmd.Usage()

		return errors.New("-email and -password are required")
	}

	return withStore(ctx, func(_ repository.SchemaMigrator, authUC usecase.AuthUsecase) error {
		user, created, err := authUC.EnsureAdmin(ctx, usecase.EnsureAdminInput{
			Name:     *flags.name,
			Email:    *flags.email,
			Password: *flags.password,
		})
		if err != nil {
			return errors.Wrap(err, "failed to create admin")
		}

		if created {
			fmt.Printf("Created admin %s (%s)\n", user.Email, user.ID)
		} else {
			fmt.Printf("Promoted %s (%s) to admin and reset the password\n", user.Email, user.ID)
		}

		return nil
	})
}

func printUsage() {
	fmt.Println(`storectl - storefront maintenance

Usage:
  storectl <command> [flags]

Commands:
  migrate        Create or update the schema of the configured store
  create-admin   Create an admin account, or promote an existing one

Examples:
  storectl migrate
  storectl create-admin -email admin@example.com -password 's3cret!' -name "Store Admin"`)
}
