package main

import (
	"context"
	"log/slog"
	"os"

	"storefront/config"
	"storefront/internal/delivery"
	"storefront/internal/delivery/api"
	apimiddleware "storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/router/handler"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/auth"
	logs "storefront/internal/infra/log"
	"storefront/internal/infra/media"
	"storefront/internal/infra/metrics"
	"storefront/internal/infra/persistence"
	"storefront/internal/usecase"
	"storefront/internal/usecase/impl"
	"storefront/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

type bootstrapParams struct {
	fx.In
	fx.Lifecycle

	Config   *config.Config
	Logger   *slog.Logger
	Migrator repository.SchemaMigrator
	AuthUC   usecase.AuthUsecase
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			bootstrap,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		metrics.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			persistence.New,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			media.New,
			metrics.NewBusinessMetrics,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewCategoryService,
			impl.NewProductService,
			impl.NewOrderService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			apimiddleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewCategoryHandler,
			handler.NewProductHandler,
			handler.NewOrderHandler,
			handler.NewSystemHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// bootstrap prepares the store before the server accepts traffic.
func bootstrap(params bootstrapParams) {
	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if params.Config.Storage.AutoMigrate {
				if err := params.Migrator.Migrate(ctx); err != nil {
					return errors.Wrap(err, "failed to migrate schema")
				}
				params.Logger.Info("Schema migrated", slog.String("driver", params.Config.Storage.Driver))
			}

			if params.Config.Auth != nil {
				params.Logger.Info("Token lifetime", slog.String("ttl", util.FormatDuration(params.Config.Auth.TokenTTL)))

				if admin := params.Config.Auth.BootstrapAdmin; admin != nil && admin.Email != "" {
					user, created, err := params.AuthUC.EnsureAdmin(ctx, usecase.EnsureAdminInput{
						Name:     admin.Name,
						Email:    admin.Email,
						Password: admin.Password,
					})
					if err != nil {
						return errors.Wrap(err, "failed to ensure bootstrap admin")
					}
					params.Logger.Info("Bootstrap admin ready",
						slog.String("email", user.Email),
						slog.Bool("created", created),
					)
				}
			}

			return nil
		},
	})
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
