package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JakeFAU/forum-harvester/internal/app"
	"github.com/JakeFAU/forum-harvester/internal/database"
	"github.com/JakeFAU/forum-harvester/internal/logging"
	"github.com/JakeFAU/forum-harvester/internal/queue"
	"github.com/JakeFAU/forum-harvester/internal/storage"
	"github.com/JakeFAU/forum-harvester/pkg/config"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands use. It allows
// injecting a mock app during tests.
type App interface {
	Close()
	GetLogger() *zap.Logger
	GetStorage() storage.Provider
	GetDatabase() database.Provider
	GetQueue() queue.Provider
}

// newApp is the application factory. It's a variable so tests can
// replace it with a mock factory.
var newApp func(ctx context.Context) (App, error) = func(ctx context.Context) (App, error) {
	return app.NewApp(ctx)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forum-harvester",
		Short: "Extracts a structured Q&A dataset from a paginated forum.",
		Long: `forum-harvester walks a forum's paginated listing pages for a topic
tag, follows each post to its detail page, and joins the question,
answer, and comment tables into one dataset.`,

		// Runs after config is loaded, before the subcommand's RunE:
		// the right place to build and inject application services.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cobra.OnInitialize(config.InitConfig)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.forum-harvester/config.yaml)")

	cmd.AddCommand(newHarvestCmd())

	return cmd
}

// resolveApp retrieves the injected App from the command context.
func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	logging.InitLogger(viper.GetBool("logging.development"))

	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
