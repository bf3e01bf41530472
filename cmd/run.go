package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/pathfinder/internal/console"
	"github.com/spigell/pathfinder/internal/logger"
	"github.com/spigell/pathfinder/internal/session"
	"github.com/spigell/pathfinder/internal/share"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Take the career assessment in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("export-dir", "e", "", "directory for exported reports. Default is the system temp directory.")

	viper.BindPFlag("export.dir", runCmd.Flags().Lookup("export-dir"))
}

// run is the interactive questionnaire.
func run(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), "")
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting the pathfinder", zap.String("version", version))

	catalog, err := loadCatalog(config)
	if err != nil {
		logger.Fatal("loading question catalog", zap.Error(err))
	}

	analyzer, err := newAnalyzer(ctx, config.Analysis, catalog, logger)
	if err != nil {
		logger.Fatal("creating analyzer", zap.Error(err),
			zap.String("hint", "configure the analysis section in pathfinder.yaml"),
		)
	}

	noColor := !console.ColorEnabled(os.Stdout, viper.GetBool("no-color"))
	if noColor {
		color.NoColor = true
	}

	c := console.New(session.New(catalog, analyzer, logger), console.Options{
		Out:       os.Stdout,
		Sharer:    share.New(config.Share.CopiedTTL, logger),
		ExportDir: config.Export.Dir,
		NoColor:   noColor,
		Logger:    logger,
	})

	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("exiting", zap.Error(err))
	}
}
