package cli

import (
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/nodech/sway-matiane/internal/bootstrap"
	"github.com/nodech/sway-matiane/internal/daemon"
	log "github.com/nodech/sway-matiane/internal/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the activity logger daemon",
	Long: `Run the activity logger daemon.

Connects to the sway socket from SWAYSOCK, supervises swayidle and
appends activity events to the journal in the state directory.`,
	RunE: func(c *cobra.Command, args []string) error {
		log.SetupBaseLogger()
		if err := log.SetLevel(logLevel); err != nil {
			return err
		}

		result, err := bootstrap.Bootstrap(cfgFile)
		if err != nil {
			log.WithError(err).Error("failed to bootstrap")
			return err
		}

		cfg := result.Config
		if cfg.Debug {
			_ = log.SetLevel("debug")
		}
		if err := log.ConfigureLogOutput(cfg.LoggingToFile); err != nil {
			log.WithError(err).Error("failed to configure log output")
			return err
		}

		log.Debugf("run %s, config %s", result.RunID, result.ConfigFilePath)

		ctx, stop := signal.NotifyContext(c.Context(), unix.SIGINT, unix.SIGTERM)
		defer stop()

		if err := daemon.Run(ctx, cfg, result.ConfigFilePath); err != nil {
			log.WithError(err).Error("daemon failed")
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
