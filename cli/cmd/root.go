package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/taskflow/taskflow/db"
	"github.com/taskflow/taskflow/db/factory"
	"github.com/taskflow/taskflow/util"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "TaskFlow is a project and task tracking backend",
	Long: `TaskFlow serves the REST API for projects, tasks, comments and project invitations.
Complete documentation is available in README.md.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(0)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file path")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() error {
	conf, err := util.LoadConfig(configPath)
	if err != nil {
		return err
	}

	util.Config = conf
	util.ConfigureLogging(conf.Log)

	return nil
}

// createStore connects to the configured database and applies pending migrations.
func createStore(token string) db.Store {
	store, err := factory.CreateStore(util.Config)
	if err != nil {
		log.WithError(err).Fatal("cannot create store")
	}

	if err = store.Connect(token); err != nil {
		log.WithError(err).Fatal("cannot connect to database")
	}

	if err = store.Migrate(); err != nil {
		store.Close(token)
		log.WithError(err).Fatal("cannot migrate database")
	}

	return store
}
