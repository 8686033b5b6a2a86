package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/taskflow/taskflow/db"
	"github.com/taskflow/taskflow/services/server"
)

type userArgs struct {
	username string
	name     string
	email    string
}

var targetUserArgs userArgs

func init() {
	userAddCmd.PersistentFlags().StringVar(&targetUserArgs.username, "login", "", "Username of the new user")
	userAddCmd.PersistentFlags().StringVar(&targetUserArgs.name, "name", "", "Display name of the new user")
	userAddCmd.PersistentFlags().StringVar(&targetUserArgs.email, "email", "", "Email of the new user")

	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}

var userCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	Short:   "Manage users",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(0)
	},
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add new user",
	Run: func(cmd *cobra.Command, args []string) {
		if targetUserArgs.username == "" || targetUserArgs.email == "" {
			fmt.Println("Arguments --login and --email required")
			fmt.Println("Use command `taskflow user add --help` for details.")
			os.Exit(1)
		}

		store := createStore("user_add")
		defer store.Close("user_add")

		projectService := server.NewProjectService(store, store, store)

		user, err := projectService.CreateUser(db.User{
			Username: targetUserArgs.username,
			Name:     targetUserArgs.name,
			Email:    targetUserArgs.email,
		})
		if err != nil {
			log.WithError(err).Error("cannot create user")
			os.Exit(1)
		}

		fmt.Printf("User %s <%s> added with id %d\n", user.Username, user.Email, user.ID)
	},
}
