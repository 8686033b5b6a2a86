package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/taskflow/taskflow/db"
	"github.com/taskflow/taskflow/services/server"
)

type projectAddArgs struct {
	name    string
	ownerID int
}

var targetProjectAddArgs projectAddArgs

func init() {
	projectAddCmd.PersistentFlags().StringVar(&targetProjectAddArgs.name, "name", "", "Project name")
	projectAddCmd.PersistentFlags().IntVar(&targetProjectAddArgs.ownerID, "owner", 0, "ID of the user who owns the project")

	projectCmd.AddCommand(projectAddCmd)
	rootCmd.AddCommand(projectCmd)
}

var projectCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project"},
	Short:   "Manage projects",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(0)
	},
}

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add new project",
	Run: func(cmd *cobra.Command, args []string) {
		if targetProjectAddArgs.name == "" || targetProjectAddArgs.ownerID == 0 {
			fmt.Println("Arguments --name and --owner required")
			fmt.Println("Use command `taskflow project add --help` for details.")
			os.Exit(1)
		}

		store := createStore("project_add")
		defer store.Close("project_add")

		projectService := server.NewProjectService(store, store, store)

		project, err := projectService.CreateProject(db.Project{Name: targetProjectAddArgs.name}, targetProjectAddArgs.ownerID)
		if err != nil {
			log.WithError(err).Error("cannot create project")
			os.Exit(1)
		}

		fmt.Printf("Project %q added with id %d\n", project.Name, project.ID)
	},
}
