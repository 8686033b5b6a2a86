package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	invitationsCmd.AddCommand(invitationsExpireCmd)
	rootCmd.AddCommand(invitationsCmd)
}

var invitationsCmd = &cobra.Command{
	Use:     "invitations",
	Aliases: []string{"invitation"},
	Short:   "Manage project invitations",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(0)
	},
}

var invitationsExpireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Mark pending invitations past their expiry as expired",
	Run: func(cmd *cobra.Command, args []string) {
		store := createStore("invitations_expire")
		defer store.Close("invitations_expire")

		count, err := newInvitationService(store, nil).ExpireStaleInvitations()
		if err != nil {
			log.WithError(err).Error("cannot expire invitations")
			os.Exit(1)
		}

		fmt.Printf("Invitations expired: %d\n", count)
	},
}
