package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/taskflow/taskflow/api"
	"github.com/taskflow/taskflow/db"
	"github.com/taskflow/taskflow/services/events"
	"github.com/taskflow/taskflow/services/schedules"
	"github.com/taskflow/taskflow/services/server"
	"github.com/taskflow/taskflow/util"
)

func init() {
	rootCmd.AddCommand(serverCmd)
}

var serverCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"service"},
	Short:   "Run in server mode",
	Run: func(cmd *cobra.Command, args []string) {
		runService()
	},
}

func newInvitationService(store db.Store, publisher events.Publisher) *server.InvitationServiceImpl {
	return server.NewInvitationService(store, store, store, publisher, server.InvitationOptions{
		ExpiryDays: util.Config.InvitationExpiryDays,
		InviteURL:  util.Config.InvitationURL,
	})
}

// createPublisher always logs events and additionally fans them out to Redis when configured.
func createPublisher() (events.Publisher, func()) {
	logPublisher := events.NewLogPublisher(log.StandardLogger())

	if !util.Config.Redis.IsEnabled() {
		return logPublisher, func() {}
	}

	redisPublisher := events.NewRedisPublisher(util.Config.Redis)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisPublisher.Ping(ctx); err != nil {
		log.WithError(err).WithField("addr", util.Config.Redis.Addr).Warn("redis is not reachable, events are published on reconnect")
	}

	closer := func() {
		if err := redisPublisher.Close(); err != nil {
			log.WithError(err).Warn("cannot close redis publisher")
		}
	}

	return events.MultiPublisher{logPublisher, redisPublisher}, closer
}

func runService() {
	store := createStore("root")
	defer store.Close("root")

	publisher, closePublisher := createPublisher()
	defer closePublisher()

	projectService := server.NewProjectService(store, store, store)
	commentService := server.NewCommentService(store, store, store, store, publisher)
	invitationService := newInvitationService(store, publisher)

	expiryPool := schedules.CreateInvitationExpiryPool(invitationService, util.Config.InvitationSweepSchedule)
	if err := expiryPool.Start(); err != nil {
		log.WithError(err).Fatal("cannot start invitation expiry sweep")
	}
	defer expiryPool.Stop()

	router := api.Route(store, projectService, commentService, invitationService)

	var handler http.Handler = router
	handler = handlers.CORS(
		handlers.AllowedOrigins([]string{util.Config.PublicURL}),
		handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-User-ID", "X-Request-ID"}),
	)(handler)
	handler = handlers.ProxyHeaders(handler)
	handler = handlers.CombinedLoggingHandler(log.StandardLogger().WriterLevel(log.InfoLevel), handler)
	handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.StandardLogger()),
		handlers.PrintRecoveryStack(true),
	)(handler)

	srv := &http.Server{
		Addr:              util.Config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown failed")
		}
	}()

	log.WithFields(log.Fields{
		"version": util.Version(),
		"port":    util.Config.Port,
		"dialect": util.Config.Dialect,
	}).Info("TaskFlow is running")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server stopped")
	}
}
