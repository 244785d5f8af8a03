package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/directus-community/directus-node/internal/trigger"
)

var (
	listenResource   string
	listenEvent      string
	listenCollection string
	listenAddr       string
	listenPublicURL  string
	listenKeepFlow   bool
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Receive Directus events on a local webhook",
	Long: `Provisions a Directus flow that forwards the chosen events to a local
webhook receiver and prints each normalized event envelope as JSON. The
flow is removed on shutdown unless --keep-flow is set.

The receiver must be reachable from the Directus instance; with a remote
instance, point --public-url at a tunnel to the listen address.

Examples:
  directus-node listen --resource item --collection articles --event create
  directus-node listen --resource user --event update --public-url https://example.ngrok.io`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, logger, err := newClient(cfg)
		if err != nil {
			return err
		}
		defer logger.Close()

		if listenResource == "item" && listenCollection == "" {
			return fmt.Errorf("--collection is required when listening on items")
		}

		addr := listenAddr
		if addr == "" {
			addr = cfg.Listen.Addr
		}
		publicURL := listenPublicURL
		if publicURL == "" {
			publicURL = cfg.Listen.PublicURL
		}
		if publicURL == "" {
			publicURL = "http://" + addr
		}

		normalizer := trigger.NewNormalizer(client, logger)
		server := trigger.NewServer(normalizer, listenResource, listenEvent, logger)
		webhookURL := strings.TrimSuffix(publicURL, "/") + server.WebhookPath()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		httpServer := &http.Server{Addr: addr, Handler: server.Router()}
		serveErr := make(chan error, 1)
		go func() {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
		}()

		flows := trigger.NewFlowManager(client, logger)
		flowID, err := flows.Ensure(ctx, trigger.FlowConfig{
			Resource:   listenResource,
			Event:      listenEvent,
			Collection: listenCollection,
			WebhookURL: webhookURL,
		})
		if err != nil {
			_ = httpServer.Close()
			return fmt.Errorf("failed to provision flow: %w", err)
		}
		verboseLog("flow %s delivering to %s", flowID, webhookURL)
		fmt.Fprintf(os.Stderr, "Listening on %s for %s.%s events (Ctrl+C to stop)\n", addr, listenResource, listenEvent)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		var runErr error
	loop:
		for {
			select {
			case event := <-server.Events():
				if err := enc.Encode(event); err != nil {
					runErr = err
					break loop
				}
			case err := <-serveErr:
				runErr = err
				break loop
			case <-ctx.Done():
				break loop
			}
		}
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if !listenKeepFlow {
			if err := flows.Delete(shutdownCtx, flowID); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to remove flow %s: %v\n", flowID, err)
			}
		}
		_ = httpServer.Shutdown(shutdownCtx)
		return runErr
	},
}

func init() {
	listenCmd.Flags().StringVar(&listenResource, "resource", "item", "resource to watch (item, user, file)")
	listenCmd.Flags().StringVar(&listenEvent, "event", "create", "event to watch (create, update, delete)")
	listenCmd.Flags().StringVar(&listenCollection, "collection", "", "collection to watch (item resource)")
	listenCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides config)")
	listenCmd.Flags().StringVar(&listenPublicURL, "public-url", "", "URL Directus reaches this receiver at (overrides config)")
	listenCmd.Flags().BoolVar(&listenKeepFlow, "keep-flow", false, "leave the provisioned flow in place on shutdown")
	rootCmd.AddCommand(listenCmd)
}
