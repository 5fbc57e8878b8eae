package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/mind-go/pkg/catalog"
	"github.com/theapemachine/mind-go/pkg/continuity"
	"github.com/theapemachine/mind-go/pkg/errors"
	"github.com/theapemachine/mind-go/pkg/mind"
	"github.com/theapemachine/mind-go/pkg/peer"
	"github.com/theapemachine/mind-go/pkg/service"
)

var (
	portFlag     int
	httpPortFlag int
	peersFlag    []string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run mind agent and catalog services",
		Long:  longServe,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	serveAgentCmd = &cobra.Command{
		Use:          "agent",
		Short:        "Serve a mind agent",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetReportCaller(true)
			log.SetLevel(log.InfoLevel)

			return runAgent(cmd.Context())
		},
	}

	serveCatalogCmd = &cobra.Command{
		Use:   "catalog",
		Short: "Run the agent catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetReportCaller(true)
			log.SetLevel(log.InfoLevel)

			return service.NewCatalogServer(httpPortFlag).Run()
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.AddCommand(serveAgentCmd)
	serveCmd.AddCommand(serveCatalogCmd)

	serveCmd.PersistentFlags().IntVarP(&portFlag, "port", "p", 0, "Peer sync port (default from config)")
	serveCmd.PersistentFlags().IntVar(&httpPortFlag, "http-port", 3210, "HTTP port for introspection")
	serveAgentCmd.Flags().StringSliceVar(&peersFlag, "peer", nil, "Peer address to dial (repeatable)")
}

/*
runAgent wires up the full agent: a continuity-backed mind, the TCP peer
sync service, the HTTP state server, and a background cognitive cycle.
It blocks until SIGINT/SIGTERM, then persists and shuts everything down.
*/
func runAgent(ctx context.Context) error {
	v := viper.GetViper()

	agent := mindFromConfig(v)
	defer agent.Close()

	port := portFlag
	if port == 0 {
		port = v.GetInt("network.port")
	}
	if port == 0 {
		port = peer.DefaultPort
	}

	sync, syncAddr := startSync(agent, peer.Options{
		Port:        port,
		ReadTimeout: v.GetDuration("network.read_timeout"),
		DialTimeout: v.GetDuration("network.dial_timeout"),
		DialRetry:   errors.DefaultRetryConfig(),
	})
	defer sync.Stop()

	card := catalog.Card{
		ID:       agent.ID(),
		Name:     agent.Identity(),
		Telos:    agent.Telos(),
		SyncAddr: syncAddr,
		Version:  fmt.Sprintf("%d", mind.SnapshotVersion),
	}

	state := service.NewStateServer(card, agent, httpPortFlag)

	go func() {
		if err := state.Run(); err != nil {
			log.Error("state server stopped", "error", err)
		}
	}()
	defer state.Shutdown()

	if syncAddr != "" {
		announce(v, card, sync)

		for _, addr := range peersFlag {
			if err := sync.Dial(addr); err != nil {
				log.Warn("failed to reach peer", "addr", addr, "error", err)
			}
		}
	}

	interval := v.GetDuration("cycle.interval")
	if interval <= 0 {
		interval = 6 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	log.Info("agent online",
		"id", agent.ID(),
		"identity", agent.Identity(),
		"sync", syncAddr,
		"interval", interval)

	for {
		select {
		case <-ticker.C:
			for _, action := range agent.Cognize(ctx) {
				log.Info("action", "intent", action.Intent, "payload", action.Payload)
			}
		case sig := <-stop:
			log.Info("shutting down", "signal", sig)
			agent.Cognize(ctx)
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

/*
startSync binds the peer listener. A bind failure is not fatal: it only
disables networking for this instance, signaled by an empty address, and
local cognition continues unaffected.
*/
func startSync(agent *mind.Mind, opts peer.Options) (*peer.Service, string) {
	sync := peer.NewService(agent, opts)

	if err := sync.Start(); err != nil {
		log.Warn("peer networking disabled for this instance", "error", err)
		return sync, ""
	}

	return sync, sync.Addr().String()
}

/*
mindFromConfig builds the agent from the viper config, backed by a file
continuity store so identity survives restarts.
*/
func mindFromConfig(v *viper.Viper) *mind.Mind {
	goals := make([]mind.Goal, 0)

	var raw []struct {
		Description string  `mapstructure:"description"`
		Priority    float64 `mapstructure:"priority"`
	}

	if err := v.UnmarshalKey("agent.goals", &raw); err != nil {
		log.Warn("failed to parse goals from config", "error", err)
	}

	for _, goal := range raw {
		goals = append(goals, mind.NewGoal(goal.Description, goal.Priority))
	}

	dir := v.GetString("continuity.dir")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = home + "/." + projectName
	}

	cfg := mind.Config{
		Identity:    v.GetString("agent.identity"),
		Telos:       v.GetString("agent.telos"),
		CoreValues:  v.GetStringSlice("agent.values"),
		Limitations: v.GetStringSlice("agent.limitations"),
		Goals:       goals,
	}

	store := continuity.NewFileStore(dir, cfg.Identity, errors.DefaultRetryConfig())

	return mind.New(cfg, store)
}

/*
announce registers the agent card with the catalog, if one is configured,
and dials the sync addresses of every peer already registered there.
*/
func announce(v *viper.Viper, card catalog.Card, sync *peer.Service) {
	catalogURL := v.GetString("endpoints.catalog")
	if catalogURL == "" {
		return
	}

	client := catalog.NewClient(catalogURL)

	if err := client.Register(card); err != nil {
		log.Warn("failed to register with catalog", "url", catalogURL, "error", err)
		return
	}

	agents, err := client.GetAgents()
	if err != nil {
		log.Warn("failed to discover peers from catalog", "url", catalogURL, "error", err)
		return
	}

	for _, agent := range agents {
		if agent.ID == card.ID || agent.SyncAddr == "" {
			continue
		}

		if err := sync.Dial(agent.SyncAddr); err != nil {
			log.Warn("failed to dial discovered peer", "peer", agent.Name, "addr", agent.SyncAddr, "error", err)
		}
	}
}

var longServe = `
Serve a mind agent or the agent catalog.

Examples:
  # Serve an agent with peer sync on port 44444
  mind-go serve agent

  # Serve an agent and dial an existing peer
  mind-go serve agent --peer 10.0.0.5:44444

  # Serve the agent catalog on port 3210
  mind-go serve catalog
`
