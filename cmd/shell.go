package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/mind-go/pkg/errors"
	"github.com/theapemachine/mind-go/pkg/mind"
	"github.com/theapemachine/mind-go/pkg/peer"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	shellCmd = &cobra.Command{
		Use:          "shell",
		Short:        "Interact with a mind agent from the terminal",
		Long:         longShell,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetLevel(log.WarnLevel)

			return runShell(cmd)
		},
	}
)

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().IntVarP(&portFlag, "port", "p", 0, "Peer sync port (default from config)")
}

func runShell(cmd *cobra.Command) error {
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

	sync := peer.NewService(agent, peer.Options{
		Port:        port,
		ReadTimeout: v.GetDuration("network.read_timeout"),
		DialTimeout: v.GetDuration("network.dial_timeout"),
		DialRetry:   errors.DefaultRetryConfig(),
	})

	if err := sync.Start(); err != nil {
		fmt.Println(dimStyle.Render("peer sync unavailable: " + err.Error()))
	} else {
		fmt.Println(dimStyle.Render("peer sync listening on " + sync.Addr().String()))
	}
	defer sync.Stop()

	interval := v.GetDuration("cycle.interval")
	stopCognition := startBackgroundCognition(cmd.Context(), agent, interval, func(action mind.Action) {
		fmt.Printf("\n⚡ AUTO-ACTION %s: %s\n", action.Intent, action.Payload)
	})
	defer stopCognition()

	fmt.Printf("%s is awake. Type 'help' for commands.\n", promptStyle.Render(agent.Identity()))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(promptStyle.Render("> "))

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		verb, rest, _ := strings.Cut(line, " ")

		switch verb {
		case "help":
			fmt.Print(shellHelp)

		case "say":
			agent.Ingest(rest)
			agent.Settle()
			fmt.Println(dimStyle.Render("observed."))

		case "think":
			actions := agent.Cognize(cmd.Context())
			if len(actions) == 0 {
				fmt.Println(dimStyle.Render("(no action taken)"))
			}
			for _, action := range actions {
				fmt.Printf("🤖 %s: %s\n", action.Intent, action.Payload)
			}

		case "summary":
			fmt.Println(agent.Summary())

		case "truths":
			for _, truth := range agent.Truths() {
				fmt.Printf("  [%s] %s (confidence %.2f)\n", shortRef(truth.ID.String()), truth.EmergentPrinciple, truth.Confidence)
			}

		case "frames":
			for _, frame := range agent.Frames() {
				fmt.Printf("  [%s] %s (salience %.2f)\n", shortRef(frame.ID.String()), frame.RawInput, frame.Salience)
			}

		case "peers":
			peers := sync.Peers()
			if len(peers) == 0 {
				fmt.Println(dimStyle.Render("(no peers known)"))
			}
			for id, seen := range peers {
				fmt.Printf("  %s last seen %s\n", shortRef(id), seen.Format(time.RFC3339))
			}

		case "dial":
			if err := sync.Dial(rest); err != nil {
				fmt.Println(dimStyle.Render("dial failed: " + err.Error()))
			}

		case "inspect":
			kind, id, _ := strings.Cut(rest, " ")
			item, ok := agent.Inspect(kind, id)
			if !ok {
				fmt.Println(dimStyle.Render("not found: " + rest))
				continue
			}
			pretty, _ := json.MarshalIndent(item, "  ", "  ")
			fmt.Printf("  %s\n", pretty)

		case "persist":
			agent.Cognize(cmd.Context())
			fmt.Println(dimStyle.Render("cycle complete, snapshot written."))

		case "quit", "exit":
			stopCognition()
			agent.Cognize(cmd.Context())
			time.Sleep(100 * time.Millisecond)
			fmt.Println(dimStyle.Render("goodbye."))
			return nil

		default:
			// Anything unrecognized is treated as an observation.
			agent.Ingest(line)
			agent.Settle()
			fmt.Println(dimStyle.Render("observed."))
		}
	}

	return scanner.Err()
}

/*
startBackgroundCognition runs the cognitive cycle on a ticker, reporting
every decided action, until the returned stop function is called. Stopping
is idempotent so the quit path and the deferred cleanup can both call it.
*/
func startBackgroundCognition(ctx context.Context, agent *mind.Mind, interval time.Duration, report func(mind.Action)) func() {
	if interval <= 0 {
		interval = 6 * time.Second
	}

	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				for _, action := range agent.Cognize(ctx) {
					report(action)
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

func shortRef(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var shellHelp = `Commands:
  say <text>          feed an observation to the mind
  think               run one cognitive cycle
  summary             show identity, emotions, beliefs, and narrative
  truths              list synthesized beliefs
  frames              list experience frames
  peers               list known peers
  dial <addr>         connect to a peer sync service
  inspect <kind> <id> show a truth, frame, or hypothesis by id
  persist             run a cycle and write a snapshot
  quit                final cycle, then exit

Anything else is ingested as an observation.
`

var longShell = `
An interactive shell around a continuity-backed mind agent. Observations
are ingested as you type, 'think' advances the cognitive cycle on demand,
and a background ticker keeps cognition running between commands
(cycle.interval, default 6s). Decided actions print as AUTO-ACTION lines.
`
