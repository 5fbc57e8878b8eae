package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/theapemachine/mind-go/pkg/mind"
)

var (
	demoCmd = &cobra.Command{
		Use:          "demo",
		Short:        "Run a scripted demonstration of the cognitive cycle",
		Long:         `Feeds a fixed sequence of observations to a fresh mind and shows how frames become beliefs, predictions, and actions.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetReportCaller(true)
			log.SetLevel(log.InfoLevel)

			agent := mind.New(mind.Config{
				Identity: "Unit-X535",
				Telos:    "Comprehend the environment and reduce uncertainty",
				Goals: []mind.Goal{
					mind.NewGoal("Understand 'Hello' greeting pattern", 0.9),
					mind.NewGoal("Map numeric signal structure", 0.6),
				},
			}, nil)
			defer agent.Close()

			phenomena := []string{
				"System boot sequence complete.",
				"Query received: 'Hello?'",
				"Data stream detected: 2,3,5,7,11,13",
				"Query received: 'Hello?'",
			}

			for tick, raw := range phenomena {
				fmt.Printf("\n⚡ Tick %d — observing: %q\n", tick+1, raw)

				agent.Ingest(raw)
				agent.Settle()

				for _, action := range agent.Cognize(cmd.Context()) {
					fmt.Printf("  🤖 %s: %s\n", action.Intent, action.Payload)
				}
			}

			fmt.Println()
			fmt.Println(agent.Summary())

			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(demoCmd)
}
