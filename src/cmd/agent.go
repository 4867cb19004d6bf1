package cmd

import (
	"github.com/pumasi/core/src/agent"
	"github.com/pumasi/core/src/utils/logger"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(agentCmd)
}

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run the background agent: override janitor, catch-up polling, status event publishing and the REST monitor",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := agent.NewController(conf)
		if err != nil {
			return
		}

		err = controller.Start()
		if err != nil {
			return
		}

		<-ctx.Done()

		controller.StopWait()

		return
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("agent-cmd")
		log.Debug("Finished agent command")
		return
	},
}
