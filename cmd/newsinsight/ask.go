package main

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newsinsight/newsinsight/internal/agent/config"
	"github.com/newsinsight/newsinsight/internal/agent/core"
)

func askCMD() *cobra.Command {
	var ask = &cobra.Command{
		Use:   "ask [topic...]",
		Short: "Run one verification pipeline and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args, " ")
			if topic == "" {
				topic = "global tech layoffs"
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logger := log.New(cmd.ErrOrStderr(), "[AGENT] ", log.LstdFlags)
			agent, err := core.FromConfig(cfg, logger)
			if err != nil {
				return err
			}

			// the pipeline degrades internally; only setup errors fail the command
			out := agent.Run(cmd.Context(), topic)
			pretty, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
			return nil
		},
	}
	return ask
}
