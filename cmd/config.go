package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/jerry-enebeli/purse/config"
	"github.com/spf13/cobra"
)

// configCommands prints the computed configuration with secrets masked.
func configCommands() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "config outputs your instances computed configuration",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Fetch()
			if err != nil {
				log.Fatalf("Error getting config: %v\n", err)
			}

			data, err := json.MarshalIndent(maskSecrets(*cfg), "", "    ")
			if err != nil {
				log.Fatalf("Error printing config: %v\n", err)
			}

			fmt.Println(string(data))
		},
	}
	return cmd
}

func maskSecrets(cfg config.Configuration) config.Configuration {
	if cfg.Server.SecretKey != "" {
		cfg.Server.SecretKey = "********"
	}
	if cfg.AccountNumberGeneration.HttpService.Headers.Authorization != "" {
		cfg.AccountNumberGeneration.HttpService.Headers.Authorization = "********"
	}
	return cfg
}
