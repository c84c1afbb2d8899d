/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jerry-enebeli/purse"
	"github.com/jerry-enebeli/purse/config"
	"github.com/jerry-enebeli/purse/database"
	"github.com/jerry-enebeli/purse/internal/notification"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Purse is the CLI application.
type Purse struct {
	cmd *cobra.Command
}

// purseInstance holds the engine and the configuration it was built from.
type purseInstance struct {
	purse *purse.Purse
	cnf   *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and builds the engine before any command runs.
func preRun(app *purseInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(*configFile); err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newPurse, err := setupPurse(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.purse = newPurse
		app.cnf = cnf
		return nil
	}
}

func setupPurse(cfg *config.Configuration) (*purse.Purse, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newPurse, err := purse.NewPurse(db)
	if err != nil {
		return nil, fmt.Errorf("error creating purse: %v", err)
	}
	return newPurse, nil
}

func NewCLI() *Purse {
	var configFile string
	p := &purseInstance{}

	var rootCmd = &cobra.Command{
		Use:   "purse",
		Short: "Personal banking ledger",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./purse.json", "Configuration file for purse")
	rootCmd.PersistentPreRunE = preRun(p, &configFile)

	rootCmd.AddCommand(serverCommands(p))
	rootCmd.AddCommand(workerCommands(p))
	rootCmd.AddCommand(configCommands())

	return &Purse{cmd: rootCmd}
}

func (w Purse) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
