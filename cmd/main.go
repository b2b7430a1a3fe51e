/*
Copyright 2025 Creator Platform Authors.

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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	marketplace "github.com/harukitakahashi812/creator-platform"
	"github.com/harukitakahashi812/creator-platform/config"
	"github.com/harukitakahashi812/creator-platform/database"
	"github.com/harukitakahashi812/creator-platform/internal/notification"
)

// CreatorCLI represents the CLI application, encapsulating the root Cobra command.
type CreatorCLI struct {
	cmd *cobra.Command
}

// marketplaceInstance holds the Marketplace instance and its configuration.
// It is shared across commands through the persistent pre-run hook.
type marketplaceInstance struct {
	marketplace *marketplace.Marketplace
	cnf         *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the Marketplace instance
// before running any command.
func preRun(app *marketplaceInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("creator.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newMarketplace, err := setupMarketplace(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.marketplace = newMarketplace
		app.cnf = cnf

		return nil
	}
}

// setupMarketplace connects to the data source and builds a Marketplace
// instance from the loaded configuration.
func setupMarketplace(cfg *config.Configuration) (*marketplace.Marketplace, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newMarketplace, err := marketplace.NewMarketplace(db)
	if err != nil {
		return nil, fmt.Errorf("error creating marketplace: %v", err)
	}
	return newMarketplace, nil
}

// NewCLI creates the command-line interface for the creator platform.
func NewCLI() *CreatorCLI {
	var configFile string
	m := &marketplaceInstance{}

	var rootCmd = &cobra.Command{
		Use:   "creator-platform",
		Short: "Creator project marketplace",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./creator.json", "Configuration file for the platform")

	rootCmd.PersistentPreRunE = preRun(m)

	rootCmd.AddCommand(serverCommands(m))
	rootCmd.AddCommand(workerCommands(m))
	rootCmd.AddCommand(migrateCommands(m))
	rootCmd.AddCommand(backupCommands(m))
	rootCmd.AddCommand(configCommands())

	return &CreatorCLI{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur during execution.
func (w CreatorCLI) executeCLI() {
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
