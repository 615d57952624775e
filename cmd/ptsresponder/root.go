/*
Copyright © 2022 - 2025 SUSE LLC

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

// Command ptsresponder is a demo harness that drives pkg/pts.Process with
// pkg/ptsadapter as a software Capability, standing in for the
// transport/framing layer a real PTS-IMC/PTS-IMV exchange would carry.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	log "github.com/sirupsen/logrus"
)

// NewRootCmd builds the ptsresponder root command, with persistent flags
// bound through viper so subcommands can read them uniformly.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ptsresponder",
		Short: "PTS attestation responder demo harness",
	}
	cmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	cmd.PersistentFlags().String("config-dir", "", "Directory to look for pts.yaml in")
	_ = viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("config-dir", cmd.PersistentFlags().Lookup("config-dir"))
	return cmd
}

var rootCmd = NewRootCmd()

// Execute runs the root command, exiting non-zero on any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("ptsresponder: %v", err)
		os.Exit(1)
	}
}
