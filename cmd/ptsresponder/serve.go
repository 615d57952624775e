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

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	vfs "github.com/twpayne/go-vfs"

	log "github.com/sirupsen/logrus"

	"github.com/rancher/elemental-pts/pkg/config"
	"github.com/rancher/elemental-pts/pkg/pts"
	"github.com/rancher/elemental-pts/pkg/ptsadapter"
	"github.com/rancher/elemental-pts/pkg/ptslog"
)

// demoAttributeStream stands in for what a real transport/framing layer
// would decode off the wire. It walks a session through capability
// negotiation, algorithm and DH negotiation, identity retrieval, and a
// BIOS measurement/quote, one attribute at a time.
func demoAttributeStream() []pts.Attribute {
	return []pts.Attribute{
		&pts.ReqProtoCapsAttr{Flags: pts.ProtoCapsTPM | pts.ProtoCapsDH | pts.ProtoCapsCurr},
		&pts.MeasAlgoAttr{Algorithms: pts.MeasAlgoSHA256 | pts.MeasAlgoSHA1},
		&pts.DHNonceParamsReqAttr{MinNonceLen: 20, DHGroups: pts.DHGroupIKE14},
		&pts.GetTPMVersionInfoAttr{},
		&pts.GetAIKAttr{},
		&pts.ReqFunctCompEvidAttr{
			Flags:     pts.ReqFuncCompEvidFlagCurr | pts.ReqFuncCompEvidFlagPCR,
			VendorID:  pts.FuncCompNameVendorID,
			Qualifier: pts.Qualifier{Type: 0xFF},
			Name:      pts.FuncCompNameBIOS,
		},
		&pts.GenAttestEvidAttr{},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run a fixture attribute stream through the responder and print the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.Load(viper.GetString("config-dir"))
			if err != nil {
				return err
			}

			level := log.InfoLevel
			if viper.GetBool("debug") {
				level = log.DebugLevel
			}
			logger := ptslog.NewWithLevel(level)

			adapter, err := ptsadapter.New(vfs.OSFS, pts.ProtoCapsTPM|pts.ProtoCapsDH|pts.ProtoCapsCurr)
			if err != nil {
				return err
			}

			session := opts.NewSession(logger)

			var out []pts.Attribute
			for _, attr := range demoAttributeStream() {
				out = out[:0]
				if err := pts.Process(attr, &out, session, adapter, pts.MeasAlgoSHA384|pts.MeasAlgoSHA256|pts.MeasAlgoSHA1, pts.DHGroupIKE14|pts.DHGroupIKE15); err != nil {
					return fmt.Errorf("fatal session error on %T: %w", attr, err)
				}
				for _, o := range out {
					fmt.Printf("-> %T\n", o)
				}
			}
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
}
