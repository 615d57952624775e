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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rancher/elemental-pts/pkg/config"
	"github.com/rancher/elemental-pts/pkg/pts"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "config test suite")
}

var _ = Describe("config", Label("config"), func() {
	Describe("Load", func() {
		It("falls back to defaults when no config directory is given", func() {
			opts, err := config.Load("")
			Expect(err).ToNot(HaveOccurred())
			Expect(opts.NonceLen).To(Equal(config.DefaultNonceLen))
			Expect(opts.MeasuredFile).To(Equal(config.DefaultMeasuredFile))
			Expect(opts.ExtendPCR).To(Equal(uint32(config.DefaultExtendPCR)))
		})

		It("reads overrides from pts.yaml in the given directory", func() {
			dir, err := os.MkdirTemp("", "pts-config-test")
			Expect(err).ToNot(HaveOccurred())
			defer os.RemoveAll(dir)

			yaml := "nonce_len: 24\nmeasured_file: /opt/custom/tnc_config\nextend_pcr: 12\n"
			Expect(os.WriteFile(filepath.Join(dir, "pts.yaml"), []byte(yaml), 0644)).To(Succeed())

			opts, err := config.Load(dir)
			Expect(err).ToNot(HaveOccurred())
			Expect(opts.NonceLen).To(Equal(24))
			Expect(opts.MeasuredFile).To(Equal("/opt/custom/tnc_config"))
			Expect(opts.ExtendPCR).To(Equal(uint32(12)))
		})

		It("clamps an out-of-range nonce length back to the default", func() {
			dir, err := os.MkdirTemp("", "pts-config-test")
			Expect(err).ToNot(HaveOccurred())
			defer os.RemoveAll(dir)

			Expect(os.WriteFile(filepath.Join(dir, "pts.yaml"), []byte("nonce_len: 4\n"), 0644)).To(Succeed())

			opts, err := config.Load(dir)
			Expect(err).ToNot(HaveOccurred())
			Expect(opts.NonceLen).To(Equal(config.DefaultNonceLen))
		})

		It("never fails outright on a missing config file", func() {
			dir, err := os.MkdirTemp("", "pts-config-test")
			Expect(err).ToNot(HaveOccurred())
			defer os.RemoveAll(dir)

			_, err = config.Load(dir)
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("Options.NewSession", func() {
		It("builds a session carrying the loaded options", func() {
			opts := &config.Options{
				NonceLen:     24,
				MeasuredFile: "/etc/tnc_config",
				ExtendPCR:    16,
			}
			session := opts.NewSession(&pts.NopLogger{})
			Expect(session.NonceLen).To(Equal(24))
			Expect(session.MeasuredFile).To(Equal("/etc/tnc_config"))
			Expect(session.ExtendPCRIndex).To(Equal(uint32(16)))
		})
	})
})
