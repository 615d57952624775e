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

// Package config loads the PTS attestation responder's recognized
// configuration options via viper, from a yaml file overridable by
// environment variables.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/rancher/elemental-pts/pkg/pts"
)

const envPrefix = "PTS"

// Defaults: a 20-octet nonce, and the BIOS reference-measurement path
// and PCR index.
const (
	DefaultNonceLen     = 20
	DefaultMeasuredFile = "/etc/tnc_config"
	DefaultExtendPCR    = 16
)

// Options holds the recognized configuration values for a responder
// session.
type Options struct {
	NonceLen     int
	MeasuredFile string
	ExtendPCR    uint32
}

// Load reads options from configDir/pts.yaml, if present, then applies
// PTS_-prefixed environment overrides, falling back to defaults for
// anything unset. It never fails outright on a missing or malformed file:
// a responder that cannot find configuration still runs on defaults.
func Load(configDir string) (*Options, error) {
	v := viper.New()
	v.SetDefault("nonce_len", DefaultNonceLen)
	v.SetDefault("measured_file", DefaultMeasuredFile)
	v.SetDefault("extend_pcr", DefaultExtendPCR)

	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.SetConfigType("yaml")
	v.SetConfigName("pts")
	_ = v.ReadInConfig()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	nonceLen := v.GetInt("nonce_len")
	if nonceLen < pts.MinNonceLen || nonceLen > pts.MaxNonceLen {
		nonceLen = DefaultNonceLen
	}

	return &Options{
		NonceLen:     nonceLen,
		MeasuredFile: v.GetString("measured_file"),
		ExtendPCR:    uint32(v.GetInt("extend_pcr")),
	}, nil
}

// NewSession builds a pts.Session from loaded options.
func (o *Options) NewSession(logger pts.Logger) *pts.Session {
	return pts.NewSession(logger, o.NonceLen, o.MeasuredFile, o.ExtendPCR)
}
