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

// Package ptslog adapts sirupsen/logrus to the pts.Logger interface.
package ptslog

import (
	log "github.com/sirupsen/logrus"

	"github.com/rancher/elemental-pts/pkg/pts"
)

// Logger wraps a logrus.Logger to satisfy pts.Logger.
type Logger struct {
	entry *log.Logger
}

var _ pts.Logger = (*Logger)(nil)

// New returns a Logger writing to stderr at info level.
func New() *Logger {
	l := log.New()
	l.SetLevel(log.InfoLevel)
	return &Logger{entry: l}
}

// NewWithLevel returns a Logger at the given logrus level, e.g. for a
// --debug CLI flag.
func NewWithLevel(level log.Level) *Logger {
	l := log.New()
	l.SetLevel(level)
	return &Logger{entry: l}
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
