// Copyright 2021 - 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logutil is a thin wrapper over go.uber.org/zap, named after and
// grounded on the teacher's own pkg/logutil. It exists so every package in
// this module logs through one configured sink instead of each grabbing
// zap.L() directly.
package logutil

import "go.uber.org/zap"

var global = zap.NewNop()

// SetLogger replaces the package-wide logger, e.g. with a production zap
// config from main(). Defaults to a no-op logger so importing this module
// as a library never forces logging configuration on the caller.
func SetLogger(l *zap.Logger) {
	if l != nil {
		global = l
	}
}

func Debug(msg string, fields ...zap.Field) {
	global.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	global.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	global.Error(msg, fields...)
}

// With returns a child logger, useful for tagging all of one build/probe
// call's log lines with e.g. the join kind and strictness.
func With(fields ...zap.Field) *zap.Logger {
	return global.With(fields...)
}
