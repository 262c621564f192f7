/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "errors"

var (
	// ErrInvalidInput is returned when a command lacks a required input, e.g. an
	// image add without a picked file.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownShapeKind marks a command whose kind tag is neither image nor text.
	ErrUnknownShapeKind = errors.New("unknown shape kind")
)
