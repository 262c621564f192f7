/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package replay

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed script.schema.json
var schemaJSON []byte

// ErrSchema marks scripts rejected by the embedded JSON schema.
var ErrSchema = errors.New("script does not match schema")

// Parse validates data against the script schema and decodes it. Schema
// violations come back as one Error per violation.
func Parse(data []byte) (Script, []Error) {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Script{}, []Error{{Step: -1, Err: fmt.Errorf("validate: %w", err)}}
	}
	if !result.Valid() {
		errs := make([]Error, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			errs = append(errs, Error{Step: -1, Err: fmt.Errorf("%w: %s: %s", ErrSchema, re.Field(), re.Description())})
		}
		return Script{}, errs
	}
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return Script{}, []Error{{Step: -1, Err: fmt.Errorf("decode: %w", err)}}
	}
	return s, nil
}

// ParseFile reads and parses a script file.
func ParseFile(path string) (Script, []Error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, []Error{{Step: -1, Err: err}}
	}
	return Parse(data)
}
