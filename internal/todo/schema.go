/*
   Copyright 2025 The DIRPX Authors

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

package todo

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/xeipuuv/gojsonschema"

	"dirpx.dev/dcatch/fault"
)

const todoSchema = `{
  "type": "object",
  "properties": {
    "title":  {"type": "string", "maxLength": 200},
    "text":   {"type": "string", "maxLength": 4000},
    "listId": {"type": ["integer", "null"], "minimum": 1}
  },
  "required": ["title", "text"],
  "additionalProperties": false
}`

const listSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string", "minLength": 1, "maxLength": 100}
  },
  "required": ["name"],
  "additionalProperties": false
}`

var (
	todoValidator = mustSchema(todoSchema)
	listValidator = mustSchema(listSchema)
)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("todo: invalid schema: %v", err))
	}
	return schema
}

// DecodeInput reads and validates a todo request body.
func DecodeInput(r io.Reader) (Input, error) {
	var in Input
	err := decode(r, todoValidator, &in)
	return in, err
}

// DecodeListInput reads and validates a list request body.
func DecodeListInput(r io.Reader) (ListInput, error) {
	var in ListInput
	err := decode(r, listValidator, &in)
	return in, err
}

func decode(r io.Reader, schema *gojsonschema.Schema, dst any) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("todo: read body: %w", err)
	}
	if !json.Valid(body) {
		return fault.Invalid("Must be a JSON document", "body")
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &fault.ValidationError{Message: "Could not be validated", Members: []string{"body"}, Cause: err}
	}
	if !result.Valid() {
		return schemaError(result)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &fault.ValidationError{Message: "Could not be decoded", Members: []string{"body"}, Cause: err}
	}
	return nil
}

// schemaError converts schema violations into a validation error keyed by
// request member.
func schemaError(result *gojsonschema.Result) *fault.ValidationError {
	ve := &fault.ValidationError{Message: "Request body is invalid"}
	for _, re := range result.Errors() {
		member, msg := re.Field(), re.Description()
		if p, ok := re.Details()["property"].(string); ok && member == "(root)" {
			member = p
		}
		if re.Type() == "required" {
			msg = msgRequired
		}
		ve = ve.WithField(member, msg)
	}
	return ve
}
