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
	"strings"
	"time"

	"dirpx.dev/dcatch/fault"
)

const msgRequired = "Is required"

// Todo is a todo item, optionally attached to a list.
type Todo struct {
	ID        int64     `db:"id"         json:"id"`
	ListID    *int64    `db:"list_id"    json:"listId,omitempty"`
	Title     string    `db:"title"      json:"title"`
	Text      string    `db:"text"       json:"text"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// List groups todo items.
type List struct {
	ID   int64  `db:"id"   json:"id"`
	Name string `db:"name" json:"name"`
}

// Input is the body of create and update requests.
type Input struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	ListID *int64 `json:"listId,omitempty"`
}

// ListInput is the body of list create requests.
type ListInput struct {
	Name string `json:"name"`
}

// NewTodo builds a todo from in. Blank title or text is a validation error.
func NewTodo(in Input, now time.Time) (*Todo, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	return &Todo{
		ListID:    in.ListID,
		Title:     in.Title,
		Text:      in.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update applies in to t.
func (t *Todo) Update(in Input, now time.Time) error {
	if err := in.check(); err != nil {
		return err
	}
	t.Title = in.Title
	t.Text = in.Text
	t.ListID = in.ListID
	t.UpdatedAt = now
	return nil
}

func (in Input) check() error {
	if strings.TrimSpace(in.Title) == "" {
		return fault.Invalid(msgRequired, "title")
	}
	if strings.TrimSpace(in.Text) == "" {
		return fault.Invalid(msgRequired, "text")
	}
	return nil
}
