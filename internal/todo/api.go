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
	"net/http"
	"strconv"

	"dirpx.dev/dcatch"
	"dirpx.dev/dcatch/fault"
	"dirpx.dev/dcatch/httpx"
)

// API serves the todo endpoints.
type API struct {
	store *Store
	rules *dcatch.RuleSet[*httpx.Exchange]
	opts  []httpx.Option
}

// NewAPI returns an API routing handler errors through rules.
func NewAPI(store *Store, rules *dcatch.RuleSet[*httpx.Exchange], opts ...httpx.Option) *API {
	return &API{store: store, rules: rules, opts: opts}
}

// Routes returns the API mux.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()
	a.handle(mux, "GET /api/todos", a.list)
	a.handle(mux, "GET /api/todos/{id}", a.get)
	a.handle(mux, "POST /api/todos", a.create)
	a.handle(mux, "PUT /api/todos/{id}", a.update)
	a.handle(mux, "DELETE /api/todos/{id}", a.delete)
	a.handle(mux, "GET /api/todos/{id}/export", a.export)
	a.handle(mux, "POST /api/lists", a.createList)
	return mux
}

func (a *API) handle(mux *http.ServeMux, pattern string, fn httpx.HandlerFunc) {
	mux.Handle(pattern, httpx.Handler(a.rules, fn, a.opts...))
}

func (a *API) list(w http.ResponseWriter, r *http.Request) error {
	todos, err := a.store.All(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, todos)
}

func (a *API) get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	t, err := a.store.Get(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, t)
}

func (a *API) create(w http.ResponseWriter, r *http.Request) error {
	in, err := DecodeInput(r.Body)
	if err != nil {
		return err
	}
	t, err := a.store.Create(r.Context(), in)
	if err != nil {
		return err
	}
	w.Header().Set("Location", "/api/todos/"+strconv.FormatInt(t.ID, 10))
	return writeJSON(w, http.StatusCreated, t)
}

func (a *API) update(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	in, err := DecodeInput(r.Body)
	if err != nil {
		return err
	}
	t, err := a.store.Update(r.Context(), id, in)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, t)
}

func (a *API) delete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	if err := a.store.Delete(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (a *API) export(http.ResponseWriter, *http.Request) error {
	return ErrNotImplemented
}

func (a *API) createList(w http.ResponseWriter, r *http.Request) error {
	in, err := DecodeListInput(r.Body)
	if err != nil {
		return err
	}
	l, err := a.store.CreateList(r.Context(), in)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, l)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fault.Invalid("Must be a positive integer", "id")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
