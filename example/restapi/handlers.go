// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/go-strut/strut/response"
)

// ResourceHandler is the demo CRUD resource over the in-memory store.
type ResourceHandler struct {
	store *Store
}

type recordInput struct {
	Name string `json:"name"`
}

func decodeInput(r *http.Request) (recordInput, error) {
	var in recordInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return in, err
	}
	return in, nil
}

// Get returns the collection, or a single record when uid is present.
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if uid == "" {
		_ = response.OK(h.store.All()).Write(w)
		return
	}
	record, ok := h.store.Get(uid)
	if !ok {
		_ = response.NotFound(fmt.Sprintf("Resource with UID %s does not exist.", uid)).Write(w)
		return
	}
	_ = response.OK(record).Write(w)
}

// Post creates a record from the JSON body.
func (h *ResourceHandler) Post(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		_ = response.BadRequest("invalid JSON body").Write(w)
		return
	}
	_ = response.Created(h.store.Create(in.Name)).Write(w)
}

// Put renames a record.
func (h *ResourceHandler) Put(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	in, err := decodeInput(r)
	if err != nil {
		_ = response.BadRequest("invalid JSON body").Write(w)
		return
	}
	record, ok := h.store.Update(uid, in.Name)
	if !ok {
		_ = response.NotFound(fmt.Sprintf("Resource with UID %s does not exist.", uid)).Write(w)
		return
	}
	_ = response.OK(record).Write(w)
}

// Delete removes a record and echoes it back.
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	record, ok := h.store.Delete(uid)
	if !ok {
		_ = response.NotFound(fmt.Sprintf("Resource with UID %s does not exist.", uid)).Write(w)
		return
	}
	_ = response.OK(record).Write(w)
}

// statusHandler reports uptime and memory usage.
func statusHandler(started time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		_ = response.OK(map[string]string{
			"uptime": time.Since(started).Round(time.Second).String(),
			"memory": humanize.IBytes(mem.Alloc),
			"since":  humanize.Time(started),
		}).Write(w)
	}
}
