// SPDX-License-Identifier: MIT

package main

import (
	"strconv"
	"sync"
)

// Record is one entry in the demo resource store.
type Record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Store is a threadsafe in-memory resource collection.
type Store struct {
	mu      sync.RWMutex
	records []Record
	nextID  int
}

// NewStore seeds the store with a few records.
func NewStore() *Store {
	return &Store{
		records: []Record{
			{ID: "1", Name: "Foo"},
			{ID: "2", Name: "Bar"},
			{ID: "3", Name: "Fizz"},
			{ID: "4", Name: "Buzz"},
		},
		nextID: 5,
	}
}

// All returns a copy of every record.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// Create appends a record with a fresh id.
func (s *Store) Create(name string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := Record{ID: strconv.Itoa(s.nextID), Name: name}
	s.nextID++
	s.records = append(s.records, record)
	return record
}

// Update renames an existing record.
func (s *Store) Update(id, name string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Name = name
			return s.records[i], true
		}
	}
	return Record{}, false
}

// Delete removes a record and returns it.
func (s *Store) Delete(id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return r, true
		}
	}
	return Record{}, false
}
