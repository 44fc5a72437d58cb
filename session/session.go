/* Copyright 2018 Comcast Cable Communications Management, LLC

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

// Package session persists solving sessions.
//
// A session records where a derivation stands: the ruleset in play,
// the starting term, and the path taken so far.  That's everything
// needed to resume, since replaying the path against the strategy
// reconstructs the automaton state.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	// ErrNotFound indicates the requested session doesn't exist.
	ErrNotFound = errors.New("session not found")

	sessionsBucket = []byte("sessions")
)

// Session is the serializable state of one derivation in progress.
type Session struct {
	// Id names the session.
	Id string `json:"id"`

	// Ruleset names the ruleset (and thereby the strategy) in
	// play.
	Ruleset string `json:"ruleset"`

	// Term is the starting term.
	Term interface{} `json:"term"`

	// Path is the encoded path taken so far.  See
	// strategy.DecodePath.
	Path string `json:"path,omitempty"`

	// Updated is the RFC 3339 timestamp of the last Save.
	Updated string `json:"updated,omitempty"`
}

// Store persists sessions in a Bolt database.
type Store struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

func NewStore(filename string) (*Store, error) {
	return &Store{
		filename: filename,
	}, nil
}

func (s *Store) Open() error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	s.db = db

	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("session.Store."+format, args...)
	}
}

// Save writes the session, stamping Updated.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	s.logf("Save %s", sess.Id)
	sess.Updated = time.Now().UTC().Format(time.RFC3339Nano)
	bs, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(sess.Id), bs)
	})
}

// Load returns the session with the given id or ErrNotFound.
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	s.logf("Load %s", id)
	var sess *Session
	err := s.db.View(func(tx *bolt.Tx) error {
		bs := tx.Bucket(sessionsBucket).Get([]byte(id))
		if bs == nil {
			return ErrNotFound
		}
		sess = &Session{}
		return json.Unmarshal(bs, sess)
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Remove deletes the session with the given id (if any).
func (s *Store) Remove(ctx context.Context, id string) error {
	s.logf("Remove %s", id)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(id))
	})
}

// Ids lists the stored session ids.
func (s *Store) Ids(ctx context.Context) ([]string, error) {
	acc := make([]string, 0, 32)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(sessionsBucket).Cursor()
		for id, _ := c.First(); id != nil; id, _ = c.Next() {
			acc = append(acc, string(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}
