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

// Package service is the transport-independent solving service:
// rulesets loaded from disk, sessions persisted in a database, one
// Do method that every transport (HTTP, WebSockets, MQTT) calls.
package service

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/SakastLord/ideas/interpreters"
	"github.com/SakastLord/ideas/jterm"
	"github.com/SakastLord/ideas/rewrite"
	"github.com/SakastLord/ideas/ruleset"
	"github.com/SakastLord/ideas/session"
	"github.com/SakastLord/ideas/strategy"
)

// compiled is a ruleset ready for stepping.
type compiled struct {
	rules map[string]*rewrite.Rule[jterm.Term]
	s     strategy.Strategy[jterm.Term]
}

type Service struct {
	Verbose bool

	store    *session.Store
	rulesets map[string]*compiled
}

// NewService loads every *.yaml ruleset in the given directory and
// opens the session store.
func NewService(ctx context.Context, rulesetsDir, dbFile string) (*Service, error) {
	store, err := session.NewStore(dbFile)
	if err != nil {
		return nil, err
	}
	if err = store.Open(); err != nil {
		return nil, err
	}

	filenames, err := filepath.Glob(filepath.Join(rulesetsDir, "*.yaml"))
	if err != nil {
		return nil, err
	}

	is := interpreters.Standard()
	rulesets := make(map[string]*compiled, len(filenames))
	for _, filename := range filenames {
		rs, err := ruleset.Load(filename)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", filename, err)
		}
		rules, s, err := rs.Compile(ctx, is)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", filename, err)
		}
		name := rs.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(filename), ".yaml")
		}
		rulesets[name] = &compiled{rules: rules, s: s}
	}

	return &Service{
		store:    store,
		rulesets: rulesets,
	}, nil
}

func (s *Service) Close() error {
	return s.store.Close()
}

func (s *Service) logf(format string, args ...interface{}) {
	if s.Verbose {
		log.Printf("Service."+format, args...)
	}
}

// Op is one request to the service, over any transport.
type Op struct {
	Op      string      `json:"op"`
	Session string      `json:"session,omitempty"`
	Ruleset string      `json:"ruleset,omitempty"`
	Term    interface{} `json:"term,omitempty"`
	Choice  *int        `json:"choice,omitempty"`
}

// Step is one continuation offered to the client.
type Step struct {
	Choice int         `json:"choice"`
	Rule   string      `json:"rule"`
	Buggy  bool        `json:"buggy,omitempty"`
	Minor  bool        `json:"minor,omitempty"`
	To     interface{} `json:"to"`
}

// Result is the service's answer to an Op.
type Result struct {
	Session  string      `json:"session,omitempty"`
	Term     interface{} `json:"term,omitempty"`
	Path     string      `json:"path,omitempty"`
	Done     bool        `json:"done,omitempty"`
	Steps    []Step      `json:"steps,omitempty"`
	Sessions []string    `json:"sessions,omitempty"`
	Rulesets []string    `json:"rulesets,omitempty"`

	Error string `json:"error,omitempty"`

	// StalePath reports a session whose saved path no longer
	// replays against the (presumably changed) ruleset.  The
	// client should show this to the user rather than retrying.
	StalePath *strategy.ReplayError `json:"stalePath,omitempty"`
}

func ErrResult(format string, args ...interface{}) *Result {
	return &Result{Error: fmt.Sprintf(format, args...)}
}

// Mutates reports whether an op with the given name changes a
// session, which transports use to decide what to broadcast.
func Mutates(op string) bool {
	switch op {
	case "create", "move", "submit", "remove":
		return true
	}
	return false
}

// resume reconstructs a session's Prefix by replaying its path.
func (s *Service) resume(ctx context.Context, sess *session.Session) (*strategy.Prefix[jterm.Term], *Result) {
	c, have := s.rulesets[sess.Ruleset]
	if !have {
		return nil, ErrResult("unknown ruleset '%s'", sess.Ruleset)
	}
	path, err := strategy.DecodePath(sess.Path)
	if err != nil {
		return nil, ErrResult("bad path: %v", err)
	}
	p, err := strategy.Replay(path, c.s, sess.Term)
	if err != nil {
		if re, is := err.(*strategy.ReplayError); is {
			return nil, &Result{
				Session:   sess.Id,
				Error:     "stale path",
				StalePath: re,
			}
		}
		return nil, ErrResult("%v", err)
	}
	return p, nil
}

func position(sess *session.Session, p *strategy.Prefix[jterm.Term]) *Result {
	res := &Result{
		Session: sess.Id,
		Term:    p.Term(),
		Path:    p.Path().Encode(),
		Done:    p.Done(),
	}
	for _, next := range p.Steps() {
		res.Steps = append(res.Steps, Step{
			Choice: next.Choice,
			Rule:   next.Rule.Name,
			Buggy:  next.Rule.Buggy,
			Minor:  next.Rule.Minor,
			To:     next.To,
		})
	}
	return res
}

// Do executes one op and returns the result.
func (s *Service) Do(ctx context.Context, op *Op) *Result {
	s.logf("Do %s %s", op.Op, op.Session)

	switch op.Op {

	case "rulesets":
		res := &Result{}
		for name := range s.rulesets {
			res.Rulesets = append(res.Rulesets, name)
		}
		return res

	case "list":
		ids, err := s.store.Ids(ctx)
		if err != nil {
			return ErrResult("%v", err)
		}
		return &Result{Sessions: ids}

	case "create":
		if op.Session == "" || op.Ruleset == "" || op.Term == nil {
			return ErrResult("create needs session, ruleset, and term")
		}
		c, have := s.rulesets[op.Ruleset]
		if !have {
			return ErrResult("unknown ruleset '%s'", op.Ruleset)
		}
		sess := &session.Session{
			Id:      op.Session,
			Ruleset: op.Ruleset,
			Term:    op.Term,
		}
		if err := s.store.Save(ctx, sess); err != nil {
			return ErrResult("%v", err)
		}
		return position(sess, strategy.NewPrefix(c.s, op.Term))

	case "steps", "move", "submit":
		sess, err := s.store.Load(ctx, op.Session)
		if err != nil {
			return ErrResult("%v", err)
		}
		p, bad := s.resume(ctx, sess)
		if bad != nil {
			return bad
		}

		switch op.Op {
		case "move":
			if op.Choice == nil {
				return ErrResult("move needs a choice")
			}
			steps := p.Steps()
			if *op.Choice < 0 || len(steps) <= *op.Choice {
				return ErrResult("no step %d (have %d)", *op.Choice, len(steps))
			}
			p = steps[*op.Choice].Prefix
		case "submit":
			if op.Term == nil {
				return ErrResult("submit needs a term")
			}
			next, ok := p.StepTo(op.Term, nil)
			if !ok {
				return ErrResult("no rule gives that term")
			}
			p = next.Prefix
		}

		if op.Op != "steps" {
			sess.Path = p.Path().Encode()
			if err = s.store.Save(ctx, sess); err != nil {
				return ErrResult("%v", err)
			}
		}

		return position(sess, p)

	case "remove":
		if err := s.store.Remove(ctx, op.Session); err != nil {
			return ErrResult("%v", err)
		}
		return &Result{Session: op.Session}

	default:
		return ErrResult("unknown op '%s'", op.Op)
	}
}
