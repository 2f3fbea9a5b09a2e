// First-fit memory allocator for constrained environments
// https://github.com/usbarmory/memalloc
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package statsview mounts a small HTTP introspection surface over a
// memalloc.Instance's running counters,
// alongside the runtime chart handlers the mkevac/debugcharts package
// registers on import. It is entirely optional: nothing in memalloc
// depends on it, and an application that never imports this package
// pays nothing for it.
package statsview

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	_ "github.com/mkevac/debugcharts"
	"golang.org/x/time/rate"

	"github.com/usbarmory/memalloc"
)

// Sampler periodically reads an Instance's Stats and serves the latest
// snapshot as JSON at /debug/memalloc. Sampling is rate-limited so that a
// busy poller (or a misbehaving dashboard) cannot turn stats collection
// into a lock-contention source on the allocator it is observing.
type Sampler struct {
	inst  *memalloc.Instance
	limit *rate.Limiter

	mu     sync.Mutex
	latest memalloc.Stats
	have   bool
}

// NewSampler builds a Sampler for inst, allowing at most one Stats read
// per interval. interval <= 0 defaults to one second.
func NewSampler(inst *memalloc.Instance, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Sampler{
		inst:  inst,
		limit: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Run samples stats at the configured rate until ctx is done. It is meant
// to be started in its own goroutine; a Sampler with no Run goroutine
// simply never updates and ServeHTTP reports "no stats yet".
func (s *Sampler) Run(ctx context.Context) {
	for {
		if err := s.limit.Wait(ctx); err != nil {
			return
		}

		if st, ok := s.inst.GetStats(); ok {
			s.mu.Lock()
			s.latest = st
			s.have = true
			s.mu.Unlock()
		}
	}
}

// Handler returns an http.Handler serving the most recent sampled Stats
// as JSON, suitable for mounting alongside debugcharts' own handlers on
// http.DefaultServeMux.
func (s *Sampler) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		st, have := s.latest, s.have
		s.mu.Unlock()

		if !have {
			http.Error(w, "no stats yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(st)
	})
}

// Mount registers the Sampler's handler on mux at /debug/memalloc. Passing
// nil mounts on http.DefaultServeMux, the same mux debugcharts registers
// its own /debug/charts/ handlers on.
func (s *Sampler) Mount(mux *http.ServeMux) {
	if mux == nil {
		http.Handle("/debug/memalloc", s.Handler())
		return
	}
	mux.Handle("/debug/memalloc", s.Handler())
}
