// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package netwatch answers one question for the sync engine: is the server
// reachable right now. The HTTP implementation probes the health endpoint on
// a ticker and notifies subscribers on reachability transitions only.
package netwatch

//go:generate mockgen -source=netwatch.go -destination=../mock/mock_netwatch.go -package=mock

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
)

// Oracle reports server reachability.
type Oracle interface {
	// Online reports the last observed reachability. It never blocks on the
	// network; probing happens in the background.
	Online(ctx context.Context) bool

	// Subscribe registers fn to run on every offline/online transition with
	// the new state. The returned function removes the subscription.
	Subscribe(fn func(online bool)) (unsubscribe func())
}

// Probe is an [Oracle] with a background polling lifecycle.
type Probe interface {
	Oracle

	// Start launches the background polling loop. Calling Start on a running
	// probe restarts it.
	Start(ctx context.Context)

	// Stop halts the polling loop and waits for it to exit.
	Stop()
}

type httpProbe struct {
	client   *utils.HTTPClient
	interval time.Duration
	logger   *logger.Logger

	mu      sync.Mutex
	online  bool
	probed  bool
	subs    map[int]func(online bool)
	nextSub int
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewHTTPProbe builds an [Oracle] that polls GET /api/health on the server
// named by adapterCfg. The probe is idle until Start is called; until the
// first probe completes Online reports false.
func NewHTTPProbe(adapterCfg config.Adapter, interval time.Duration, logger *logger.Logger) Probe {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(adapterCfg.HTTPAddress).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpProbe{
		client:   client,
		interval: interval,
		logger:   logger,
		subs:     make(map[int]func(online bool)),
	}
}

func (p *httpProbe) Online(_ context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

func (p *httpProbe) Subscribe(fn func(online bool)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// Start stops any previously running probe loop, performs an immediate probe,
// then re-probes every interval. The goroutine exits when ctx is cancelled or
// Stop is called.
func (p *httpProbe) Start(ctx context.Context) {
	p.Stop()

	p.mu.Lock()
	probeCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()

		p.probe(probeCtx)

		t := time.NewTicker(p.interval)
		defer t.Stop()

		for {
			select {
			case <-probeCtx.Done():
				return
			case <-t.C:
				p.probe(probeCtx)
			}
		}
	}()
}

// Stop cancels the probe loop and blocks until it has exited. Safe to call
// when the probe is not running.
func (p *httpProbe) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

func (p *httpProbe) probe(ctx context.Context) {
	resp, err := p.client.R().SetContext(ctx).Get("/api/health")

	// a probe cut short by Stop says nothing about reachability; recording
	// it would fire subscribers with a phantom offline transition
	if ctx.Err() != nil {
		return
	}

	online := err == nil && resp.StatusCode() == http.StatusOK
	p.setOnline(online)
}

// setOnline records the probe result and fires subscribers when the state
// flips. The very first probe result is also announced so late starters see
// the initial state.
func (p *httpProbe) setOnline(online bool) {
	p.mu.Lock()
	changed := !p.probed || p.online != online
	p.probed = true
	p.online = online

	subs := make([]func(bool), 0, len(p.subs))
	if changed {
		for _, fn := range p.subs {
			subs = append(subs, fn)
		}
	}
	p.mu.Unlock()

	if changed {
		p.logger.Info().Str("func", "httpProbe.setOnline").Bool("online", online).Msg("server reachability changed")
		for _, fn := range subs {
			fn(online)
		}
	}
}
