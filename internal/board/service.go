package board

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravitas-games/hexboard/internal/cache"
)

const cachePrefix = "hexboard:board"

// Service builds boards, filling unset params from defaults and reusing
// cached results
type Service struct {
	defaults  Params
	maxRadius int
	cache     cache.Cache
	ttl       time.Duration
}

// NewService creates a board service. A nil cache disables caching.
func NewService(defaults Params, maxRadius int, c cache.Cache, ttl time.Duration) *Service {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Service{defaults: defaults, maxRadius: maxRadius, cache: c, ttl: ttl}
}

// Defaults returns the params used for unset request fields
func (s *Service) Defaults() Params { return s.defaults }

// Request is a board request as it arrives from a client. Radius and Gap
// are pointers because 0 is a meaningful value for both; a nil field and a
// zero dimension both take the service default.
type Request struct {
	Radius  *int
	Width   float64
	Height  float64
	Columns int
	Gap     *float64
}

// Resolve turns r into complete params using the service defaults.
func (s *Service) Resolve(r Request) Params {
	p := s.defaults
	if r.Radius != nil {
		p.Radius = *r.Radius
	}
	if r.Width != 0 {
		p.Width = r.Width
	}
	if r.Height != 0 {
		p.Height = r.Height
	}
	if r.Columns != 0 {
		p.Columns = r.Columns
	}
	if r.Gap != nil {
		p.Gap = *r.Gap
	}
	return p
}

// Get returns the board for p, building it on a cache miss. Cache
// failures are logged and never fail the request.
func (s *Service) Get(ctx context.Context, p Params) (*Board, error) {
	if err := p.Validate(s.maxRadius); err != nil {
		return nil, err
	}

	key := cache.Key(cachePrefix, p.Radius, p.Width, p.Height, p.Columns, p.Gap)
	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn("board cache read failed", "key", key, "err", err)
	} else if ok {
		var b Board
		if err := json.Unmarshal(data, &b); err == nil {
			b.reindex()
			log.Debug("board cache hit", "radius", p.Radius)
			return &b, nil
		}
		log.Warn("discarding undecodable cached board", "key", key)
	}

	b, err := New(p)
	if err != nil {
		return nil, err
	}
	log.Debug("board built", "radius", b.Radius, "cells", b.CellCount())

	if data, err := json.Marshal(b); err != nil {
		log.Warn("board encode failed", "err", err)
	} else if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		log.Warn("board cache write failed", "key", key, "err", err)
	}
	return b, nil
}
