// Package session loads recorded session data (per-driver lap series plus
// fastest-lap telemetry) from JSON documents on disk. The provider is an
// explicit object with its own cache; there is no module-level session
// state.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ohler55/ojg/oj"

	"github.com/racelytics/f1-analysis-service-go/log"
	"github.com/racelytics/f1-analysis-service-go/pkg/model"
)

var ErrNotFound = errors.New("session not found")

const defaultExpiration = 5 * time.Minute

type Provider struct {
	dir   string
	cache *loaderCache[model.Session]
	l     *log.Logger
}

type Option func(p *providerConfig)

type providerConfig struct {
	dir        string
	expiration time.Duration
	l          *log.Logger
}

func WithDir(dir string) Option {
	return func(p *providerConfig) { p.dir = dir }
}

func WithExpiration(expiration time.Duration) Option {
	return func(p *providerConfig) { p.expiration = expiration }
}

func WithLogger(l *log.Logger) Option {
	return func(p *providerConfig) { p.l = l }
}

func NewProvider(opts ...Option) *Provider {
	cfg := &providerConfig{
		dir:        ".",
		expiration: defaultExpiration,
		l:          log.Default().Named("session"),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	p := &Provider{dir: cfg.dir, l: cfg.l}
	p.cache = newLoaderCache(cfg.expiration, p.loadFromDisk, cfg.l)
	return p
}

// Load returns the session stored as <dir>/<key>.json, served from the
// cache when fresh. A missing file maps to ErrNotFound.
func (p *Provider) Load(ctx context.Context, key string) (*model.Session, error) {
	return p.cache.Get(ctx, key)
}

// Invalidate drops the cached copy of a session.
func (p *Provider) Invalidate(ctx context.Context, key string) {
	p.cache.Invalidate(ctx, key)
}

// on-disk document shapes; absent lap times/compounds arrive as zero
// values and are converted to nil fields so that statistics drop them
type (
	sessionDoc struct {
		Name    string      `json:"name"`
		Track   string      `json:"track"`
		Drivers []driverDoc `json:"drivers"`
	}
	driverDoc struct {
		Driver    string                  `json:"driver"`
		Laps      []lapDoc                `json:"laps"`
		Telemetry []model.TelemetrySample `json:"telemetry"`
	}
	lapDoc struct {
		Lap      int     `json:"lap"`
		Time     float64 `json:"time"`
		Compound string  `json:"compound"`
	}
)

func (p *Provider) loadFromDisk(key string) (*model.Session, error) {
	path := filepath.Join(p.dir, key+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("reading session %s: %w", key, err)
	}
	var doc sessionDoc
	if err := oj.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", key, err)
	}
	p.l.Info("session loaded",
		log.String("key", key),
		log.String("track", doc.Track),
		log.Int("drivers", len(doc.Drivers)))
	return docToSession(&doc), nil
}

func docToSession(doc *sessionDoc) *model.Session {
	sess := &model.Session{
		Name:      doc.Name,
		Track:     doc.Track,
		Laps:      make(map[string][]model.Lap, len(doc.Drivers)),
		Telemetry: make(map[string][]model.TelemetrySample, len(doc.Drivers)),
	}
	for _, d := range doc.Drivers {
		laps := make([]model.Lap, 0, len(d.Laps))
		for _, l := range d.Laps {
			lap := model.Lap{LapNumber: l.Lap}
			if l.Time > 0 {
				t := l.Time
				lap.LapTime = &t
			}
			if l.Compound != "" {
				c := l.Compound
				lap.Compound = &c
			}
			laps = append(laps, lap)
		}
		sess.Laps[d.Driver] = laps
		if len(d.Telemetry) > 0 {
			sess.Telemetry[d.Driver] = d.Telemetry
		}
	}
	return sess
}
