package render

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync/atomic"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/gopxl/beep"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"go-stems/audio"
	"go-stems/midi"
	"go-stems/sequencer"
)

// Cache wraps a deterministic renderer and stores its output in Badger,
// keyed by renderer identity, sample rate and the track itself
type Cache struct {
	db       *badger.DB
	next     Renderer
	identity string
	log      *zap.SugaredLogger

	hits   atomic.Int64
	misses atomic.Int64
}

// OpenCache opens (or creates) a cache in dir. An empty dir keeps the
// cache in memory for the lifetime of the process.
func OpenCache(dir string, next Renderer, log *zap.SugaredLogger) (*Cache, error) {
	id, ok := next.(Identifier)
	if !ok {
		return nil, errors.New("cache: renderer has no identity, output is not cacheable")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	log = log.Named("cache")

	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{log})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open render cache: %w", err)
	}
	return &Cache{db: db, next: next, identity: id.Identity(), log: log}, nil
}

// Close flushes and closes the store
func (c *Cache) Close() error {
	return c.db.Close()
}

// Stats returns the hit and miss counts so far
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

type cacheKey struct {
	Identity   string      `msgpack:"id"`
	Rate       int         `msgpack:"rate"`
	Program    *uint8      `msgpack:"prog"`
	Percussive bool        `msgpack:"perc"`
	Notes      []midi.Note `msgpack:"notes"`
}

type cacheEntry struct {
	Rate   int          `msgpack:"rate"`
	Frames [][2]float64 `msgpack:"frames"`
}

// Key is the digest a track renders under. The instrument name and
// channel are left out: they do not change the sound.
func (c *Cache) Key(track sequencer.NoteTrack, rate beep.SampleRate) ([]byte, error) {
	data, err := msgpack.Marshal(cacheKey{
		Identity:   c.identity,
		Rate:       int(rate),
		Program:    track.Instrument.Program,
		Percussive: track.Instrument.Percussive(),
		Notes:      stripChannels(track.Notes),
	})
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	return append([]byte("render:"), sum[:]...), nil
}

func stripChannels(notes []midi.Note) []midi.Note {
	out := make([]midi.Note, len(notes))
	for i, n := range notes {
		n.Channel = 0
		out[i] = n
	}
	return out
}

func (c *Cache) Render(ctx context.Context, track sequencer.NoteTrack, rate beep.SampleRate) (*audio.Buffer, error) {
	key, err := c.Key(track, rate)
	if err != nil {
		return nil, wrap(track, err)
	}

	var entry cacheEntry
	err = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &entry)
		})
	})
	switch {
	case err == nil:
		c.hits.Add(1)
		c.log.Debugw("hit", "instrument", track.Instrument.Name)
		return &audio.Buffer{Rate: beep.SampleRate(entry.Rate), Frames: entry.Frames}, nil
	case !errors.Is(err, badger.ErrKeyNotFound):
		c.log.Warnw("read failed, rendering", "instrument", track.Instrument.Name, "error", err)
	}

	c.misses.Add(1)
	buf, err := c.next.Render(ctx, track, rate)
	if err != nil {
		return nil, err
	}

	data, err := msgpack.Marshal(cacheEntry{Rate: int(buf.Rate), Frames: buf.Frames})
	if err != nil {
		return nil, wrap(track, err)
	}
	if err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	}); err != nil {
		// a failed write only costs a re-render next time
		c.log.Warnw("write failed", "instrument", track.Instrument.Name, "error", err)
	}
	return buf.Clone(), nil
}

// badgerLogger routes badger's logging into zap
type badgerLogger struct {
	log *zap.SugaredLogger
}

func (l badgerLogger) Errorf(f string, args ...any)   { l.log.Errorf(f, args...) }
func (l badgerLogger) Warningf(f string, args ...any) { l.log.Warnf(f, args...) }
func (l badgerLogger) Infof(f string, args ...any)    { l.log.Debugf(f, args...) }
func (l badgerLogger) Debugf(f string, args ...any)   { l.log.Debugf(f, args...) }
