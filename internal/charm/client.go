// ABOUTME: Charm KV client wrapper using the transactional Do API.
// ABOUTME: Opens the store per operation so other post processes are not locked out.

package charm

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	charmproto "github.com/charmbracelet/charm/proto"
	"github.com/charmbracelet/log"
)

const (
	// DBName is the name of the charm kv database for post.
	DBName = "post"
)

// Client holds configuration for KV operations. It holds no connection;
// each call opens the database, does its work and closes it.
type Client struct {
	dbName         string
	autoSync       bool
	staleThreshold time.Duration
	logger         *log.Logger
}

type Option func(*Client)

func WithDBName(name string) Option {
	return func(c *Client) {
		c.dbName = name
	}
}

// WithAutoSync enables or disables a sync after every write.
func WithAutoSync(enabled bool) Option {
	return func(c *Client) {
		c.autoSync = enabled
	}
}

func WithStaleThreshold(d time.Duration) Option {
	return func(c *Client) {
		c.staleThreshold = d
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient builds a client from the saved config, then applies opts.
func NewClient(opts ...Option) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.CharmHost != "" {
		if err := os.Setenv("CHARM_HOST", cfg.CharmHost); err != nil {
			return nil, err
		}
	}

	c := &Client{
		dbName:         DBName,
		autoSync:       cfg.AutoSync,
		staleThreshold: cfg.StaleThreshold.Duration(),
		logger:         log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get retrieves a value by key.
func (c *Client) Get(key []byte) ([]byte, error) {
	if err := c.SyncIfStale(); err != nil {
		return nil, err
	}
	var val []byte
	err := kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		var err error
		val, err = k.Get(key)
		return err
	})
	return val, err
}

func (c *Client) Set(key, value []byte) error {
	return c.Do(func(k *kv.KV) error {
		return k.Set(key, value)
	})
}

func (c *Client) Delete(key []byte) error {
	return c.Do(func(k *kv.KV) error {
		return k.Delete(key)
	})
}

// DoReadOnly runs fn with read-only access. Use it for batches of reads.
func (c *Client) DoReadOnly(fn func(k *kv.KV) error) error {
	if err := c.SyncIfStale(); err != nil {
		return err
	}
	return kv.DoReadOnly(c.dbName, fn)
}

// Do runs fn with write access and syncs afterwards when auto-sync is on.
func (c *Client) Do(fn func(k *kv.KV) error) error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		if err := fn(k); err != nil {
			return err
		}
		if c.autoSync {
			c.logger.Debug("auto-sync after write", "db", c.dbName)
			return k.Sync()
		}
		return nil
	})
}

// Sync exchanges pending changes with the charm server.
func (c *Client) Sync() error {
	c.logger.Debug("syncing", "db", c.dbName)
	return kv.Do(c.dbName, func(k *kv.KV) error {
		return k.Sync()
	})
}

func (c *Client) LastSyncTime() time.Time {
	var lastSync time.Time
	_ = kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		lastSync = k.LastSyncTime()
		return nil
	})
	return lastSync
}

// IsStale reports whether the last sync is older than the threshold. A zero
// threshold never goes stale.
func (c *Client) IsStale() bool {
	if c.staleThreshold == 0 {
		return false
	}
	var isStale bool
	_ = kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		isStale = k.IsStale(c.staleThreshold)
		return nil
	})
	return isStale
}

func (c *Client) SyncIfStale() error {
	if !c.IsStale() {
		return nil
	}
	c.logger.Info("data stale, syncing", "threshold", c.staleThreshold)
	return c.Sync()
}

// Reset wipes the local copy of the store.
func (c *Client) Reset() error {
	c.logger.Warn("resetting local charm store", "db", c.dbName)
	return kv.Do(c.dbName, func(k *kv.KV) error {
		return k.Reset()
	})
}

// ID returns the charm user ID for this device.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", err
	}
	return cc.ID()
}

func (c *Client) User() (*charmproto.User, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return nil, err
	}
	return cc.Bio()
}

// Link registers this device with the charm server, creating the account
// keys on first use.
func (c *Client) Link() error {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return err
	}
	_, err = cc.Bio()
	return err
}

// Unlink drops the local store so this device no longer mirrors the account.
func (c *Client) Unlink() error {
	return c.Reset()
}
