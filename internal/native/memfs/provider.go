package memfs

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/persistfs/internal/async"
	"github.com/GriffinCanCode/persistfs/internal/native"
)

const (
	MiB = 1024 * 1024

	// DefaultCapacity is the most the provider will ever grant.
	DefaultCapacity int64 = 100 * MiB
	// DefaultQuota is the allowance before any grant.
	DefaultQuota int64 = 10 * MiB
	// DefaultOrigin prefixes every entry URL.
	DefaultOrigin = "http://localhost"
)

var _ native.Provider = (*Provider)(nil)

// Provider is an in-memory persistent storage area.
type Provider struct {
	sched  async.Scheduler
	logger *zap.Logger
	id     uuid.UUID
	origin string
	now    func() time.Time

	unsupported      bool
	denyQuota        bool
	denyFileSystem   bool
	denyUsage        bool
	initialAllowance int64

	mu       sync.Mutex
	capacity int64
	quota    int64
	used     int64
	root     *node
}

// Option configures a Provider.
type Option func(*Provider)

// WithCapacity sets the largest grant the provider will make.
func WithCapacity(bytes int64) Option {
	return func(p *Provider) { p.capacity = bytes }
}

// WithDefaultQuota sets the allowance in effect before any grant.
func WithDefaultQuota(bytes int64) Option {
	return func(p *Provider) { p.initialAllowance = bytes }
}

// WithOrigin sets the origin used in entry URLs.
func WithOrigin(origin string) Option {
	return func(p *Provider) { p.origin = origin }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

// WithUnsupported makes Supported report false and every negotiation fail.
func WithUnsupported() Option {
	return func(p *Provider) { p.unsupported = true }
}

// WithQuotaDenied makes every quota request fail.
func WithQuotaDenied() Option {
	return func(p *Provider) { p.denyQuota = true }
}

// WithFileSystemDenied makes every filesystem request fail.
func WithFileSystemDenied() Option {
	return func(p *Provider) { p.denyFileSystem = true }
}

// WithUsageDenied makes every usage query fail.
func WithUsageDenied() Option {
	return func(p *Provider) { p.denyUsage = true }
}

// New creates an empty provider delivering callbacks on sched.
func New(sched async.Scheduler, opts ...Option) *Provider {
	p := &Provider{
		sched:            sched,
		logger:           zap.NewNop(),
		id:               uuid.New(),
		origin:           DefaultOrigin,
		now:              time.Now,
		capacity:         DefaultCapacity,
		initialAllowance: DefaultQuota,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.origin = strings.TrimRight(p.origin, "/")
	p.quota = min(p.initialAllowance, p.capacity)
	p.root = newNode("", true, nil, p.now())

	return p
}

// Supported reports whether persistent storage is available.
func (p *Provider) Supported() bool {
	return !p.unsupported
}

// RequestQuota grants min(bytes, capacity) and raises the allowance to the
// grant when it is larger.
func (p *Provider) RequestQuota(bytes int64, onSuccess func(int64), onError func(error)) {
	p.sched.Schedule(func() {
		if p.unsupported {
			onError(native.ErrNotSupported)
			return
		}
		if p.denyQuota {
			p.logger.Warn("Quota request denied", zap.Int64("requested", bytes))
			onError(fmt.Errorf("quota request: %w", native.ErrSecurity))
			return
		}
		if bytes < 0 {
			onError(fmt.Errorf("negative quota request %d: %w", bytes, native.ErrInvalidModification))
			return
		}

		p.mu.Lock()
		granted := min(bytes, p.capacity)
		if granted > p.quota {
			p.quota = granted
		}
		quota := p.quota
		p.mu.Unlock()

		p.logger.Debug("Quota granted",
			zap.Int64("requested", bytes),
			zap.Int64("granted", granted),
			zap.Int64("allowance", quota),
		)
		onSuccess(granted)
	})
}

// QueryUsageAndQuota reports bytes used and the current allowance.
func (p *Provider) QueryUsageAndQuota(onSuccess func(used, quota int64), onError func(error)) {
	p.sched.Schedule(func() {
		if p.unsupported {
			onError(native.ErrNotSupported)
			return
		}
		if p.denyUsage {
			onError(fmt.Errorf("usage query: %w", native.ErrSecurity))
			return
		}

		p.mu.Lock()
		used, quota := p.used, p.quota
		p.mu.Unlock()

		onSuccess(used, quota)
	})
}

// RequestFileSystem hands out the storage root.
func (p *Provider) RequestFileSystem(size int64, onSuccess func(native.FileSystem), onError func(error)) {
	p.sched.Schedule(func() {
		if p.unsupported {
			onError(native.ErrNotSupported)
			return
		}
		if p.denyFileSystem {
			p.logger.Warn("Filesystem request denied", zap.Int64("size", size))
			onError(fmt.Errorf("filesystem request: %w", native.ErrSecurity))
			return
		}

		p.logger.Debug("Filesystem acquired", zap.String("name", p.name()), zap.Int64("size", size))
		onSuccess(&fileSystem{p: p})
	})
}

// ResolveLocalFileSystemURL resolves a filesystem: URL under this origin.
func (p *Provider) ResolveLocalFileSystemURL(rawURL string, onSuccess func(native.Entry), onError func(error)) {
	p.sched.Schedule(func() {
		fullPath, err := p.parseURL(rawURL)
		if err != nil {
			onError(err)
			return
		}

		p.mu.Lock()
		n, err := p.find(fullPath)
		p.mu.Unlock()
		if err != nil {
			onError(err)
			return
		}
		onSuccess(p.wrap(n))
	})
}

// Usage returns bytes used and the allowance, synchronously.
func (p *Provider) Usage() (used, quota int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.used, p.quota
}

func (p *Provider) name() string {
	return p.id.String() + ":Persistent"
}

// reserve accounts for a size change of delta bytes.
// Callers must hold p.mu.
func (p *Provider) reserve(delta int64) error {
	if delta > 0 && p.used+delta > p.quota {
		return fmt.Errorf("need %d more bytes, %d of %d used: %w", delta, p.used, p.quota, native.ErrQuotaExceeded)
	}
	p.used += delta
	return nil
}

type fileSystem struct {
	p *Provider
}

func (fs *fileSystem) Name() string {
	return fs.p.name()
}

func (fs *fileSystem) Root() native.DirectoryEntry {
	return &dirEntry{entry{p: fs.p, n: fs.p.root}}
}
