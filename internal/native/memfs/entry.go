package memfs

import (
	"fmt"

	"github.com/GriffinCanCode/persistfs/internal/blob"
	"github.com/GriffinCanCode/persistfs/internal/native"
)

var (
	_ native.DirectoryEntry = (*dirEntry)(nil)
	_ native.FileEntry      = (*fileEntry)(nil)
)

type entry struct {
	p *Provider
	n *node
}

func (e entry) Name() string      { return e.n.name }
func (e entry) FullPath() string  { return e.n.fullPath() }
func (e entry) IsFile() bool      { return !e.n.dir }
func (e entry) IsDirectory() bool { return e.n.dir }
func (e entry) ToURL() string     { return e.p.entryURL(e.n.fullPath()) }

// Remove deletes a file or an empty directory.
func (e entry) Remove(onSuccess func(), onError func(error)) {
	e.p.sched.Schedule(func() {
		e.p.mu.Lock()
		err := e.p.remove(e.n, false)
		e.p.mu.Unlock()

		if err != nil {
			onError(err)
			return
		}
		onSuccess()
	})
}

// remove unlinks n. Callers must hold p.mu.
func (p *Provider) remove(n *node, recursive bool) error {
	switch {
	case n.parent == nil:
		return fmt.Errorf("cannot remove root: %w", native.ErrInvalidModification)
	case n.removed:
		return fmt.Errorf("%s: %w", n.fullPath(), native.ErrNotFound)
	case n.dir && !recursive && len(n.children) > 0:
		return fmt.Errorf("%s is not empty: %w", n.fullPath(), native.ErrInvalidModification)
	}

	n.parent.modified = p.now()
	p.used -= n.detach()
	return nil
}

func (p *Provider) wrap(n *node) native.Entry {
	if n.dir {
		return &dirEntry{entry{p: p, n: n}}
	}
	return &fileEntry{entry{p: p, n: n}}
}

type dirEntry struct {
	entry
}

func (d *dirEntry) GetDirectory(path string, flags native.Flags, onSuccess func(native.DirectoryEntry), onError func(error)) {
	d.p.sched.Schedule(func() {
		d.p.mu.Lock()
		n, err := d.p.lookup(d.n, path, flags, true)
		d.p.mu.Unlock()

		if err != nil {
			onError(err)
			return
		}
		onSuccess(&dirEntry{entry{p: d.p, n: n}})
	})
}

func (d *dirEntry) GetFile(path string, flags native.Flags, onSuccess func(native.FileEntry), onError func(error)) {
	d.p.sched.Schedule(func() {
		d.p.mu.Lock()
		n, err := d.p.lookup(d.n, path, flags, false)
		d.p.mu.Unlock()

		if err != nil {
			onError(err)
			return
		}
		onSuccess(&fileEntry{entry{p: d.p, n: n}})
	})
}

func (d *dirEntry) CreateReader() native.DirectoryReader {
	return &dirReader{d: d}
}

func (d *dirEntry) RemoveRecursively(onSuccess func(), onError func(error)) {
	d.p.sched.Schedule(func() {
		d.p.mu.Lock()
		err := d.p.remove(d.n, true)
		d.p.mu.Unlock()

		if err != nil {
			onError(err)
			return
		}
		onSuccess()
	})
}

// dirReader returns every child on the first call and an empty batch after.
type dirReader struct {
	d    *dirEntry
	done bool
}

func (r *dirReader) ReadEntries(onSuccess func([]native.Entry), onError func(error)) {
	p := r.d.p
	p.sched.Schedule(func() {
		p.mu.Lock()
		n := r.d.n
		if n.removed {
			p.mu.Unlock()
			onError(fmt.Errorf("%s: %w", n.fullPath(), native.ErrNotFound))
			return
		}
		if r.done {
			p.mu.Unlock()
			onSuccess([]native.Entry{})
			return
		}
		r.done = true

		entries := make([]native.Entry, 0, len(n.order))
		for _, name := range n.order {
			entries = append(entries, p.wrap(n.children[name]))
		}
		p.mu.Unlock()

		onSuccess(entries)
	})
}

type fileEntry struct {
	entry
}

func (f *fileEntry) CreateWriter(onSuccess func(native.FileWriter), onError func(error)) {
	f.p.sched.Schedule(func() {
		f.p.mu.Lock()
		removed := f.n.removed
		f.p.mu.Unlock()

		if removed {
			onError(fmt.Errorf("%s: %w", f.n.fullPath(), native.ErrNotFound))
			return
		}
		onSuccess(&fileWriter{p: f.p, n: f.n})
	})
}

func (f *fileEntry) File(onSuccess func(*native.File), onError func(error)) {
	f.p.sched.Schedule(func() {
		f.p.mu.Lock()
		if f.n.removed {
			f.p.mu.Unlock()
			onError(fmt.Errorf("%s: %w", f.n.fullPath(), native.ErrNotFound))
			return
		}
		file := &native.File{
			Blob:         blob.New(f.n.data, f.n.typ),
			Name:         f.n.name,
			LastModified: f.n.modified,
		}
		f.p.mu.Unlock()

		onSuccess(file)
	})
}
