package memfs

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/GriffinCanCode/persistfs/internal/native"
)

// node is a file or directory. Every field except name, dir and parent is
// guarded by Provider.mu.
type node struct {
	name   string
	dir    bool
	parent *node

	children map[string]*node
	order    []string

	data     []byte
	typ      string
	modified time.Time
	removed  bool
}

func newNode(name string, dir bool, parent *node, now time.Time) *node {
	n := &node{name: name, dir: dir, parent: parent, modified: now}
	if dir {
		n.children = make(map[string]*node)
	}
	return n
}

func (n *node) fullPath() string {
	if n.parent == nil {
		return "/"
	}
	var segs []string
	for cur := n; cur.parent != nil; cur = cur.parent {
		segs = append(segs, cur.name)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return "/" + strings.Join(segs, "/")
}

func (n *node) add(child *node) {
	n.children[child.name] = child
	n.order = append(n.order, child.name)
}

// detach unlinks n from its parent and returns the bytes freed.
func (n *node) detach() int64 {
	parent := n.parent
	delete(parent.children, n.name)
	for i, name := range parent.order {
		if name == n.name {
			parent.order = append(parent.order[:i], parent.order[i+1:]...)
			break
		}
	}
	return n.markRemoved()
}

func (n *node) markRemoved() int64 {
	n.removed = true
	freed := int64(len(n.data))
	for _, c := range n.children {
		freed += c.markRemoved()
	}
	return freed
}

// absolute resolves p against base into a cleaned absolute path.
func absolute(base *node, p string) string {
	if strings.HasPrefix(p, "/") {
		return path.Clean(p)
	}
	return path.Clean(path.Join(base.fullPath(), p))
}

func split(abs string) []string {
	trimmed := strings.Trim(abs, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// find resolves an absolute path without creating anything.
// Callers must hold p.mu.
func (p *Provider) find(abs string) (*node, error) {
	cur := p.root
	for _, seg := range split(abs) {
		if !cur.dir {
			return nil, fmt.Errorf("%s: %w", abs, native.ErrTypeMismatch)
		}
		next := cur.children[seg]
		if next == nil {
			return nil, fmt.Errorf("%s: %w", abs, native.ErrNotFound)
		}
		cur = next
	}
	return cur, nil
}

// lookup resolves p relative to base, creating only the final segment when
// flags ask for it. Callers must hold p.mu.
func (p *Provider) lookup(base *node, rel string, flags native.Flags, wantDir bool) (*node, error) {
	if base.removed {
		return nil, fmt.Errorf("%s: %w", base.fullPath(), native.ErrNotFound)
	}
	if strings.ContainsRune(rel, 0) {
		return nil, fmt.Errorf("%q: %w", rel, native.ErrEncoding)
	}

	abs := absolute(base, rel)
	segs := split(abs)
	if len(segs) == 0 {
		if !wantDir {
			return nil, fmt.Errorf("%s: %w", abs, native.ErrTypeMismatch)
		}
		if flags.Create && flags.Exclusive {
			return nil, fmt.Errorf("%s: %w", abs, native.ErrPathExists)
		}
		return p.root, nil
	}

	parent, err := p.find("/" + strings.Join(segs[:len(segs)-1], "/"))
	if err != nil {
		return nil, err
	}
	if !parent.dir {
		return nil, fmt.Errorf("%s: %w", parent.fullPath(), native.ErrTypeMismatch)
	}

	name := segs[len(segs)-1]
	if existing := parent.children[name]; existing != nil {
		if flags.Create && flags.Exclusive {
			return nil, fmt.Errorf("%s: %w", abs, native.ErrPathExists)
		}
		if existing.dir != wantDir {
			return nil, fmt.Errorf("%s: %w", abs, native.ErrTypeMismatch)
		}
		return existing, nil
	}

	if !flags.Create {
		return nil, fmt.Errorf("%s: %w", abs, native.ErrNotFound)
	}

	created := newNode(name, wantDir, parent, p.now())
	parent.add(created)
	parent.modified = created.modified
	return created, nil
}
