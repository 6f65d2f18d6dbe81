// Package store keeps preprint and node records in a JSON file on disk.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/KaramelBytes/preprints/internal/content"
	"github.com/KaramelBytes/preprints/internal/utils"
	"github.com/google/uuid"
)

const (
	storeFileName = "store.json"
)

// ErrNotFound is returned when a preprint id is unknown.
var ErrNotFound = errors.New("preprint not found")

// Store is the on-disk collection of preprints and the nodes that own them.
type Store struct {
	Preprints map[string]*content.Preprint `json:"preprints"`
	Nodes     map[string]*content.Node     `json:"nodes"`
	UpdatedAt time.Time                    `json:"updated_at"`

	mu      sync.RWMutex `json:"-"`
	rootDir string       `json:"-"`
}

// New constructs an empty in-memory store rooted at dir. Call Save to persist.
func New(dir string) *Store {
	return &Store{
		Preprints: make(map[string]*content.Preprint),
		Nodes:     make(map[string]*content.Node),
		rootDir:   dir,
	}
}

// Open loads store.json from dir. A missing file yields an empty store.
func Open(dir string) (*Store, error) {
	path := filepath.Join(dir, storeFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(dir), nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}
	s := New(dir)
	if err := json.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("parse store %s: %w", path, err)
	}
	if s.Preprints == nil {
		s.Preprints = make(map[string]*content.Preprint)
	}
	if s.Nodes == nil {
		s.Nodes = make(map[string]*content.Node)
	}
	return s, nil
}

// Save writes store.json using atomic write.
func (s *Store) Save() error {
	if s.rootDir == "" {
		return errors.New("store root directory not set")
	}
	if err := utils.EnsureDir(s.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(s)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.rootDir, storeFileName), data)
}

// Put adds or replaces a preprint and, when given, its node. A preprint
// without an id gets a new one. Replacing a preprint keeps its node id unless
// the given node names another. The stored id is returned.
func (s *Store) Put(p content.Preprint, n *content.Node) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	prev, exists := s.Preprints[p.ID]
	if exists {
		if p.NodeID == "" {
			p.NodeID = prev.NodeID
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = prev.CreatedAt
		}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if n != nil {
		node := *n
		switch {
		case node.ID != "":
		case p.NodeID != "":
			node.ID = p.NodeID
		default:
			node.ID = uuid.NewString()
		}
		s.Nodes[node.ID] = &node
		p.NodeID = node.ID
	}
	s.Preprints[p.ID] = &p
	return p.ID
}

// Get returns copies of a preprint and its node. The node is nil when the
// preprint has none or it is missing from the store.
func (s *Store) Get(id string) (*content.Preprint, *content.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.Preprints[id]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	pc := *p
	var nc *content.Node
	if n, ok := s.Nodes[p.NodeID]; ok && p.NodeID != "" {
		cp := *n
		nc = &cp
	}
	return &pc, nc, nil
}

// List returns preprints sorted by id. A non-empty providerID filters to that
// provider.
func (s *Store) List(providerID string) []content.Preprint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]content.Preprint, 0, len(s.Preprints))
	for _, p := range s.Preprints {
		if providerID != "" && p.Provider != providerID {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
