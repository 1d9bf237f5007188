// Package cstore holds the file table backing the crest HTTP service.
//
// Files are kept ordered by name,
// and the committed leaf for each file is the decimal rendering
// of its content hash.
// Keeping the order stable between root computation and proof generation
// is what makes served proofs verifiable;
// the core tree never sees the names, only the ordered leaf sequence.
package cstore

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/crest-engine/crest"
)

var ErrUnknownFile = errors.New("no file with the given name")

// Store is a mutable, name-ordered file table.
// All methods are safe for concurrent use;
// the crest operations themselves are pure,
// so the mutex only guards the table.
type Store struct {
	mu sync.Mutex

	h crest.Hasher

	// Sorted by name. The position of a file in this slice
	// is its leaf index in the committed tree.
	files []file
}

type file struct {
	Name    string
	Content []byte
	Sum     crest.HashValue
}

// New returns an empty store committing with the given hasher.
func New(h crest.Hasher) *Store {
	return &Store{h: h}
}

// Put inserts or replaces the file with the given name
// and returns the new root over the whole table.
func (s *Store) Put(name string, content []byte) crest.HashValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := file{
		Name:    name,
		Content: slices.Clone(content),
		Sum:     s.h.Sum64(content),
	}

	i, found := slices.BinarySearchFunc(s.files, name, func(f file, name string) int {
		return strings.Compare(f.Name, name)
	})
	if found {
		s.files[i] = f
	} else {
		s.files = slices.Insert(s.files, i, f)
	}

	return crest.Root(s.h, s.leavesLocked())
}

// Get returns the content of the named file.
func (s *Store) Get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, found := s.indexLocked(name)
	if !found {
		return nil, false
	}

	return slices.Clone(s.files[i].Content), true
}

// Len reports how many files the store holds.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.files)
}

// Names returns the file names in committed (sorted) order.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, len(s.files))
	for i, f := range s.files {
		names[i] = f.Name
	}

	return names
}

// Root returns the root over the current table.
// An empty table has the degenerate root 0.
func (s *Store) Root() crest.HashValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	return crest.Root(s.h, s.leavesLocked())
}

// Proof returns the root and the inclusion proof
// for the named file's committed leaf.
func (s *Store) Proof(name string) (crest.HashValue, crest.Proof, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, found := s.indexLocked(name)
	if !found {
		return 0, nil, fmt.Errorf("cannot prove %q: %w", name, ErrUnknownFile)
	}

	root, proof := crest.Prove(s.h, s.leavesLocked(), i)
	return root, proof, nil
}

// MultiProof returns the root, a compact multiproof covering the named files,
// and the committed leaves in the same order as the given names.
// Names must be distinct; a duplicate is reported as an error
// rather than reaching the core's caller-contract panic.
func (s *Store) MultiProof(names []string) (crest.HashValue, crest.CompactMultiProof, [][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	indices := make([]int, len(names))
	seen := make(map[string]bool, len(names))

	for j, name := range names {
		if seen[name] {
			return 0, crest.CompactMultiProof{}, nil, fmt.Errorf(
				"duplicate name %q in multiproof request", name,
			)
		}
		seen[name] = true

		i, found := s.indexLocked(name)
		if !found {
			return 0, crest.CompactMultiProof{}, nil, fmt.Errorf(
				"cannot prove %q: %w", name, ErrUnknownFile,
			)
		}

		indices[j] = i
	}

	leaves := s.leavesLocked()
	root, proof := crest.ProveMulti(s.h, leaves, indices)

	requested := make([][]byte, len(indices))
	for j, i := range indices {
		requested[j] = leaves[i]
	}

	return root, proof, requested, nil
}

// Leaf returns the committed leaf content for the named file:
// the decimal string of its content hash.
// A verifier recomputes this locally from downloaded content.
func Leaf(h crest.Hasher, content []byte) []byte {
	return []byte(strconv.FormatUint(uint64(h.Sum64(content)), 10))
}

func (s *Store) indexLocked(name string) (int, bool) {
	return slices.BinarySearchFunc(s.files, name, func(f file, name string) int {
		return strings.Compare(f.Name, name)
	})
}

func (s *Store) leavesLocked() [][]byte {
	leaves := make([][]byte, len(s.files))
	for i, f := range s.files {
		leaves[i] = []byte(strconv.FormatUint(uint64(f.Sum), 10))
	}

	return leaves
}
