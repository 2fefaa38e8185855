/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package wallet

import "sync"

// inMemoryStore holds identities in process memory. Used by tests and
// ephemeral deployments; contents are lost on restart.
type inMemoryStore struct {
	mu      sync.RWMutex
	storage map[string][]byte
}

// NewInMemoryWallet creates a wallet held in memory.
func NewInMemoryWallet() *Wallet {
	return NewWallet(&inMemoryStore{storage: make(map[string][]byte)})
}

// Put inserts content under label. The check and insert happen under one
// write lock, so concurrent puts for a new label have exactly one winner.
func (mem *inMemoryStore) Put(label string, content []byte) error {
	mem.mu.Lock()
	defer mem.mu.Unlock()

	if _, ok := mem.storage[label]; ok {
		return errAlreadyExists(label)
	}

	mem.storage[label] = content
	return nil
}

func (mem *inMemoryStore) Get(label string) ([]byte, error) {
	mem.mu.RLock()
	defer mem.mu.RUnlock()

	content, ok := mem.storage[label]
	if !ok {
		return nil, errNotFound(label)
	}
	return content, nil
}

func (mem *inMemoryStore) Remove(label string) error {
	mem.mu.Lock()
	defer mem.mu.Unlock()

	delete(mem.storage, label)
	return nil
}

func (mem *inMemoryStore) Exists(label string) bool {
	mem.mu.RLock()
	defer mem.mu.RUnlock()

	_, ok := mem.storage[label]
	return ok
}

func (mem *inMemoryStore) List() ([]string, error) {
	mem.mu.RLock()
	defer mem.mu.RUnlock()

	labels := make([]string, 0, len(mem.storage))
	for label := range mem.storage {
		labels = append(labels, label)
	}
	return labels, nil
}
