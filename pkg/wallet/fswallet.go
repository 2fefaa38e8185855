/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package wallet

import (
	"os"
	"path/filepath"
)

const dataFileExtension = ".id"

// fileSystemStore keeps one file per label under a wallet directory.
// O_EXCL on create makes Put insert-if-absent across processes.
type fileSystemStore struct {
	path string
}

// NewFileSystemWallet creates a wallet persisted under path, creating the
// directory if needed.
func NewFileSystemWallet(path string) (*Wallet, error) {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(cleanPath, 0750); err != nil {
		return nil, err
	}

	return NewWallet(&fileSystemStore{cleanPath}), nil
}

func (fsw *fileSystemStore) pathname(label string) string {
	return filepath.Clean(filepath.Join(fsw.path, label) + dataFileExtension)
}

// Put writes the identity file for label. The exclusive create flag turns
// a concurrent double-insert into exactly one winner.
func (fsw *fileSystemStore) Put(label string, content []byte) error {
	f, err := os.OpenFile(fsw.pathname(label), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			return errAlreadyExists(label)
		}
		return err
	}

	if _, err := f.Write(content); err != nil {
		_ = f.Close() // ignore error; Write error takes precedence
		return err
	}

	return f.Close()
}

func (fsw *fileSystemStore) Get(label string) ([]byte, error) {
	content, err := os.ReadFile(fsw.pathname(label))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errNotFound(label)
		}
		return nil, err
	}
	return content, nil
}

func (fsw *fileSystemStore) Remove(label string) error {
	_ = os.Remove(fsw.pathname(label))
	return nil
}

func (fsw *fileSystemStore) Exists(label string) bool {
	_, err := os.Stat(fsw.pathname(label))
	return err == nil
}

func (fsw *fileSystemStore) List() ([]string, error) {
	files, err := os.ReadDir(fsw.path)
	if err != nil {
		return nil, err
	}

	var labels []string
	for _, file := range files {
		name := file.Name()
		if filepath.Ext(name) == dataFileExtension {
			labels = append(labels, name[:len(name)-len(dataFileExtension)])
		}
	}

	return labels, nil
}
