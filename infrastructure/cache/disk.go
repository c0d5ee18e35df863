package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// DiskStore persiste o cache em arquivos JSON, um por fingerprint
type DiskStore struct {
	dir string
	ttl time.Duration
}

func NewDiskStore(dir string, ttl time.Duration) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &DiskStore{dir: dir, ttl: ttl}, nil
}

func (s *DiskStore) path(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint+".json")
}

func (s *DiskStore) Get(fingerprint string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(fingerprint))
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		logrus.WithError(err).Warn("Entrada de cache corrompida, descartando")
		s.Invalidate(fingerprint)
		return nil, false
	}

	if e.expired(s.ttl, time.Now()) {
		s.Invalidate(fingerprint)
		return nil, false
	}

	return e.Payload, true
}

func (s *DiskStore) Set(fingerprint string, payload []byte) {
	data, err := json.Marshal(&entry{Payload: payload, FetchedAt: time.Now()})
	if err != nil {
		logrus.WithError(err).Warn("Erro ao serializar entrada de cache")
		return
	}

	if err := os.WriteFile(s.path(fingerprint), data, 0o644); err != nil {
		logrus.WithError(err).Warn("Erro ao gravar entrada de cache")
	}
}

func (s *DiskStore) Invalidate(fingerprint string) {
	if err := os.Remove(s.path(fingerprint)); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("Erro ao remover entrada de cache")
	}
}
