package cache

import "time"

// Store é um cache chave-valor de respostas da API. A chave é o fingerprint
// da requisição; o valor é o payload bruto com o instante da busca
type Store interface {
	Get(fingerprint string) ([]byte, bool)
	Set(fingerprint string, payload []byte)
	Invalidate(fingerprint string)
}

type entry struct {
	Payload   []byte    `json:"payload"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (e *entry) expired(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(e.FetchedAt) > ttl
}
