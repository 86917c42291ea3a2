package entity

import "time"

// IdempotencyKey respuesta registrada para un Idempotency-Key. ResponseStatus 0 = en curso.
type IdempotencyKey struct {
	Key            string
	RequestHash    string
	Method         string
	Path           string
	ResponseStatus int
	ResponseBody   []byte
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// Completed indica si ya hay respuesta almacenada.
func (k *IdempotencyKey) Completed() bool {
	return k.ResponseStatus != 0
}
