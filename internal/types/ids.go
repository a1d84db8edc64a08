// internal/types/ids.go
package types

import "github.com/google/uuid"

type UserID string
type EventID string
type RequestID string

func NewRequestID() RequestID {
	return RequestID(uuid.New().String())
}
