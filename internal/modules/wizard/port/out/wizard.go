package out

import "context"

// Slot is the durable key-value slot holding one serialized session.
// Load returns apperrors.ErrSlotEmpty when nothing is stored.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
	Remove(ctx context.Context) error
}
