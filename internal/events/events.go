// Package events publishes change notifications for asset records.
//
// Notifications are emitted after a call commits and describe the resulting
// state. They are a delivery stream for downstream consumers, not a stored
// history: nothing in this service reads them back.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rwagate/internal/asset/models"
	"rwagate/pkg/domain"
	"rwagate/pkg/requestcontext"
)

// Type names a notification.
type Type string

const (
	TypeAssetCreated                 Type = "asset_created"
	TypeAssetUpdated                 Type = "asset_updated"
	TypeExtraAccountMetasInitialized Type = "extra_account_metas_initialized"
)

// Event is one change notification.
type Event struct {
	ID         string               `json:"id"`
	Type       Type                 `json:"type"`
	ProgramID  string               `json:"program_id"`
	Mint       string               `json:"mint,omitempty"`
	Account    string               `json:"account"`
	Changed    []string             `json:"changed,omitempty"`
	Asset      *models.AssetDetails `json:"asset,omitempty"`
	RequestID  string               `json:"request_id,omitempty"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// New stamps an event with an id, the call time and the request id from ctx.
func New(ctx context.Context, typ Type, program, account domain.Address) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		ProgramID:  program.String(),
		Account:    account.String(),
		RequestID:  requestcontext.RequestID(ctx),
		OccurredAt: requestcontext.Now(ctx).UTC(),
	}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
