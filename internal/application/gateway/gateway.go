// Package gateway defines the contract between the ledger services and the
// tenant-scoped record store. Writes are local-first: the repository save is
// the hard path, and remote replication is a separate best-effort step that
// never blocks or rolls back an operation.
package gateway

import (
	"context"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RecordReplicator pushes saved records toward the remote store. A failed
// replication is a soft, user-notifiable condition, not an operation failure.
type RecordReplicator interface {
	// Replicate pushes a record under collection and tenant scope
	Replicate(ctx context.Context, collection string, tenantID uuid.UUID, recordID uuid.UUID, record any) error

	// Remove deletes a record from the remote store
	Remove(ctx context.Context, collection string, tenantID uuid.UUID, recordID uuid.UUID) error
}

// SyncStatus reports where a mutation has been persisted. PersistedLocally is
// always true on a successful operation; PersistedRemotely=false means the
// remote leg failed or is disabled and the record will be retried by a later
// write.
type SyncStatus struct {
	PersistedLocally  bool   `json:"persisted_locally"`
	PersistedRemotely bool   `json:"persisted_remotely"`
	RemoteError       string `json:"remote_error,omitempty"`
}

// SyncComplete reports a mutation persisted on both legs
func SyncComplete() SyncStatus {
	return SyncStatus{PersistedLocally: true, PersistedRemotely: true}
}

// SyncRemoteFailed reports a mutation kept locally after the remote leg
// failed. The coded error rides the response so clients can flag the record
// for a later retry.
func SyncRemoteFailed() SyncStatus {
	return SyncStatus{
		PersistedLocally: true,
		RemoteError:      shared.ErrRemoteSyncFailed.Code,
	}
}

// NoopReplicator satisfies RecordReplicator for deployments without a remote
// store and for tests
type NoopReplicator struct{}

// Replicate implements RecordReplicator
func (NoopReplicator) Replicate(ctx context.Context, collection string, tenantID uuid.UUID, recordID uuid.UUID, record any) error {
	return nil
}

// Remove implements RecordReplicator
func (NoopReplicator) Remove(ctx context.Context, collection string, tenantID uuid.UUID, recordID uuid.UUID) error {
	return nil
}
