package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IdempotencyStatus represents the lifecycle status of an idempotency record.
type IdempotencyStatus string

const (
	IdempotencyStatusInProgress IdempotencyStatus = "in_progress"
	IdempotencyStatusCompleted  IdempotencyStatus = "completed"
)

// Resolution classifies how a create call resolved against the idempotency
// store. Exactly one caller observes Miss for a given key.
type Resolution string

const (
	ResolutionMiss       Resolution = "miss"
	ResolutionHit        Resolution = "hit"
	ResolutionInProgress Resolution = "in_progress"
	ResolutionConflict   Resolution = "conflict"
)

// IdempotencyRecord maps a client-supplied idempotency key to the request
// fingerprint and the recorded outcome. The record is created in_progress at
// claim time and completed in the same commit as the payment's final state.
// Records are never deleted within request scope.
type IdempotencyRecord struct {
	// Key is the client-supplied idempotency key and the primary key.
	Key uuid.UUID
	// RequestHash is the deterministic digest of all business-relevant fields.
	RequestHash string
	// PaymentID is the payment pre-generated by the claiming caller.
	PaymentID uuid.UUID
	// Status is in_progress until the outcome is durably recorded.
	Status IdempotencyStatus
	// ResultStatus holds the payment's final status once completed.
	ResultStatus *PaymentStatus
	// ResultError holds the failure reason of the recorded outcome, if any.
	ResultError *string
	// CreatedAt is the UTC timestamp of the claim.
	CreatedAt time.Time
}

// ComputeRequestHash derives the request fingerprint hash from all
// business-relevant fields. Inputs must already be normalized (currency upper
// case, fingerprint trimmed) so that equivalent requests hash identically.
func ComputeRequestHash(orderID uuid.UUID, userID string, amount float64, currency, fingerprint string) string {
	s := strings.Join([]string{
		strings.ReplaceAll(orderID.String(), "-", ""),
		userID,
		strconv.FormatFloat(amount, 'f', 2, 64),
		currency,
		fingerprint,
	}, "|")

	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
