package datahash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ComputeRecordID computes a deterministic household record ID using SHA256.
// Formula: SHA256(household_id|created_at_unix_ms)
// Returns hex-encoded hash (64 characters).
func ComputeRecordID(householdID string, createdAt time.Time) string {
	data := fmt.Sprintf("%s|%d", householdID, createdAt.UTC().UnixMilli())

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
