package datahash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Pravee02/HIEI/internal/domain"
)

// ComputeDatasetHash computes a deterministic content hash of a category's
// rate history using SHA256. The hash keys the fitted-model cache and the
// forecast audit archive: a changed dataset changes the key.
// Formula: SHA256(category|date:rate|date:rate|...) over records in the
// order given. Returns hex-encoded hash (64 characters).
func ComputeDatasetHash(category domain.Category, records []*domain.RateRecord) string {
	var b strings.Builder
	b.WriteString(string(category))
	for _, r := range records {
		fmt.Fprintf(&b, "|%s:%.6f", r.Date.UTC().Format(domain.MonthLayout), r.Rate)
	}

	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:])
}
