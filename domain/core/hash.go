package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// DatasetFingerprint identifies one snapshot of an uploaded dataset.
type DatasetFingerprint Hash

func (h DatasetFingerprint) String() string { return Hash(h).String() }

// ComputeDatasetFingerprint hashes column order and cell values row by row.
// Missing cells hash as an empty field so that nil and absent are the same snapshot.
func ComputeDatasetFingerprint(columns []string, rows []map[string]interface{}) DatasetFingerprint {
	var data strings.Builder
	data.WriteString(strings.Join(columns, "\x1f"))
	data.WriteByte('\n')
	for _, row := range rows {
		for i, col := range columns {
			if i > 0 {
				data.WriteByte('\x1f')
			}
			if v, ok := row[col]; ok && v != nil {
				data.WriteString(fmt.Sprintf("%v", v))
			}
		}
		data.WriteByte('\n')
	}
	return DatasetFingerprint(NewHash([]byte(data.String())))
}
