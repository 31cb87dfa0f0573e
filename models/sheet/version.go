package sheetmodels

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ContentVersion is the etag of a stored row. Trailing empty cells do not count, so a
// ragged read and a padded read of the same row agree.
func ContentVersion(cells []string) string {
	end := len(cells)
	for end > 0 && strings.TrimSpace(cells[end-1]) == "" {
		end--
	}
	sum := sha256.Sum256([]byte(strings.Join(cells[:end], "\x1f")))
	return hex.EncodeToString(sum[:8])
}
