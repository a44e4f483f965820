package id

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// DedupLen is the length of a dedup key in hex characters (128 bits).
const DedupLen = 32

// dedupSep joins the hashed fields. It does not occur in dates or integers and
// is rare enough in payee names and notes.
const dedupSep = "|"

// DedupID returns the content-derived import key for a transaction: the first
// 32 hex characters of SHA-256 over "date|amount|payee|notes".
// date must already be in yyyy-mm-dd form and amount in minor units.
func DedupID(date string, amount int64, payee, notes string) string {
	data := strings.Join([]string{date, strconv.FormatInt(amount, 10), payee, notes}, dedupSep)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])[:DedupLen]
}

// IsDedupID reports whether s looks like a key produced by DedupID.
func IsDedupID(s string) bool {
	if len(s) != DedupLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
