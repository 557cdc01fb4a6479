package service

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// NormalizeParticipants returns a sorted copy of ids without duplicates or blanks.
func NormalizeParticipants(ids ...string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ConversationKey derives the document ID shared by every conversation with the
// same participant set and scope, regardless of participant order.
func ConversationKey(participants []string, serviceID, bookingID string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(NormalizeParticipants(participants...), "\x1f")))
	h.Write([]byte{0x1e})
	h.Write([]byte(serviceID))
	h.Write([]byte{0x1e})
	h.Write([]byte(bookingID))
	return hex.EncodeToString(h.Sum(nil))[:40]
}
