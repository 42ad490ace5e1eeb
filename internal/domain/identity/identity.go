// Package identity decides what name a viewer sees for another user.
//
// Unknown users get a deterministic pseudonym derived only from their id.
// The same subject always maps to the same pseudonym across viewers and
// sessions, and the pseudonym never leaks partial real information such as
// initials or email fragments.
package identity

import (
	"fmt"
	"hash/fnv"
	"strings"
)

const (
	pseudonymPrefix   = "User_"
	pseudonymTokenLen = 6

	// fallbackName is shown when a known user has no usable profile name.
	fallbackName = "Player"
)

// DisplayName returns the string to show for subjectID from viewerID's
// point of view, plus whether it was anonymized. realName is the subject's
// profile display name and may be empty.
func DisplayName(viewerID, subjectID string, known bool, realName string) (string, bool) {
	if known || viewerID == subjectID {
		if name := strings.TrimSpace(realName); name != "" {
			return name, false
		}
		return fallbackName, false
	}
	return Pseudonym(subjectID), true
}

// Pseudonym derives the stable pseudonym for subjectID.
func Pseudonym(subjectID string) string {
	token := normalize(subjectID)
	if len(token) > pseudonymTokenLen {
		token = token[:pseudonymTokenLen]
	}
	if token == "" {
		// Ids with no alphanumeric content still need a stable token.
		h := fnv.New32a()
		_, _ = h.Write([]byte(subjectID))
		token = fmt.Sprintf("%06x", h.Sum32())[:pseudonymTokenLen]
	}
	return pseudonymPrefix + token
}

// normalize lowercases the id and strips everything but letters and digits.
func normalize(id string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(id) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
