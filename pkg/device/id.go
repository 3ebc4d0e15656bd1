package device

import (
	"regexp"
	"strings"
)

// MaxIDLength bounds ids derived from device names.
const MaxIDLength = 48

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	idStripRe    = regexp.MustCompile(`[^a-z0-9_]`)
)

// DeriveID turns a display name into a registry id: lower-cased, whitespace
// runs replaced by "_", other non-alphanumerics dropped, truncated.
// "Living Room Plug" becomes "living_room_plug".
func DeriveID(name string) string {
	id := strings.ToLower(strings.TrimSpace(name))
	id = whitespaceRe.ReplaceAllString(id, "_")
	id = idStripRe.ReplaceAllString(id, "")
	id = strings.Trim(id, "_")
	if len(id) > MaxIDLength {
		id = strings.TrimRight(id[:MaxIDLength], "_")
	}
	return id
}
