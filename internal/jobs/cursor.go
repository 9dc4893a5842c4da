package jobs

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"vibe-jobs-gateway/internal/timeutil"
)

// EncodeCursorValue composes an opaque, URL-safe pagination cursor from a
// job's postedAt timestamp and numeric id. It exists so the loader can
// synthesize a resume point when it truncates a server page locally; only the
// server ever decodes cursors. Returns ok=false when either input fails to
// parse, in which case the caller must fall back to the server-supplied
// cursor or stop paginating.
func EncodeCursorValue(postedAt, id string) (string, bool) {
	t, ok := timeutil.ParseInstant(postedAt)
	if !ok {
		return "", false
	}
	numericID, err := strconv.ParseFloat(strings.TrimSpace(id), 64)
	if err != nil || math.IsNaN(numericID) || math.IsInf(numericID, 0) {
		return "", false
	}
	payload := strconv.FormatInt(t.UnixMilli(), 10) + ":" + strconv.FormatFloat(numericID, 'f', -1, 64)
	return base64.RawURLEncoding.EncodeToString([]byte(payload)), true
}
