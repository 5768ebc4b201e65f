// -----------------------------------------------------------------------
// Export Encoders - deterministic serializations of scraped data
// -----------------------------------------------------------------------

package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// filenameTimestampLayout keeps export filenames sortable.
const filenameTimestampLayout = "20060102_150405"

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

// Filename builds `<prefix>_<timestamp>.<ext>` for a download or attachment.
func Filename(prefix string, ext string, now time.Time) string {
	prefix = unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(prefix), "")
	if prefix == "" {
		prefix = "export"
	}
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format(filenameTimestampLayout), strings.TrimPrefix(ext, "."))
}
