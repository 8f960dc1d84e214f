package content

import (
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var slugClock struct {
	sync.Mutex
	last int64
}

// slugStamp returns a strictly increasing timestamp so repeated titles
// generated within the same clock tick still diverge.
func slugStamp() int64 {
	slugClock.Lock()
	defer slugClock.Unlock()

	now := time.Now().UnixNano()
	if now <= slugClock.last {
		now = slugClock.last + 1
	}
	slugClock.last = now
	return now
}

// Slugify derives a URL slug from an article title: lowercased,
// diacritics folded, punctuation stripped, whitespace collapsed to
// single hyphens, with a timestamp suffix so repeated titles stay unique
// without a round trip to the API.
func Slugify(title string) string {
	folded, _, err := transform.String(foldDiacritics, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	suffix := strconv.FormatInt(slugStamp(), 10)
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}
