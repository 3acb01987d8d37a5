package media

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// TakenAt extracts the capture time from a photo's EXIF block
// (DateTimeOriginal, falling back to DateTime). The second return is
// false when the photo carries no usable EXIF timestamp; callers treat
// that softly and use the upload time instead.
func TakenAt(photo []byte) (time.Time, bool) {
	x, err := exif.Decode(bytes.NewReader(photo))
	if err != nil {
		return time.Time{}, false
	}

	t, err := x.DateTime()
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Stale reports whether a capture time falls outside the freshness
// window. Photos from the future count as stale too; a camera clock
// that far off is indistinguishable from a re-used photo.
func Stale(takenAt, now time.Time, maxAge time.Duration) bool {
	if takenAt.After(now.Add(5 * time.Minute)) {
		return true
	}
	return now.Sub(takenAt) > maxAge
}
