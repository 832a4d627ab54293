package meta

import (
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// Info is the display metadata for one local photo.
type Info struct {
	TakenAt   string // Capture time from EXIF, or file mtime as fallback
	Camera    string // Camera model, empty when unavailable
	SizeBytes int64
	FromExif  bool
}

// Read extracts display metadata for a local image. Videos and images
// without EXIF fall back to filesystem metadata; Read never fails hard
// for a file that exists.
func Read(path string) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}

	info := Info{
		TakenAt:   fi.ModTime().Format("2006-01-02 15:04:05"),
		SizeBytes: fi.Size(),
	}

	f, err := os.Open(path)
	if err != nil {
		return info, nil
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return info, nil
	}

	if tm, err := x.DateTime(); err == nil {
		info.TakenAt = tm.Format("2006-01-02 15:04:05")
		info.FromExif = true
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if model, err := tag.StringVal(); err == nil {
			info.Camera = model
		}
	}

	return info, nil
}
