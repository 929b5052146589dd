package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/tandem-analyzer/internal/common"
	"github.com/Veraticus/tandem-analyzer/internal/model"
)

const (
	idPrefix        = "dataset_"
	idSuffixLength  = 9
	minRecordCount  = 1000
	recordCountSpan = 10000
	dateRangeDays   = 30
	uploadDateForm  = "2006-01-02"
	rangeDateForm   = "Jan 2"
)

var fileSizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// Builder turns uploaded file metadata into dataset records. All generated
// values come from its clock and random sources so tests can pin them.
type Builder struct {
	now         func() time.Time
	suffix      func() string
	recordCount func() int
}

// NewBuilder creates a builder backed by the wall clock and random values.
func NewBuilder() *Builder {
	return &Builder{
		now:    time.Now,
		suffix: randomSuffix,
		recordCount: func() int {
			return minRecordCount + rand.IntN(recordCountSpan)
		},
	}
}

// Build validates file and returns a new unselected dataset for it.
func (b *Builder) Build(file model.FileInfo) (model.Dataset, error) {
	if strings.TrimSpace(file.Name) == "" {
		return model.Dataset{}, fmt.Errorf("%w: file name is required", common.ErrInvalidDataset)
	}
	if file.Size < 0 {
		return model.Dataset{}, fmt.Errorf("%w: file size %d is negative", common.ErrInvalidDataset, file.Size)
	}

	now := b.now()
	return model.Dataset{
		ID:          b.NewID(),
		Name:        file.Name,
		UploadDate:  now.Format(uploadDateForm),
		FileSize:    FormatFileSize(file.Size),
		DateRange:   DateRangeEnding(now),
		RecordCount: b.recordCount(),
	}, nil
}

// NewID returns an identifier made of the current timestamp and a random suffix.
func (b *Builder) NewID() string {
	return idPrefix + strconv.FormatInt(b.now().UnixMilli(), 10) + "_" + b.suffix()
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLength]
}

// FormatFileSize renders a byte count with a 1024 base and at most one
// decimal, e.g. "0 Bytes", "1.5 KB", "2 MB". Sizes past gigabytes stay in GB.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	const k = 1024.0
	i := 0
	for i < len(fileSizeUnits)-1 && float64(bytes) >= math.Pow(k, float64(i+1)) {
		i++
	}

	value := math.Round(float64(bytes)/math.Pow(k, float64(i))*10) / 10
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + fileSizeUnits[i]
}

// DateRangeEnding describes the 30 days ending at end, e.g. "Sep 1 - Oct 1, 2024".
func DateRangeEnding(end time.Time) string {
	start := end.AddDate(0, 0, -dateRangeDays)
	return fmt.Sprintf("%s - %s, %d", start.Format(rangeDateForm), end.Format(rangeDateForm), end.Year())
}
