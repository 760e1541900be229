package output

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar counts completed requests on the given writer, usually stderr
type ProgressBar struct {
	Requests *progressbar.ProgressBar
}

func NewProgress(w io.Writer, max int64, visible bool) *ProgressBar {
	requestb := progressbar.NewOptions64(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowIts(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionSpinnerType(14),
	)
	return &ProgressBar{
		Requests: requestb,
	}
}

func (b *ProgressBar) Incr(n int64) {
	b.Requests.Add64(n)
}

func (b *ProgressBar) Finish() {
	b.Requests.Finish()
}
