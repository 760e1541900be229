package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/assetnote/httpfetch/pkg/http"
	humanize "github.com/dustin/go-humanize"
	"github.com/francoispqt/gojay"
	"github.com/olekukonko/tablewriter"
)

// Writer renders responses for the CLI
type Writer struct {
	Out    io.Writer
	Format Format
	// Include prints the status line and the response headers along with the body
	Include bool
}

type WriterOption func(w *Writer)

func OutputFormat(v Format) WriterOption {
	return func(w *Writer) {
		w.Format = v
	}
}

func Include(v bool) WriterOption {
	return func(w *Writer) {
		w.Include = v
	}
}

func NewWriter(out io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{Out: out, Format: Pretty}
	for _, o := range opts {
		o(w)
	}
	return w
}

// WriteResponse renders a single response. The response is waited on first
func (w *Writer) WriteResponse(resp *http.Response) error {
	resp.Wait()
	switch w.Format {
	case JSON:
		enc := gojay.BorrowEncoder(w.Out)
		defer enc.Release()
		if err := enc.EncodeObject(resp); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		_, err := io.WriteString(w.Out, "\n")
		return err
	case Plain:
		if w.Include {
			if err := w.writeRawHead(resp); err != nil {
				return err
			}
		}
	case Pretty:
		fallthrough
	default:
		if w.Include {
			w.writeHeadTable(resp)
		}
	}
	_, err := w.Out.Write(resp.Body)
	return err
}

// writeRawHead writes the status line and headers the way they appear on the wire
func (w *Writer) writeRawHead(resp *http.Response) error {
	version := resp.HTTPVersion
	if version == "" {
		version = "HTTP/1.1"
	}
	if _, err := fmt.Fprintf(w.Out, "%s %d\r\n", version, resp.Status); err != nil {
		return err
	}
	for _, k := range resp.Headers.Keys() {
		for _, v := range resp.Headers.Values(k) {
			h := http.Header{Key: k, Value: v}
			if _, err := h.Write(w.Out); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w.Out, "\r\n")
	return err
}

func (w *Writer) writeHeadTable(resp *http.Response) {
	fmt.Fprintf(w.Out, "%s %d (%s, %d redirects)\n", resp.URL, resp.Status, humanize.Bytes(uint64(len(resp.Body))), resp.Redirects)
	table := tablewriter.NewWriter(w.Out)
	table.SetHeader([]string{"header", "value"})
	table.SetAutoWrapText(false)
	for _, k := range resp.Headers.Keys() {
		for _, v := range resp.Headers.Values(k) {
			table.Append([]string{k, v})
		}
	}
	table.Render()
}

// responses is a gojay array of responses. nil entries are encoded as null
type responses []*http.Response

func (r responses) MarshalJSONArray(enc *gojay.Encoder) {
	for _, v := range r {
		if v == nil {
			enc.AddNull()
			continue
		}
		enc.Object(v)
	}
}

func (r responses) IsNil() bool {
	return r == nil
}

// WriteSummary renders one line per url. urls and resps are indexed alike, a nil response is a url that
// failed before reaching the handler
func (w *Writer) WriteSummary(urls []string, resps []*http.Response) error {
	switch w.Format {
	case JSON:
		enc := gojay.BorrowEncoder(w.Out)
		defer enc.Release()
		if err := enc.EncodeArray(responses(resps)); err != nil {
			return fmt.Errorf("failed to encode responses: %w", err)
		}
		_, err := io.WriteString(w.Out, "\n")
		return err
	case Plain:
		for i, u := range urls {
			if _, err := fmt.Fprintln(w.Out, TabString(summaryRow(u, resps[i])...)); err != nil {
				return err
			}
		}
	case Pretty:
		fallthrough
	default:
		table := tablewriter.NewWriter(w.Out)
		table.SetHeader([]string{"url", "status", "size", "redirects", "error"})
		table.SetAutoWrapText(false)
		for i, u := range urls {
			table.Append(summaryRow(u, resps[i]))
		}
		table.Render()
	}
	return nil
}

func summaryRow(url string, resp *http.Response) []string {
	if resp == nil {
		return []string{url, "-", "-", "-", "failed"}
	}
	resp.Wait()
	errStr := ""
	if resp.Error != nil {
		errStr = resp.Error.Error()
	}
	return []string{
		url,
		strconv.Itoa(resp.Status),
		humanize.Bytes(uint64(len(resp.Body))),
		strconv.Itoa(resp.Redirects),
		errStr,
	}
}
