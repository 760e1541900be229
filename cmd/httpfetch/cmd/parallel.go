package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/assetnote/httpfetch/internal/output"
	"github.com/assetnote/httpfetch/pkg/context"
	errors2 "github.com/assetnote/httpfetch/pkg/errors"
	"github.com/assetnote/httpfetch/pkg/http"
	"github.com/assetnote/httpfetch/pkg/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/valyala/fasttemplate"
)

var (
	parallelRange = ""
)

// parallelCmd represents the parallel command
var parallelCmd = &cobra.Command{
	Use:   "parallel URL... [--range 1-10]",
	Short: "perform many requests concurrently and summarise the responses",
	Long: `perform many requests concurrently. every request is dispatched before any is waited on,
so the fast transport keeps them all in flight at once.

with --range, {n} in each url is replaced by every value of the range.
use - to read urls from stdin

usage:
httpfetch parallel http://localhost:14000/index http://localhost:14000/redirect
httpfetch parallel 'http://localhost:14000/item/{n}' --range 1-100
cat urls.txt | httpfetch parallel - -o json
`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 && args[0] == "-" {
			var err error
			if args, err = readLines(os.Stdin); err != nil {
				log.Fatal().Err(err).Msg("failed to read from stdin")
			}
		}

		urls := args
		if parallelRange != "" {
			r, err := http.RangeFromString(parallelRange)
			if err != nil {
				log.Fatal().Err(err).Msg("invalid range")
			}
			urls = expandURLs(args, r)
		}

		opts, err := requestOptions()
		if err != nil {
			log.Fatal().Err(err).Msg("invalid request flags")
		}

		ctx, cancel := context.WithTimeout(viper.GetDuration("max-time"))
		defer cancel()

		w := outputWriter()
		pb := output.NewProgress(os.Stderr, int64(len(urls)), !viper.GetBool("quiet") && w.Format == output.Pretty)
		resps, err := newDispatcher().FetchAllCallback(ctx, urls, func(i int, r *http.Response) {
			pb.Incr(1)
		}, opts...)
		pb.Finish()
		if err != nil {
			log.Warn().Msg("some requests failed")
			errors2.PrintError(err, 0)
		}

		if err := w.WriteSummary(urls, resps); err != nil {
			log.Fatal().Err(err).Msg("failed to write summary")
		}
	},
}

func init() {
	rootCmd.AddCommand(parallelCmd)

	parallelCmd.Flags().StringVar(&parallelRange, "range", parallelRange, "range substituted for {n} in the urls, e.g. 1-10")
	addRequestFlags(parallelCmd)
}

// expandURLs substitutes every value of r for {n} in each url. urls without {n} are kept once
func expandURLs(urls []string, r http.Range) []string {
	ret := make([]string, 0, len(urls)*r.Len())
	for _, u := range urls {
		t, err := fasttemplate.NewTemplate(u, "{", "}")
		if err != nil {
			// not a template, e.g. an ipv6 host or an unbalanced brace
			ret = append(ret, u)
			continue
		}
		expanded := false
		for _, n := range r.Values() {
			v := t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
				if tag == "n" {
					expanded = true
					return w.Write([]byte(strconv.Itoa(n)))
				}
				return fmt.Fprintf(w, "{%s}", tag)
			})
			if !expanded {
				break
			}
			ret = append(ret, v)
		}
		if !expanded {
			ret = append(ret, u)
		}
	}
	return ret
}

func readLines(f *os.File) ([]string, error) {
	var ret []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			ret = append(ret, line)
		}
	}
	return ret, sc.Err()
}
