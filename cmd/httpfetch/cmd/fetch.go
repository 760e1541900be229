package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/assetnote/httpfetch/internal/output"
	"github.com/assetnote/httpfetch/pkg/context"
	errors2 "github.com/assetnote/httpfetch/pkg/errors"
	"github.com/assetnote/httpfetch/pkg/fetch"
	"github.com/assetnote/httpfetch/pkg/http"
	"github.com/assetnote/httpfetch/pkg/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	method       = ""
	headers      = []string{}
	data         = ""
	user         = ""
	noFollow     = false
	maxRedirects = fetch.DefaultMaxRedirects
	include      = false
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch URL [-X method]",
	Short: "perform a single request",
	Long: `perform a single request and print the response body.
301 and 302 redirects are followed unless --no-follow is set.

usage:
httpfetch fetch http://localhost:14000/index
httpfetch fetch -X PUT -d @body.json -H 'content-type: application/json' http://localhost:14000/post
httpfetch fetch -u user:pass -i http://localhost:14000/basic-auth
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runFetch(args[0], "")
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&method, "request", "X", method, "request method to use. defaults to GET")
	addRequestFlags(fetchCmd)
}

// addRequestFlags adds the flags shared by fetch and the method shortcuts
func addRequestFlags(c *cobra.Command) {
	c.Flags().StringSliceVarP(&headers, "header", "H", headers, "headers to add to the request, e.g. 'x-foo: bar'")
	c.Flags().StringVarP(&data, "data", "d", data, "request body. @file reads the body from a file")
	c.Flags().StringVarP(&user, "user", "u", user, "basic auth credentials as user:pass. the password may be empty")
	c.Flags().BoolVar(&noFollow, "no-follow", noFollow, "do not follow 301 and 302 redirects")
	c.Flags().IntVar(&maxRedirects, "max-redirects", maxRedirects, "maximum number of redirects to follow")
	c.Flags().BoolVarP(&include, "include", "i", include, "print the status line and response headers")
}

// requestOptions converts the request flags into fetch options
func requestOptions() ([]fetch.ConfigOption, error) {
	opts := []fetch.ConfigOption{
		fetch.FollowLocation(!noFollow),
		fetch.MaxRedirects(maxRedirects),
		fetch.Timeout(viper.GetDuration("timeout")),
	}
	for _, h := range headers {
		parsed, err := http.ParseHeader(h)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fetch.Header(parsed.Key, parsed.Value))
	}
	if data != "" {
		body, err := readData(data)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fetch.Body(body))
	}
	if user != "" {
		parts := strings.SplitN(user, ":", 2)
		pass := ""
		if len(parts) == 2 {
			pass = parts[1]
		}
		opts = append(opts, fetch.BasicAuth(parts[0], pass))
	}
	return opts, nil
}

func readData(in string) ([]byte, error) {
	if !strings.HasPrefix(in, "@") {
		return []byte(in), nil
	}
	ret, err := ioutil.ReadFile(strings.TrimPrefix(in, "@"))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return ret, nil
}

func outputWriter() *output.Writer {
	format, err := output.FormatFromString(viper.GetString("output"))
	if err != nil {
		log.Fatal().Err(err).Str("output", viper.GetString("output")).Msg("invalid output format")
	}
	return output.NewWriter(os.Stdout, output.OutputFormat(format), output.Include(include))
}

// runFetch performs the request. An empty shortcut uses the -X flag
func runFetch(rawurl string, shortcut string) {
	opts, err := requestOptions()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid request flags")
	}

	d := newDispatcher()
	do := d.Fetch
	if shortcut != "" {
		do = d.Shortcut(shortcut)
	} else if method != "" {
		opts = append(opts, fetch.Method(method))
	}

	ctx, cancel := context.WithTimeout(viper.GetDuration("max-time"))
	defer cancel()

	resp, err := do(ctx, rawurl, opts...)
	if err != nil {
		errors2.PrintError(err, 0)
		log.Fatal().Err(err).Str("url", rawurl).Msg("fetch failed")
	}
	if resp.Wait().Error != nil {
		log.Fatal().Err(resp.Error).Str("url", rawurl).Msg("request failed")
	}
	log.Debug().Object("resp", resp).Msg("got response")

	if err := outputWriter().WriteResponse(resp); err != nil {
		log.Fatal().Err(err).Msg("failed to write response")
	}
}
