package fetch

import (
	"context"
	"errors"
	"sync"

	errors2 "github.com/assetnote/httpfetch/pkg/errors"
	"github.com/assetnote/httpfetch/pkg/http"
	"github.com/hashicorp/go-multierror"
)

// FetchAll dispatches every url before waiting on any of them. Requests are made with FutureLazy so
// a handler that supports it runs them concurrently.
//
// The returned slice is indexed like urls. A url that failed to dispatch, or exceeded the redirect
// limit, has a nil slot and its error is part of the returned multierror.
func (d *Dispatcher) FetchAll(ctx context.Context, urls []string, opts ...ConfigOption) ([]*http.Response, error) {
	return d.FetchAllCallback(ctx, urls, nil, opts...)
}

// FetchAllCallback is FetchAll calling cb as each response completes. cb is never called concurrently
func (d *Dispatcher) FetchAllCallback(ctx context.Context, urls []string, cb func(int, *http.Response), opts ...ConfigOption) ([]*http.Response, error) {
	var (
		ret  = make([]*http.Response, len(urls))
		merr *multierror.Error
		mu   sync.Mutex
		wg   sync.WaitGroup
	)

	lazy := make([]ConfigOption, 0, len(opts)+1)
	lazy = append(lazy, opts...)
	lazy = append(lazy, Lazy())

	for i, u := range urls {
		resp, err := d.Fetch(ctx, u, lazy...)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		ret[i] = resp
	}

	for i, resp := range ret {
		if resp == nil {
			continue
		}
		wg.Add(1)
		go func(i int, resp *http.Response) {
			defer wg.Done()
			resp.Wait()

			mu.Lock()
			defer mu.Unlock()
			var rerr *errors2.TooManyRedirectsError
			if errors.As(resp.Error, &rerr) {
				merr = multierror.Append(merr, rerr)
				ret[i] = nil
				return
			}
			if cb != nil {
				cb(i, resp)
			}
		}(i, resp)
	}
	wg.Wait()

	return ret, merr.ErrorOrNil()
}

// FetchAll dispatches urls with the process wide default handler
func FetchAll(ctx context.Context, urls []string, opts ...ConfigOption) ([]*http.Response, error) {
	return std.FetchAll(ctx, urls, opts...)
}
