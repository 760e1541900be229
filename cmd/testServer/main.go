package main

import (
	"flag"
	"fmt"
	"sync"
	"time"

	"github.com/assetnote/httpfetch/pkg/http"
	"github.com/assetnote/httpfetch/pkg/log"
	"github.com/valyala/fasthttp"
)

func StatsFunc(end <-chan bool) {
	// rolling average
	lastRequest := time.Now()
	lastRequestCount := requestCount.get()
	rpsPeak := float64(0)
	for {
		select {
		case <-end:
			fmt.Println("\nTerminating.")
			return
		default:
			timeDiff := time.Since(lastRequest).Seconds()
			curRequestCount := requestCount.get()
			requestCountDiff := curRequestCount - lastRequestCount
			rps := float64(requestCountDiff) / timeDiff
			if rps > rpsPeak {
				rpsPeak = rps
			}

			fmt.Printf("Total Requests: %d. Requests since last checkin: %d. RPS: %f. Peak: %f\t\t\t\t\r", curRequestCount, requestCountDiff, rps, rpsPeak)
			lastRequest = time.Now()
			lastRequestCount = curRequestCount
			time.Sleep(1 * time.Second)
		}
	}
}

func main() {
	var portRange string
	flag.StringVar(&portRange, "p", "14000", "port or range of ports to start servers on, e.g. 14000-14010")
	flag.DurationVar(&delay, "delay", 0, "delay before answering each request")
	flag.Parse()

	ports, err := http.RangeFromString(portRange)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid port range. format should be <int> or <int>-<int>")
	}

	r := newRouter()

	var wg sync.WaitGroup
	for _, port := range ports.Values() {
		wg.Add(1)
		go func(port int) {
			defer wg.Done()
			host := fmt.Sprintf(":%d", port)
			log.Debug().Str("addr", host).Msg("starting server")
			log.Fatal().Err(fasthttp.ListenAndServe(host, r.Handler)).Msg("failed to start server")
		}(port)
	}
	statsFunc := make(chan bool)

	go StatsFunc(statsFunc)
	wg.Wait()

	statsFunc <- true
	close(statsFunc)
}
