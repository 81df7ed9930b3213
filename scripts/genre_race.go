//go:build ignore
// +build ignore

// Package main is a manual probe for the genre create race.
//
// Usage:
//
//	go run ./scripts/genre_race.go [name] [workers]
//
// SERVER_ADDR selects the server (default http://localhost:3000).
//
// What it does:
//  1. Fires N goroutines that all submit the same genre name at once.
//  2. Collects the redirect target each one received.
//  3. Reports how many distinct genres were created for that one name.
//
// The create flow checks for an existing genre before inserting and there is
// no unique index on the name, so more than one distinct target is possible.
package main

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultServerAddr = "http://localhost:3000"
	defaultWorkers    = 20
)

type createResult struct {
	Location   string
	StatusCode int
	Err        error
}

func main() {
	serverAddr := os.Getenv("SERVER_ADDR")
	if serverAddr == "" {
		serverAddr = defaultServerAddr
	}

	name := fmt.Sprintf("Race %d", time.Now().Unix())
	workers := defaultWorkers
	args := os.Args[1:]
	if len(args) >= 1 {
		name = args[0]
	}
	if len(args) >= 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			log.Fatalf("workers must be a positive integer, got %q", args[1])
		}
		workers = n
	}

	fmt.Printf("=== Genre Create Race ===\n")
	fmt.Printf("Server  : %s\n", serverAddr)
	fmt.Printf("Genre   : %s\n", name)
	fmt.Printf("Workers : %d\n\n", workers)

	client := &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	results := make([]createResult, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start
			results[idx] = createGenre(client, serverAddr, name)
		}(i)
	}

	close(start)
	wg.Wait()

	targets := make(map[string]int)
	var failures int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failures++
			fmt.Printf("  [ERR ] %v\n", r.Err)
		case r.StatusCode != http.StatusFound:
			failures++
			fmt.Printf("  [FAIL] status=%d\n", r.StatusCode)
		default:
			targets[r.Location]++
		}
	}

	fmt.Printf("\n--- Summary ---\n")
	for target, n := range targets {
		fmt.Printf("  %-60s %d\n", target, n)
	}
	fmt.Printf("Distinct genres : %d\n", len(targets))
	fmt.Printf("Failures        : %d\n", failures)

	if len(targets) > 1 {
		fmt.Printf("\n[RACE] %q was stored %d times.\n", name, len(targets))
	}
	if failures > 0 {
		os.Exit(1)
	}
}

// createGenre posts the genre form and returns where the server redirected.
func createGenre(client *http.Client, serverAddr, name string) createResult {
	form := url.Values{"name": {name}}
	resp, err := client.Post(serverAddr+"/catalog/genre/create",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return createResult{Err: err}
	}
	defer resp.Body.Close()

	return createResult{
		Location:   resp.Header.Get("Location"),
		StatusCode: resp.StatusCode,
	}
}
