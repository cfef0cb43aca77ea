package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jedib0t/go-pretty/v6/table"
)

// CLI flags
var (
	apiURL  = flag.String("api-url", "http://localhost:8080", "deckscope API base URL")
	apiKey  = flag.String("api-key", "", "API key for authenticated requests")
	runs    = flag.Int("runs", 3, "Number of runs per commander; the first is cold, the rest should hit the cache")
	bracket = flag.String("bracket", "upgraded", "Bracket to request")
	output  = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// Commanders with large, medium and partner-style pages.
var testCommanders = []string{
	"Atraxa, Praetors' Voice",
	"Krenko, Mob Boss",
	"Edgar Markov",
	"Kenrith, the Returned King",
	"Tymna the Weaver",
}

// --- Response types (mirrors models package) ---

type deckResponse struct {
	Success     bool   `json:"success"`
	TotalCards  int    `json:"total_cards"`
	CacheStatus string `json:"cache_status"`
	Deck        *struct {
		Approximate bool `json:"approximate"`
	} `json:"deck"`
	Timing struct {
		TotalMs int64 `json:"total_ms"`
	} `json:"timing"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Benchmark result types ---

type runResult struct {
	Run         int    `json:"run"`
	ServerMs    int64  `json:"server_ms"`
	RoundTripMs int64  `json:"round_trip_ms"`
	TotalCards  int    `json:"total_cards"`
	CacheStatus string `json:"cache_status"`
	Approximate bool   `json:"approximate"`
	HTTPStatus  int    `json:"http_status"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

type commanderResult struct {
	Commander string      `json:"commander"`
	Runs      []runResult `json:"runs"`
}

type benchmarkReport struct {
	Timestamp        string            `json:"timestamp"`
	APIURL           string            `json:"api_url"`
	Bracket          string            `json:"bracket"`
	RunsPerCommander int               `json:"runs_per_commander"`
	Results          []commanderResult `json:"results"`
}

func main() {
	flag.Parse()
	if *runs < 1 {
		*runs = 1
	}

	fmt.Println("=== deckscope Benchmark Suite ===")
	fmt.Printf("API URL:   %s\n", *apiURL)
	fmt.Printf("Bracket:   %s\n", *bracket)
	fmt.Printf("Runs:      %d\n", *runs)
	fmt.Printf("Output:    %s\n", *output)
	fmt.Println()

	client := resty.New().
		SetBaseURL(*apiURL).
		SetTimeout(90 * time.Second)
	if *apiKey != "" {
		client.SetAuthToken(*apiKey)
	}

	// Quick connectivity check.
	if _, err := client.R().Get("/api/v1/health"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Make sure deckscope is running (go run ./cmd/deckscope)\n")
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		APIURL:           *apiURL,
		Bracket:          *bracket,
		RunsPerCommander: *runs,
	}

	for _, name := range testCommanders {
		fmt.Printf("Benchmarking %s ...\n", name)
		cr := commanderResult{Commander: name}

		for i := 1; i <= *runs; i++ {
			fmt.Printf("  Run %d/%d ... ", i, *runs)
			rr := benchmarkDeck(client, name, i)
			if rr.Success {
				fmt.Printf("OK  %dms  %d cards  cache=%s\n", rr.RoundTripMs, rr.TotalCards, rr.CacheStatus)
			} else {
				fmt.Printf("FAILED: %s\n", rr.Error)
			}
			cr.Runs = append(cr.Runs, rr)
		}

		report.Results = append(report.Results, cr)
		fmt.Println()
	}

	printTable(report.Results)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func benchmarkDeck(client *resty.Client, name string, run int) runResult {
	rr := runResult{Run: run}

	var dr deckResponse
	start := time.Now()
	resp, err := client.R().
		SetQueryParam("bracket", *bracket).
		SetResult(&dr).
		SetError(&dr).
		Get("/api/v1/commanders/" + url.PathEscape(name) + "/deck")
	rr.RoundTripMs = time.Since(start).Milliseconds()
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}

	rr.HTTPStatus = resp.StatusCode()
	rr.Success = dr.Success
	rr.ServerMs = dr.Timing.TotalMs
	rr.TotalCards = dr.TotalCards
	rr.CacheStatus = dr.CacheStatus
	if dr.Deck != nil {
		rr.Approximate = dr.Deck.Approximate
	}
	if dr.Error != nil {
		rr.Error = fmt.Sprintf("[%s] %s", dr.Error.Code, dr.Error.Message)
	}
	return rr
}

// coldWarm splits server latency into the first run and the mean of the rest.
func coldWarm(runs []runResult) (cold int64, warm float64, ok bool) {
	var n int
	for i, r := range runs {
		if !r.Success {
			continue
		}
		if i == 0 {
			cold = r.ServerMs
			ok = true
			continue
		}
		warm += float64(r.ServerMs)
		n++
	}
	if n > 0 {
		warm /= float64(n)
	}
	return cold, warm, ok
}

func printTable(results []commanderResult) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Commander", "Cold", "Warm (avg)", "Cards", "Approx", "Status"})

	for _, r := range results {
		cold, warm, ok := coldWarm(r.Runs)
		if !ok {
			t.AppendRow(table.Row{r.Commander, "FAILED", "-", "-", "-", r.Runs[0].HTTPStatus})
			continue
		}
		first := r.Runs[0]
		t.AppendRow(table.Row{
			r.Commander,
			fmt.Sprintf("%dms", cold),
			fmt.Sprintf("%.1fms", warm),
			first.TotalCards,
			first.Approximate,
			first.HTTPStatus,
		})
	}
	t.Render()
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
