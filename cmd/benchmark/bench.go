package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	mockPort = 9091
	appPort  = 8081
)

var (
	chatResp  = []byte(`{"id":"bench-123","model":"meta-llama/Meta-Llama-3.1-70B-Instruct","choices":[{"message":{"role":"assistant","content":"Hello from the benchmark"}}],"usage":{"prompt_tokens":2,"completion_tokens":5,"total_tokens":7}}`)
	embedResp = []byte(`{"data":[{"embedding":[0.1,0.2,0.3,0.4]}]}`)
)

// targets are the request bodies per -target.
var targets = map[string]struct {
	path string
	body string
}{
	"inference": {"/v1/inference", `{"model":"llama-3.1-70b","prompt":"Hello"}`},
	"embedding": {"/v1/inference", `{"model":"bge-large","prompt":"embed this sentence"}`},
	"batch":     {"/v1/batch", `{"model":"sdxl-turbo","inputs":[{"prompt":"a"},{"prompt":"b"}],"priority":"high"}`},
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 50, "Requests per second")
	target := flag.String("target", "inference", "Endpoint to load: inference, embedding or batch")
	chaos := flag.Bool("chaos", false, "Simulate random client disconnections")
	flag.Parse()

	tgt, ok := targets[*target]
	if !ok {
		log.Fatalf("Unknown target %q", *target)
	}

	go startMockServer()

	fmt.Println("Building application...")
	buildCmd := exec.Command("go", "build", "-o", "bin/server", "./cmd/server")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	configFile := "bench_config.yaml"
	if err := os.WriteFile(configFile, []byte(benchConfig), 0644); err != nil {
		log.Fatalf("Failed to write config: %v", err)
	}
	defer os.Remove(configFile)

	fmt.Println("Starting application...")
	cmd := exec.Command("./bin/server")
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("CONFIG_FILE=%s", configFile),
		fmt.Sprintf("SERVER_PORT=%d", appPort),
		"LOGGING_LEVEL=error",
	)

	logFile, _ := os.Create("bench_server.log")
	defer logFile.Close()
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}
	defer func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	}()

	waitForApp(fmt.Sprintf("http://localhost:%d/health", appPort))

	done := make(chan struct{})
	go monitorResources(cmd.Process.Pid, done)

	url := fmt.Sprintf("http://localhost:%d%s", appPort, tgt.path)
	fmt.Printf("Running %s benchmark: %s duration, %d req/s\n", *target, *duration, *rate)

	targeter := func(t *vegeta.Target) error {
		t.Method = http.MethodPost
		t.URL = url
		t.Body = []byte(tgt.body)
		t.Header = http.Header{
			"Content-Type": []string{"application/json"},
			"X-Api-Key":    []string{"bench-key-12345"},
		}
		return nil
	}

	if *chaos {
		fmt.Println("CHAOS MODE ENABLED: Starting Chaos Monkey sidecar...")
		concurrency := min(max(*rate/10, 5), 50)
		go startChaosMonkey(url, tgt.body, concurrency, done)
	}

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "Benchmark") {
		metrics.Add(res)
	}
	metrics.Close()
	close(done)

	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", metrics.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)
	fmt.Println("Status codes:    ", metrics.StatusCodes)
	fmt.Println("--------------------------------------------------")

	if len(metrics.Errors) > 0 {
		fmt.Println("Error Set (first 5 unique):")
		seen := make(map[string]bool)
		for _, msg := range metrics.Errors {
			if !seen[msg] && len(seen) < 5 {
				fmt.Println(msg)
				seen[msg] = true
			}
		}
	}
}

// startChaosMonkey fires requests that hang up after 1-200ms.
func startChaosMonkey(url, body string, concurrency int, done chan struct{}) {
	fmt.Printf("Starting Chaos Monkey with %d concurrent disrupters (random disconnects 1-200ms)\n", concurrency)
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			client := &http.Client{Transport: &http.Transport{MaxIdleConnsPerHost: 100}}

			for {
				select {
				case <-done:
					return
				default:
				}

				timeout := time.Duration(rand.Intn(200)+1) * time.Millisecond
				ctx, cancel := context.WithTimeout(context.Background(), timeout)
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
				req.Header.Set("Content-Type", "application/json")

				if resp, err := client.Do(req); err == nil {
					_ = resp.Body.Close()
				}
				cancel()

				time.Sleep(time.Duration(rand.Intn(50)) * time.Millisecond)
			}
		}()
	}
	wg.Wait()
}

// startMockServer stands in for an OpenAI-compatible provider.
func startMockServer() {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&req)

		time.Sleep(10 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(chatResp)
	})

	mux.HandleFunc("/v1/embeddings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(embedResp)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	_ = http.ListenAndServe(fmt.Sprintf(":%d", mockPort), mux)
}

// monitorResources samples the server process once a second.
func monitorResources(pid int, done chan struct{}) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		fmt.Printf("DEBUG: cannot attach to pid %d: %v\n", pid, err)
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	fmt.Println("\n--- Resource Usage ---")
	fmt.Printf("%-10s %-10s %-10s %-10s\n", "Time", "RSS(MB)", "CPU(%)", "Threads")

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			mem, err := proc.MemoryInfo()
			if err != nil {
				continue
			}
			cpu, _ := proc.CPUPercent()
			threads, _ := proc.NumThreads()

			fmt.Printf("%-10s %-10.2f %-10.2f %-10d\n",
				time.Now().Format("15:04:05"),
				float64(mem.RSS)/1024/1024,
				cpu,
				threads,
			)
		}
	}
}

func waitForApp(url string) {
	for i := 0; i < 20; i++ {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Fatal("App timed out")
}

var benchConfig = fmt.Sprintf(`
server:
  port: "%d"
  env: production
logging:
  level: error
  format: json
jobs:
  store: memory
providers:
  - id: bench
    type: openai
    name: Bench upstream
    api_key: "mock-key"
    base_url: "http://localhost:%d/v1"
    enabled: true
`, appPort, mockPort)
