package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const defaultBaseURL = "http://localhost:5090"

func main() {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := &http.Client{Timeout: 30 * time.Second}

	fmt.Println("Starting Integration Test...")

	// 1. List datasets
	fmt.Println("1. Listing datasets...")
	var datasets []struct {
		Filename    string `json:"filename"`
		DisplayName string `json:"display_name"`
		Rows        int    `json:"rows"`
	}
	if !getJSON(client, baseURL+"/api/datasets", &datasets) {
		fmt.Println("FAILED: List datasets")
		os.Exit(1)
	}
	if len(datasets) == 0 {
		fmt.Println("FAILED: No datasets served; run topscores first")
		os.Exit(1)
	}
	fmt.Printf("PASSED: List datasets (%d found)\n", len(datasets))

	// 2. Fetch each graph with and without de-hairing
	for _, ds := range datasets {
		fmt.Printf("2. Loading %s...\n", ds.DisplayName)
		for _, deHair := range []bool{false, true} {
			q := url.Values{}
			q.Set("dataset", ds.Filename)
			q.Set("max_edges", "100")
			q.Set("dehair", fmt.Sprint(deHair))

			var graph struct {
				Nodes []json.RawMessage `json:"nodes"`
				Edges []json.RawMessage `json:"edges"`
				Stats struct {
					FinalNodeCount int `json:"final_node_count"`
					FinalEdgeCount int `json:"final_edge_count"`
					Passes         int `json:"passes"`
				} `json:"stats"`
			}
			if !getJSON(client, baseURL+"/api/data?"+q.Encode(), &graph) {
				fmt.Printf("FAILED: Load %s (dehair=%v)\n", ds.Filename, deHair)
				os.Exit(1)
			}
			if len(graph.Nodes) != graph.Stats.FinalNodeCount || len(graph.Edges) != graph.Stats.FinalEdgeCount {
				fmt.Printf("FAILED: %s stats disagree with payload\n", ds.Filename)
				os.Exit(1)
			}
			fmt.Printf("PASSED: %s dehair=%v nodes=%d edges=%d passes=%d\n",
				ds.Filename, deHair, len(graph.Nodes), len(graph.Edges), graph.Stats.Passes)
		}
	}

	// 3. Invalid parameters are rejected
	fmt.Println("3. Checking validation...")
	resp, err := client.Get(baseURL + "/api/data?max_edges=0")
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		os.Exit(1)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		fmt.Printf("FAILED: max_edges=0 returned %d\n", resp.StatusCode)
		os.Exit(1)
	}
	fmt.Println("PASSED: Validation")
}

func getJSON(client *http.Client, endpoint string, v any) bool {
	resp, err := client.Get(endpoint)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}
	if err := json.Unmarshal(respBody, v); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return false
	}
	return true
}
