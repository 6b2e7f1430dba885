package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	courts    int
	strategy  string
	force     bool
	matchID   string
	tiebreak  []int
	matchTB   bool
	player1ID string
	player2ID string
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(lineupCmd)
	rootCmd.AddCommand(pairStatsCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(courtCmd)
	rootCmd.AddCommand(finalizeCmd)

	lineupCmd.Flags().IntVar(&courts, "courts", 0, "Number of courts to fill (server default when 0)")
	lineupCmd.Flags().StringVar(&strategy, "strategy", "", "Lineup strategy: greedy or exact")
	lineupCmd.Flags().StringVar(&matchID, "match", "", "Use the player answers for this match instead of the roster")

	scoreCmd.Flags().IntSliceVar(&tiebreak, "tiebreak", nil, "Tiebreak points of a 7-6 set as home,away")
	scoreCmd.Flags().BoolVar(&matchTB, "match-tiebreak", false, "The set is a match tiebreak played to 10")

	courtCmd.Flags().StringVar(&player1ID, "player1", "", "First home player")
	courtCmd.Flags().StringVar(&player2ID, "player2", "", "Second home player")
	courtCmd.MarkFlagRequired("player1")
	courtCmd.MarkFlagRequired("player2")

	finalizeCmd.Flags().BoolVar(&force, "force", false, "Finalize even if some courts are undecided")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil, nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil, nil)
	},
}

var lineupCmd = &cobra.Command{
	Use:   "lineup <teamID>",
	Short: "Suggest a lineup for a team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if courts > 0 {
			q.Set("courts", strconv.Itoa(courts))
		}
		if strategy != "" {
			q.Set("strategy", strategy)
		}
		path := "/teams/" + url.PathEscape(args[0]) + "/lineup"
		if matchID != "" {
			path = "/matches/" + url.PathEscape(matchID) + "/lineup"
		}
		return performRequest(http.MethodGet, path, q, nil)
	},
}

var pairStatsCmd = &cobra.Command{
	Use:   "pair-stats <teamID>",
	Short: "List the recorded pair statistics of a team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/teams/"+url.PathEscape(args[0])+"/pair-stats", nil, nil)
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score <matchID> <court> <set> <home> <away>",
	Short: "Enter a set score",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		nums := make([]int, 4)
		for i, raw := range args[1:] {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("%q is not a number", raw)
			}
			nums[i] = n
		}
		body := map[string]any{"home_games": nums[2], "away_games": nums[3]}
		if matchTB {
			body["kind"] = "MATCH_TIEBREAK"
		}
		if len(tiebreak) > 0 {
			if len(tiebreak) != 2 {
				return fmt.Errorf("--tiebreak needs home and away points")
			}
			body["tiebreak_home"] = tiebreak[0]
			body["tiebreak_away"] = tiebreak[1]
		}
		path := fmt.Sprintf("/matches/%s/courts/%d/sets/%d", url.PathEscape(args[0]), nums[0], nums[1])
		return performRequest(http.MethodPut, path, nil, body)
	},
}

var courtCmd = &cobra.Command{
	Use:   "court <matchID> <court>",
	Short: "Set the home pair of a court",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"player1_id": player1ID, "player2_id": player2ID}
		return performRequest(http.MethodPut, "/matches/"+url.PathEscape(args[0])+"/courts/"+args[1]+"/lineup", nil, body)
	},
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize <matchID>",
	Short: "Finalize a match and update pair statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if force {
			q.Set("force", "true")
		}
		return performRequest(http.MethodPost, "/matches/"+url.PathEscape(args[0])+"/finalize", q, nil)
	},
}

func performRequest(method, endpoint string, query url.Values, body any) error {
	if query == nil {
		query = url.Values{}
	}
	if verbose {
		query.Set("verbose", "true")
	}
	if dryRun {
		query.Set("dry_run", "true")
	}
	target := host + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	fmt.Printf("Making %s request to %s\n", method, target)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server answered %s", resp.Status)
	}
	return nil
}
