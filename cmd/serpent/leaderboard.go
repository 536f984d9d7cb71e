package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/serpent-arena/internal/client"
	"github.com/vovakirdan/serpent-arena/internal/platform/tui"
	"github.com/vovakirdan/serpent-arena/internal/storage"
)

var (
	flagLimit int
	flagUser  string
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the top scores",
	Long: `Display the top scores from the local database, or from a
Serpent Arena server when --server is given.

Examples:
  serpent leaderboard
  serpent leaderboard --limit 25
  serpent leaderboard --user alice
  serpent leaderboard --server http://localhost:4000`,
	Aliases: []string{"scores"},
	Args:    cobra.NoArgs,
	Run:     runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().IntVar(&flagLimit, "limit", storage.DefaultLeaderboardLimit, "Number of scores to show")
	leaderboardCmd.Flags().StringVar(&flagServerURL, "server", "", "Read the leaderboard of a Serpent Arena API server")
	leaderboardCmd.Flags().StringVar(&flagUser, "user", "", "Also show the best score of this player (local database only)")
	leaderboardCmd.MarkFlagsMutuallyExclusive("server", "user")
}

func runLeaderboard(_ *cobra.Command, _ []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if flagServerURL != "" {
		c, err := client.New(flagServerURL, nil)
		if err != nil {
			fail("Error: %v", err)
		}
		rows, err := tui.RemoteBackend{Client: c}.Leaderboard(ctx, flagLimit)
		if err != nil {
			fail("Error retrieving scores: %v", err)
		}
		printLeaderboard(os.Stdout, rows)
		return
	}

	cfg := loadConfig()
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fail("Error opening scores database: %v", err)
	}
	defer store.Close()

	rows, err := tui.StoreBackend{Store: store}.Leaderboard(ctx, flagLimit)
	if err != nil {
		store.Close()
		fail("Error retrieving scores: %v", err)
	}
	printLeaderboard(os.Stdout, rows)

	if flagUser != "" {
		best, found, err := userBest(ctx, store, flagUser)
		if err != nil {
			store.Close()
			fail("Error retrieving best score: %v", err)
		}
		fmt.Println()
		printUserBest(os.Stdout, flagUser, best, found)
	}

	if len(rows) == 0 {
		return
	}
	stats, err := store.Stats(ctx)
	if err == nil {
		fmt.Println()
		fmt.Printf("Games: %d  Players: %d  Best: %d  Average: %.1f\n",
			stats.Games, stats.Players, stats.BestScore, stats.AvgScore)
	}
}

func printLeaderboard(w io.Writer, rows []tui.Row) {
	fmt.Fprintln(w, "Serpent Arena - High Scores")
	fmt.Fprintln(w)

	if len(rows) == 0 {
		fmt.Fprintln(w, "No scores recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Play 'serpent play' to set the first high score!")
		return
	}

	// Print header
	fmt.Fprintf(w, "  %-4s  %-16s  %-8s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Fprintf(w, "  %-4s  %-16s  %-8s  %s\n", "----", "------", "-----", "----")

	for i, r := range rows {
		dateStr := r.At.Local().Format("2006-01-02 15:04")
		fmt.Fprintf(w, "  %-4d  %-16s  %-8d  %s\n", i+1, r.Username, r.Score, dateStr)
	}
}

// userBest looks a player up by name. found is false for unknown names.
func userBest(ctx context.Context, store *storage.Store, username string) (best int, found bool, err error) {
	user, err := store.UserByName(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	best, err = store.UserBest(ctx, user.ID)
	return best, err == nil, err
}

func printUserBest(w io.Writer, username string, best int, found bool) {
	if !found {
		fmt.Fprintf(w, "No player named %q.\n", username)
		return
	}
	fmt.Fprintf(w, "Best for %s: %d\n", username, best)
}
