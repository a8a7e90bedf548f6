// FILE: othello/cmd/othello-arena/main.go
// Package main plays engine levels against each other and reports the results.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"othello/internal/server/engine"
)

func main() {
	blackLevel := flag.String("black", "hard", "Black level: easy, medium, hard")
	whiteLevel := flag.String("white", "medium", "White level: easy, medium, hard")
	blackDepth := flag.Int("black-depth", 0, "Black search depth (0 = level default)")
	whiteDepth := flag.Int("white-depth", 0, "White search depth (0 = level default)")
	blackEval := flag.String("black-eval", "", "Black evaluator")
	whiteEval := flag.String("white-eval", "", "White evaluator")
	games := flag.Int("games", 20, "Number of games")
	workers := flag.Int("workers", runtime.NumCPU(), "Concurrent games")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for random players")
	verbose := flag.Bool("v", false, "Print every game")
	flag.Parse()

	black, err := parseEntrant(*blackLevel, *blackDepth, *blackEval)
	if err != nil {
		log.Fatalf("Black: %v", err)
	}
	white, err := parseEntrant(*whiteLevel, *whiteDepth, *whiteEval)
	if err != nil {
		log.Fatalf("White: %v", err)
	}
	if *games < 1 || *workers < 1 {
		log.Fatal("games and workers must be positive")
	}

	log.Printf("Playing %d games, %s (Black) vs %s (White), %d workers", *games, black, white, *workers)
	start := time.Now()
	results := runMatch(black, white, *games, *workers, *seed)
	elapsed := time.Since(start)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if *verbose {
		fmt.Fprintln(tw, "GAME\tRESULT\tSCORE\tPLIES")
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(tw, "%d\terror\t%v\t\n", r.Index+1, r.Err)
				continue
			}
			fmt.Fprintf(tw, "%d\t%s\t%d-%d\t%d\n", r.Index+1, r.Result(), r.Black, r.White, r.Plies)
		}
		fmt.Fprintln(tw)
	}

	s := summarize(results)
	fmt.Fprintln(tw, "BLACK\tWHITE\tGAMES\tBLACK WINS\tWHITE WINS\tDRAWS\tAVG MARGIN\tAVG PLIES\tERRORS")
	fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%+.2f\t%.1f\t%d\n",
		black, white, s.Games, s.BlackWins, s.WhiteWins, s.Draws, s.AverageMargin(), s.AveragePlies(), s.Errors)
	tw.Flush()

	log.Printf("Done in %s", elapsed.Round(time.Millisecond))
	if s.Errors > 0 {
		os.Exit(1)
	}
}

func parseEntrant(level string, depth int, eval string) (entrant, error) {
	d, err := engine.ParseDifficulty(level)
	if err != nil {
		return entrant{}, err
	}
	if depth < 0 {
		return entrant{}, fmt.Errorf("invalid depth: %d", depth)
	}
	if _, err := engine.LookupEvaluator(eval); err != nil {
		return entrant{}, err
	}
	return entrant{Level: d, Depth: depth, Evaluator: eval}, nil
}
