// Command check judges a board file against a commit message locally, the way
// the bot would judge a pull request, without calling the GitHub API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gmkornilov/chessbot/pkg/diagram"
	"github.com/gmkornilov/chessbot/pkg/movematch"
)

func main() {
	boardPath := flag.String("board", "README.md", "board diagram file")
	historyPath := flag.String("history", "", "file holding the latest commit message (empty means the initial commit)")
	flag.Parse()

	if err := run(*boardPath, *historyPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(boardPath, historyPath string) error {
	text, err := os.ReadFile(boardPath)
	if err != nil {
		return err
	}
	board, err := diagram.Parse(string(text))
	if err != nil {
		return err
	}

	message := movematch.InitialCommit
	if historyPath != "" {
		raw, err := os.ReadFile(historyPath)
		if err != nil {
			return err
		}
		message = string(raw)
	}

	game, err := movematch.Replay(movematch.ParseCommitMessage(message))
	if err != nil {
		return err
	}
	move, err := movematch.Play(game, board)
	if err != nil {
		return err
	}

	fmt.Println(move)
	fmt.Println()
	fmt.Println(movematch.CommitMessage(movematch.History(game)))
	return nil
}
