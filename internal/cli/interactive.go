package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Aum2411/Task-4-Raag/internal/service"
	"github.com/pkg/errors"
)

const prompt = "research> "

const helpText = `Available commands:
  <question>          Ask any question (quick answer)
  deep <query>        Run a deep research workflow
  compare <A> vs <B>  Compare two topics
  stats               Show knowledge base statistics
  help                Show this help message
  exit                Exit the application
`

type commandKind int

const (
	emptyCommand commandKind = iota
	askCommand
	deepCommand
	compareCommand
	statsCommand
	helpCommand
	exitCommand
)

// command is one parsed line of REPL input.
type command struct {
	kind   commandKind
	query  string
	topicA string
	topicB string
}

// parseCommand classifies a line of REPL input. Keywords match
// case-insensitively; arguments keep their original case. Anything that is
// not a command is a question.
func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{kind: emptyCommand}, nil
	}

	switch strings.ToLower(line) {
	case "exit", "quit", "bye":
		return command{kind: exitCommand}, nil
	case "help":
		return command{kind: helpCommand}, nil
	case "stats":
		return command{kind: statsCommand}, nil
	}

	lower := strings.ToLower(line)
	switch {
	case strings.HasPrefix(lower, "deep "):
		return command{kind: deepCommand, query: strings.TrimSpace(line[len("deep "):])}, nil
	case strings.HasPrefix(lower, "compare "):
		rest := line[len("compare "):]
		parts := strings.Split(rest, " vs ")
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return command{}, errors.New("usage: compare <topic> vs <topic>")
		}
		return command{kind: compareCommand, topicA: strings.TrimSpace(parts[0]), topicB: strings.TrimSpace(parts[1])}, nil
	}
	return command{kind: askCommand, query: line}, nil
}

// runInteractive drives the read-eval-print loop until the user exits or
// input runs out. Command errors are printed and the loop continues.
func runInteractive(ctx context.Context, svc *service.ResearchService, in io.Reader) error {
	fmt.Println("Interactive mode. Type 'help' for commands, 'exit' to quit.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		cmd, err := parseCommand(scanner.Text())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		if cmd.kind == exitCommand {
			fmt.Println("Goodbye!")
			return nil
		}
		if err := runCommand(ctx, svc, cmd); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func runCommand(ctx context.Context, svc *service.ResearchService, cmd command) error {
	switch cmd.kind {
	case helpCommand:
		fmt.Print(helpText)
	case statsCommand:
		stats, err := svc.RAG.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Documents: %d\nChunks: %d\n", stats.Documents, stats.Chunks)
	case deepCommand:
		return runDeepResearch(ctx, svc, cmd.query)
	case compareCommand:
		return runCompare(ctx, svc, cmd.topicA, cmd.topicB)
	case askCommand:
		answer, err := svc.Research.QuickAnswer(ctx, cmd.query)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s\n\n", answer)
	}
	return nil
}
