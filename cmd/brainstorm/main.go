package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/tailored-agentic-units/brainstorm/config"
	"github.com/tailored-agentic-units/brainstorm/graph"
	"github.com/tailored-agentic-units/brainstorm/services"
	"github.com/tailored-agentic-units/brainstorm/session"
	"github.com/tailored-agentic-units/brainstorm/stages"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to config JSON file (required)")
		topic      = flag.String("topic", "", "Topic to brainstorm (required)")
		kind       = flag.String("kind", "project", "Session kind: project or research")
		resumeID   = flag.String("resume", "", "Session id to resume instead of starting fresh")
		outFile    = flag.String("out", "", "Write the final plan to this file")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	if *configFile == "" || (*topic == "" && *resumeID == "") {
		fmt.Fprintln(os.Stderr, "Usage: brainstorm -config <file> -topic <text> [-kind project|research]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Best effort; the API key may already be in the environment.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	completion, err := services.NewChatCompletion(cfg.Completion)
	if err != nil {
		log.Fatalf("Failed to create completion client: %v", err)
	}

	st, err := stages.New(*cfg, stages.Deps{
		Text:       completion,
		Structured: completion,
		Web:        services.NewDuckDuckGoSearch(),
		Documents:  services.NewFileDocumentExtractor(),
		Literature: services.NewArxivSearch(),
	})
	if err != nil {
		log.Fatalf("Failed to create stages: %v", err)
	}

	g, err := st.Graph()
	if err != nil {
		log.Fatalf("Failed to compile workflow graph: %v", err)
	}

	runner, err := graph.NewRunner(g, cfg.Checkpoint)
	if err != nil {
		log.Fatalf("Failed to create runner: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	heading := color.New(color.FgCyan, color.Bold)

	var outcome graph.Outcome
	if *resumeID != "" {
		prompt, pendErr := runner.Pending(*resumeID)
		if pendErr != nil {
			log.Fatalf("Failed to resume session: %v", pendErr)
		}
		outcome = graph.Outcome{Prompt: prompt}
	} else {
		outcome, err = runner.Run(ctx, session.New(*topic, session.Kind(*kind)))
	}

	for err == nil && !outcome.Done {
		heading.Printf("\n[%s]\n", outcome.Prompt.Stage)
		fmt.Println(outcome.Prompt.Message)
		fmt.Print("> ")

		line, readErr := reader.ReadString('\n')
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "\nSession %s suspended; resume with -resume %s\n",
				outcome.Prompt.SessionID, outcome.Prompt.SessionID)
			os.Exit(1)
		}

		outcome, err = runner.Resume(ctx, outcome.Prompt.SessionID, strings.TrimSpace(line))
	}
	if err != nil {
		log.Fatalf("Workflow failed: %v", err)
	}

	color.New(color.FgGreen, color.Bold).Println("\nFinal plan")
	fmt.Println(outcome.State.FinalPlan)

	if *outFile != "" {
		if err := os.WriteFile(*outFile, []byte(outcome.State.FinalPlan+"\n"), 0o644); err != nil {
			log.Fatalf("Failed to write plan: %v", err)
		}
		fmt.Printf("\nPlan written to %s\n", *outFile)
	}
}
