// ABOUTME: Entry point for the rolodex API server
// ABOUTME: Routes to serve or init based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/harperreed/rolodex/config"
	"github.com/harperreed/rolodex/db"
	"github.com/harperreed/rolodex/llm"
	"github.com/harperreed/rolodex/web"
)

const version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/rolodex/rolodex.db)")
	port := flag.Int("port", 0, "Listen port (default: 3000 or ROLODEX_PORT)")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("rolodex version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg := config.Load()
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *port != 0 {
		cfg.Port = *port
	}

	switch args[0] {
	case "serve":
		database, err := db.OpenDatabase(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()

		log.Printf("Rolodex database: %s", cfg.DBPath)

		client, err := llm.NewClient(llm.Config{
			Provider:  cfg.LLMProvider,
			Model:     cfg.LLMModel,
			OpenAIKey: cfg.OpenAIKey,
			OllamaURL: cfg.OllamaURL,
		})
		if err != nil {
			log.Fatalf("Failed to create LLM client: %v", err)
		}

		server := web.NewServer(database, client)
		if err := server.Start(cfg.Port); err != nil {
			log.Fatalf("Server failed: %v", err)
		}

	case "init":
		database, err := db.OpenDatabase(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()
		log.Printf("Database initialized at %s", cfg.DBPath)

	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`rolodex v%s - relationship CRM backend

USAGE:
  rolodex [global flags] <command>

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/rolodex/rolodex.db)
  --port <port>          Listen port (default: 3000)

COMMANDS:
  serve                  Start the JSON API server
  init                   Initialize the database and exit

ENVIRONMENT (.env is loaded when present):
  ROLODEX_PORT           Listen port
  ROLODEX_DB_PATH        Database path
  ROLODEX_LLM_PROVIDER   openai | ollama | mock (default: openai)
  ROLODEX_LLM_MODEL      Model name (default: gpt-4o-mini)
  OPENAI_API_KEY         OpenAI API key
  OLLAMA_URL             Ollama base URL

EXAMPLES:
  # Start the API server on port 3000
  rolodex serve

  # Use a local model
  ROLODEX_LLM_PROVIDER=ollama rolodex serve

`, version)
}
