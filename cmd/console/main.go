package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type ConsoleConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		Timeout:    30 * time.Second,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API at %s. Please ensure the API is running.\n", cfg.APIBaseURL)
		os.Exit(1)
	}

	ids, err := listDocuments(client, cfg.APIBaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list documents: %v\n", err)
		os.Exit(1)
	}

	var docID uuid.UUID
	if len(ids) == 0 {
		fmt.Println("No documents found; creating a new one.")
		doc, err := createDocument(client, cfg.APIBaseURL, "console session")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create document: %v\n", err)
			os.Exit(1)
		}
		docID = doc.ID
	} else {
		fmt.Println("Available Documents:")
		for i, id := range ids {
			fmt.Printf("  %d - %s\n", i+1, id)
		}
		fmt.Print("\nSelect a document by number: ")

		var choice int
		if _, err := fmt.Scanf("%d", &choice); err != nil || choice < 1 || choice > len(ids) {
			fmt.Fprintf(os.Stderr, "Invalid selection\n")
			os.Exit(1)
		}
		docID = ids[choice-1]
	}

	ui := NewConsoleUI(cfg, client, docID)
	p := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Console error: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
