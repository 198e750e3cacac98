package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/server"
)

var (
	servePort  int
	serveModel string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the builder server",
	Long:  `Start the HTTP server that serves the builder pages and the polish, swap, and PDF endpoints. Set GEMINI_API_KEY to enable LLM-backed suggestions; without it the polish endpoints run on heuristics alone.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveModel, "model", llm.DefaultModel, "Gemini model used for polish enrichment")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := server.Config{
		Port:         servePort,
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  serveModel,
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
