package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"panelforge/internal/client"
	"panelforge/internal/config"
	"panelforge/internal/model/comic"
)

var generateCmd = &cobra.Command{
	Use:   "generate [story]",
	Short: "Generate a comic from a story via the orchestrator",
	Long: `Send a story to a running orchestrator and print the resulting book as JSON.
The story is read from the argument, or from --file ("-" for stdin).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	flags := generateCmd.Flags()
	flags.StringP("file", "f", "", "read the story from a file (\"-\" for stdin)")
	flags.String("style", "", "art style (manga/sketch/anime/comic/ink/webtoon)")
	flags.IntP("panels", "n", 0, "number of panels (default: pipeline.panel_count)")
	flags.String("url", "", "orchestrator base URL (default: services.orchestrator.url)")
	flags.Duration("timeout", 15*time.Minute, "request timeout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	story, err := readStory(cmd, args)
	if err != nil {
		return err
	}

	baseURL, _ := flags.GetString("url")
	if baseURL == "" {
		baseURL = GetConfig().Services.Orchestrator.URL
	}
	style, _ := flags.GetString("style")
	panels, _ := flags.GetInt("panels")
	timeout, _ := flags.GetDuration("timeout")

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	var out struct {
		Book       *comic.Book `json:"book"`
		Composites []string    `json:"composites"`
	}
	c := client.New(config.ServiceOrchestrator, baseURL, nil, &http.Client{})
	if err := c.Post(ctx, "/api/v1/books", &comic.CreateBookRequest{
		Story:      story,
		Style:      style,
		PanelCount: panels,
	}, &out); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func readStory(cmd *cobra.Command, args []string) (string, error) {
	file, _ := cmd.Flags().GetString("file")
	var story string
	switch {
	case len(args) == 1:
		story = args[0]
	case file == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		story = string(data)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read story file: %w", err)
		}
		story = string(data)
	}
	if strings.TrimSpace(story) == "" {
		return "", fmt.Errorf("a story is required")
	}
	return story, nil
}
