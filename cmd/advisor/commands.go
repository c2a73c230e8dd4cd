package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coverly/advisor/internal/api"
	"github.com/coverly/advisor/internal/attachment"
	"github.com/coverly/advisor/internal/conversation"
)

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask [message...]",
	Short: "Ask the advisor a single question",
	Long: `Ask the advisor a single question.

Examples:
  advisor ask "What life insurance should I get?"
  advisor ask --profile client.json "Am I over-insured?"
  advisor ask --file policy.pdf --file claims.pdf "Review my documents"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profilePath, _ := cmd.Flags().GetString("profile")
		filePaths, _ := cmd.Flags().GetStringArray("file")

		message := strings.Join(args, " ")
		if message == "" && len(filePaths) == 0 {
			return fmt.Errorf("a message or at least one --file is required")
		}

		profileJSON, err := loadProfileJSON(profilePath)
		if err != nil {
			return err
		}

		var attachments []attachment.Descriptor
		for _, path := range filePaths {
			d, err := attachment.FromFile(path)
			if err != nil {
				return fmt.Errorf("attaching %s: %w", path, err)
			}
			attachments = append(attachments, d)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		result, err := client.chat(cmd.Context(), message, profileJSON, attachments)
		if err != nil {
			return err
		}

		fmt.Println(result.Response)
		printStatus("Profile context", "%s", yesNo(result.ProfileReceived))
		printStatus("Documents", "%s", yesNo(result.FilesReceived))
		return nil
	},
}

func init() {
	askCmd.Flags().String("profile", "", "path to a client profile JSON file")
	askCmd.Flags().StringArray("file", nil, "policy document to attach (repeatable)")
}

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive advisory conversation",
	Long: `Interactive advisory conversation.

The profile snapshot, if given, is sent with every turn. Only one request
may be in flight at a time; type /quit to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profilePath, _ := cmd.Flags().GetString("profile")

		profileJSON, err := loadProfileJSON(profilePath)
		if err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		return runChatLoop(cmd.Context(), client, profileJSON, os.Stdin)
	},
}

func init() {
	chatCmd.Flags().String("profile", "", "path to a client profile JSON file")
}

// runChatLoop is the terminal stand-in for the browser UI shell: it
// appends the user turn before the call goes out, blocks duplicate sends
// behind the single-flight gate, and appends the assistant turn only once
// the call resolves, using the generic failure text when the call fails.
func runChatLoop(ctx context.Context, client *apiClient, profileJSON string, in *os.File) error {
	log := conversation.NewLog()
	scanner := bufio.NewScanner(in)

	fmt.Println("Ask the advisor anything. Type /quit to leave.")
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}

		if err := log.Begin(); err != nil {
			printWarning("%v", err)
			continue
		}
		log.AppendUser(line, nil)
		printStep("thinking...")

		result, err := client.chat(ctx, line, profileJSON, nil)
		log.Finish()

		text := result.Response
		if err != nil {
			text = api.GenericErrorMessage
		}
		log.AppendAssistant(text)
		fmt.Printf("advisor> %s\n\n", text)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	printStatus("Turns", "%d", log.Len())
	return nil
}

func loadProfileJSON(path string) (string, error) {
	if path == "" {
		return "{}", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading profile file: %w", err)
	}
	return string(data), nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
