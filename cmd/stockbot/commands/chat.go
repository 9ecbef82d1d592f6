package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opsatya/ved/internal/api/handlers"
	"github.com/opsatya/ved/internal/render"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat in the terminal",
	Long: `Starts an interactive session. Answers are typed out line by line.
Type quit, exit or bye to leave.`,
	RunE: runChat,
}

var instantOutput bool

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().BoolVar(&instantOutput, "instant", false, "print answers without typing animation")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a, err := bootstrap(ctx, render.Terminal)
	if err != nil {
		return err
	}
	defer a.Close()

	pacing := render.TypingPacing
	if instantOutput {
		pacing = render.Pacing{}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "📊 Stock Analysis Chatbot (%d stocks loaded). Type 'quit' to exit.\n", a.stocks.Len())

	return chatLoop(ctx, cmd.InOrStdin(), out, pacing, a.router)
}

// chatLoop reads one query per line until EOF, an exit word or cancellation
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, pacing render.Pacing, bot handlers.Answerer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if handlers.IsExit(query) {
			fmt.Fprintln(out, "Bot: "+handlers.GoodbyeMessage)
			return nil
		}

		fmt.Fprint(out, "Bot: ")
		if err := render.Stream(ctx, out, bot.Process(ctx, query), pacing); err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}
	}
}
