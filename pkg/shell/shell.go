// Package shell implements a line-oriented terminal front-end for the forecast chatbot.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"food-demand-chat-api/pkg/models"
	"food-demand-chat-api/pkg/services"
)

const prompt = "> "

// Shell は1プロセス=1セッションの対話シェルです。
type Shell struct {
	chat     *services.ForecastChatService
	exporter *services.ExportService
	state    *services.SessionState
	in       io.Reader
	out      io.Writer
}

// New は新しいセッションを持つシェルを作成します。
func New(chat *services.ForecastChatService, exporter *services.ExportService, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		chat:     chat,
		exporter: exporter,
		state:    services.NewSessionState("terminal"),
		in:       in,
		out:      out,
	}
}

// Run は入力が尽きるか quit/exit が入力されるまでコマンドを処理します。
// 各コマンドのエラーは表示するだけでループは継続する。
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Restaurant Demand Prediction with Chatbot")
	fmt.Fprintln(s.out, "Select day, weather, and dish to predict demand and ask questions. Type 'help' for commands.")

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !s.Execute(ctx, scanner.Text()) {
			break
		}
	}
	// セッション終了でキャッシュを破棄
	s.state.Clear()
	return scanner.Err()
}

// Execute は1行を処理します。終了コマンドならfalse。
func (s *Shell) Execute(ctx context.Context, line string) bool {
	cmd, rest := splitCommand(line)

	switch cmd {
	case "":
	case "quit", "exit":
		fmt.Fprintln(s.out, "Bye!")
		return false
	case "help":
		s.printHelp()
	case "options":
		s.printOptions()
	case "predict":
		s.predict(ctx, strings.Fields(rest))
	case "ask":
		s.ask(rest)
	case "show":
		s.show()
	case "export":
		s.export(rest)
	default:
		s.print(models.DisplayMessage{Severity: models.SeverityWarning, Text: fmt.Sprintf("Unknown command %q. Type 'help' for commands.", cmd)})
	}
	return true
}

func (s *Shell) predict(ctx context.Context, args []string) {
	if len(args) != 3 {
		s.print(models.DisplayMessage{Severity: models.SeverityWarning, Text: "Usage: predict <day> <weather> <dish>"})
		return
	}
	result, err := s.chat.Predict(ctx, s.state, args[0], args[1], args[2])
	if err != nil {
		s.print(services.DisplayMessageOf(err))
		return
	}
	for _, msg := range models.PredictionMessages(*result) {
		s.print(msg)
	}
}

func (s *Shell) ask(question string) {
	answer, err := s.chat.Ask(s.state, question)
	if err != nil {
		s.print(services.DisplayMessageOf(err))
		return
	}
	fmt.Fprintln(s.out, "Chatbot Answer:")
	fmt.Fprintln(s.out, answer)
}

func (s *Shell) show() {
	last, err := s.chat.LastPrediction(s.state)
	if err != nil {
		s.print(services.DisplayMessageOf(err))
		return
	}
	fmt.Fprintf(s.out, "Last prediction: %s on %s\n", last.Dish, last.Day)
	for _, msg := range models.PredictionMessages(last) {
		s.print(msg)
	}
}

func (s *Shell) export(path string) {
	path = strings.TrimSpace(path)
	last, err := s.chat.LastPrediction(s.state)
	if err != nil {
		s.print(services.DisplayMessageOf(err))
		return
	}
	if path == "" {
		path = services.ExportFileName(last)
	}

	f, err := os.Create(path)
	if err != nil {
		s.print(models.DisplayMessage{Severity: models.SeverityError, Text: err.Error()})
		return
	}
	defer f.Close()

	if err := s.exporter.WriteWorkbook(f, last, time.Now()); err != nil {
		s.print(models.DisplayMessage{Severity: models.SeverityError, Text: err.Error()})
		return
	}
	s.print(models.DisplayMessage{Severity: models.SeveritySuccess, Text: "Exported to " + path})
}

func (s *Shell) printOptions() {
	fmt.Fprintf(s.out, "Day of Week: %s\n", strings.Join(services.DayTable.Labels(), ", "))
	fmt.Fprintf(s.out, "Weather:     %s\n", strings.Join(services.WeatherTable.Labels(), ", "))
	fmt.Fprintf(s.out, "Dish:        %s\n", strings.Join(services.DishTable.Labels(), ", "))
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `Commands:
  options                          list selectable days, weather and dishes
  predict <day> <weather> <dish>   predict demand and remember the result
  ask <question>                   ask about the last prediction
  show                             show the last prediction
  export [file.xlsx]               save the last prediction as an Excel file
  quit                             leave the shell`)
}

func (s *Shell) print(msg models.DisplayMessage) {
	fmt.Fprintf(s.out, "[%s] %s\n", msg.Severity, msg.Text)
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	cmd, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(rest)
}
