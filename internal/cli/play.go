package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"triviaworlds/internal/app"
	"triviaworlds/internal/config"
	"triviaworlds/internal/domain"
	"triviaworlds/internal/id"
	"triviaworlds/internal/logger"
)

// NewPlayCmd builds the subcommand that plays a game in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		bankPath string
		seed     int64
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play TriviaWorlds in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, bankPath, seed, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&bankPath, "bank", "", "question bank JSON file (overrides the configured bank)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for question sampling (0 = time based)")
	return cmd
}

func runPlay(ctx context.Context, configPath, bankPath string, seed int64, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if bankPath != "" {
		cfg.Bank.Driver = "file"
		cfg.Bank.Source = bankPath
	}
	if seed != 0 {
		cfg.Game.Seed = seed
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer syncLogger(log)

	loader, closeLoader, err := newBankLoader(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLoader()

	bank, err := app.InstrumentLoader(loader, log, nil).LoadBank(ctx, cfg.Bank.Source)
	if err != nil {
		return err
	}

	var rnd *rand.Rand
	if cfg.Game.Seed != 0 {
		rnd = rand.New(rand.NewSource(cfg.Game.Seed))
	}
	quiz, err := app.NewQuizSession(bank, gameSettings(cfg), rnd)
	if err != nil {
		return err
	}

	log = log.With(zap.String("player", id.New()))
	return newTerminal(in, out, quiz, log).run()
}

// terminal renders a QuizSession as a line-based text game.
type terminal struct {
	in   *bufio.Scanner
	out  io.Writer
	quiz *app.QuizSession
	log  *zap.Logger
}

func newTerminal(in io.Reader, out io.Writer, quiz *app.QuizSession, log *zap.Logger) *terminal {
	return &terminal{in: bufio.NewScanner(in), out: out, quiz: quiz, log: log}
}

// run loops over the level map until the game is complete, the player quits or input ends.
func (t *terminal) run() error {
	total := t.quiz.Settings().TotalLevels
	t.println("Welcome to TriviaWorlds!")
	for {
		t.printLevelMap()
		line, ok := t.prompt(fmt.Sprintf("Select a level (1-%d) or q to quit: ", total))
		if !ok {
			return nil
		}
		if strings.EqualFold(line, "q") || strings.EqualFold(line, "quit") {
			t.println("Bye!")
			return nil
		}

		level, err := strconv.Atoi(line)
		if err != nil {
			t.println("Please enter a level number.")
			continue
		}
		if err := t.quiz.StartLevel(level); err != nil {
			if errors.Is(err, domain.ErrLevelOutOfRange) {
				t.printf("There is no level %d.\n", level)
				continue
			}
			return err
		}

		eof, err := t.playLevel()
		if err != nil || eof {
			return err
		}
		if t.quiz.IsGameComplete() {
			t.println("Congratulations! You completed TriviaWorlds!")
			t.log.Info("game complete")
			return nil
		}
	}
}

func (t *terminal) playLevel() (eof bool, err error) {
	level := t.quiz.CurrentLevel()
	perLevel := t.quiz.Settings().QuestionsPerLevel
	t.printf("\n=== Level %d ===\n", level)

	for {
		q, err := t.quiz.CurrentQuestion()
		if errors.Is(err, domain.ErrLevelComplete) {
			break
		}
		if err != nil {
			return false, err
		}

		t.printf("\nQuestion %d of %d\n%s\n", t.quiz.QuestionIndex()+1, perLevel, q.Prompt)
		for _, label := range domain.OptionLabels {
			t.printf("  %s. %s\n", label, q.Options[label])
		}

		result, eof, err := t.askAnswer()
		if err != nil || eof {
			return eof, err
		}
		if result.WasCorrect {
			t.println("Good job!")
		} else {
			t.printf("Wrong answer! The correct one was: %s. %s\n", result.CorrectLabel, result.CorrectText)
		}
	}

	outcome, err := t.quiz.FinishLevel()
	if err != nil {
		return false, err
	}
	t.log.Info("level finished", zap.Int("level", level), zap.Stringer("outcome", outcome))
	if outcome == domain.Passed {
		t.println("Level passed!")
	} else {
		t.printf("Level failed! You answered %d/%d correctly.\n", t.quiz.CorrectCount(), perLevel)
	}
	return false, nil
}

// askAnswer re-prompts until the session accepts a label.
func (t *terminal) askAnswer() (domain.AnswerResult, bool, error) {
	for {
		line, ok := t.prompt("Your answer: ")
		if !ok {
			return domain.AnswerResult{}, true, nil
		}
		result, err := t.quiz.SubmitAnswer(line)
		switch {
		case errors.Is(err, domain.ErrNoSelection):
			t.println("Please select an answer before continuing!")
		case errors.Is(err, domain.ErrInvalidLabel):
			t.printf("Please answer with one of %s.\n", strings.Join(domain.OptionLabels, ", "))
		case err != nil:
			return domain.AnswerResult{}, false, err
		default:
			return result, false, nil
		}
	}
}

func (t *terminal) printLevelMap() {
	t.println("\nSelect a Level")
	for i, outcome := range t.quiz.LevelOutcomes() {
		t.printf("  Level %2d  [%s]\n", i+1, outcome)
	}
}

func (t *terminal) prompt(text string) (string, bool) {
	fmt.Fprint(t.out, text)
	if !t.in.Scan() {
		fmt.Fprintln(t.out)
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}

func (t *terminal) println(text string) {
	fmt.Fprintln(t.out, text)
}

func (t *terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}
