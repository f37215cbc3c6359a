package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"ridepool/internal/config"
	"ridepool/internal/services"
	"ridepool/pkg/api"
	"ridepool/pkg/logger"
	"ridepool/pkg/session"
)

var errUsage = errors.New("usage")

// app is what every sub-command gets: configuration, the stored session and
// an API client authenticated with it.
type app struct {
	cfg     *config.Config
	logger  *logger.Logger
	session *session.Session
	client  *api.Client
	out     io.Writer
}

type command struct {
	usage string
	auth  bool
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"register":  {"register -name NAME -email EMAIL -password PASS [-phone E164] [-mode rider|driver]", false, runRegister},
	"login":     {"login -email EMAIL -password PASS", false, runLogin},
	"logout":    {"logout", false, runLogout},
	"profile":   {"profile [-name NAME] [-phone E164] [-bio TEXT] [-push-token TOKEN]", true, runProfile},
	"mode":      {"mode rider|driver", true, runMode},
	"photo":     {"photo PATH", true, runPhoto},
	"search":    {"search [-from TEXT] [-to TEXT]", true, runSearch},
	"ride":      {"ride RIDE_ID", true, runRide},
	"request":   {"request -ride RIDE_ID -join STOP -end STOP [-message TEXT]", true, runRequest},
	"offer":     {"offer -car CAR_ID -from TEXT -to TEXT -at RFC3339 -seats N -fare AMOUNT [-stops 'Name@lat,lng;...']", true, runOffer},
	"rides":     {"rides", true, runMyRides},
	"requests":  {"requests RIDE_ID [accept|reject REQUEST_ID]", true, runRequests},
	"history":   {"history [rate HISTORY_ID -rating 1-5 [-comment TEXT]]", true, runHistory},
	"chats":     {"chats [-with USER_ID]", true, runChats},
	"messages":  {"messages CONVERSATION_ID [-send TEXT] [-follow]", true, runMessages},
	"cars":      {"cars [add -make M -model M -color C -plate P -seats N | remove CAR_ID]", true, runCars},
	"schedules": {"schedules [add -day 0-6 -at HH:MM -from TEXT -to TEXT]", true, runSchedules},
	"locations": {"locations [save -label L -address A]", true, runLocations},
	"locate":    {"locate ADDRESS | -lat LAT -lng LNG | -search QUERY", false, runLocate},
	"distance":  {"distance FROM_ADDRESS TO_ADDRESS", false, runDistance},
	"watch":     {"watch [-ride RIDE_ID]", true, runWatch},
	"simulate":  {"simulate -ride RIDE_ID -from ADDRESS -to ADDRESS [-steps N] [-every DURATION]", true, runSimulate},
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	name := os.Args[1]
	cmd, ok := commands[name]
	if !ok {
		if name != "help" && name != "-h" && name != "--help" {
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
		}
		printUsage(os.Stderr)
		os.Exit(2)
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cmd.auth && !a.session.IsAuthenticated() {
		fmt.Fprintln(os.Stderr, "Not signed in. Run `ridepool login` first.")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.run(ctx, a, os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			if !errors.Is(err, flag.ErrHelp) && err != errUsage {
				fmt.Fprintln(os.Stderr, err)
			}
			fmt.Fprintf(os.Stderr, "usage: ridepool %s\n", cmd.usage)
			os.Exit(2)
		}
		if errors.Is(err, context.Canceled) {
			return
		}
		reportError(err)
		os.Exit(1)
	}
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.App.LogLevel),
		Format:     cfg.App.LogFormat,
		Output:     cfg.App.LogOutput,
		TimeFormat: time.RFC3339,
		AppName:    cfg.App.Name,
		Version:    cfg.App.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	sess, err := session.Open(cfg.Session.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  log,
		session: sess,
		client:  api.New(cfg.API, sess, log),
		out:     os.Stdout,
	}, nil
}

// reportError prints err the way the matching screen would show it inline.
func reportError(err error) {
	ue := services.Classify(err)
	fmt.Fprintf(os.Stderr, "Error: %s\n", ue.Message)
	if ue.Kind == services.KindValidation && len(ue.Fields) > 0 {
		fields := make([]string, 0, len(ue.Fields))
		for f := range ue.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", f, ue.Fields[f])
		}
	}
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: ridepool <command> [flags]")
	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseFlags accepts flags before and after positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func required(values map[string]string) error {
	var missing []string
	for name, v := range values {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: missing %s", errUsage, strings.Join(missing, ", "))
}
