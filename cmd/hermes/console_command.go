package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"hermes/internal/daemon"
	"hermes/internal/notifications"
	"hermes/internal/services"
	"hermes/internal/station"
)

const consoleHelp = `Commands:
  /intake          toggle intake mode (resets the counter and the zone)
  /zone <name>     select the zone during intake (or scan a ZONE:<name> label)
  /search [term]   search recorded packages
  /list [n]        list the newest packages
  /resolve <code>  look up a code without recording it
  /delete <code>   remove a package
  /sync            refresh the directory now
  /status          show station status
  /quit            leave the console
In intake mode every other line is recorded as a package; otherwise it is
searched.`

func newConsoleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive intake station",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.fileLogger(cfg)
			s, closeFn, err := ctx.openStation(signalCtx, logger)
			if err != nil {
				return err
			}
			defer closeFn()

			d, err := daemon.New(cfg, s, notifications.NewService(cfg), logger)
			if err != nil {
				return err
			}
			if err := d.Start(signalCtx); err != nil {
				return err
			}
			defer d.Stop()

			out := cmd.OutOrStdout()
			c := &console{
				station:  s,
				daemon:   d,
				out:      out,
				colorize: shouldColorize(out),
			}
			return c.run(signalCtx, cmd.InOrStdin())
		},
	}
}

type console struct {
	station  *station.Station
	daemon   *daemon.Daemon
	out      io.Writer
	colorize bool
}

func (c *console) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(c.out, "hermes console; /help for commands")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		c.prompt()
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := c.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

func (c *console) prompt() {
	session := c.station.Session()
	mode := "search"
	if session.Active {
		mode = fmt.Sprintf("intake #%d", session.Count)
	}
	zone := session.Zone
	if zone == "" {
		zone = "no zone"
	}
	fmt.Fprintf(c.out, "[%s | %s] > ", mode, zone)
}

// handle processes one input line and reports whether the console should
// exit.
func (c *console) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		c.input(ctx, line)
		return false
	}

	command, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(command) {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(c.out, consoleHelp)
	case "intake":
		c.toggleIntake()
	case "zone":
		zone, err := c.station.SelectZone(arg)
		if err != nil {
			c.fail(err)
			return false
		}
		fmt.Fprintf(c.out, "Zone %s active\n", zone)
	case "search":
		c.search(ctx, arg)
	case "list":
		limit, _ := strconv.Atoi(arg)
		records, err := c.station.Packages(ctx, limit)
		if err != nil {
			c.fail(err)
			return false
		}
		fmt.Fprintln(c.out, renderRecords(records))
	case "resolve":
		fmt.Fprintln(c.out, renderMatchLine(arg+": ", c.station.Resolve(arg), c.colorize))
	case "delete":
		deleted, err := c.station.DeletePackage(ctx, arg)
		switch {
		case err != nil:
			c.fail(err)
		case deleted:
			fmt.Fprintf(c.out, "Deleted %s\n", arg)
		default:
			fmt.Fprintf(c.out, "%s not found\n", arg)
		}
	case "sync":
		result, err := c.station.Sync(ctx)
		if err != nil {
			c.fail(err)
			return false
		}
		fmt.Fprintln(c.out, describeSync(result))
	case "status":
		status, err := c.station.Status(ctx)
		if err != nil {
			c.fail(err)
			return false
		}
		fmt.Fprintln(c.out, renderStatus(status, c.colorize))
		if sync := c.daemon.Status().Sync; sync.ConsecutiveFailures > 0 {
			fmt.Fprintln(c.out, renderStatusLine("Sync", statusError,
				fmt.Sprintf("%d failed cycles: %s", sync.ConsecutiveFailures, sync.LastError), c.colorize))
		}
	default:
		fmt.Fprintf(c.out, "Unknown command /%s; /help lists commands\n", command)
	}
	return false
}

func (c *console) input(ctx context.Context, line string) {
	session := c.station.Session()
	isZoneLabel := len(line) > 5 && strings.EqualFold(line[:5], "ZONE:")
	if !session.Active && !isZoneLabel {
		c.search(ctx, line)
		return
	}

	result, err := c.station.Scan(ctx, line)
	if err != nil {
		c.fail(err)
		return
	}
	if result.ZoneSelected {
		fmt.Fprintf(c.out, "Zone %s active\n", result.Zone)
		return
	}
	prefix := fmt.Sprintf("#%d %s -> %s: ", result.Count, result.Record.Code, result.Zone)
	fmt.Fprintln(c.out, renderMatchLine(prefix, result.Match, c.colorize))
}

func (c *console) toggleIntake() {
	if c.station.Session().Active {
		finished := c.station.StopIntake()
		fmt.Fprintf(c.out, "Intake stopped after %d packages\n", finished.Count)
		return
	}
	c.station.StartIntake()
	fmt.Fprintln(c.out, "Intake started; scan a zone label or use /zone first")
}

func (c *console) search(ctx context.Context, term string) {
	hits, err := c.station.Search(ctx, term)
	if err != nil {
		c.fail(err)
		return
	}
	fmt.Fprintln(c.out, renderHits(hits))
}

func (c *console) fail(err error) {
	message := err.Error()
	if errors.Is(err, services.ErrValidation) {
		message = strings.TrimPrefix(message, services.ErrValidation.Error()+": ")
	}
	fmt.Fprintln(c.out, paint("! "+message, statusError, c.colorize))
}
