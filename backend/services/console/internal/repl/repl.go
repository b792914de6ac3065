// Package repl is the interactive front desk: one line per command, results printed as text.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/identity"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/console/internal/gateway"
)

// API is the gateway surface the console drives.
type API interface {
	Login(ctx context.Context, mobile, pin string) (string, error)
	Dashboard(ctx context.Context, bearer string) (*gateway.Dashboard, error)
	StartSession(ctx context.Context, bearer, tableID string, players int) (*gateway.Session, error)
	UpdatePlayers(ctx context.Context, bearer, sessionID string, players int) (*gateway.Session, error)
	EndSession(ctx context.Context, bearer, sessionID string) (*gateway.Bill, error)
	Pay(ctx context.Context, bearer, sessionID string, amount decimal.Decimal, method string) (*gateway.Payment, error)
	PaymentsToday(ctx context.Context, bearer string) ([]gateway.Payment, error)
}

type command struct {
	usage string
	args  int
	run   func(ctx context.Context, args []string) error
}

// REPL reads commands from in and writes results to out.
type REPL struct {
	ident    *identity.Context
	api      API
	out      io.Writer
	logger   *zap.Logger
	commands map[string]command
	order    []string
}

// New builds a REPL over an identity context and gateway API.
func New(ident *identity.Context, api API, out io.Writer, logger *zap.Logger) *REPL {
	r := &REPL{ident: ident, api: api, out: out, logger: logger, commands: map[string]command{}}
	r.register("login", "login <mobile> <pin>", 2, r.login)
	r.register("act-as", "act-as <cafe_id>", 1, r.actAs)
	r.register("switch-back", "switch-back", 0, r.switchBack)
	r.register("logout", "logout", 0, r.logout)
	r.register("whoami", "whoami", 0, r.whoami)
	r.register("tables", "tables", 0, r.tables)
	r.register("start", "start <table_id> <players>", 2, r.start)
	r.register("players", "players <session_id> <count>", 2, r.players)
	r.register("end", "end <session_id>", 1, r.end)
	r.register("pay", "pay <session_id> <amount> <Cash|Online>", 3, r.pay)
	r.register("payments", "payments", 0, r.payments)
	return r
}

func (r *REPL) register(name, usage string, args int, run func(context.Context, []string) error) {
	r.commands[name] = command{usage: usage, args: args, run: run}
	r.order = append(r.order, name)
}

// Run processes lines until in is exhausted, "quit" is read or ctx is cancelled.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
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
		scanErr <- scanner.Err()
	}()

	r.prompt()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if quit := r.Exec(ctx, line); quit {
				return nil
			}
			r.prompt()
		}
	}
}

// Exec runs one command line and reports whether the user asked to quit.
func (r *REPL) Exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	switch name {
	case "quit", "exit":
		return true
	case "help":
		r.help()
		return false
	}

	cmd, ok := r.commands[name]
	if !ok {
		fmt.Fprintf(r.out, "unknown command %q, try help\n", name)
		return false
	}
	if len(args) != cmd.args {
		fmt.Fprintf(r.out, "usage: %s\n", cmd.usage)
		return false
	}
	if err := cmd.run(ctx, args); err != nil {
		r.report(name, err)
	}
	return false
}

func (r *REPL) prompt() {
	label := "anonymous"
	if id, ok := r.ident.Identity(); ok {
		label = id.Subject
		if id.CafeID != "" {
			label += "@" + id.CafeID
		}
		if id.IsImpersonating {
			label += " (owner)"
		}
	}
	fmt.Fprintf(r.out, "%s> ", label)
}

func (r *REPL) help() {
	for _, name := range r.order {
		fmt.Fprintf(r.out, "  %s\n", r.commands[name].usage)
	}
	fmt.Fprintln(r.out, "  quit")
}

func (r *REPL) report(name string, err error) {
	kind := errs.KindOf(err)
	if kind == errs.KindUnknown {
		r.logger.Warn("command failed", zap.String("command", name), zap.Error(err))
	}
	fmt.Fprintf(r.out, "error: %s (%s)\n", errs.Message(err), kind)
}

func (r *REPL) login(ctx context.Context, args []string) error {
	raw, err := r.api.Login(ctx, args[0], args[1])
	if err != nil {
		r.ident.Logout()
		return err
	}
	if _, err := r.ident.Login(raw); err != nil {
		return err
	}
	return r.whoami(ctx, nil)
}

func (r *REPL) actAs(ctx context.Context, args []string) error {
	if _, err := r.ident.AssumeStaffRole(ctx, args[0]); err != nil {
		return err
	}
	return r.whoami(ctx, nil)
}

func (r *REPL) switchBack(ctx context.Context, _ []string) error {
	if _, err := r.ident.SwitchBackToOwner(); err != nil {
		return err
	}
	return r.whoami(ctx, nil)
}

func (r *REPL) logout(context.Context, []string) error {
	r.ident.Logout()
	fmt.Fprintln(r.out, "logged out")
	return nil
}

func (r *REPL) whoami(context.Context, []string) error {
	id, ok := r.ident.Identity()
	if !ok {
		fmt.Fprintln(r.out, "anonymous")
		return nil
	}
	fmt.Fprintf(r.out, "%s as %s", id.Subject, r.ident.State())
	if id.CafeID != "" {
		fmt.Fprintf(r.out, " at cafe %s", id.CafeID)
	}
	fmt.Fprintf(r.out, ", credential expires %s\n", id.ExpiresAt.Local().Format(time.Kitchen))
	return nil
}

func (r *REPL) tables(ctx context.Context, _ []string) error {
	bearer, err := r.ident.Bearer()
	if err != nil {
		return err
	}
	dash, err := r.api.Dashboard(ctx, bearer)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tNAME\tTYPE\tSTATUS\tSESSION\tPLAYERS\tELAPSED\tDUE")
	for _, t := range dash.Tables {
		due := ""
		if t.Bill != nil {
			due = t.Bill.TotalDue.StringFixed(2)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Name, t.Type, t.Status, t.SessionID, blankZero(t.Players), t.Elapsed, due)
	}
	return tw.Flush()
}

func (r *REPL) start(ctx context.Context, args []string) error {
	players, err := parseCount(args[1])
	if err != nil {
		return err
	}
	bearer, err := r.ident.Bearer()
	if err != nil {
		return err
	}
	s, err := r.api.StartSession(ctx, bearer, args[0], players)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "session %s started on %s with %d players\n", s.ID, s.TableID, s.Players)
	return nil
}

func (r *REPL) players(ctx context.Context, args []string) error {
	players, err := parseCount(args[1])
	if err != nil {
		return err
	}
	bearer, err := r.ident.Bearer()
	if err != nil {
		return err
	}
	s, err := r.api.UpdatePlayers(ctx, bearer, args[0], players)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "session %s now has %d players\n", s.ID, s.Players)
	return nil
}

func (r *REPL) end(ctx context.Context, args []string) error {
	bearer, err := r.ident.Bearer()
	if err != nil {
		return err
	}
	bill, err := r.api.EndSession(ctx, bearer, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "session %s ended after %d min\n", bill.SessionID, bill.TotalMinutes)
	fmt.Fprintf(r.out, "  time      %s\n", bill.TimeBasedCost.StringFixed(2))
	fmt.Fprintf(r.out, "  extra x%d  %s\n", bill.ExtraPlayers, bill.ExtraPlayerCharge.StringFixed(2))
	fmt.Fprintf(r.out, "  total due %s\n", bill.TotalDue.StringFixed(2))
	for _, w := range bill.Warnings {
		fmt.Fprintf(r.out, "  warning: %s\n", w)
	}
	return nil
}

func (r *REPL) pay(ctx context.Context, args []string) error {
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return errs.E(errs.KindInvalidInput, "console.pay", "amount must be a number")
	}
	bearer, err := r.ident.Bearer()
	if err != nil {
		return err
	}
	p, err := r.api.Pay(ctx, bearer, args[0], amount, args[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "payment %s: %s by %s for %d min\n", p.ID, p.Amount.StringFixed(2), p.Method, p.MinutesPlayed)
	return nil
}

func (r *REPL) payments(ctx context.Context, _ []string) error {
	bearer, err := r.ident.Bearer()
	if err != nil {
		return err
	}
	list, err := r.api.PaymentsToday(ctx, bearer)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(r.out, "no payments today")
		return nil
	}
	total := decimal.Zero
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTABLE\tSESSION\tMETHOD\tMINUTES\tAMOUNT")
	for _, p := range list {
		total = total.Add(p.Amount)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			p.PaidAt.Local().Format(time.Kitchen), p.TableName, p.SessionID, p.Method, p.MinutesPlayed, p.Amount.StringFixed(2))
	}
	fmt.Fprintf(tw, "\t\t\t\tTOTAL\t%s\n", total.StringFixed(2))
	return tw.Flush()
}

func parseCount(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.E(errs.KindInvalidInput, "console.parse", "player count must be a whole number")
	}
	return n, nil
}

func blankZero(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
