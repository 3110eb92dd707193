// Command receiptctl reviews receipts from the terminal: it signs in with
// Telegram launch data, keeps the access token in an encrypted local session and
// lists or confirms receipts.
package main

import (
	"Receipt-Tracker/domain"
	"Receipt-Tracker/pkg/client"
	"Receipt-Tracker/pkg/session"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/shopspring/decimal"
)

type app struct {
	stdout    io.Writer
	serverURL *string
	dbPath    *string
	sessionID *string
	aesKey    *string

	backend *session.BoltBackend
	client  *client.Client
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, ff.ErrHelp) {
			slog.Error("receiptctl failed", "error", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	a := &app{stdout: stdout}

	rootFlags := ff.NewFlagSet("receiptctl")
	a.serverURL = rootFlags.StringLong("server", "http://localhost:8080", "receipt tracker API base URL")
	a.dbPath = rootFlags.StringLong("session-db", "receiptctl.db", "session store file")
	a.sessionID = rootFlags.StringLong("session", "default", "session name")
	a.aesKey = rootFlags.StringLong("aes-key", "", "secret used to encrypt the stored token")

	loginFlags := ff.NewFlagSet("login").SetParent(rootFlags)
	initData := loginFlags.StringLong("init-data", "", "Telegram WebApp initData string")

	listFlags := ff.NewFlagSet("receipts").SetParent(rootFlags)
	status := listFlags.StringLong("status", "", "filter by status")
	store := listFlags.StringLong("store", "", "filter by exact store name")
	query := listFlags.StringLong("q", "", "search store, amount or item names")
	date := listFlags.StringLong("date", "", "today, week or month")

	confirmFlags := ff.NewFlagSet("confirm").SetParent(rootFlags)
	newStore := confirmFlags.StringLong("store", "", "corrected store name")
	newTotal := confirmFlags.StringLong("total", "", "corrected total amount")
	newDate := confirmFlags.StringLong("date", "", "corrected transaction date (RFC 3339)")

	root := &ff.Command{
		Name:      "receiptctl",
		Usage:     "receiptctl [FLAGS] <SUBCOMMAND>",
		ShortHelp: "review receipts from the terminal",
		Flags:     rootFlags,
		Subcommands: []*ff.Command{
			{
				Name:      "login",
				Usage:     "receiptctl login --init-data <DATA>",
				ShortHelp: "exchange Telegram launch data for a session",
				Flags:     loginFlags,
				Exec: func(ctx context.Context, _ []string) error {
					return a.login(ctx, *initData)
				},
			},
			{
				Name:      "receipts",
				Usage:     "receiptctl receipts [FLAGS]",
				ShortHelp: "list receipts, newest first",
				Flags:     listFlags,
				Exec: func(ctx context.Context, _ []string) error {
					return a.list(ctx, domain.ReceiptFilter{Status: *status, Store: *store, Query: *query, Date: *date})
				},
			},
			{
				Name:      "show",
				Usage:     "receiptctl show <RECEIPT_ID>",
				ShortHelp: "print one receipt with its items",
				Flags:     ff.NewFlagSet("show").SetParent(rootFlags),
				Exec: func(ctx context.Context, args []string) error {
					if len(args) != 1 {
						return errors.New("show needs exactly one receipt id")
					}
					return a.show(ctx, args[0])
				},
			},
			{
				Name:      "confirm",
				Usage:     "receiptctl confirm [FLAGS] <RECEIPT_ID>",
				ShortHelp: "apply corrections and mark a receipt verified",
				Flags:     confirmFlags,
				Exec: func(ctx context.Context, args []string) error {
					if len(args) != 1 {
						return errors.New("confirm needs exactly one receipt id")
					}
					return a.confirm(ctx, args[0], *newStore, *newTotal, *newDate)
				},
			},
			{
				Name:      "logout",
				Usage:     "receiptctl logout",
				ShortHelp: "forget the stored token",
				Flags:     ff.NewFlagSet("logout").SetParent(rootFlags),
				Exec: func(ctx context.Context, _ []string) error {
					return a.logout(ctx)
				},
			},
		},
	}

	if err := root.Parse(args, ff.WithEnvVarPrefix("RECEIPTCTL")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(root.GetSelected()))
		return err
	}
	if root.GetSelected() == root {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(root))
		return ff.ErrHelp
	}

	if err := a.open(); err != nil {
		return err
	}
	defer a.backend.Close()

	return root.Run(ctx)
}

func (a *app) open() error {
	cipher, err := session.NewCipher(*a.aesKey)
	if err != nil {
		return fmt.Errorf("set --aes-key or RECEIPTCTL_AES_KEY: %w", err)
	}
	backend, err := session.NewBoltBackend(*a.dbPath)
	if err != nil {
		return err
	}
	a.backend = backend
	a.client = client.New(*a.serverURL, session.New(*a.sessionID, backend, cipher))
	return nil
}

func (a *app) login(ctx context.Context, initData string) error {
	if initData == "" {
		return errors.New("--init-data is required")
	}
	res, err := a.client.Login(ctx, initData)
	if err != nil {
		return err
	}
	slog.Info("signed in", "user", res.UserProfile.FirstName, "telegram_id", res.UserProfile.TelegramID, "receipts", len(res.UserReceipts))
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		return err
	}
	slog.Info("signed out", "session", *a.sessionID)
	return nil
}

func (a *app) list(ctx context.Context, filter domain.ReceiptFilter) error {
	receipts, err := a.client.Receipts(ctx, filter)
	if err != nil {
		return err
	}
	printReceipts(a.stdout, receipts)
	return nil
}

func (a *app) show(ctx context.Context, id string) error {
	receipt, err := a.client.Receipt(ctx, id)
	if err != nil {
		return err
	}
	printReceipt(a.stdout, receipt)
	return nil
}

func (a *app) confirm(ctx context.Context, id, store, total, date string) error {
	receipt, err := a.client.Receipt(ctx, id)
	if err != nil {
		return err
	}

	req, err := applyEdits(client.StageEdits(receipt), store, total, date)
	if err != nil {
		return err
	}

	res, err := a.client.Confirm(ctx, id, req)
	if err != nil {
		return err
	}
	slog.Info("receipt confirmed", "id", res.Receipt.ID, "status", res.Receipt.Status, "edited_fields", res.Receipt.EditedFields)
	return nil
}

// applyEdits overrides the staged header fields that were given on the command
// line.
func applyEdits(req domain.ConfirmReceiptRequest, store, total, date string) (domain.ConfirmReceiptRequest, error) {
	if store != "" {
		req.StoreName = store
	}
	if total != "" {
		amount, err := decimal.NewFromString(total)
		if err != nil {
			return req, fmt.Errorf("invalid --total %q: %w", total, err)
		}
		req.TotalAmount = amount
	}
	if date != "" {
		t, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return req, fmt.Errorf("invalid --date %q: %w", date, err)
		}
		req.TransactionDate = t
	}
	return req, nil
}

func printReceipts(w io.Writer, receipts []domain.ReceiptResponse) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTORE\tDATE\tTOTAL\tSTATUS")
	for _, r := range receipts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.StoreName, r.TransactionDate.Format("2006-01-02 15:04"), r.TotalAmount.StringFixed(2), r.Status)
	}
	tw.Flush()
}

func printReceipt(w io.Writer, r domain.ReceiptResponse) {
	fmt.Fprintf(w, "%s  %s  %s\n", r.StoreName, r.TransactionDate.Format("2006-01-02 15:04"), r.Status)
	fmt.Fprintf(w, "confidence %.2f", r.Confidence)
	if r.Mismatch {
		fmt.Fprint(w, "  items do not add up to the total")
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tQTY\tPRICE\tTOTAL\tCATEGORY")
	for _, item := range r.ReceiptItems {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", item.Name, item.Qty, item.Price.StringFixed(2), item.TotalPrice.StringFixed(2), item.Category)
	}
	tw.Flush()

	fmt.Fprintf(w, "subtotal %s  discount %s  voucher %s  total %s (declared %s)\n",
		r.Summary.Subtotal.StringFixed(2), r.Summary.Discount.StringFixed(2),
		r.Summary.Voucher.StringFixed(2), r.Summary.Total.StringFixed(2), r.TotalAmount.StringFixed(2))
}
