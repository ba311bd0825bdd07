package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/medogram/medoterm/internal/api"
	"github.com/medogram/medoterm/internal/app"
	"github.com/medogram/medoterm/internal/auth"
	"github.com/medogram/medoterm/internal/chat"
	"github.com/medogram/medoterm/internal/feed"
	"github.com/medogram/medoterm/internal/payment"
	"github.com/medogram/medoterm/internal/profile"
	"github.com/medogram/medoterm/internal/session"
	"github.com/medogram/medoterm/internal/store"
	"github.com/medogram/medoterm/internal/wallet"
	"go.uber.org/fx"
)

// deps collects the services pulled out of the fx graph for one command run.
type deps struct {
	session *session.Store
	client  *api.Client
	flow    *auth.Flow
	chat    *chat.Session
	feed    *feed.List
	payment *payment.Initiator
	wallet  *wallet.Service
	store   *store.DB
}

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	var d deps
	fxApp := fx.New(
		fx.NopLogger,
		app.Module(app.Params{ProfileName: profileName}),
		fx.Invoke(func(
			s *session.Store,
			client *api.Client,
			flow *auth.Flow,
			cs *chat.Session,
			list *feed.List,
			pay *payment.Initiator,
			w *wallet.Service,
			db *store.DB,
		) {
			d = deps{
				session: s,
				client:  client,
				flow:    flow,
				chat:    cs,
				feed:    list,
				payment: pay,
				wallet:  w,
				store:   db,
			}
		}),
	)

	bg := context.Background()
	if err := fxApp.Start(bg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = fxApp.Stop(bg) }()

	ctx, cancel := context.WithTimeout(bg, 60*time.Second)
	defer cancel()

	code := run(ctx, &d, args, *jsonFlag)
	if code != 0 {
		_ = fxApp.Stop(bg)
		os.Exit(code)
	}
}

func run(ctx context.Context, d *deps, args []string, jsonOut bool) int {
	switch args[0] {
	case "login":
		return cmdLogin(ctx, d)
	case "status":
		return cmdStatus(ctx, d, jsonOut)
	case "wallet":
		return cmdWallet(ctx, d, jsonOut)
	case "chat":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: medoctl chat <message>")
			return 1
		}
		return cmdChat(ctx, d, strings.Join(args[1:], " "))
	case "blogs":
		return cmdBlogs(ctx, d, jsonOut)
	case "visits":
		return cmdVisits(d, jsonOut)
	case "pay":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: medoctl pay <amount>")
			return 1
		}
		return cmdPay(ctx, d, args[1])
	case "verify-payment":
		if len(args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: medoctl verify-payment <trans_id> <id_get>")
			return 1
		}
		return cmdVerifyPayment(ctx, d, args[1], args[2])
	case "profile":
		return cmdProfile(ctx, d, jsonOut)
	case "logout":
		return cmdLogout(d)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: medoctl [--profile <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  login                          Sign in with phone and OTP")
	fmt.Fprintln(os.Stderr, "  status                         Show session state")
	fmt.Fprintln(os.Stderr, "  wallet                         Show BoxMoney balance")
	fmt.Fprintln(os.Stderr, "  chat <message>                 Send one assistant message")
	fmt.Fprintln(os.Stderr, "  blogs                          List the first feed page")
	fmt.Fprintln(os.Stderr, "  visits                         List locally recorded bookings")
	fmt.Fprintln(os.Stderr, "  pay <amount>                   Request a top-up link")
	fmt.Fprintln(os.Stderr, "  verify-payment <trans> <id>    Confirm a completed payment")
	fmt.Fprintln(os.Stderr, "  profile                        Show account profile")
	fmt.Fprintln(os.Stderr, "  logout                         Clear the stored session")
}

func cmdLogin(ctx context.Context, d *deps) int {
	reader := bufio.NewReader(os.Stdin)

	phone := prompt(reader, "Phone number: ")
	agree := prompt(reader, "Accept terms of service? [y/N]: ")
	d.flow.SetAgreeToTerms(strings.EqualFold(agree, "y"))

	if err := d.flow.SendCode(ctx, phone); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Println("Code sent.")

	code := prompt(reader, "Code: ")
	if err := d.flow.VerifyCode(ctx, code); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if d.flow.Step() == auth.StepCollectUsername {
		name := prompt(reader, "Display name: ")
		if err := d.flow.SaveUsername(ctx, name); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}
	fmt.Println("Signed in.")
	return 0
}

func cmdStatus(ctx context.Context, d *deps, jsonOut bool) int {
	verified := d.session.Verified()
	username := ""
	if verified {
		if name, err := d.client.GetUsername(ctx); err == nil {
			username = name
		}
	}
	if jsonOut {
		outputJSON(map[string]any{"verified": verified, "username": username})
		return 0
	}
	if !verified {
		fmt.Println("Not signed in. Run: medoctl login")
		return 0
	}
	fmt.Printf("Signed in as %s\n", username)
	return 0
}

func cmdWallet(ctx context.Context, d *deps, jsonOut bool) int {
	amount, err := d.wallet.Refresh(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if jsonOut {
		outputJSON(map[string]any{"amount": amount})
		return 0
	}
	fmt.Printf("BoxMoney balance: %d IRR\n", amount)
	return 0
}

func cmdChat(ctx context.Context, d *deps, message string) int {
	if err := d.chat.Send(ctx, message); err != nil {
		if msg := d.chat.LastError(); msg != "" {
			fmt.Fprintf(os.Stderr, "error: %s\n", msg)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return 1
	}
	msgs := d.chat.Messages()
	if len(msgs) > 0 {
		fmt.Println(msgs[len(msgs)-1].Text)
	}
	return 0
}

func cmdBlogs(ctx context.Context, d *deps, jsonOut bool) int {
	if err := d.feed.LoadNextPage(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	items := d.feed.Items()
	if jsonOut {
		outputJSON(items)
		return 0
	}
	if len(items) == 0 {
		fmt.Println("No articles.")
		return 0
	}
	for _, p := range items {
		fmt.Printf("%-6d %-48s %s (%d comments)\n", p.ID, p.Title, p.Author, len(p.Comments))
	}
	if d.feed.HasMore() {
		fmt.Println("(more pages available)")
	}
	return 0
}

func cmdVisits(d *deps, jsonOut bool) int {
	subs, err := d.store.ListVisitSubmissions(0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if jsonOut {
		outputJSON(subs)
		return 0
	}
	if len(subs) == 0 {
		fmt.Println("No bookings recorded.")
		return 0
	}
	for _, s := range subs {
		fmt.Printf("%s  %s\n", time.UnixMilli(s.CreatedAt).Format("2006-01-02 15:04"), s.Payload)
	}
	return 0
}

func cmdPay(ctx context.Context, d *deps, raw string) int {
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: amount must be a number")
		return 1
	}
	url, err := d.payment.RequestLink(ctx, amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Println(url)
	return 0
}

func cmdVerifyPayment(ctx context.Context, d *deps, transID, idGet string) int {
	status, err := d.payment.Verify(ctx, transID, idGet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("Payment %s\n", status)
	return 0
}

func cmdProfile(ctx context.Context, d *deps, jsonOut bool) int {
	p, err := d.client.GetProfile(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if jsonOut {
		outputJSON(p)
		return 0
	}
	fmt.Printf("Username: %s\n", p.Username)
	fmt.Printf("Name:     %s %s\n", p.FirstName, p.LastName)
	fmt.Printf("Email:    %s\n", p.Email)
	fmt.Printf("Phone:    %s\n", p.PhoneNumber)
	return 0
}

func cmdLogout(d *deps) int {
	if err := d.session.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Println("Session cleared.")
	return 0
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}
