package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/spec-kit/crm-console/internal/calls"
	"github.com/spec-kit/crm-console/internal/directory"
	"github.com/spec-kit/crm-console/internal/domain"
	"github.com/spec-kit/crm-console/internal/gateway"
	"github.com/spec-kit/crm-console/internal/session"
	"github.com/spec-kit/crm-console/internal/stats"
	apperrors "github.com/spec-kit/crm-console/pkg/util/errorutil"
)

// console is the interactive front end. It renders; state lives in the
// session manager and the directory cache.
type console struct {
	sessions *session.Manager
	cache    *directory.Cache
	calls    *calls.Service
	client   *gateway.Client
	in       *bufio.Scanner
	out      io.Writer
}

func newConsole(sessions *session.Manager, cache *directory.Cache, callLog *calls.Service, client *gateway.Client, in io.Reader, out io.Writer) *console {
	return &console{
		sessions: sessions,
		cache:    cache,
		calls:    callLog,
		client:   client,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

func (c *console) run(ctx context.Context) {
	fmt.Fprintln(c.out, "crm-console — type 'help' for commands")
	if c.sessions.IsAuthenticated() {
		fmt.Fprintf(c.out, "signed in as %s (%s)\n", c.sessions.User().Name, c.sessions.User().Role)
	}

	for {
		fmt.Fprint(c.out, "> ")
		if !c.in.Scan() {
			return
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		args := strings.Fields(line)
		if args[0] == "quit" || args[0] == "exit" {
			return
		}
		c.dispatch(ctx, args)
	}
}

func (c *console) dispatch(ctx context.Context, args []string) {
	switch args[0] {
	case "help":
		c.printHelp()
	case "login":
		c.cmdLogin(ctx, args)
	case "logout":
		c.sessions.Logout()
		fmt.Fprintln(c.out, "signed out")
	case "whoami":
		c.cmdWhoami()
	case "customers":
		c.cmdCustomers()
	case "add":
		c.cmdAddCustomer(ctx)
	case "show":
		c.cmdShowCustomer(ctx, args)
	case "status":
		c.cmdStatus(ctx, args)
	case "call":
		c.cmdLogCall(ctx, args)
	case "employees":
		c.cmdEmployees(ctx)
	case "hire":
		c.cmdHire(ctx)
	case "stats":
		c.cmdStats()
	case "refresh":
		c.cache.Refresh(ctx)
		fmt.Fprintln(c.out, "refreshed")
	default:
		fmt.Fprintf(c.out, "unknown command %q — type 'help'\n", args[0])
	}
}

func (c *console) printHelp() {
	fmt.Fprint(c.out, `commands:
  login <email>          sign in (prompts for password)
  logout                 sign out
  whoami                 show the signed-in user
  customers              list cached customers
  add                    add a customer (prompts for fields)
  show <id>              customer detail with call log
  status <id> <status>   set a customer's status (new|noresponse|cancelled|buyed)
  call <id> <status> [message...]  log a call against a customer
  employees              list employees (admin)
  hire                   add an employee (admin, prompts for fields)
  stats                  pipeline summary
  refresh                reload the customer list
  quit                   exit
`)
}

func (c *console) cmdLogin(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "usage: login <email>")
		return
	}
	password, err := c.readPassword("password: ")
	if err != nil {
		fmt.Fprintf(c.out, "could not read password: %v\n", err)
		return
	}

	profile, err := c.sessions.Login(ctx, domain.Credentials{Email: args[1], Password: password})
	if err != nil {
		// Already notified; nothing else to render.
		return
	}
	fmt.Fprintf(c.out, "signed in as %s (%s)\n", profile.Name, profile.Role)
}

func (c *console) cmdWhoami() {
	user := c.sessions.User()
	if user == nil {
		fmt.Fprintln(c.out, "not signed in")
		return
	}
	fmt.Fprintf(c.out, "%s <%s> role=%s\n", user.Name, user.Email, user.Role)
}

func (c *console) cmdCustomers() {
	if !c.requireSession() {
		return
	}
	items := c.cache.Items()
	if len(items) == 0 {
		fmt.Fprintln(c.out, "no customers")
		return
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tSTATUS\tVISIT")
	for _, customer := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			customer.ID, customer.Name, customer.Phone, customer.Status,
			customer.VisitTime.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func (c *console) cmdAddCustomer(ctx context.Context) {
	if !c.requireSession() {
		return
	}

	data := domain.NewCustomer{
		Name:  c.prompt("name: "),
		Phone: c.prompt("phone: "),
		Email: c.prompt("email (optional): "),
		Note:  c.prompt("note (optional): "),
	}
	visit := c.prompt("visit time (YYYY-MM-DDTHH:MM, blank = now): ")
	if visit == "" {
		data.VisitTime = domain.NewTimestamp(time.Now())
	} else {
		parsed, err := domain.ParseTimestamp(visit)
		if err != nil {
			fmt.Fprintf(c.out, "%v\n", err)
			return
		}
		data.VisitTime = parsed
	}

	// The cache validates nothing; the form does.
	if err := domain.ValidateNewCustomer(data); err != nil {
		c.printFieldErrors(err)
		return
	}

	customer, err := c.cache.Create(ctx, data)
	if err != nil {
		return
	}
	fmt.Fprintf(c.out, "created %s\n", customer.ID)
}

func (c *console) cmdShowCustomer(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "usage: show <id>")
		return
	}
	if !c.requireSession() {
		return
	}

	customer, err := c.client.GetCustomer(ctx, args[1])
	if err != nil {
		fmt.Fprintf(c.out, "failed to load customer: %v\n", err)
		return
	}

	fmt.Fprintf(c.out, "%s\n  phone: %s\n  email: %s\n  visit: %s\n  status: %s\n",
		customer.Name, customer.Phone, orDash(customer.Email),
		customer.VisitTime.Format("2006-01-02 15:04"), customer.Status)
	if customer.Note != "" {
		fmt.Fprintf(c.out, "  note: %s\n", customer.Note)
	}

	callLog, err := c.calls.List(ctx, customer.ID)
	if err != nil {
		fmt.Fprintf(c.out, "failed to load calls: %v\n", err)
		return
	}
	if len(callLog) == 0 {
		fmt.Fprintln(c.out, "  no calls logged")
		return
	}
	for _, call := range callLog {
		fmt.Fprintf(c.out, "  %s  %-10s  %s\n",
			call.CallTime.Format("2006-01-02 15:04"), call.Status, call.Message)
	}
}

func (c *console) cmdStatus(ctx context.Context, args []string) {
	if len(args) != 3 {
		fmt.Fprintln(c.out, "usage: status <id> <new|noresponse|cancelled|buyed>")
		return
	}
	if !c.requireSession() {
		return
	}
	status := domain.CustomerStatus(args[2])
	if !domain.ValidCustomerStatus(status) {
		fmt.Fprintf(c.out, "unknown status %q\n", args[2])
		return
	}

	customer, err := c.client.UpdateCustomerStatus(ctx, args[1], status)
	if err != nil {
		fmt.Fprintf(c.out, "failed to update status: %v\n", err)
		return
	}
	c.cache.UpdateInPlace(*customer)
	fmt.Fprintf(c.out, "%s is now %s\n", customer.Name, customer.Status)
}

func (c *console) cmdLogCall(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(c.out, "usage: call <id> <status> [message...]")
		return
	}
	if !c.requireSession() {
		return
	}

	data := domain.NewCall{
		CustomerID: args[1],
		Status:     domain.CustomerStatus(args[2]),
		Message:    strings.Join(args[3:], " "),
	}
	if err := domain.ValidateNewCall(data); err != nil {
		c.printFieldErrors(err)
		return
	}

	// The call-logged event refreshes the directory for us.
	if _, err := c.calls.Log(ctx, data); err != nil {
		return
	}
}

func (c *console) cmdEmployees(ctx context.Context) {
	if !c.requireAdmin() {
		return
	}

	employees, err := c.client.ListEmployees(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "failed to load employees: %v\n", err)
		return
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEMAIL\tROLE")
	for _, emp := range employees {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", emp.Name, emp.Email, emp.Role)
	}
	tw.Flush()
}

func (c *console) cmdHire(ctx context.Context) {
	if !c.requireAdmin() {
		return
	}

	data := domain.NewEmployee{
		Name:  c.prompt("name: "),
		Email: c.prompt("email: "),
		Role:  domain.Role(c.prompt("role (admin|employee): ")),
	}
	password, err := c.readPassword("password: ")
	if err != nil {
		fmt.Fprintf(c.out, "could not read password: %v\n", err)
		return
	}
	data.Password = password

	if err := domain.ValidateNewEmployee(data); err != nil {
		c.printFieldErrors(err)
		return
	}

	employee, err := c.client.CreateEmployee(ctx, data)
	if err != nil {
		fmt.Fprintf(c.out, "failed to create employee: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "created %s (%s)\n", employee.Name, employee.Role)
}

func (c *console) cmdStats() {
	if !c.requireSession() {
		return
	}
	summary := stats.Summarize(c.cache.Items())
	fmt.Fprintf(c.out, "total: %d\nin progress: %d\nbuyed: %d\ncancelled: %d\nconversion: %.0f%%\n",
		summary.Total, summary.InProgress, summary.Buyed, summary.Cancelled,
		summary.ConversionRate()*100)
}

func (c *console) requireSession() bool {
	if c.sessions.IsAuthenticated() {
		return true
	}
	fmt.Fprintln(c.out, "sign in first: login <email>")
	return false
}

func (c *console) requireAdmin() bool {
	if !c.requireSession() {
		return false
	}
	// Presentation-layer gate only; the backend enforces the role.
	if !c.sessions.IsAdmin() {
		fmt.Fprintln(c.out, "admin role required")
		return false
	}
	return true
}

func (c *console) prompt(label string) string {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *console) readPassword(label string) (string, error) {
	fmt.Fprint(c.out, label)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		// Piped input (tests, scripts): read a plain line.
		if !c.in.Scan() {
			return "", io.EOF
		}
		return strings.TrimSpace(c.in.Text()), nil
	}
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func (c *console) printFieldErrors(err error) {
	domainErr := apperrors.ToDomainError(err)
	if len(domainErr.Details) == 0 {
		fmt.Fprintf(c.out, "%s\n", domainErr.Message)
		return
	}
	for field, msg := range domainErr.Details {
		fmt.Fprintf(c.out, "%s: %v\n", field, msg)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
