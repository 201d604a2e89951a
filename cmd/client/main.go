package main

import (
	"bufio"
	"consultoria-tcp/client"
	"consultoria-tcp/protocol"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string        `env:"TCP_SERVER_ADDR,default=localhost:8888"`
	Timeout       time.Duration `env:"CLIENT_TIMEOUT,default=10s"`
}

func main() {
	code, err := run()
	if err != nil {
		color.Red.Printf("Client error: %v\n", err)
	}
	os.Exit(code)
}

// run connects to the server and reads commands from stdin until quit,
// end of input or a termination signal.
func run() (int, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.Dial(ctx, config.ServerAddress, config.Timeout)
	if err != nil {
		return exitRuntime, err
	}
	defer c.Close()
	color.Green.Printf("Connected to %s, type help\n", config.ServerAddress)

	repl := &repl{client: c}
	scanner := bufio.NewScanner(os.Stdin)
	for ctx.Err() == nil {
		fmt.Print(repl.prompt())
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := repl.exec(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			// A broken connection cannot serve the next command.
			if isConnectionError(err) {
				return exitRuntime, err
			}
			color.Yellow.Println(err)
		}
	}
	return exitOK, nil
}

func isConnectionError(err error) bool {
	var netErr net.Error
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.As(err, &netErr)
}

type repl struct {
	client    *client.Client
	sessionID string
	user      string
}

func (r *repl) prompt() string {
	if r.user == "" {
		return "> "
	}
	return color.Cyan.Sprintf("%s> ", r.user)
}

func (r *repl) exec(ctx context.Context, line string) error {
	req, err := parseCommand(line)
	if err != nil {
		return err
	}

	var response protocol.Response
	if req.commandType == "" {
		response, err = r.client.SendRaw(ctx, []byte(req.data["line"].(string)))
	} else {
		response, err = r.client.Send(ctx, req.commandType, r.sessionID, req.data)
	}
	if err != nil {
		return err
	}

	if !response.Success {
		color.Red.Printf("✗ %s\n", response.Message)
		return nil
	}
	color.Green.Printf("✓ %s\n", response.Message)
	r.remember(req, response)
	render(response.Data)
	return nil
}

// remember keeps the session opened by REGISTER/LOGIN and drops it on LOGOUT.
func (r *repl) remember(req request, response protocol.Response) {
	if sessionID, ok := response.Data["sessionId"].(string); ok {
		r.sessionID = sessionID
		if user, ok := response.Data["user"].(map[string]any); ok {
			r.user = fmt.Sprint(user["name"])
		}
		return
	}
	if req.data["action"] == "LOGOUT" {
		r.sessionID, r.user = "", ""
	}
}

// render prints list fields as tables and the remaining fields as key/value lines.
func render(data map[string]any) {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		items, ok := data[key].([]any)
		if !ok {
			fmt.Printf("  %s: %s\n", color.Bold.Sprint(key), format(data[key]))
			continue
		}
		if len(items) == 0 {
			fmt.Printf("  %s: none\n", color.Bold.Sprint(key))
			continue
		}
		renderTable(items)
	}
}

func renderTable(items []any) {
	var columns []string
	if first, ok := items[0].(map[string]any); ok {
		for column := range first {
			columns = append(columns, column)
		}
		sort.Strings(columns)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(columns)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, item := range items {
		row, _ := item.(map[string]any)
		cells := make([]string, len(columns))
		for i, column := range columns {
			cells[i] = format(row[column])
		}
		table.Append(cells)
	}
	table.Render()
}

func format(v any) string {
	switch value := v.(type) {
	case nil:
		return "-"
	case string:
		if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
			return t.Local().Format("2006-01-02 15:04:05")
		}
		return value
	case map[string]any:
		encoded, _ := json.Marshal(value)
		return string(encoded)
	default:
		return fmt.Sprint(value)
	}
}
