package e2e

import (
	"consultoria-tcp/client"
	"consultoria-tcp/protocol"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

type BaseTCPSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration and skips when no server is configured.
func (s *BaseTCPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.TCPAddr == "" {
		s.T().Skip("E2E_TCP_ADDR is not set")
	}
}

// Conn is a client connection that logs every round trip.
type Conn struct {
	suite  *BaseTCPSuite
	client *client.Client
	// Session is sent with every request once set.
	Session string
}

// WithConn opens a connection for one contextual test step.
func (s *BaseTCPSuite) WithConn(name string, fn func(ctx context.Context, conn *Conn)) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.Timeout)
	defer cancel()

	c, err := client.Dial(ctx, s.Config.TCPAddr, s.Config.Timeout)
	s.Require().NoError(err, "Failed to connect to server at "+s.Config.TCPAddr)
	defer func() { _ = c.Close() }()

	fn(ctx, &Conn{suite: s, client: c})
}

func (c *Conn) Send(ctx context.Context, commandType string, data map[string]any) protocol.Response {
	start := time.Now()
	response, err := c.client.Send(ctx, commandType, c.Session, data)
	c.log(fmt.Sprintf("%s %v", commandType, data["action"]), start, response, err)
	c.suite.Require().NoError(err)
	return response
}

func (c *Conn) SendRaw(ctx context.Context, line string) protocol.Response {
	start := time.Now()
	response, err := c.client.SendRaw(ctx, []byte(line))
	c.log("RAW", start, response, err)
	c.suite.Require().NoError(err)
	return response
}

func (c *Conn) log(what string, start time.Time, response protocol.Response, err error) {
	builder := strings.Builder{}
	fmt.Fprintf(&builder, "TCP %s [success=%t] in %v", what, response.Success, time.Since(start))
	if c.suite.Config.DebugJSON {
		if err != nil {
			fmt.Fprintln(&builder, "\nERROR:", err)
		} else if encoded, encErr := protocol.EncodeResponse(response); encErr == nil {
			fmt.Fprintln(&builder, "\nRESPONSE:")
			fmt.Fprintln(&builder, string(encoded))
		}
	}
	c.suite.T().Log(builder.String())
}
