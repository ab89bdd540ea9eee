// Package cli is the SafeVault command-line client. It runs a single
// command given on the command line, or an interactive prompt when none is.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/safevault/internal/client/client"
	"github.com/dmitrijs2005/safevault/internal/client/config"
	pb "github.com/dmitrijs2005/safevault/internal/proto"
)

// authClient is implemented by client.GRPCClient.
type authClient interface {
	Register(ctx context.Context, username, email, password, role string) (int64, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error)
	WhoAmI(ctx context.Context) (*pb.WhoAmIResponse, error)
	ListUsersByRole(ctx context.Context, role string) ([]pb.UserInfo, error)
	AccessToken() string
	SetAccessToken(token string)
	Close() error
}

type App struct {
	config *config.Config
	client authClient
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	if c.AccessToken != "" {
		apiClient.SetAccessToken(c.AccessToken)
	}

	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isLoggedIn() bool {
	return a.client.AccessToken() != ""
}

// callCtx bounds a single server call by the configured timeout.
func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.Timeout)
}

// Run executes the configured command, or the interactive prompt when
// there is none. The connection is closed on return.
func (a *App) Run(ctx context.Context) error {
	defer a.client.Close()

	if len(a.config.Command) == 0 {
		runREPL(ctx, a, a.reader, a.out)
		return nil
	}
	return a.Exec(ctx, a.config.Command[0], a.config.Command[1:])
}
