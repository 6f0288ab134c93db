package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophfeedback/internal/client/config"
	gs "github.com/dmitrijs2005/gophfeedback/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// caller is the part of the feedback client the backoffice needs.
type caller interface {
	Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type App struct {
	config *config.Config
	client caller
	conn   io.Closer
	reader *bufio.Reader
	out    io.Writer

	mu   sync.RWMutex
	mode Mode
}

// NewApp prepares a client connection to the configured endpoint. The
// connection is established lazily on the first call.
func NewApp(c *config.Config) (*App, error) {
	conn, err := grpc.NewClient(c.ServerEndpointAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}

	return newApp(c, gs.NewClient(conn), conn, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, cl caller, conn io.Closer, in io.Reader, out io.Writer) *App {
	return &App{config: c, client: cl, conn: conn, reader: bufio.NewReader(in), out: out}
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

// call runs method with the configured timeout and culture.
func (a *App) call(ctx context.Context, method string, fields map[string]any) (map[string]any, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	if _, ok := fields["culture"]; !ok && a.config.Culture != "" {
		fields["culture"] = a.config.Culture
	}

	if a.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.RequestTimeout)
		defer cancel()
	}

	out, err := a.client.Call(ctx, method, fields)
	if err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

func (a *App) Run(ctx context.Context) {
	if a.conn != nil {
		defer a.conn.Close()
	}
	a.Root(ctx)
}

// checkOnline pings the server once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := a.client.Call(ctx, "Ping", map[string]any{}); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
