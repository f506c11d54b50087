package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/skdtracker/internal/client/client"
	"github.com/dmitrijs2005/skdtracker/internal/client/config"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer

	exportDir string

	userName string
	role     string
	cohort   string

	mu   sync.Mutex
	Mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewDashboardClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &App{
		config:    c,
		client:    apiClient,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		exportDir: c.ExportDir,
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to the SKD tracker CLI (type 'help' for commands)")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.client.LoggedIn()
}

func (a *App) isAdmin() bool {
	return a.isLoggedIn() && a.role == "admin"
}

func (a *App) getStatus() string {
	var parts []string
	if a.isLoggedIn() && a.userName != "" {
		parts = append(parts, a.userName)
		if a.role == "admin" {
			parts = append(parts, "admin")
		}
	}
	if m := a.mode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.client.Ping(ctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
