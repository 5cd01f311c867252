package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/replica"
	"github.com/MKhiriev/go-lesson-sync/internal/service"
	"github.com/MKhiriev/go-lesson-sync/models"
)

// Paths the client reads. They mirror what the lesson server publishes.
const (
	atPath    = "data/at"
	orderPath = "data/order"
	linesPath = "data/lines"
	titlePath = "data/title"
	usersPath = "users"
)

type App struct {
	sessions service.ClientSessionService
	user     string
	in       io.Reader

	logger *logger.Logger
}

func NewApp(sessions service.ClientSessionService, user string, in io.Reader, logger *logger.Logger) (*App, error) {
	if sessions == nil || in == nil {
		return nil, errors.New("client app: session service and input are required")
	}
	if user == "" {
		return nil, errors.New("client app: user name is required")
	}

	return &App{
		sessions: sessions,
		user:     user,
		in:       in,
		logger:   logger,
	}, nil
}

// Run opens a session and serves commands until quit, end of input or ctx
// cancellation. When the sync connection cannot be opened the fetched state
// is still shown.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r, err := a.sessions.Open(ctx, a.user, replica.WithNoticeHandler(a.notice))
	if r == nil {
		return fmt.Errorf("open session: %w", err)
	}
	if err != nil {
		a.logger.Warn().Err(err).Msg("offline, showing the fetched state")
	}
	defer r.Close()

	unwatch := r.Multiwatch(map[string]replica.Callback{
		replica.OnlinePath: func(string) {
			a.logger.Info().Bool("online", r.IsOnline()).Msg("connection changed")
		},
		atPath:    func(string) { a.showLine(r) },
		usersPath: func(string) { a.showRoster(r) },
		linesPath: func(path string) {
			a.logger.Debug().Str("path", path).Msg("lesson text changed")
			a.showLine(r)
		},
	})
	defer unwatch()

	var title string
	_, _ = r.GetInto(titlePath, &title)
	a.logger.Info().Str("name", r.Name()).Bool("host", r.IsHost()).Int64("version", r.Version()).Msg(title)
	a.showLine(r)
	a.showRoster(r)

	return a.serve(ctx, r)
}

func (a *App) serve(ctx context.Context, r *replica.Replica) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(a.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			cmd, err := parseCommand(line)
			if err != nil {
				a.logger.Warn().Err(err).Send()
				continue
			}
			if cmd.kind == cmdQuit {
				return nil
			}
			if err = a.move(r, cmd); err != nil {
				a.logger.Warn().Err(err).Msg("command failed")
			}
		}
	}
}

// move asks the server to put the lesson on the line cmd points at.
func (a *App) move(r *replica.Replica, cmd command) error {
	if !r.IsHost() {
		return errors.New("only the host can move the lesson")
	}

	var order []string
	if _, err := r.GetInto(orderPath, &order); err != nil {
		return err
	}
	var at string
	if _, err := r.GetInto(atPath, &at); err != nil {
		return err
	}

	next, err := cmd.target(order, at)
	if err != nil {
		return err
	}
	if next == at {
		return nil
	}

	return r.Set(atPath, next)
}

func (a *App) showLine(r *replica.Replica) {
	var at string
	if found, err := r.GetInto(atPath, &at); err != nil || !found {
		return
	}

	var order []string
	_, _ = r.GetInto(orderPath, &order)

	var line models.LessonLine
	_, _ = r.GetInto(replica.JoinPath(linesPath, at), &line)

	a.logger.Info().
		Str("line", at).
		Int("n", slices.Index(order, at)+1).
		Int("of", len(order)).
		Msg(line.Text)
}

func (a *App) showRoster(r *replica.Replica) {
	var roster map[string]models.Member
	if found, err := r.GetInto(usersPath, &roster); err != nil || !found {
		return
	}

	online := make([]string, 0, len(roster))
	for name, m := range roster {
		if m.Online {
			online = append(online, name)
		}
	}
	slices.Sort(online)

	a.logger.Info().Strs("online", online).Int("members", len(roster)).Msg("roster")
}

func (a *App) notice(message string) {
	a.logger.Warn().Str("notice", message).Msg("message from server")
}
