package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/replica"
	"github.com/MKhiriev/go-lesson-sync/internal/service"
	"github.com/MKhiriev/go-lesson-sync/internal/store"
	"github.com/MKhiriev/go-lesson-sync/internal/utils"
	"github.com/MKhiriev/go-lesson-sync/internal/workers"
	"github.com/MKhiriev/go-lesson-sync/models"
)

// KickMessage is the notice sent to a session replaced by a newer connection
// of the same member.
const KickMessage = "other connect"

// member is a roster entry together with its live session, if any.
type member struct {
	models.Member
	session *Session
}

// Hub hosts one lesson. Create it with [New] and run it with [Hub.Run].
type Hub struct {
	loop    *workers.Loop
	auth    service.AuthService
	changes store.ChangeRepository
	logger  *logger.Logger

	// owned by loop
	version int64
	tree    *replica.Tree
	members []*member
}

// New builds a hub for lesson. Member ids come from ids.
func New(lesson models.LessonFile, auth service.AuthService, changes store.ChangeRepository, ids utils.IDGenerator, log *logger.Logger) (*Hub, error) {
	if err := validateLesson(lesson); err != nil {
		return nil, err
	}

	h := &Hub{
		loop:    workers.NewLoop(0),
		auth:    auth,
		changes: changes,
		logger:  log,
		tree:    replica.NewTree(),
	}

	for _, p := range lesson.People {
		role := p.Role
		if role == "" {
			role = models.RoleParticipant
		}
		h.members = append(h.members, &member{Member: models.Member{
			ID:   ids.Generate(),
			Name: p.Name,
			Role: role,
		}})
	}

	if err := seedTree(h.tree, lesson); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLesson, err)
	}
	if err := h.tree.Set(UsersPath, h.roster()); err != nil {
		return nil, err
	}

	return h, nil
}

// Run restores the lesson data from the change log and then serves requests
// until ctx is cancelled. Open sessions are closed on the way out. It
// implements [workers.Worker].
func (h *Hub) Run(ctx context.Context) error {
	if err := h.restore(ctx); err != nil {
		return err
	}

	err := h.loop.Run(ctx)

	// the loop has stopped; nothing else touches members now
	for _, m := range h.members {
		if m.session != nil {
			m.session.finish()
			m.session = nil
		}
	}
	return err
}

// restore replays logged "data/" changes into the tree and resumes the
// version counter. The roster always comes from the lesson file.
func (h *Hub) restore(ctx context.Context) error {
	latest, err := h.changes.LatestVersion(ctx)
	if err != nil {
		return fmt.Errorf("read latest version: %w", err)
	}

	changes, err := h.changes.Since(ctx, 0)
	if err != nil {
		return fmt.Errorf("read change log: %w", err)
	}

	restored := 0
	for _, c := range changes {
		if !isDataPath(c.Path) {
			continue
		}
		value, err := decodeValue(c.Data)
		if err != nil {
			h.logger.Warn().Err(err).Int64("version", c.Version).Str("path", c.Path).Msg("skipping undecodable change")
			continue
		}
		if err = h.tree.Set(c.Path, value); err != nil {
			h.logger.Warn().Err(err).Int64("version", c.Version).Str("path", c.Path).Msg("skipping change")
			continue
		}
		restored++
	}

	h.version = latest
	h.logger.Info().Int64("version", latest).Int("changes", restored).Msg("lesson state restored")
	return nil
}

// Login issues a session token for a roster member.
func (h *Hub) Login(ctx context.Context, name string) (models.LoginResponse, error) {
	person, err := workers.Await(ctx, h.loop, func() (models.Person, error) {
		m := h.member(name)
		if m == nil {
			return models.Person{}, fmt.Errorf("%w: %q", ErrUnknownUser, name)
		}
		return models.Person{Name: m.Name, Role: m.Role}, nil
	})
	if err != nil {
		return models.LoginResponse{}, err
	}

	token, err := h.auth.CreateToken(ctx, person)
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("create token: %w", err)
	}

	return models.LoginResponse{Token: token.SignedString, Name: person.Name, Role: person.Role}, nil
}

// Connect attaches conn as the live session of member name. Changes logged
// after version from are queued to it first. An existing session of the same
// member is sent [KickMessage] and closed. The caller must run the returned
// session.
func (h *Hub) Connect(ctx context.Context, name string, from int64, conn replica.Conn) (*Session, error) {
	return workers.Await(ctx, h.loop, func() (*Session, error) {
		m := h.member(name)
		if m == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownUser, name)
		}

		if m.session != nil {
			h.logger.Info().Str("name", name).Msg("replacing session")
			m.session.kick(KickMessage)
		}

		s := newSession(h, name, conn, h.logger)
		m.session = s
		h.replay(ctx, s, from)

		m.Online = true
		h.publishRoster(ctx)

		h.logger.Info().Str("name", name).Int64("from", from).Msg("member connected")
		return s, nil
	})
}

// Update writes raw at path on behalf of member name and broadcasts the
// result. Only hosts may write, and only below "data/".
func (h *Hub) Update(ctx context.Context, name, path string, raw json.RawMessage) error {
	value, err := decodeValue(raw)
	if err != nil {
		return fmt.Errorf("decode value for %q: %w", path, err)
	}

	_, err = workers.Await(ctx, h.loop, func() (struct{}, error) {
		m := h.member(name)
		switch {
		case m == nil:
			return struct{}{}, fmt.Errorf("%w: %q", ErrUnknownUser, name)
		case m.Role != models.RoleHost:
			return struct{}{}, fmt.Errorf("%w: %q is not a host", ErrForbidden, name)
		case !isDataPath(path):
			return struct{}{}, fmt.Errorf("%w: path %q is outside data", ErrForbidden, path)
		}

		return struct{}{}, h.commit(ctx, path, value)
	})
	return err
}

// Frames returns the current state as one update frame per top-level path,
// each stamped with the current version.
func (h *Hub) Frames(ctx context.Context) ([]models.Frame, error) {
	return workers.Await(ctx, h.loop, func() ([]models.Frame, error) {
		snapshot := h.tree.Snapshot()

		keys := make([]string, 0, len(snapshot))
		for k := range snapshot {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		frames := make([]models.Frame, 0, len(keys))
		for _, k := range keys {
			data, err := json.Marshal(snapshot[k])
			if err != nil {
				return nil, fmt.Errorf("encode %q: %w", k, err)
			}
			frames = append(frames, models.Frame{
				Type:    models.FrameTypeUpdate,
				Version: h.version,
				Path:    k,
				Data:    data,
			})
		}
		return frames, nil
	})
}

// Version returns the current version.
func (h *Hub) Version(ctx context.Context) (int64, error) {
	return workers.Await(ctx, h.loop, func() (int64, error) {
		return h.version, nil
	})
}

// disconnect detaches s if it is still the live session of its member.
func (h *Hub) disconnect(s *Session) {
	err := h.loop.Post(context.Background(), func() {
		m := h.member(s.name)
		if m == nil || m.session != s {
			return
		}

		m.session = nil
		s.finish()

		m.Online = false
		h.publishRoster(context.Background())
		h.logger.Info().Str("name", s.name).Msg("member disconnected")
	})
	if err != nil && !errors.Is(err, workers.ErrLoopStopped) {
		h.logger.Err(err).Str("name", s.name).Msg("disconnect not scheduled")
	}
}

// commit stamps value with the next version, stores it and broadcasts it.
// Must run on the loop.
func (h *Hub) commit(ctx context.Context, path string, value any) error {
	if err := h.tree.Set(path, value); err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", path, err)
	}

	h.version++
	change := models.Change{Version: h.version, Path: path, Data: data, CreatedAt: time.Now().UTC()}

	if err = h.changes.Append(ctx, change); err != nil {
		// the in-memory state stays authoritative; a reconnect may miss it
		h.logger.Err(err).Int64("version", change.Version).Str("path", path).Msg("change not logged")
	}

	h.broadcast(change.Frame())
	return nil
}

func (h *Hub) publishRoster(ctx context.Context) {
	if err := h.commit(ctx, UsersPath, h.roster()); err != nil {
		h.logger.Err(err).Msg("roster not published")
	}
}

func (h *Hub) broadcast(frame models.UpdateFrame) {
	encoded, err := json.Marshal(frame)
	if err != nil {
		h.logger.Err(err).Str("path", frame.Path).Msg("frame not encoded")
		return
	}

	h.logger.Debug().Int64("version", frame.Version).Str("path", frame.Path).Msg("broadcasting update")
	dropped := false
	for _, m := range h.members {
		if m.session == nil {
			continue
		}
		if !m.session.enqueue(encoded) {
			h.logger.Warn().Str("name", m.Name).Msg("session queue full, dropping member")
			m.session.finish()
			m.session = nil
			m.Online = false
			dropped = true
		}
	}

	if dropped {
		h.loop.Defer(func() { h.publishRoster(context.Background()) })
	}
}

// replay queues the logged changes after from to s.
func (h *Hub) replay(ctx context.Context, s *Session, from int64) {
	if from >= h.version {
		if from > h.version {
			h.logger.Warn().Int64("from", from).Int64("version", h.version).Msg("client is ahead of the server")
		}
		return
	}

	changes, err := h.changes.Since(ctx, from)
	if err != nil {
		h.logger.Err(err).Int64("from", from).Msg("replay failed")
		return
	}

	for _, c := range changes {
		encoded, err := json.Marshal(c.Frame())
		if err != nil {
			continue
		}
		if !s.enqueue(encoded) {
			h.logger.Warn().Str("name", s.name).Int("changes", len(changes)).Msg("replay truncated")
			return
		}
	}
}

// roster returns the "users" value: members keyed by name.
func (h *Hub) roster() map[string]any {
	users := make(map[string]any, len(h.members))
	for _, m := range h.members {
		users[m.Name] = m.Member
	}
	return users
}

func (h *Hub) member(name string) *member {
	for _, m := range h.members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func isDataPath(path string) bool {
	return strings.HasPrefix(path, DataPath+replica.PathSeparator)
}

func decodeValue(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
