package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/hub"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/service"
	"github.com/MKhiriev/go-lesson-sync/internal/store"
	"github.com/MKhiriev/go-lesson-sync/models"
)

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func testServices(t *testing.T) *service.Services {
	t.Helper()
	services, err := service.NewServices(&config.ServerConfig{
		App: config.App{
			TokenSignKey:  "test-key",
			TokenIssuer:   "test",
			TokenDuration: time.Hour,
			Version:       "1.2.3",
		},
	}, logger.Nop())
	require.NoError(t, err)
	return services
}

// newTestServer runs a hub with a two-member roster behind the router.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	services := testServices(t)

	lesson := models.LessonFile{
		Title: "Go basics",
		Lines: []models.LessonLine{{Text: "package main"}, {Text: "func main() {}"}},
		People: []models.Person{
			{Name: "anna", Role: models.RoleHost},
			{Name: "boris"},
		},
	}
	h, err := hub.New(lesson, services.AuthService, store.NewMemoryChangeRepository(), &seqIDs{}, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.Run(ctx)
	}()

	srv := httptest.NewServer(NewHandler(services, h, logger.Nop()).Init())
	t.Cleanup(func() {
		cancel()
		<-done
		srv.Close()
	})
	return srv
}

// login returns a session token for name.
func login(t *testing.T, srv *httptest.Server, name string) string {
	t.Helper()
	resp, err := http.Get(srv.URL + "/s/login?auth=" + name)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Token
}
