package nav

import (
	"context"
	"errors"
	"testing"

	"citasmed/pkg/logs"
)

// scripted devuelve las rutas de script en orden y guarda los contextos
// recibidos.
type scripted struct {
	script  []Route
	visited []string
	ctxs    []context.Context
}

func (s *scripted) next(name string, ctx context.Context) Route {
	s.visited = append(s.visited, name)
	s.ctxs = append(s.ctxs, ctx)
	r := s.script[0]
	s.script = s.script[1:]
	return r
}

func (s *scripted) Login(ctx context.Context, r Login) Route {
	return s.next("login:"+r.DNI, ctx)
}
func (s *scripted) Register(ctx context.Context, _ Register) Route { return s.next("register", ctx) }
func (s *scripted) Home(ctx context.Context, _ Home) Route         { return s.next("home", ctx) }
func (s *scripted) Reservation(ctx context.Context, _ Reservation) Route {
	return s.next("reservation", ctx)
}
func (s *scripted) Profile(ctx context.Context, _ Profile) Route { return s.next("profile", ctx) }
func (s *scripted) SessionInfo(ctx context.Context, _ SessionInfo) Route {
	return s.next("session", ctx)
}

func TestRouterFollowsRoutes(t *testing.T) {
	s := &scripted{script: []Route{
		Login{DNI: "1"}, Home{}, Reservation{}, Home{}, Profile{}, SessionInfo{}, Exit{},
	}}
	if err := NewRouter(s, logs.Discard()).Run(context.Background(), Register{}); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	want := []string{"register", "login:1", "home", "reservation", "home", "profile", "session"}
	if len(s.visited) != len(want) {
		t.Fatalf("visited = %v, want %v", s.visited, want)
	}
	for i := range want {
		if s.visited[i] != want[i] {
			t.Fatalf("visited = %v, want %v", s.visited, want)
		}
	}
}

func TestScreenContextCancelledOnLeave(t *testing.T) {
	s := &scripted{script: []Route{Profile{}, Exit{}}}
	if err := NewRouter(s, logs.Discard()).Run(context.Background(), Home{}); err != nil {
		t.Fatal(err)
	}
	for i, ctx := range s.ctxs {
		if !errors.Is(ctx.Err(), context.Canceled) {
			t.Errorf("screen %s context not cancelled after leaving it", s.visited[i])
		}
	}
}

func TestRunStopsOnParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &scripted{}
	if err := NewRouter(s, logs.Discard()).Run(ctx, Home{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() err = %v, want context.Canceled", err)
	}
	if len(s.visited) != 0 {
		t.Fatalf("no screen should be shown, visited %v", s.visited)
	}
}

func TestNilRouteIsError(t *testing.T) {
	s := &scripted{script: []Route{nil}}
	if err := NewRouter(s, logs.Discard()).Run(context.Background(), Home{}); err == nil {
		t.Fatal("Run() should fail when a screen returns nil")
	}
}
