package views

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"citasmed/pkg/api"
	"citasmed/pkg/gateway"
	"citasmed/pkg/logs"
	"citasmed/pkg/session"
	"citasmed/pkg/store"

	"github.com/gin-gonic/gin"
)

// fakeAPI es una API de pruebas que cuenta las peticiones recibidas.
type fakeAPI struct {
	mu       sync.Mutex
	requests []string
	total    atomic.Int32

	appointments json.RawMessage
	doctors      map[string]api.Doctor
	doctorList   json.RawMessage
	specialties  json.RawMessage
	profile      api.UserProfile
	loginStatus  int
	loginBody    string
	registerFail string
	updateFail   bool
	createFail   bool
	doctorDelay  time.Duration
	inflight     atomic.Int32
	maxInflight  atomic.Int32
	lastBody     map[string]any
	lastPutBody  api.UserProfile
	lastRegister api.Registration
}

type recorder struct {
	t      *testing.T
	notes  []string
	errors []string
}

func (r *recorder) Info(title, msg string)  { r.notes = append(r.notes, msg) }
func (r *recorder) Error(title, msg string) { r.errors = append(r.errors, msg) }

func (f *fakeAPI) record(c *gin.Context) {
	f.total.Add(1)
	f.mu.Lock()
	f.requests = append(f.requests, c.Request.Method+" "+c.Request.URL.Path)
	f.mu.Unlock()
}

func (f *fakeAPI) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if len(r) >= len(prefix) && r[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (f *fakeAPI) handler() http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(f.record)
	g := r.Group("/api")

	g.POST("/auth/loginUser", func(c *gin.Context) {
		status := f.loginStatus
		if status == 0 {
			status = http.StatusOK
		}
		c.Data(status, "application/json", []byte(f.loginBody))
	})
	g.POST("/user/", func(c *gin.Context) {
		_ = c.ShouldBindJSON(&f.lastRegister)
		if f.registerFail != "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": f.registerFail})
			return
		}
		c.JSON(http.StatusCreated, f.lastRegister.Profile())
	})
	g.GET("/user/:dni", func(c *gin.Context) {
		c.JSON(http.StatusOK, f.profile)
	})
	g.PUT("/user/:dni", func(c *gin.Context) {
		_ = c.ShouldBindJSON(&f.lastPutBody)
		if f.updateFail {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "fallo"})
			return
		}
		out := f.lastPutBody
		out.Name = out.Name + " (servidor)"
		c.JSON(http.StatusOK, out)
	})
	g.GET("/appointment/:dni", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", f.appointments)
	})
	g.POST("/appointment", func(c *gin.Context) {
		f.lastBody = map[string]any{}
		_ = c.ShouldBindJSON(&f.lastBody)
		if f.createFail {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "fallo"})
			return
		}
		out := gin.H{"id": "a-1"}
		for k, v := range f.lastBody {
			out[k] = v
		}
		c.JSON(http.StatusCreated, out)
	})
	g.GET("/doctor/*dni", func(c *gin.Context) {
		dni := c.Param("dni")[1:]
		if dni == "" {
			c.Data(http.StatusOK, "application/json", f.doctorList)
			return
		}
		n := f.inflight.Add(1)
		defer f.inflight.Add(-1)
		for {
			m := f.maxInflight.Load()
			if n <= m || f.maxInflight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(f.doctorDelay)
		d, ok := f.doctors[dni]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "no existe"})
			return
		}
		c.JSON(http.StatusOK, d)
	})
	g.GET("/specialty/", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", f.specialties)
	})
	return r
}

type env struct {
	api      *fakeAPI
	deps     Deps
	sessions *session.Store
	notes    *recorder
}

// newEnv levanta la API falsa y un almacén de sesión en disco. Si dni no
// está vacío se guarda una sesión.
func newEnv(t *testing.T, f *fakeAPI, dni string) *env {
	t.Helper()
	ts := httptest.NewServer(f.handler())
	t.Cleanup(ts.Close)

	db, err := store.NewStore("bbolt", filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	sessions := session.NewStore(db, nil)
	if dni != "" {
		if err := sessions.Save("tok-"+dni, dni); err != nil {
			t.Fatal(err)
		}
	}

	rec := &recorder{t: t}
	return &env{
		api: f,
		deps: Deps{
			API:      gateway.New(ts.URL+"/api", 5*time.Second, logs.Discard(), ts.Client()),
			Sessions: sessions,
			Notify:   rec,
			Log:      logs.Discard(),
		},
		sessions: sessions,
		notes:    rec,
	}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
