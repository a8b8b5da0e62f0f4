package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"citasmed/pkg/api"
	"citasmed/pkg/logs"

	"github.com/gin-gonic/gin"
)

func newTestServer(t *testing.T, setup func(r *gin.Engine)) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	setup(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return New(ts.URL+"/api", 2*time.Second, logs.Discard(), ts.Client())
}

func TestDoSendsHeaders(t *testing.T) {
	var gotToken, gotType, gotAuth string
	c := newTestServer(t, func(r *gin.Engine) {
		r.GET("/api/user/:dni", func(ctx *gin.Context) {
			gotToken = ctx.GetHeader("token")
			gotType = ctx.GetHeader("Content-Type")
			gotAuth = ctx.GetHeader("Authorization")
			ctx.JSON(http.StatusOK, api.UserProfile{DNI: ctx.Param("dni"), Name: "Ana"})
		})
	})

	p, err := c.GetUser(context.Background(), "raw-token", "12345678A")
	if err != nil {
		t.Fatalf("GetUser() failed: %v", err)
	}
	if p.DNI != "12345678A" || p.Name != "Ana" {
		t.Errorf("GetUser() = %+v", p)
	}
	if gotToken != "raw-token" {
		t.Errorf("token header = %q, want raw-token", gotToken)
	}
	if gotType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotType)
	}
	if gotAuth != "" {
		t.Errorf("Authorization header should not be sent, got %q", gotAuth)
	}
}

func TestNon2xxIsHTTPError(t *testing.T) {
	c := newTestServer(t, func(r *gin.Engine) {
		r.POST("/api/user/", func(ctx *gin.Context) {
			ctx.JSON(http.StatusConflict, gin.H{"message": "El usuario ya existe"})
		})
	})

	err := c.Register(context.Background(), api.Registration{DNI: "1"})
	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("Register() err = %v, want *HTTPError", err)
	}
	if he.Status != http.StatusConflict || ServerMessage(err) != "El usuario ya existe" {
		t.Errorf("HTTPError = %+v", he)
	}
}

func TestNon2xxWithoutMessage(t *testing.T) {
	c := newTestServer(t, func(r *gin.Engine) {
		r.GET("/api/specialty/", func(ctx *gin.Context) {
			ctx.String(http.StatusInternalServerError, "boom")
		})
	})
	_, err := c.Specialties(context.Background(), "t")
	if ServerMessage(err) != "" {
		t.Fatalf("ServerMessage() = %q, want empty", ServerMessage(err))
	}
	var he *HTTPError
	if !errors.As(err, &he) || he.Status != 500 {
		t.Fatalf("err = %v, want HTTP 500", err)
	}
}

func TestArrayEndpointsRejectObjects(t *testing.T) {
	c := newTestServer(t, func(r *gin.Engine) {
		r.GET("/api/doctor/*dni", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"doctors": []string{}})
		})
	})
	if _, err := c.Doctors(context.Background(), "t"); !errors.Is(err, ErrUnexpectedShape) {
		t.Fatalf("Doctors() err = %v, want ErrUnexpectedShape", err)
	}
}

func TestLoginWithoutTokenIsNotTransportError(t *testing.T) {
	c := newTestServer(t, func(r *gin.Engine) {
		r.POST("/api/auth/loginUser", func(ctx *gin.Context) {
			ctx.Data(http.StatusOK, "application/json", []byte(`{}`))
		})
	})
	resp, err := c.Login(context.Background(), "1", "x")
	if err != nil {
		t.Fatalf("Login() err = %v, want nil", err)
	}
	if resp.Token != "" {
		t.Fatalf("Login() token = %q, want empty", resp.Token)
	}
}

func TestContextCancelAbortsRequest(t *testing.T) {
	release := make(chan struct{})
	c := newTestServer(t, func(r *gin.Engine) {
		r.GET("/api/doctor/*dni", func(ctx *gin.Context) {
			select {
			case <-release:
			case <-ctx.Request.Context().Done():
			}
		})
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Doctor(ctx, "t", "d1")
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Doctor() err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("request was not aborted by cancellation")
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/specialty/", func(ctx *gin.Context) {
		select {
		case <-release:
		case <-ctx.Request.Context().Done():
		}
	})
	ts := httptest.NewServer(r)
	defer ts.Close()
	defer close(release)

	c := New(ts.URL+"/api", 50*time.Millisecond, logs.Discard(), ts.Client())
	if _, err := c.Specialties(context.Background(), "t"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Specialties() err = %v, want DeadlineExceeded", err)
	}
}

func TestCreateAppointmentBody(t *testing.T) {
	var body map[string]any
	c := newTestServer(t, func(r *gin.Engine) {
		r.POST("/api/appointment", func(ctx *gin.Context) {
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": "a1", "reason": body["reason"]})
		})
	})
	a, err := c.CreateAppointment(context.Background(), "t", api.Appointment{Reason: "r", Date: "2025-03-10", Time: "9:00", Doctor: "d1", User: "u"})
	if err != nil {
		t.Fatalf("CreateAppointment() failed: %v", err)
	}
	if a.ID != "a1" {
		t.Errorf("ID = %q", a.ID)
	}
	if _, ok := body["id"]; ok || len(body) != 5 {
		t.Errorf("body = %v, want exactly 5 keys without id", body)
	}
}
