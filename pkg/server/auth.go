package server

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"citasmed/pkg/api"
	"citasmed/pkg/store"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/argon2"
)

// userRecord es lo que se guarda (cifrado) por cada usuario.
type userRecord struct {
	Profile api.UserProfile `json:"profile"`
	Hash    []byte          `json:"hash"`
	Salt    []byte          `json:"salt"`
}

type loginAttempt struct {
	Attempts   int       // Número de intentos fallidos consecutivos
	Blocked    bool      // Si la cuenta está bloqueada
	BlockUntil time.Time // Hasta cuando está bloqueada
}

const ctxDNI = "dni"

func hashPassword(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
}

func (s *server) loadUser(dni string) (userRecord, error) {
	var u userRecord
	data, err := s.db.Get(nsUsers, []byte(dni))
	if err != nil {
		return u, err
	}
	plain, err := s.open(data)
	if err != nil {
		return u, fmt.Errorf("error descifrando datos de usuario: %w", err)
	}
	if err := json.Unmarshal(plain, &u); err != nil {
		return u, fmt.Errorf("formato de datos de usuario inválido: %w", err)
	}
	return u, nil
}

func (s *server) saveUser(u userRecord) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	sealed, err := s.seal(data)
	if err != nil {
		return fmt.Errorf("error cifrando datos de usuario: %w", err)
	}
	return s.db.Put(nsUsers, []byte(u.Profile.DNI), sealed)
}

func (s *server) registerUser(c *gin.Context) {
	var reg api.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		fail(c, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	if err := s.validate.Struct(reg); err != nil {
		s.log.Printf("Registro rechazado para %q: %v", reg.DNI, err)
		fail(c, http.StatusBadRequest, "Faltan datos o son inválidos")
		return
	}

	if _, err := s.db.Get(nsUsers, []byte(reg.DNI)); err == nil {
		fail(c, http.StatusConflict, "El usuario ya existe")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		s.log.Printf("ERROR verificando usuario %s: %v", reg.DNI, err)
		fail(c, http.StatusInternalServerError, "Error verificando usuario")
		return
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		fail(c, http.StatusInternalServerError, "Error al crear el usuario")
		return
	}
	u := userRecord{Profile: reg.Profile(), Salt: salt, Hash: hashPassword(reg.Password, salt)}
	if err := s.saveUser(u); err != nil {
		s.log.Printf("ERROR guardando usuario %s: %v", reg.DNI, err)
		fail(c, http.StatusInternalServerError, "Error al crear el usuario")
		return
	}
	s.log.Printf("Usuario %s registrado", reg.DNI)
	c.JSON(http.StatusCreated, u.Profile)
}

// loginUser responde 200 con token vacío si las credenciales no valen.
func (s *server) loginUser(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DNI == "" || req.Password == "" {
		s.log.Println("Faltan credenciales en el login")
		fail(c, http.StatusBadRequest, "Faltan credenciales")
		return
	}

	if ok, until := s.checkLoginAttempts(req.DNI); !ok {
		remaining := until.Sub(s.now()).Round(time.Second)
		fail(c, http.StatusLocked, fmt.Sprintf("Cuenta bloqueada temporalmente. Intente nuevamente en %v", remaining))
		return
	}

	u, err := s.loadUser(req.DNI)
	if err != nil {
		s.recordLoginFailure(req.DNI, c.ClientIP())
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Printf("ERROR leyendo usuario %s: %v", req.DNI, err)
		}
		c.JSON(http.StatusOK, api.LoginResponse{})
		return
	}
	if subtle.ConstantTimeCompare(u.Hash, hashPassword(req.Password, u.Salt)) != 1 {
		s.recordLoginFailure(req.DNI, c.ClientIP())
		s.log.Printf("Contraseña incorrecta para %s", req.DNI)
		c.JSON(http.StatusOK, api.LoginResponse{})
		return
	}

	s.recordLoginSuccess(req.DNI)
	token, err := s.createToken(req.DNI)
	if err != nil {
		s.log.Printf("ERROR generando token: %v", err)
		fail(c, http.StatusInternalServerError, "Error generando token")
		return
	}
	s.log.Printf("--------------------Login exitoso para usuario %s desde IP %s-------------------", req.DNI, c.ClientIP())
	c.JSON(http.StatusOK, api.LoginResponse{Token: token})
}

// checkLoginAttempts indica si el usuario puede intentar iniciar sesión y,
// si no, hasta cuándo está bloqueado.
func (s *server) checkLoginAttempts(dni string) (bool, time.Time) {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()

	attempt, exists := s.loginAttempts[dni]
	if !exists || !attempt.Blocked {
		return true, time.Time{}
	}
	if s.now().After(attempt.BlockUntil) {
		s.log.Printf("Cuenta de %s desbloqueada automáticamente después del periodo de bloqueo", dni)
		delete(s.loginAttempts, dni)
		return true, time.Time{}
	}
	s.log.Printf("Intento de inicio de sesión para cuenta bloqueada: %s (bloqueada hasta %s)",
		dni, attempt.BlockUntil.Format("15:04:05"))
	return false, attempt.BlockUntil
}

func (s *server) recordLoginFailure(dni, ip string) {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()

	attempt, exists := s.loginAttempts[dni]
	if !exists {
		attempt = &loginAttempt{}
		s.loginAttempts[dni] = attempt
	}
	attempt.Attempts++
	s.log.Printf("Intento de inicio de sesión fallido para %s desde IP %s (intento %d de %d)",
		dni, ip, attempt.Attempts, s.maxAttempts)

	if attempt.Attempts >= s.maxAttempts {
		attempt.Blocked = true
		attempt.BlockUntil = s.now().Add(s.blockDuration)
		s.log.Printf("ALERTA: Cuenta %s bloqueada por %v después de %d intentos fallidos",
			dni, s.blockDuration, s.maxAttempts)
	}
}

func (s *server) recordLoginSuccess(dni string) {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()
	delete(s.loginAttempts, dni)
}

func (s *server) createToken(dni string) (string, error) {
	now := s.now()
	claims := jwt.StandardClaims{
		Subject:   dni,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// parseToken valida firma y caducidad y devuelve el DNI del token.
func (s *server) parseToken(raw string) (string, error) {
	var claims jwt.StandardClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma erróneo: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("token no válido")
	}
	return claims.Subject, nil
}

// requireToken comprueba la cabecera token y guarda el DNI en el contexto.
func (s *server) requireToken(c *gin.Context) {
	raw := c.GetHeader(api.TokenHeader)
	if raw == "" {
		fail(c, http.StatusUnauthorized, "Falta el token")
		return
	}
	dni, err := s.parseToken(raw)
	if err != nil {
		s.log.Printf("Token rechazado en %s: %v", c.Request.URL.Path, err)
		fail(c, http.StatusUnauthorized, "Token no válido o caducado")
		return
	}
	c.Set(ctxDNI, dni)
	c.Next()
}

// sameUser aborta con 403 si el DNI del token no es dni.
func sameUser(c *gin.Context, dni string) bool {
	if c.GetString(ctxDNI) != dni {
		fail(c, http.StatusForbidden, "No tienes permiso para acceder a estos datos")
		return false
	}
	return true
}
