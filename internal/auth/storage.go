package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Storage is the durable key/value backend a Session persists into.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryStorage keeps values in a map. Safe for concurrent use.
type MemoryStorage struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryStorage() *MemoryStorage { return &MemoryStorage{m: map[string]string{}} }

func (s *MemoryStorage) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = map[string]string{}
	}
	s.m[key] = value
	return nil
}

func (s *MemoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// CookieOptions control the cookies written by the request-scoped storages.
type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

func (o CookieOptions) ttl() time.Duration {
	if o.TTL <= 0 {
		return 30 * 24 * time.Hour
	}
	return o.TTL
}

func writeCookie(c *fiber.Ctx, name, value string, o CookieOptions) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   o.Secure,
		Expires:  time.Now().Add(o.ttl()),
	})
}

func expireCookie(c *fiber.Ctx, name string, o CookieOptions) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   o.Secure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

// CookieStorage stores each key as an HS256-signed JWT cookie on the
// current request/response pair. Tampered or expired tokens read as absent.
type CookieStorage struct {
	c       *fiber.Ctx
	secret  []byte
	opts    CookieOptions
	written map[string]*string
}

func NewCookieStorage(c *fiber.Ctx, secret []byte, opts CookieOptions) *CookieStorage {
	return &CookieStorage{c: c, secret: secret, opts: opts, written: map[string]*string{}}
}

type valueClaims struct {
	Value string `json:"v"`
	jwt.RegisteredClaims
}

func (s *CookieStorage) Get(key string) (string, bool, error) {
	if v, ok := s.written[key]; ok {
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}
	raw := s.c.Cookies(key)
	if raw == "" {
		return "", false, nil
	}
	var claims valueClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", false, nil
	}
	return claims.Value, true, nil
}

func (s *CookieStorage) Set(key, value string) error {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, valueClaims{
		Value: value,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.ttl())),
		},
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return err
	}
	writeCookie(s.c, key, signed, s.opts)
	s.written[key] = &value
	return nil
}

func (s *CookieStorage) Delete(key string) error {
	expireCookie(s.c, key, s.opts)
	s.written[key] = nil
	return nil
}

// ValueStore is the server-side table DBStorage writes through to.
type ValueStore interface {
	Get(sid, key string) (string, bool, error)
	Set(sid, key, value string) error
	Delete(sid, key string) error
}

// SIDCookie names the cookie that keys server-side session values.
const SIDCookie = "hospot_sid"

// DBStorage keeps values server side, keyed by an opaque sid cookie.
type DBStorage struct {
	c     *fiber.Ctx
	store ValueStore
	opts  CookieOptions
	sid   string
}

func NewDBStorage(c *fiber.Ctx, store ValueStore, opts CookieOptions) *DBStorage {
	return &DBStorage{c: c, store: store, opts: opts, sid: c.Cookies(SIDCookie)}
}

func (s *DBStorage) Get(key string) (string, bool, error) {
	if s.sid == "" {
		return "", false, nil
	}
	return s.store.Get(s.sid, key)
}

func (s *DBStorage) Set(key, value string) error {
	if s.sid == "" {
		s.sid = uuid.NewString()
		writeCookie(s.c, SIDCookie, s.sid, s.opts)
	}
	return s.store.Set(s.sid, key, value)
}

func (s *DBStorage) Delete(key string) error {
	if s.sid == "" {
		return nil
	}
	return s.store.Delete(s.sid, key)
}

var errNoSecret = errors.New("auth: cookie storage needs a secret")
