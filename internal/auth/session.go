package auth

import (
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	keyUserID   = "user_id"
	keyName     = "user_name"
	keyEmail    = "user_email"
	keyImageURL = "user_image"
	keyFlashes  = "_flashes"
)

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type SessionConfig struct {
	CookieName   string
	CookieSecure bool
	Expiration   time.Duration
	// Storage backs the session data. Nil means in-process memory.
	Storage fiber.Storage
}

// SessionManager keeps the logged-in identity and flash messages in a
// server-side session keyed by an opaque cookie token.
type SessionManager struct {
	store  *session.Store
	logger logger.ZapLogger
}

func NewSessionManager(cfg SessionConfig, log logger.ZapLogger) *SessionManager {
	store := session.New(session.Config{
		Expiration:     cfg.Expiration,
		Storage:        cfg.Storage,
		KeyLookup:      "cookie:" + cfg.CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: "Lax",
		KeyGenerator:   uuid.NewString,
	})
	return &SessionManager{store: store, logger: log}
}

// Login rotates the session token and records the identity. Flashes are
// stored in the rotated session; queue them here rather than with AddFlash,
// which would load the session of the old token.
func (m *SessionManager) Login(c *fiber.Ctx, id Identity, flashes ...Flash) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(keyUserID, id.UserID)
	sess.Set(keyName, id.Name)
	sess.Set(keyEmail, id.Email)
	sess.Set(keyImageURL, id.ImageURL)
	if len(flashes) > 0 {
		raw, err := json.Marshal(flashes)
		if err != nil {
			return err
		}
		sess.Set(keyFlashes, string(raw))
	}
	return sess.Save()
}

// Identity returns the logged-in identity, if any.
func (m *SessionManager) Identity(c *fiber.Ctx) (*Identity, bool) {
	sess, err := m.store.Get(c)
	if err != nil {
		m.logger.Warn("failed to load session", zap.Error(err))
		return nil, false
	}
	userID, ok := sess.Get(keyUserID).(int64)
	if !ok || userID == 0 {
		return nil, false
	}
	name, _ := sess.Get(keyName).(string)
	email, _ := sess.Get(keyEmail).(string)
	image, _ := sess.Get(keyImageURL).(string)
	return &Identity{UserID: userID, Name: name, Email: email, ImageURL: image}, true
}

func (m *SessionManager) UpdateImage(c *fiber.Ctx, imageURL string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(keyImageURL, imageURL)
	return sess.Save()
}

// Logout drops the session from storage and expires the cookie.
func (m *SessionManager) Logout(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// AddFlash queues a message to be shown on the next rendered page.
func (m *SessionManager) AddFlash(c *fiber.Ctx, category, message string) {
	sess, err := m.store.Get(c)
	if err != nil {
		m.logger.Warn("failed to load session for flash", zap.Error(err))
		return
	}
	flashes := decodeFlashes(sess.Get(keyFlashes))
	flashes = append(flashes, Flash{Category: category, Message: message})
	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	sess.Set(keyFlashes, string(raw))
	if err := sess.Save(); err != nil {
		m.logger.Warn("failed to save flash", zap.Error(err))
	}
}

// PopFlashes returns and clears queued messages.
func (m *SessionManager) PopFlashes(c *fiber.Ctx) []Flash {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil
	}
	flashes := decodeFlashes(sess.Get(keyFlashes))
	if len(flashes) == 0 {
		return nil
	}
	sess.Delete(keyFlashes)
	if err := sess.Save(); err != nil {
		m.logger.Warn("failed to clear flashes", zap.Error(err))
	}
	return flashes
}

func decodeFlashes(v interface{}) []Flash {
	raw, ok := v.(string)
	if !ok || raw == "" {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal([]byte(raw), &flashes); err != nil {
		return nil
	}
	return flashes
}

// RequirePage redirects anonymous visitors to the login page.
func (m *SessionManager) RequirePage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := m.Identity(c)
		if !ok {
			return c.Redirect("/login")
		}
		SetIdentity(c, id)
		return c.Next()
	}
}

// RequireAPI answers anonymous JSON callers with 401.
func (m *SessionManager) RequireAPI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := m.Identity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Not authenticated",
			})
		}
		SetIdentity(c, id)
		return c.Next()
	}
}

// RequireLogin guards routes that serve both browsers and JSON callers:
// JSON requests get the RequireAPI reply, everything else a redirect.
func (m *SessionManager) RequireLogin() fiber.Handler {
	page, api := m.RequirePage(), m.RequireAPI()
	return func(c *fiber.Ctx) error {
		if WantsJSON(c) {
			return api(c)
		}
		return page(c)
	}
}

// WantsJSON reports whether the request carries or asks for JSON.
func WantsJSON(c *fiber.Ctx) bool {
	return c.Is("json") || c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}
