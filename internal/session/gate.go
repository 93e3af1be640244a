// Package session models the cosmetic login/setup flow as an explicit state
// machine: login -> otp -> room-setup -> dashboard.
//
// The gate performs no real identity verification and sends nothing over the
// wire. The one-time code is generated locally, returned to the caller for
// display, and only its bcrypt hash is held while verification is pending.
// Passing the gate mints a session token so the rest of the API can be
// guarded uniformly.
package session

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"strconv"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/rentmate/internal/models"
	"github.com/mmynk/rentmate/internal/storage"
)

// Step is the current screen of the gate flow.
type Step string

const (
	StepLogin     Step = "login"
	StepOTP       Step = "otp"
	StepRoomSetup Step = "room-setup"
	StepDashboard Step = "dashboard"
)

var (
	ErrInvalidPhone  = errors.New("phone must be exactly 10 digits")
	ErrInvalidCode   = errors.New("incorrect verification code")
	ErrNoPendingCode = errors.New("no verification pending, start again")
	ErrWrongStep     = errors.New("operation not valid in current step")
)

// Gate owns the session flow state. Safe for concurrent use.
type Gate struct {
	mu     sync.Mutex
	store  storage.Store
	tokens *TokenManager

	step     Step
	phone    string
	codeHash []byte
}

// NewGate builds a Gate, resuming a persisted step and phone when both are
// present and well-formed. A pending verification code never survives a
// restart, so a resumed "otp" step requires starting over.
func NewGate(ctx context.Context, store storage.Store, tokens *TokenManager) *Gate {
	g := &Gate{store: store, tokens: tokens, step: StepLogin}

	markers, ok, err := store.LoadSession(ctx)
	if err != nil {
		slog.Warn("Failed to load session markers", "error", err)
		return g
	}
	if ok && markers.Phone != "" {
		switch Step(markers.Step) {
		case StepOTP:
			// Code hash is gone; send the user back to login.
			g.step, g.phone = StepLogin, markers.Phone
		case StepRoomSetup, StepDashboard:
			g.step, g.phone = Step(markers.Step), markers.Phone
		}
	}
	return g
}

// State returns the current step and entered phone number.
func (g *Gate) State() (Step, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.step, g.phone
}

// Start accepts a 10-digit phone number, generates a 6-digit one-time code,
// and moves the flow to the otp step. The code is returned for display; no
// SMS is sent.
func (g *Gate) Start(ctx context.Context, phone string) (string, error) {
	if !models.ValidMobile(phone) {
		return "", ErrInvalidPhone
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	g.mu.Lock()
	g.step = StepOTP
	g.phone = phone
	g.codeHash = hash
	g.mu.Unlock()

	g.persist(ctx)
	slog.Info("Verification started", "phone", phone)
	return code, nil
}

// Verify checks the entered code against the pending one. On success the
// flow advances to room-setup and a session token is issued.
func (g *Gate) Verify(ctx context.Context, code string) (string, error) {
	g.mu.Lock()
	if g.step != StepOTP {
		g.mu.Unlock()
		return "", ErrWrongStep
	}
	if g.codeHash == nil {
		g.mu.Unlock()
		return "", ErrNoPendingCode
	}
	if bcrypt.CompareHashAndPassword(g.codeHash, []byte(code)) != nil {
		g.mu.Unlock()
		return "", ErrInvalidCode
	}
	g.step = StepRoomSetup
	g.codeHash = nil
	phone := g.phone
	g.mu.Unlock()

	token, err := g.tokens.Generate(phone)
	if err != nil {
		return "", err
	}

	g.persist(ctx)
	slog.Info("Verification passed", "phone", phone)
	return token, nil
}

// CompleteSetup moves the flow from room-setup to the dashboard. The caller
// checks that the room itself is ready. Idempotent on the dashboard step.
func (g *Gate) CompleteSetup(ctx context.Context) error {
	g.mu.Lock()
	if g.step != StepRoomSetup && g.step != StepDashboard {
		g.mu.Unlock()
		return ErrWrongStep
	}
	g.step = StepDashboard
	g.mu.Unlock()

	g.persist(ctx)
	return nil
}

// Restart returns the flow to the login step, e.g. to change the number.
func (g *Gate) Restart(ctx context.Context) {
	g.mu.Lock()
	g.step = StepLogin
	g.phone = ""
	g.codeHash = nil
	g.mu.Unlock()

	g.persist(ctx)
}

// Reset drops all in-memory gate state without writing markers. Used by the
// clear-all operation, which wipes storage wholesale itself.
func (g *Gate) Reset() {
	g.mu.Lock()
	g.step = StepLogin
	g.phone = ""
	g.codeHash = nil
	g.mu.Unlock()
}

// persist mirrors the current markers to storage. A failed write is logged
// and ignored; the in-memory flow stays authoritative.
func (g *Gate) persist(ctx context.Context) {
	g.mu.Lock()
	markers := models.SessionMarkers{Step: string(g.step), Phone: g.phone}
	g.mu.Unlock()

	if err := g.store.SaveSession(ctx, markers); err != nil {
		slog.Warn("Failed to persist session markers", "error", err)
	}
}

// generateCode returns a random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	code := strconv.FormatInt(n.Int64(), 10)
	for len(code) < 6 {
		code = "0" + code
	}
	return code, nil
}
