package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akelani/classchat/internal/qa"
)

// ErrQuotaExhausted reports that a free user has no messages left.
var ErrQuotaExhausted = errors.New("message quota exhausted")

// ErrUnknownUser reports an operation against a user id not in the store.
var ErrUnknownUser = errors.New("unknown user")

// User is one account with its remaining message allowance.
type User struct {
	ID           string    `json:"id"`
	MessagesLeft int       `json:"messages_left"`
	Paid         bool      `json:"paid"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is one conversation thread scoped to a course.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Course    string    `json:"course"`
	Name      string    `json:"name"`
	IsEmpty   bool      `json:"is_empty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one stored chat turn. Sources is empty for user turns.
type Message struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id"`
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	Sources   []qa.Document `json:"sources,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// Store provides user, quota, session, and message operations.
type Store struct {
	db  *DB
	now func() time.Time
}

// New creates a Store backed by the given database.
func New(database *DB) *Store {
	return &Store{db: database, now: time.Now}
}

// EnsureUser creates the user with the given initial allowance if it does
// not already exist. Existing users are left untouched.
func (s *Store) EnsureUser(ctx context.Context, userID string, freeMessages int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, messages_left) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING`,
		userID, freeMessages,
	)
	if err != nil {
		return fmt.Errorf("ensuring user %s: %w", userID, err)
	}
	return nil
}

// GetUser retrieves one user.
func (s *Store) GetUser(ctx context.Context, userID string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, messages_left, paid, created_at FROM users WHERE id = ?`, userID)

	var u User
	var paid int
	if err := row.Scan(&u.ID, &u.MessagesLeft, &paid, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("getting user %s: %w", userID, err)
	}
	u.Paid = paid != 0
	return &u, nil
}

// SetPaid marks a user as paid (unlimited messages) or free.
func (s *Store) SetPaid(ctx context.Context, userID string, paid bool) error {
	p := 0
	if paid {
		p = 1
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET paid = ? WHERE id = ?`, p, userID)
	if err != nil {
		return fmt.Errorf("setting paid for %s: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownUser
	}
	return nil
}

// ConsumeQuota spends one message from the user's allowance. Paid users
// always pass. The decrement is a single conditional UPDATE, so two
// concurrent calls can never both spend the last message.
func (s *Store) ConsumeQuota(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET messages_left = messages_left - 1
		WHERE id = ? AND paid = 0 AND messages_left > 0`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("consuming quota for %s: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	// Nothing decremented: paid user, exhausted quota, or unknown user.
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if u.Paid {
		return nil
	}
	return ErrQuotaExhausted
}

// CreateSession starts a new, empty session for the user.
func (s *Store) CreateSession(ctx context.Context, userID, course, name string) (*Session, error) {
	sess := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Course:    course,
		Name:      name,
		IsEmpty:   true,
		CreatedAt: s.now().UTC(),
		UpdatedAt: s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (id, user_id, course, name, is_empty, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)`,
		sess.ID, sess.UserID, sess.Course, sess.Name, sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return sess, nil
}

// GetSession retrieves one session.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, course, name, is_empty, created_at, updated_at
		FROM chat_sessions WHERE id = ?`, sessionID)
	return scanSession(row)
}

// ListSessions returns the user's sessions, most recently updated first.
func (s *Store) ListSessions(ctx context.Context, userID string) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, course, name, is_empty, created_at, updated_at
		FROM chat_sessions WHERE user_id = ? ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions for %s: %w", userID, err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// SaveExchange appends one question/answer pair to a session. The first
// exchange clears the session's empty flag, and a session touched on a
// later calendar day than its last update is renamed to that day.
func (s *Store) SaveExchange(ctx context.Context, sessionID, question string, result *qa.Result) error {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	sources, err := json.Marshal(result.Sources)
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}

	now := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chat_messages (id, session_id, role, content, created_at)
		VALUES (?, ?, 'user', ?, ?)`,
		uuid.New().String(), sessionID, question, now,
	)
	if err != nil {
		return fmt.Errorf("inserting question: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chat_messages (id, session_id, role, content, sources, created_at)
		VALUES (?, ?, 'assistant', ?, ?, ?)`,
		uuid.New().String(), sessionID, result.Answer, string(sources), now,
	)
	if err != nil {
		return fmt.Errorf("inserting answer: %w", err)
	}

	name := sess.Name
	if !sess.IsEmpty && laterCalendarDay(sess.UpdatedAt, now) {
		name = now.Format("Chat on Jan 2, 2006")
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE chat_sessions SET is_empty = 0, name = ?, updated_at = ? WHERE id = ?`,
		name, now, sessionID,
	)
	if err != nil {
		return fmt.Errorf("touching session: %w", err)
	}

	return tx.Commit()
}

// ListMessages returns a session's messages in chronological order.
func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, sources, created_at
		FROM chat_messages WHERE session_id = ? ORDER BY created_at, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing messages for %s: %w", sessionID, err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		var sources string
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &sources, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		if err := json.Unmarshal([]byte(sources), &m.Sources); err != nil {
			return nil, fmt.Errorf("decoding sources for message %s: %w", m.ID, err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var sess Session
	var isEmpty int
	err := row.Scan(&sess.ID, &sess.UserID, &sess.Course, &sess.Name, &isEmpty, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	sess.IsEmpty = isEmpty != 0
	return &sess, nil
}

// laterCalendarDay reports whether b falls on a later UTC calendar day
// than a.
func laterCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	if by != ay {
		return by > ay
	}
	if bm != am {
		return bm > am
	}
	return bd > ad
}
