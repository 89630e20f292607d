package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"connectrpc.com/connect"

	"github.com/mmynk/warikan/internal/api"
	"github.com/mmynk/warikan/internal/auth"
	"github.com/mmynk/warikan/internal/calculator"
	"github.com/mmynk/warikan/internal/middleware"
	"github.com/mmynk/warikan/internal/models"
	"github.com/mmynk/warikan/internal/session"
	"github.com/mmynk/warikan/internal/storage"
)

// SessionService implements api.SessionServiceHandler on top of a storage.Store.
type SessionService struct {
	store  storage.Store
	tokens *auth.TokenManager
	opts   Options
	rng    *lockedRand

	// mu serializes load-modify-save cycles.
	mu sync.Mutex
}

var _ api.SessionServiceHandler = (*SessionService)(nil)

// NewSessionService creates a new SessionService with the given storage backend.
func NewSessionService(store storage.Store, tokens *auth.TokenManager, opts Options) *SessionService {
	return &SessionService{
		store:  store,
		tokens: tokens,
		opts:   opts,
		rng:    newLockedRand(opts.Seed),
	}
}

// CreateSession starts a new session and returns it with its access token.
// An empty mode selects the equal split.
func (s *SessionService) CreateSession(ctx context.Context, req *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error) {
	mode := calculator.ModeEqual
	if req.Msg.Mode != "" {
		m, err := calculator.ParseMode(req.Msg.Mode)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		mode = m
	}

	sess := session.New(mode)
	if err := s.store.CreateSession(ctx, sess); err != nil {
		slog.Error("CreateSession failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.tokens.Generate(sess.ID)
	if err != nil {
		slog.Error("CreateSession: failed to issue token", "session_id", sess.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Session created", "session_id", sess.ID, "mode", sess.Mode)

	return connect.NewResponse(&api.CreateSessionResponse{
		Session: sessionToAPI(sess, s.opts.CurrencyUnit),
		Token:   token,
	}), nil
}

// GetSession retrieves a session by ID.
func (s *SessionService) GetSession(ctx context.Context, req *connect.Request[api.GetSessionRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := authorize(ctx, req.Msg.SessionID); err != nil {
		return nil, err
	}

	sess, err := s.store.GetSession(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, storeError("GetSession", req.Msg.SessionID, err)
	}

	return s.sessionResponse(sess), nil
}

// SelectMode switches the session's split mode, clearing all entered data.
func (s *SessionService) SelectMode(ctx context.Context, req *connect.Request[api.SelectModeRequest]) (*connect.Response[api.SessionResponse], error) {
	mode, err := calculator.ParseMode(req.Msg.Mode)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	sess, err := s.mutate(ctx, "SelectMode", req.Msg.SessionID, func(sess *models.Session) error {
		session.SelectMode(sess, mode)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.sessionResponse(sess), nil
}

// SetFields updates the raw total amount and people count fields.
func (s *SessionService) SetFields(ctx context.Context, req *connect.Request[api.SetFieldsRequest]) (*connect.Response[api.SessionResponse], error) {
	sess, err := s.mutate(ctx, "SetFields", req.Msg.SessionID, func(sess *models.Session) error {
		if req.Msg.TotalAmount != nil {
			session.SetTotalAmount(sess, *req.Msg.TotalAmount)
		}
		if req.Msg.PeopleCount != nil {
			session.SetPeopleCount(sess, *req.Msg.PeopleCount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.sessionResponse(sess), nil
}

// AddPerson registers a person in the session.
func (s *SessionService) AddPerson(ctx context.Context, req *connect.Request[api.AddPersonRequest]) (*connect.Response[api.AddPersonResponse], error) {
	var personID string
	sess, err := s.mutate(ctx, "AddPerson", req.Msg.SessionID, func(sess *models.Session) error {
		id, err := session.AddPerson(sess, req.Msg.Name)
		personID = id
		return err
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.AddPersonResponse{
		PersonID: personID,
		Session:  sessionToAPI(sess, s.opts.CurrencyUnit),
	}), nil
}

// RenamePerson changes a person's display name.
func (s *SessionService) RenamePerson(ctx context.Context, req *connect.Request[api.RenamePersonRequest]) (*connect.Response[api.SessionResponse], error) {
	sess, err := s.mutate(ctx, "RenamePerson", req.Msg.SessionID, func(sess *models.Session) error {
		return session.RenamePerson(sess, req.Msg.PersonID, req.Msg.Name)
	})
	if err != nil {
		return nil, err
	}
	return s.sessionResponse(sess), nil
}

// RemovePerson deletes a person and their items.
func (s *SessionService) RemovePerson(ctx context.Context, req *connect.Request[api.RemovePersonRequest]) (*connect.Response[api.SessionResponse], error) {
	sess, err := s.mutate(ctx, "RemovePerson", req.Msg.SessionID, func(sess *models.Session) error {
		return session.RemovePerson(sess, req.Msg.PersonID)
	})
	if err != nil {
		return nil, err
	}
	return s.sessionResponse(sess), nil
}

// AddItem attributes a charge to a person.
func (s *SessionService) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error) {
	var itemID string
	sess, err := s.mutate(ctx, "AddItem", req.Msg.SessionID, func(sess *models.Session) error {
		id, err := session.AddItem(sess, req.Msg.PersonID, req.Msg.Name, req.Msg.Amount)
		itemID = id
		return err
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.AddItemResponse{
		ItemID:  itemID,
		Session: sessionToAPI(sess, s.opts.CurrencyUnit),
	}), nil
}

// UpdateItem edits an existing item.
func (s *SessionService) UpdateItem(ctx context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.SessionResponse], error) {
	sess, err := s.mutate(ctx, "UpdateItem", req.Msg.SessionID, func(sess *models.Session) error {
		return session.UpdateItem(sess, req.Msg.PersonID, req.Msg.ItemID, req.Msg.Name, req.Msg.Amount)
	})
	if err != nil {
		return nil, err
	}
	return s.sessionResponse(sess), nil
}

// RemoveItem deletes an item.
func (s *SessionService) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.SessionResponse], error) {
	sess, err := s.mutate(ctx, "RemoveItem", req.Msg.SessionID, func(sess *models.Session) error {
		return session.RemoveItem(sess, req.Msg.PersonID, req.Msg.ItemID)
	})
	if err != nil {
		return nil, err
	}
	return s.sessionResponse(sess), nil
}

// Calculate runs the split for the session's mode. Invalid input is reported
// in the response with Computed set to false; the cleared result is saved.
func (s *SessionService) Calculate(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	var calcErr error
	sess, err := s.mutate(ctx, "Calculate", req.Msg.SessionID, func(sess *models.Session) error {
		s.rng.with(func(rng *rand.Rand) {
			_, calcErr = session.Calculate(sess, rng)
		})
		if calcErr != nil && !errors.Is(calcErr, calculator.ErrInvalidInput) {
			return calcErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	split := &api.SplitResponse{Computed: calcErr == nil}
	if calcErr != nil {
		split.Reason = calcErr.Error()
		slog.Debug("No split computed", "session_id", sess.ID, "mode", sess.Mode, "reason", calcErr)
	} else {
		split.Result = storedResultToAPI(sess.Result, s.opts.CurrencyUnit)
		slog.Debug("Session split",
			"session_id", sess.ID,
			"mode", sess.Mode,
			"total", sess.Result.Total,
			"shares", len(sess.Result.Shares),
		)
	}
	s.opts.observe(sess.Mode, split.Computed)

	return connect.NewResponse(&api.CalculateResponse{
		Split:   split,
		Session: sessionToAPI(sess, s.opts.CurrencyUnit),
	}), nil
}

// ResetSession clears all entered data but keeps the mode.
func (s *SessionService) ResetSession(ctx context.Context, req *connect.Request[api.ResetSessionRequest]) (*connect.Response[api.SessionResponse], error) {
	sess, err := s.mutate(ctx, "ResetSession", req.Msg.SessionID, func(sess *models.Session) error {
		session.Reset(sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.sessionResponse(sess), nil
}

// DeleteSession discards a session.
func (s *SessionService) DeleteSession(ctx context.Context, req *connect.Request[api.DeleteSessionRequest]) (*connect.Response[api.DeleteSessionResponse], error) {
	if err := authorize(ctx, req.Msg.SessionID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteSession(ctx, req.Msg.SessionID); err != nil {
		return nil, storeError("DeleteSession", req.Msg.SessionID, err)
	}

	slog.Info("Session deleted", "session_id", req.Msg.SessionID)
	return connect.NewResponse(&api.DeleteSessionResponse{}), nil
}

// mutate loads a session, applies fn and saves the result. Nothing is saved
// if fn fails.
func (s *SessionService) mutate(ctx context.Context, op, sessionID string, fn func(*models.Session) error) (*models.Session, error) {
	if err := authorize(ctx, sessionID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, storeError(op, sessionID, err)
	}

	if err := fn(sess); err != nil {
		return nil, sessionError(op, sessionID, err)
	}

	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return nil, storeError(op, sessionID, err)
	}
	return sess, nil
}

func (s *SessionService) sessionResponse(sess *models.Session) *connect.Response[api.SessionResponse] {
	return connect.NewResponse(&api.SessionResponse{Session: sessionToAPI(sess, s.opts.CurrencyUnit)})
}

// authorize checks that the request's session token grants access to sessionID.
func authorize(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("session_id required"))
	}
	granted := middleware.GetSessionID(ctx)
	if granted == "" {
		return connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	if granted != sessionID {
		return connect.NewError(connect.CodePermissionDenied, fmt.Errorf("token does not grant access to session %s", sessionID))
	}
	return nil
}

func storeError(op, sessionID string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	slog.Error(op+" failed", "session_id", sessionID, "error", err)
	return connect.NewError(connect.CodeInternal, err)
}

func sessionError(op, sessionID string, err error) error {
	switch {
	case errors.Is(err, session.ErrPersonNotFound), errors.Is(err, session.ErrItemNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, session.ErrEmptyName), errors.Is(err, session.ErrWrongMode),
		errors.Is(err, calculator.ErrInvalidInput):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		slog.Error(op+" failed", "session_id", sessionID, "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
}
