package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/SwapHands/item_trading_app/internal/apperrors"
	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
	"github.com/SwapHands/item_trading_app/internal/middleware"
)

const defaultMaxMeetingEdits = 3

// meetingService negotiates meetings: counter-proposals with a per-user edit
// allowance, agreement, and attendance confirmation.
type meetingService struct {
	store portsrepo.Store

	mu       sync.RWMutex
	maxEdits int
}

// NewMeetingService creates the meeting service and subscribes it to the live
// policy settings for the edit allowance.
func NewMeetingService(store portsrepo.Store, cfg portssvc.ConfigSvc) portssvc.MeetingSvc {
	s := &meetingService{store: store, maxEdits: defaultMaxMeetingEdits}
	cfg.Subscribe(s.onConfigChanged)
	return s
}

var _ portssvc.MeetingSvc = (*meetingService)(nil)

func (s *meetingService) onConfigChanged(values map[string]string) {
	v, err := strconv.Atoi(values[ConfigMaxMeetingEdits])
	if err != nil || v < 0 {
		return
	}
	s.mu.Lock()
	s.maxEdits = v
	s.mu.Unlock()
}

func (s *meetingService) editAllowance() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxEdits
}

// isAttendee reports whether the user is one of the meeting's registered
// parties.
func isAttendee(m *domain.Meeting, userID int) bool {
	_, ok := m.ConfirmedBy[userID]
	return ok
}

func (s *meetingService) EditMeeting(ctx context.Context, meetingID, editorID int, t time.Time, location string) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	m, err := portsrepo.GetAs[*domain.Meeting](ctx, s.store, meetingID)
	if err != nil {
		return false, err
	}

	if !isAttendee(m, editorID) {
		return false, fmt.Errorf("%w: user %d is not part of meeting %d", apperrors.ErrValidation, editorID, meetingID)
	}
	if m.Agreed {
		return false, ErrEditAgreedMeeting
	}
	if m.EditCount(editorID) >= s.editAllowance() {
		logger.Warn("Meeting edit allowance used up", slog.Int("meeting_id", meetingID), slog.Int("user_id", editorID))
		return false, ErrTooManyEdits
	}

	// The return meeting's date is derived from the loan duration; only its
	// location can be renegotiated.
	if m.SecondMeeting {
		t = m.Time()
	}

	m.EditTime(t)
	m.EditLocation(location)
	m.SetLastEditor(editorID)

	if err := portsrepo.UpdateOne(ctx, s.store, m); err != nil {
		return false, err
	}
	logger.Info("Meeting edited", slog.Int("meeting_id", meetingID), slog.Int("editor_id", editorID))
	return !m.SecondMeeting, nil
}

func (s *meetingService) AgreeToMeeting(ctx context.Context, meetingID, userID int) error {
	m, err := portsrepo.GetAs[*domain.Meeting](ctx, s.store, meetingID)
	if err != nil {
		return err
	}

	if !isAttendee(m, userID) {
		return fmt.Errorf("%w: user %d is not part of meeting %d", apperrors.ErrValidation, userID, meetingID)
	}
	if m.Agreed {
		// Agreeing again changes nothing.
		return nil
	}
	if m.IsLastEditor(userID) {
		return fmt.Errorf("%w: cannot agree to own proposal", apperrors.ErrValidation)
	}

	m.MarkAgreed()
	if err := portsrepo.UpdateOne(ctx, s.store, m); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Meeting agreed", slog.Int("meeting_id", meetingID), slog.Int("user_id", userID))
	return nil
}

func (s *meetingService) MarkConducted(ctx context.Context, meetingID, userID int) error {
	m, err := portsrepo.GetAs[*domain.Meeting](ctx, s.store, meetingID)
	if err != nil {
		return err
	}

	if !isAttendee(m, userID) {
		return fmt.Errorf("%w: user %d is not part of meeting %d", apperrors.ErrValidation, userID, meetingID)
	}
	if !m.Agreed {
		return fmt.Errorf("%w: meeting %d has not been agreed to", apperrors.ErrValidation, meetingID)
	}
	if !m.HasPassed() {
		return fmt.Errorf("%w: meeting %d has not taken place yet", apperrors.ErrValidation, meetingID)
	}

	m.MarkConfirmed(userID)
	return portsrepo.UpdateOne(ctx, s.store, m)
}

func (s *meetingService) UsersEditTurn(ctx context.Context, userID int) ([]int, error) {
	meetings, err := portsrepo.AllAs[*domain.Meeting](ctx, s.store)
	if err != nil {
		return nil, err
	}

	var ids []int
	for _, m := range meetings {
		if isAttendee(m, userID) && !m.Agreed && !m.IsLastEditor(userID) {
			ids = append(ids, m.MeetingID)
		}
	}
	return ids, nil
}

func (s *meetingService) EditPermissions(ctx context.Context, meetingID, userID int) (bool, error) {
	m, err := portsrepo.GetAs[*domain.Meeting](ctx, s.store, meetingID)
	if err != nil {
		return false, err
	}
	return isAttendee(m, userID) &&
		!m.Agreed &&
		!m.IsLastEditor(userID) &&
		m.EditCount(userID) < s.editAllowance(), nil
}

func (s *meetingService) EditsExhausted(ctx context.Context, meetingID int) (bool, error) {
	m, err := portsrepo.GetAs[*domain.Meeting](ctx, s.store, meetingID)
	if err != nil {
		return false, err
	}
	for userID := range m.ConfirmedBy {
		if m.EditCount(userID) >= s.editAllowance() {
			return true, nil
		}
	}
	return false, nil
}

func (s *meetingService) ConfirmPermissions(ctx context.Context) (map[int][]int, error) {
	meetings, err := portsrepo.AllAs[*domain.Meeting](ctx, s.store)
	if err != nil {
		return nil, err
	}

	pending := make(map[int][]int)
	for _, m := range meetings {
		if !m.Agreed || !m.HasPassed() || m.IsComplete() {
			continue
		}
		for userID, confirmed := range m.ConfirmedBy {
			if !confirmed {
				pending[m.MeetingID] = append(pending[m.MeetingID], userID)
			}
		}
		sort.Ints(pending[m.MeetingID])
	}
	return pending, nil
}
