package services

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lockedin-labs/lockin_api/model"
	"github.com/lockedin-labs/lockin_api/services/repositories"
	"github.com/lockedin-labs/lockin_api/shared"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testUserID      = "user_test"
	testOtherUserID = "user_other"
	testChallengeID = "chal_test"
)

func newFocusTestService(t *testing.T) (*FocusService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Challenge{},
		&model.Participant{},
		&model.FocusSession{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	now := time.Now()
	fixtures := []interface{}{
		&model.User{ID: testUserID, Username: "tester", CreatedAt: now, UpdatedAt: now},
		&model.User{ID: testOtherUserID, Username: "other", CreatedAt: now, UpdatedAt: now},
		&model.Challenge{
			ID: testChallengeID, CreatorID: testUserID, Title: "Test Challenge",
			Status: shared.ChallengeStatusActive, StartDate: now.AddDate(0, 0, -1),
			EndDate: now.AddDate(0, 0, 6), DurationDays: 7, StakeAmount: 1,
			InviteCode: "invite_test", CreatedAt: now, UpdatedAt: now,
		},
		&model.Participant{
			ID: "part_test", UserID: testUserID, ChallengeID: testChallengeID,
			JoinedAt: now.AddDate(0, 0, -1), StakeStatus: shared.StakeStatusStaked,
			CreatedAt: now, UpdatedAt: now,
		},
		&model.Participant{
			ID: "part_other", UserID: testOtherUserID, ChallengeID: testChallengeID,
			JoinedAt: now.AddDate(0, 0, -1), StakeStatus: shared.StakeStatusStaked,
			CreatedAt: now, UpdatedAt: now,
		},
	}
	for _, fixture := range fixtures {
		if err := db.Create(fixture).Error; err != nil {
			t.Fatalf("failed to create fixture: %v", err)
		}
	}

	svc := &FocusService{
		pgSvc:        &PostgresService{db: db},
		sessions:     repositories.NewSessionRepository(db),
		participants: repositories.NewParticipantRepository(db),
		challenges:   repositories.NewChallengeRepository(db),
	}
	return svc, db
}

func participantTotal(t *testing.T, db *gorm.DB, participantID string) int64 {
	t.Helper()
	var participant model.Participant
	if err := db.Where("id = ?", participantID).First(&participant).Error; err != nil {
		t.Fatalf("failed to load participant: %v", err)
	}
	return participant.TotalFocusSeconds
}

func TestStartSessionOpensExactlyOne(t *testing.T) {
	svc, db := newFocusTestService(t)

	resp, err := svc.StartSession(testUserID, testChallengeID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !resp.IsActive || resp.SessionID == "" {
		t.Errorf("expected active session with id, got %+v", resp)
	}

	var count int64
	db.Model(&model.FocusSession{}).Where("end_time IS NULL").Count(&count)
	if count != 1 {
		t.Errorf("expected 1 open session, got %d", count)
	}
}

func TestStartSessionWhileRunningConflicts(t *testing.T) {
	svc, db := newFocusTestService(t)

	if _, err := svc.StartSession(testUserID, testChallengeID); err != nil {
		t.Fatalf("first start failed: %v", err)
	}

	// The client may believe it is idle after a crash; the store decides.
	_, err := svc.StartSession(testUserID, testChallengeID)
	if err == nil {
		t.Fatal("expected second start to fail")
	}
	if !errors.Is(err, shared.ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 conflict, got %v", err)
	}

	var count int64
	db.Model(&model.FocusSession{}).Where("end_time IS NULL").Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 open session after conflicting start, got %d", count)
	}
}

func TestStartSessionNotParticipant(t *testing.T) {
	svc, _ := newFocusTestService(t)

	_, err := svc.StartSession("user_stranger", testChallengeID)
	if err == nil {
		t.Fatal("expected start to fail for non-participant")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestStopSessionRecordsDuration(t *testing.T) {
	svc, db := newFocusTestService(t)

	start := time.Now().Add(-30 * time.Minute)
	session, err := svc.sessions.InsertOpenSession("part_test", testChallengeID, start)
	if err != nil {
		t.Fatalf("failed to insert open session: %v", err)
	}

	resp, err := svc.StopSession(testUserID, session.ID, nil)
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if resp.DurationSeconds < 1799 || resp.DurationSeconds > 1801 {
		t.Errorf("expected ~1800 seconds, got %d", resp.DurationSeconds)
	}

	if total := participantTotal(t, db, "part_test"); total != resp.DurationSeconds {
		t.Errorf("expected participant total %d, got %d", resp.DurationSeconds, total)
	}
}

func TestStopSessionTwiceCountsOnce(t *testing.T) {
	svc, db := newFocusTestService(t)

	start := time.Now().Add(-10 * time.Minute)
	session, err := svc.sessions.InsertOpenSession("part_test", testChallengeID, start)
	if err != nil {
		t.Fatalf("failed to insert open session: %v", err)
	}

	first, err := svc.StopSession(testUserID, session.ID, nil)
	if err != nil {
		t.Fatalf("first stop failed: %v", err)
	}

	_, err = svc.StopSession(testUserID, session.ID, nil)
	if err == nil {
		t.Fatal("expected second stop to fail")
	}
	if !errors.Is(err, shared.ErrNotRunning) {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 conflict, got %v", err)
	}

	if total := participantTotal(t, db, "part_test"); total != first.DurationSeconds {
		t.Errorf("duration counted more than once: expected %d, got %d", first.DurationSeconds, total)
	}
}

func TestStopSessionOverrideWins(t *testing.T) {
	svc, db := newFocusTestService(t)

	start := time.Now().Add(-30 * time.Minute)
	session, err := svc.sessions.InsertOpenSession("part_test", testChallengeID, start)
	if err != nil {
		t.Fatalf("failed to insert open session: %v", err)
	}

	override := int64(1234)
	resp, err := svc.StopSession(testUserID, session.ID, &override)
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if resp.DurationSeconds != 1234 {
		t.Errorf("expected override duration 1234, got %d", resp.DurationSeconds)
	}
	if total := participantTotal(t, db, "part_test"); total != 1234 {
		t.Errorf("expected participant total 1234, got %d", total)
	}
}

func TestStopSessionNegativeOverrideClampsToZero(t *testing.T) {
	svc, db := newFocusTestService(t)

	session, err := svc.sessions.InsertOpenSession("part_test", testChallengeID, time.Now())
	if err != nil {
		t.Fatalf("failed to insert open session: %v", err)
	}

	override := int64(-50)
	resp, err := svc.StopSession(testUserID, session.ID, &override)
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if resp.DurationSeconds != 0 {
		t.Errorf("expected clamped duration 0, got %d", resp.DurationSeconds)
	}
	if total := participantTotal(t, db, "part_test"); total != 0 {
		t.Errorf("expected participant total 0, got %d", total)
	}
}

func TestStopSessionOwnedByAnotherUser(t *testing.T) {
	svc, _ := newFocusTestService(t)

	session, err := svc.sessions.InsertOpenSession("part_test", testChallengeID, time.Now())
	if err != nil {
		t.Fatalf("failed to insert open session: %v", err)
	}

	_, err = svc.StopSession(testOtherUserID, session.ID, nil)
	if err == nil {
		t.Fatal("expected stop by another user to fail")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestResetSessionRecordsPriorDuration(t *testing.T) {
	svc, db := newFocusTestService(t)

	start := time.Now().Add(-30 * time.Minute)
	open, err := svc.sessions.InsertOpenSession("part_test", testChallengeID, start)
	if err != nil {
		t.Fatalf("failed to insert open session: %v", err)
	}

	resp, err := svc.ResetSession(testUserID, testChallengeID, nil)
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if resp.ClosedDurationSeconds < 1799 || resp.ClosedDurationSeconds > 1801 {
		t.Errorf("expected ~1800 closed seconds, got %d", resp.ClosedDurationSeconds)
	}
	if resp.Session.SessionID == open.ID {
		t.Error("expected a fresh session after reset")
	}
	if total := participantTotal(t, db, "part_test"); total != resp.ClosedDurationSeconds {
		t.Errorf("prior duration not committed: expected %d, got %d", resp.ClosedDurationSeconds, total)
	}

	var count int64
	db.Model(&model.FocusSession{}).Where("end_time IS NULL").Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 open session after reset, got %d", count)
	}
}

func TestResetSessionFromIdle(t *testing.T) {
	svc, _ := newFocusTestService(t)

	resp, err := svc.ResetSession(testUserID, testChallengeID, nil)
	if err != nil {
		t.Fatalf("reset from idle failed: %v", err)
	}
	if resp.ClosedDurationSeconds != 0 {
		t.Errorf("expected 0 closed seconds from idle, got %d", resp.ClosedDurationSeconds)
	}
	if resp.Session.SessionID == "" {
		t.Error("expected a running session after reset from idle")
	}
}

func TestFocusedTodayClosedSession(t *testing.T) {
	svc, db := newFocusTestService(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	db.Create(&model.FocusSession{
		ID: "sess_closed", ParticipantID: "part_test", ChallengeID: testChallengeID,
		StartTime: start, EndTime: &end, DurationSeconds: 1800,
		CreatedAt: start, UpdatedAt: end,
	})

	resp, err := svc.FocusedToday(testUserID, testChallengeID, now, time.UTC)
	if err != nil {
		t.Fatalf("focusedToday failed: %v", err)
	}
	if resp.FocusedSeconds != 1800 {
		t.Errorf("expected 1800 focused seconds, got %d", resp.FocusedSeconds)
	}
}

func TestFocusedTodayOpenSessionCountsToNow(t *testing.T) {
	svc, _ := newFocusTestService(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-20 * time.Minute)
	if _, err := svc.sessions.InsertOpenSession("part_test", testChallengeID, start); err != nil {
		t.Fatalf("failed to insert open session: %v", err)
	}

	resp, err := svc.FocusedToday(testUserID, testChallengeID, now, time.UTC)
	if err != nil {
		t.Fatalf("focusedToday failed: %v", err)
	}
	if resp.FocusedSeconds != 1200 {
		t.Errorf("expected 1200 focused seconds, got %d", resp.FocusedSeconds)
	}
}

func TestFocusedTodaySpanningMidnight(t *testing.T) {
	svc, _ := newFocusTestService(t)

	// Session opened at 23:50, queried at 00:10: only the 10 post-midnight
	// minutes belong to today.
	now := time.Date(2025, 6, 2, 0, 10, 0, 0, time.UTC)
	start := time.Date(2025, 6, 1, 23, 50, 0, 0, time.UTC)
	if _, err := svc.sessions.InsertOpenSession("part_test", testChallengeID, start); err != nil {
		t.Fatalf("failed to insert open session: %v", err)
	}

	resp, err := svc.FocusedToday(testUserID, testChallengeID, now, time.UTC)
	if err != nil {
		t.Fatalf("focusedToday failed: %v", err)
	}
	if resp.FocusedSeconds != 600 {
		t.Errorf("expected 600 focused seconds, got %d", resp.FocusedSeconds)
	}
}

func TestFocusedTodayIgnoresYesterday(t *testing.T) {
	svc, db := newFocusTestService(t)

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	db.Create(&model.FocusSession{
		ID: "sess_yesterday", ParticipantID: "part_test", ChallengeID: testChallengeID,
		StartTime: start, EndTime: &end, DurationSeconds: 3600,
		CreatedAt: start, UpdatedAt: end,
	})

	resp, err := svc.FocusedToday(testUserID, testChallengeID, now, time.UTC)
	if err != nil {
		t.Fatalf("focusedToday failed: %v", err)
	}
	if resp.FocusedSeconds != 0 {
		t.Errorf("expected 0 focused seconds, got %d", resp.FocusedSeconds)
	}
}

func TestFocusedTodaySkipsCorruptSession(t *testing.T) {
	svc, db := newFocusTestService(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Corrupt row: end before start. It must be skipped, not fail the call.
	badStart := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	badEnd := badStart.Add(-time.Hour)
	db.Create(&model.FocusSession{
		ID: "sess_corrupt", ParticipantID: "part_test", ChallengeID: testChallengeID,
		StartTime: badStart, EndTime: &badEnd, DurationSeconds: 0,
		CreatedAt: badStart, UpdatedAt: badStart,
	})

	goodStart := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	goodEnd := goodStart.Add(15 * time.Minute)
	db.Create(&model.FocusSession{
		ID: "sess_good", ParticipantID: "part_test", ChallengeID: testChallengeID,
		StartTime: goodStart, EndTime: &goodEnd, DurationSeconds: 900,
		CreatedAt: goodStart, UpdatedAt: goodEnd,
	})

	resp, err := svc.FocusedToday(testUserID, testChallengeID, now, time.UTC)
	if err != nil {
		t.Fatalf("focusedToday failed: %v", err)
	}
	if resp.FocusedSeconds != 900 {
		t.Errorf("expected 900 focused seconds from the valid session, got %d", resp.FocusedSeconds)
	}
}
