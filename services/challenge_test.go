package services

import (
	"testing"
	"time"

	"github.com/lockedin-labs/lockin_api/dto"
	"github.com/lockedin-labs/lockin_api/model"
	"github.com/lockedin-labs/lockin_api/shared"

	"gorm.io/gorm"
)

func newChallengeTestService(t *testing.T) (*ChallengeService, *gorm.DB) {
	t.Helper()

	focusSvc, db := newFocusTestService(t)

	leaderboardSvc := newLeaderboardTestService(t, focusSvc)
	leaderboardSvc.redisSvc = &RedisService{}

	svc := &ChallengeService{
		pgSvc:          focusSvc.pgSvc,
		leaderboardSvc: leaderboardSvc,
		archiveSvc:     &ArchiveService{},
		challenges:     focusSvc.challenges,
		participants:   focusSvc.participants,
		sessions:       focusSvc.sessions,
	}
	return svc, db
}

func TestCreateChallengeActivatesImmediately(t *testing.T) {
	svc, db := newChallengeTestService(t)

	resp, err := svc.CreateChallenge(testUserID, dto.CreateChallengeRequest{
		Title:        "Weekend Lock-In",
		StakeAmount:  0.5,
		DurationDays: 2,
		StartDate:    time.Now().Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if resp.Status != shared.ChallengeStatusActive {
		t.Errorf("expected active status for past start date, got %s", resp.Status)
	}
	if resp.InviteCode == "" {
		t.Error("expected an invite code to be generated")
	}
	if !resp.EndDate.Equal(resp.StartDate.AddDate(0, 0, 2)) {
		t.Errorf("expected end date 2 days after start, got %v", resp.EndDate)
	}

	// The creator is enrolled automatically.
	var participant model.Participant
	err = db.Where("user_id = ? AND challenge_id = ?", testUserID, resp.ID).First(&participant).Error
	if err != nil {
		t.Errorf("expected creator to be a participant: %v", err)
	}
}

func TestCreateChallengeFutureStartIsPending(t *testing.T) {
	svc, _ := newChallengeTestService(t)

	resp, err := svc.CreateChallenge(testUserID, dto.CreateChallengeRequest{
		Title:        "Next Week",
		StakeAmount:  1,
		DurationDays: 7,
		StartDate:    time.Now().AddDate(0, 0, 3),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if resp.Status != shared.ChallengeStatusPending {
		t.Errorf("expected pending status for future start date, got %s", resp.Status)
	}
}

func TestJoinByInviteIsIdempotent(t *testing.T) {
	svc, _ := newChallengeTestService(t)

	first, err := svc.JoinByInvite("user_newcomer", "invite_test")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}

	second, err := svc.JoinByInvite("user_newcomer", "invite_test")
	if err != nil {
		t.Fatalf("second join failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same participation, got %s and %s", first.ID, second.ID)
	}
}

func TestJoinByInviteUnknownCode(t *testing.T) {
	svc, _ := newChallengeTestService(t)

	_, err := svc.JoinByInvite(testUserID, "no_such_code")
	if err == nil {
		t.Fatal("expected join with unknown code to fail")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestLifecycleActivatesDueChallenges(t *testing.T) {
	svc, db := newChallengeTestService(t)

	now := time.Now()
	db.Create(&model.Challenge{
		ID: "chal_due", CreatorID: testUserID, Title: "Due",
		Status: shared.ChallengeStatusPending, StartDate: now.Add(-time.Minute),
		EndDate: now.AddDate(0, 0, 7), DurationDays: 7, StakeAmount: 1,
		InviteCode: "invite_due", CreatedAt: now, UpdatedAt: now,
	})

	if err := svc.runLifecycleChecks(now); err != nil {
		t.Fatalf("lifecycle check failed: %v", err)
	}

	var challenge model.Challenge
	db.Where("id = ?", "chal_due").First(&challenge)
	if challenge.Status != shared.ChallengeStatusActive {
		t.Errorf("expected challenge activated, got %s", challenge.Status)
	}
}

func TestLifecycleCompletesAndPersistsRanks(t *testing.T) {
	svc, db := newChallengeTestService(t)

	now := time.Now()
	endDate := now.Add(-time.Minute)
	db.Model(&model.Challenge{}).Where("id = ?", testChallengeID).
		Updates(map[string]interface{}{"end_date": endDate, "start_date": endDate.AddDate(0, 0, -7)})

	db.Model(&model.Participant{}).Where("id = ?", "part_test").
		Update("total_focus_seconds", 3600)
	db.Model(&model.Participant{}).Where("id = ?", "part_other").
		Update("total_focus_seconds", 1200)

	// An abandoned open session: credited only up to the end date.
	sessionStart := endDate.Add(-10 * time.Minute)
	if _, err := svc.sessions.InsertOpenSession("part_other", testChallengeID, sessionStart); err != nil {
		t.Fatalf("failed to insert open session: %v", err)
	}

	if err := svc.runLifecycleChecks(now); err != nil {
		t.Fatalf("lifecycle check failed: %v", err)
	}

	var challenge model.Challenge
	db.Where("id = ?", testChallengeID).First(&challenge)
	if challenge.Status != shared.ChallengeStatusCompleted {
		t.Fatalf("expected completed challenge, got %s", challenge.Status)
	}

	var winner, runnerUp model.Participant
	db.Where("id = ?", "part_test").First(&winner)
	db.Where("id = ?", "part_other").First(&runnerUp)

	if winner.Rank == nil || *winner.Rank != 1 || !winner.IsWinner {
		t.Errorf("expected part_test ranked 1 and flagged winner, got %+v", winner)
	}
	if runnerUp.Rank == nil || *runnerUp.Rank != 2 || runnerUp.IsWinner {
		t.Errorf("expected part_other ranked 2, got %+v", runnerUp)
	}

	// 1200 persisted + 600 from the abandoned session clamped at the end date.
	if runnerUp.TotalFocusSeconds != 1800 {
		t.Errorf("expected abandoned session credited to 1800, got %d", runnerUp.TotalFocusSeconds)
	}

	var openCount int64
	db.Model(&model.FocusSession{}).Where("end_time IS NULL").Count(&openCount)
	if openCount != 0 {
		t.Errorf("expected no open sessions after completion, got %d", openCount)
	}
}
