package services

import (
	"testing"
	"time"

	"github.com/lockedin-labs/lockin_api/model"
)

func participant(id string, total int64, joinedAt time.Time) model.Participant {
	return model.Participant{
		ID:                id,
		UserID:            "user_" + id,
		ChallengeID:       "chal_1",
		TotalFocusSeconds: total,
		JoinedAt:          joinedAt,
	}
}

func TestRankParticipantsOrdersByTotalDescending(t *testing.T) {
	joined := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	entries := RankParticipants([]model.Participant{
		participant("a", 100, joined),
		participant("b", 300, joined.Add(time.Minute)),
		participant("c", 200, joined.Add(2*time.Minute)),
	})

	want := []string{"b", "c", "a"}
	for i, id := range want {
		if entries[i].ParticipantID != id {
			t.Errorf("position %d: expected %s, got %s", i+1, id, entries[i].ParticipantID)
		}
		if entries[i].Position != i+1 {
			t.Errorf("expected 1-based position %d, got %d", i+1, entries[i].Position)
		}
	}
}

func TestRankParticipantsTieBreaksOnEarlierJoin(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	// Both at 300 seconds; B joined before A, so B ranks higher.
	entries := RankParticipants([]model.Participant{
		participant("a", 300, t1),
		participant("b", 300, t0),
	})

	if entries[0].ParticipantID != "b" || entries[0].Position != 1 {
		t.Errorf("expected b at position 1, got %s at %d", entries[0].ParticipantID, entries[0].Position)
	}
	if entries[1].ParticipantID != "a" || entries[1].Position != 2 {
		t.Errorf("expected a at position 2, got %s at %d", entries[1].ParticipantID, entries[1].Position)
	}
}

func TestRankParticipantsIsDeterministic(t *testing.T) {
	joined := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	// Identical totals and join times: participant id decides, so repeated
	// calls over permuted input give identical snapshots.
	first := RankParticipants([]model.Participant{
		participant("x", 500, joined),
		participant("y", 500, joined),
		participant("z", 500, joined),
	})
	second := RankParticipants([]model.Participant{
		participant("z", 500, joined),
		participant("x", 500, joined),
		participant("y", 500, joined),
	})

	for i := range first {
		if first[i].ParticipantID != second[i].ParticipantID {
			t.Errorf("position %d: %s != %s", i+1, first[i].ParticipantID, second[i].ParticipantID)
		}
	}
}

func TestRankParticipantsDoesNotMutateInput(t *testing.T) {
	joined := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	input := []model.Participant{
		participant("a", 100, joined),
		participant("b", 300, joined),
	}

	RankParticipants(input)

	if input[0].ID != "a" || input[1].ID != "b" {
		t.Error("input slice was reordered")
	}
}

func TestRankParticipantsEmpty(t *testing.T) {
	entries := RankParticipants(nil)
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func newLeaderboardTestService(t *testing.T, focusSvc *FocusService) *LeaderboardService {
	t.Helper()
	return &LeaderboardService{
		pgSvc:        focusSvc.pgSvc,
		participants: focusSvc.participants,
		challenges:   focusSvc.challenges,
		sessions:     focusSvc.sessions,
	}
}

func TestBuildLeaderboardRanksPersistedTotals(t *testing.T) {
	focusSvc, db := newFocusTestService(t)
	svc := newLeaderboardTestService(t, focusSvc)

	db.Model(&model.Participant{}).Where("id = ?", "part_test").
		Update("total_focus_seconds", 600)
	db.Model(&model.Participant{}).Where("id = ?", "part_other").
		Update("total_focus_seconds", 900)

	resp, err := svc.buildLeaderboard(testChallengeID, false, time.Now())
	if err != nil {
		t.Fatalf("buildLeaderboard failed: %v", err)
	}

	if len(resp.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp.Entries))
	}
	if resp.Entries[0].ParticipantID != "part_other" || resp.Entries[0].Position != 1 {
		t.Errorf("expected part_other first, got %+v", resp.Entries[0])
	}
	if resp.Entries[0].Username != "other" {
		t.Errorf("expected username resolved, got %q", resp.Entries[0].Username)
	}
}

func TestBuildLeaderboardLiveAddsOpenSession(t *testing.T) {
	focusSvc, db := newFocusTestService(t)
	svc := newLeaderboardTestService(t, focusSvc)

	db.Model(&model.Participant{}).Where("id = ?", "part_test").
		Update("total_focus_seconds", 100)
	db.Model(&model.Participant{}).Where("id = ?", "part_other").
		Update("total_focus_seconds", 500)

	// part_test is 400s behind but has been focused for 10 minutes.
	now := time.Now()
	if _, err := focusSvc.sessions.InsertOpenSession("part_test", testChallengeID, now.Add(-10*time.Minute)); err != nil {
		t.Fatalf("failed to insert open session: %v", err)
	}

	resp, err := svc.buildLeaderboard(testChallengeID, true, now)
	if err != nil {
		t.Fatalf("buildLeaderboard failed: %v", err)
	}

	if resp.Entries[0].ParticipantID != "part_test" {
		t.Errorf("expected live total to promote part_test, got %+v", resp.Entries[0])
	}
	if got := resp.Entries[0].TotalFocusSeconds; got < 699 || got > 701 {
		t.Errorf("expected ~700 live seconds, got %d", got)
	}

	// The transient addition must not be written back.
	var persisted model.Participant
	db.Where("id = ?", "part_test").First(&persisted)
	if persisted.TotalFocusSeconds != 100 {
		t.Errorf("live view leaked into the store: %d", persisted.TotalFocusSeconds)
	}
}
