package shared

const (
	UserID = "user_id"

	ChallengeStatusPending   = "pending"
	ChallengeStatusActive    = "active"
	ChallengeStatusCompleted = "completed"

	StakeStatusPending  = "pending"
	StakeStatusStaked   = "staked"
	StakeStatusReturned = "returned"
	StakeStatusForfeit  = "forfeit"
)
