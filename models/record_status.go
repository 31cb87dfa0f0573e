package models

type RecordStatus string

const (
	StatusPending  RecordStatus = "pending"
	StatusApproved RecordStatus = "approved"
	StatusRejected RecordStatus = "rejected"
)

var statusHumanName = map[RecordStatus]string{
	StatusPending:  "Pending",
	StatusApproved: "Approved",
	StatusRejected: "Rejected",
}

func (s RecordStatus) ToHuman() string {
	if human, exist := statusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s RecordStatus) IsValid() bool {
	_, ok := statusHumanName[s]
	return ok
}

// IsDecided is true for the terminal states.
func (s RecordStatus) IsDecided() bool {
	return s == StatusApproved || s == StatusRejected
}

// StatusOrDefault maps a blank stored status to pending.
func StatusOrDefault(value string) RecordStatus {
	if value == "" {
		return StatusPending
	}
	return RecordStatus(value)
}

// SheGroup routes a submission to the SHE violation table.
const SheGroup = "SHE"

const RecordIDPrefix = "BBS_"

// TimestampLayout is the stored format of decision and update timestamps (UTC).
const TimestampLayout = "2006-01-02T15:04:05.000Z"
