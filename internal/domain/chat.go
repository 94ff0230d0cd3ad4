package domain

// ChatUsage is how many assistant prompts a user has sent on Date.
type ChatUsage struct {
	Date  Date `json:"date"`
	Used  int  `json:"promptsUsed"`
	Limit int  `json:"dailyLimit"`
}

// Remaining never goes below zero.
func (u ChatUsage) Remaining() int {
	if u.Used >= u.Limit {
		return 0
	}
	return u.Limit - u.Used
}

func (u ChatUsage) CanSend() bool {
	return u.Used < u.Limit
}
